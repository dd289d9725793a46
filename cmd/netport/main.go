package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ochairo/netport/internal/config"
	"github.com/ochairo/netport/internal/domain/interfaces"
	"github.com/ochairo/netport/internal/external-adapters/zaplog"
)

var (
	configFile string
	cfg        *config.Config
	logger     interfaces.Logger = &interfaces.NoOpLogger{}
)

var rootCmd = &cobra.Command{
	Use:   "netport",
	Short: "netport - .NET Framework to .NET Core 8 migration analyzer",
	Long: `netport - .NET Framework to .NET Core 8 migration analyzer.

Inspects a legacy C# project (one .csproj plus its sources), flags
deprecated namespaces and APIs, evaluates compatibility rules and asks a
text-generation service for refactoring suggestions.

Available commands:
  analyze - Analyze a local project and print the report
  scan    - Scan one project and print the scan document
  serve   - Start the HTTP analysis service
  rules   - Print the effective rule set

Examples:
  netport analyze ./LegacyApp                 # Analyze a project directory
  netport analyze --type archive app.zip      # Analyze an archive
  netport scan ./LegacyApp/LegacyApp.csproj   # Print the scan document
  netport serve                               # Listen on server.addr`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		loaded, err := config.Load(configFile)
		if err != nil {
			return err
		}
		cfg = loaded

		// The scan command's stderr is the diagnostic of a subprocess scan
		if cmd.Name() == "scan" {
			return nil
		}
		l, err := zaplog.Build(zaplog.Options{JSON: cfg.Log.JSON, Level: cfg.Log.Level})
		if err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if l, ok := logger.(*zaplog.Logger); ok {
			_ = l.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a YAML config file")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(rulesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hints := errors.GetAllHints(err); len(hints) > 0 {
			for _, hint := range hints {
				fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
			}
		}
		os.Exit(1)
	}
}
