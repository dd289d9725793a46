package main

import (
	"fmt"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	adapters "github.com/ochairo/netport/internal/domain-adapters/gateways"
	"github.com/ochairo/netport/internal/external-adapters/treesitter"
)

var scanRulesFile string

var scanCmd = &cobra.Command{
	Use:   "scan <manifest>",
	Short: "Scan one project and print the scan document",
	Long: `Scan the sources below a .csproj and print the scan document as JSON:

  {"DeprecatedNamespaces": [...], "DeprecatedApis": [...], "FileCount": N}

This is the command run by scan.mode=subprocess. On failure the diagnostic
goes to stderr and the exit status is non-zero.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		manifest := args[0]

		if scanRulesFile != "" {
			cfg.RulesFile = scanRulesFile
		}
		rules, err := loadRules(ctx)
		if err != nil {
			return err
		}

		finder := adapters.NewSourceFinder(rules.Manifest.Extension, rules.Manifest.SourceExtensions)
		if !finder.IsManifest(manifest) {
			return errors.Newf("%s is not a %s file", manifest, rules.Manifest.Extension)
		}

		dir := filepath.Dir(manifest)
		files, err := finder.ListFiles(dir)
		if err != nil {
			return err
		}

		scanner := adapters.NewStaticScanner(treesitter.NewCSharpParser(), rules, cfg.Scan.Workers, nil)
		result, err := scanner.ScanFiles(ctx, finder.SourcesUnder(dir, files))
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), result.Raw)
		return err
	},
}

func init() {
	scanCmd.Flags().StringVar(&scanRulesFile, "rules", "", "Rule set file (overrides rules_file)")
}
