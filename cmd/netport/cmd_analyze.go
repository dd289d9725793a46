package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ochairo/netport/internal/domain/entities"
)

var analyzeType string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <path>...",
	Short: "Analyze a local project and print the report",
	Long: `Analyze a local project and print the migration report as JSON.

Paths are copied to temporary upload files first; the originals are never
modified. A single directory argument is expanded to the files it holds.

Examples:
  netport analyze ./LegacyApp
  netport analyze LegacyApp.csproj Program.cs Startup.cs
  netport analyze --type archive LegacyApp.zip`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		orchestrator, err := newOrchestrator(ctx)
		if err != nil {
			return err
		}

		upload, err := buildUpload(analyzeType, args, os.TempDir())
		if err != nil {
			return err
		}

		report, err := orchestrator.Analyze(ctx, upload)
		if err != nil {
			return err
		}
		return printReport(cmd.OutOrStdout(), report)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeType, "type", string(entities.UploadFileSet), "Upload type: archive or fileSet")
}

// buildUpload copies the given paths into spoolDir and describes them as an
// upload. A lone directory is expanded to the regular files below it.
func buildUpload(uploadType string, paths []string, spoolDir string) (*entities.Upload, error) {
	if len(paths) == 1 {
		info, err := os.Stat(paths[0])
		if err != nil {
			return nil, errors.Wrapf(err, "failed to stat %s", paths[0])
		}
		if info.IsDir() {
			expanded, err := regularFiles(paths[0])
			if err != nil {
				return nil, err
			}
			paths = expanded
		}
	}

	upload := &entities.Upload{Type: uploadType}
	for _, path := range paths {
		spooled, err := spoolFile(path, spoolDir)
		if err != nil {
			for _, f := range upload.Files {
				_ = os.Remove(f.Path)
			}
			return nil, err
		}
		upload.Files = append(upload.Files, entities.UploadFile{
			OriginalName: filepath.Base(path),
			Path:         spooled,
		})
	}
	return upload, nil
}

func regularFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to walk %s", dir)
	}
	return files, nil
}

func spoolFile(src, spoolDir string) (string, error) {
	//nolint:gosec // G304: Reading user-specified project files is intended
	in, err := os.Open(src)
	if err != nil {
		return "", errors.Wrapf(err, "failed to open %s", src)
	}
	defer func() { _ = in.Close() }()

	out, err := os.CreateTemp(spoolDir, "netport-upload-*")
	if err != nil {
		return "", errors.Wrap(err, "failed to create upload file")
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(out.Name())
		return "", errors.Wrapf(err, "failed to copy %s", src)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(out.Name())
		return "", errors.Wrap(err, "failed to close upload file")
	}
	return out.Name(), nil
}

func printReport(w io.Writer, report *entities.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode report")
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
