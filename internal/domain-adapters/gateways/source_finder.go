package gateways

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// SourceFinder locates manifests and source files inside a working area
type SourceFinder struct {
	manifestExt string
	sourceExts  []string
}

// NewSourceFinder creates a finder for the given manifest and source extensions
func NewSourceFinder(manifestExt string, sourceExts []string) *SourceFinder {
	return &SourceFinder{manifestExt: manifestExt, sourceExts: sourceExts}
}

// ListFiles returns every regular file below root, in lexical walk order
func (f *SourceFinder) ListFiles(root string) ([]string, error) {
	files := make([]string, 0)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to walk %s", root)
	}
	return files, nil
}

// Manifests filters files down to manifests
func (f *SourceFinder) Manifests(files []string) []string {
	manifests := make([]string, 0, 1)
	for _, file := range files {
		if f.IsManifest(file) {
			manifests = append(manifests, file)
		}
	}
	return manifests
}

// SourcesUnder filters files down to sources located below dir
func (f *SourceFinder) SourcesUnder(dir string, files []string) []string {
	prefix := filepath.Clean(dir) + string(filepath.Separator)
	sources := make([]string, 0)
	for _, file := range files {
		if !strings.HasPrefix(file, prefix) {
			continue
		}
		if f.hasExt(file, f.sourceExts...) {
			sources = append(sources, file)
		}
	}
	return sources
}

// IsManifest reports whether name carries the manifest extension
func (f *SourceFinder) IsManifest(name string) bool {
	return f.hasExt(name, f.manifestExt)
}

func (f *SourceFinder) hasExt(name string, exts ...string) bool {
	ext := filepath.Ext(name)
	for _, want := range exts {
		if want != "" && strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}
