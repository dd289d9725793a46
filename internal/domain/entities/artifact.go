// Package entities defines core domain models and data structures.
package entities

import "path/filepath"

// ProjectArtifact is a materialized project inside a working area
type ProjectArtifact struct {
	Root         string   // Working area directory
	ManifestPath string   // The single .csproj resolved from the working area
	Files        []string // Every file in the working area, walk order
	SourceFiles  []string // .cs files below the manifest directory, walk order
}

// ProjectDir returns the directory holding the manifest
func (a *ProjectArtifact) ProjectDir() string {
	return filepath.Dir(a.ManifestPath)
}
