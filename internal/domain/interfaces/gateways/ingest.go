// Package gateways defines interfaces for external service adapters.
package gateways

import (
	"context"

	"github.com/ochairo/netport/internal/domain/entities"
)

// WorkArea is a per-request directory with guaranteed release
type WorkArea interface {
	Path() string
	// Release removes the area recursively. Failures are logged, never returned.
	Release()
}

// ArtifactIngestor validates uploads and materializes them into a working area
type ArtifactIngestor interface {
	// Validate checks the upload shape before any working area exists
	Validate(upload *entities.Upload) error

	// AcquireWorkArea creates a fresh, uniquely named working area
	AcquireWorkArea() (WorkArea, error)

	// Ingest materializes the upload into the area and resolves the manifest
	Ingest(ctx context.Context, upload *entities.Upload, area WorkArea) (*entities.ProjectArtifact, error)

	// ReleaseUploads removes the uploaded temporary files (best-effort)
	ReleaseUploads(upload *entities.Upload)
}
