// Package services defines interfaces for domain service contracts.
package services

import (
	"context"

	"github.com/ochairo/netport/internal/domain/entities"
)

// ManifestService extracts build metadata from a project manifest
type ManifestService interface {
	// Extract reads manifest text. It never fails.
	Extract(content []byte) entities.ManifestInfo
	// ExtractFile reads the manifest at path; unreadable files yield Unknown/empty.
	ExtractFile(path string) entities.ManifestInfo
}

// CompatibilityService evaluates compatibility rules. Pure, no I/O.
type CompatibilityService interface {
	Evaluate(info entities.ManifestInfo) []string
}

// SuggestionService produces refactoring suggestions. It never returns an error:
// failures degrade the returned suggestion instead.
type SuggestionService interface {
	Suggest(ctx context.Context, scan *entities.ScanResult, dependencies []string) *entities.Suggestion
	// SuggestFromCode skips the original-code heuristic and uses code as given
	SuggestFromCode(ctx context.Context, code string, dependencies []string) *entities.Suggestion
}
