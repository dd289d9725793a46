package gateways

import (
	"context"

	"github.com/ochairo/netport/internal/domain/entities"
)

// SourceParser is the syntax collaborator: source text in, syntax tree out
type SourceParser interface {
	Parse(ctx context.Context, source []byte) (*entities.SyntaxTree, error)
}

// SourceScanner flags deprecated constructs in a project's sources
type SourceScanner interface {
	Scan(ctx context.Context, artifact *entities.ProjectArtifact) (*entities.ScanResult, error)
}
