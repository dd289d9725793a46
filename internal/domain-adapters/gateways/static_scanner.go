package gateways

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/ochairo/netport/internal/domain/entities"
	"github.com/ochairo/netport/internal/domain/interfaces"
	"github.com/ochairo/netport/internal/domain/interfaces/gateways"
)

// staticScanner applies the deny rules to every source file in-process
type staticScanner struct {
	parser  gateways.SourceParser
	rules   entities.ScannerRules
	workers int
	logger  interfaces.Logger
}

// fileScan is the outcome for one source file
type fileScan struct {
	findings   []entities.Finding
	diagnostic string
}

// NewStaticScanner creates the in-process scanner. workers <= 0 uses NumCPU.
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewStaticScanner(parser gateways.SourceParser, rules *entities.RuleSet, workers int, logger interfaces.Logger) *staticScanner {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &staticScanner{
		parser:  parser,
		rules:   rules.Scanner,
		workers: workers,
		logger:  interfaces.OrNoOp(logger),
	}
}

// Scan scans the artifact's source files. Files are scanned in parallel;
// results are merged in file order so the output is the sequential one.
func (s *staticScanner) Scan(ctx context.Context, artifact *entities.ProjectArtifact) (*entities.ScanResult, error) {
	return s.ScanFiles(ctx, artifact.SourceFiles)
}

// ScanFiles scans an explicit list of files
func (s *staticScanner) ScanFiles(ctx context.Context, files []string) (*entities.ScanResult, error) {
	results := make([]fileScan, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for idx, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[idx] = s.scanFile(gctx, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "scan interrupted"), entities.ErrScanExecution)
	}

	result := &entities.ScanResult{
		Findings:    make([]entities.Finding, 0),
		FileCount:   len(files),
		Diagnostics: make([]string, 0),
	}
	for _, r := range results {
		result.Findings = append(result.Findings, r.findings...)
		if r.diagnostic != "" {
			result.Diagnostics = append(result.Diagnostics, r.diagnostic)
		}
	}

	raw, err := json.MarshalIndent(result.Document(), "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode scan document")
	}
	result.Raw = string(raw)

	s.logger.Debug("scan complete",
		interfaces.F("files", result.FileCount),
		interfaces.F("findings", len(result.Findings)),
		interfaces.F("diagnostics", len(result.Diagnostics)))
	return result, nil
}

// scanFile parses one file and applies both rules. A file that cannot be
// read or parsed yields a diagnostic and no findings.
func (s *staticScanner) scanFile(ctx context.Context, path string) fileScan {
	//nolint:gosec // G304: path was resolved inside the working area
	source, err := os.ReadFile(path)
	if err != nil {
		return s.parseFailure(path, errors.Mark(err, entities.ErrParse))
	}

	tree, err := s.parser.Parse(ctx, source)
	if err != nil {
		return s.parseFailure(path, errors.Mark(err, entities.ErrParse))
	}

	return fileScan{findings: s.apply(tree, path)}
}

func (s *staticScanner) parseFailure(path string, err error) fileScan {
	s.logger.Warn("skipping unparseable source file", interfaces.F("file", path), interfaces.Err(err))
	return fileScan{diagnostic: fmt.Sprintf("%s: %v", path, err)}
}

// apply walks the tree once so findings keep source order
func (s *staticScanner) apply(tree *entities.SyntaxTree, path string) []entities.Finding {
	findings := make([]entities.Finding, 0)
	seen := make(map[string]bool)

	for _, node := range tree.Nodes {
		switch node.Kind {
		case entities.ImportDirective:
			if seen[node.Text] || !hasAnyPrefix(node.Text, s.rules.DenyNamespacePrefixes) {
				continue
			}
			seen[node.Text] = true
			findings = append(findings, entities.Finding{
				Kind: entities.DeprecatedNamespace, Text: node.Text, SourceFile: path, Line: node.Line,
			})

		case entities.MemberAccess:
			if !containsAny(node.Text, s.rules.DenyAPITokens) {
				continue
			}
			findings = append(findings, entities.Finding{
				Kind: entities.DeprecatedAPIUsage, Text: node.Text, SourceFile: path, Line: node.Line,
			})
		}
	}
	return findings
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if t != "" && strings.Contains(s, t) {
			return true
		}
	}
	return false
}
