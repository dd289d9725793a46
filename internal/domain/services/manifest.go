// Package services implements domain business logic and use cases.
package services

import (
	"os"
	"regexp"
	"strings"

	"github.com/ochairo/netport/internal/domain/entities"
	"github.com/ochairo/netport/internal/domain/interfaces"
	"github.com/ochairo/netport/internal/domain/interfaces/services"
)

var (
	targetFrameworkPattern  = regexp.MustCompile(`<TargetFramework>(.*?)</TargetFramework>`)
	packageReferencePattern = regexp.MustCompile(`(?is)<PackageReference\b[^>]*?\bInclude\s*=\s*"([^"]*)"`)
)

// manifestExtractor implements ManifestService with plain text matching.
// Malformed manifests yield partial values instead of errors.
type manifestExtractor struct {
	logger interfaces.Logger
}

// NewManifestExtractor creates a manifest extractor
func NewManifestExtractor(logger interfaces.Logger) services.ManifestService {
	return &manifestExtractor{logger: interfaces.OrNoOp(logger)}
}

// Extract returns the target runtime (Unknown if absent) and every package
// reference name, in document order
func (m *manifestExtractor) Extract(content []byte) entities.ManifestInfo {
	info := entities.ManifestInfo{
		TargetRuntime: entities.UnknownRuntime,
		Dependencies:  []string{},
	}

	if match := targetFrameworkPattern.FindSubmatch(content); match != nil {
		// Kept verbatim; the runtime rule compares literally
		if len(match[1]) > 0 {
			info.TargetRuntime = string(match[1])
		}
	}

	for _, match := range packageReferencePattern.FindAllSubmatch(content, -1) {
		name := strings.TrimSpace(string(match[1]))
		if name == "" {
			continue
		}
		info.Dependencies = append(info.Dependencies, name)
	}

	return info
}

// ExtractFile reads the manifest from disk; read failures are logged and
// produce an Unknown runtime with no dependencies
func (m *manifestExtractor) ExtractFile(path string) entities.ManifestInfo {
	//nolint:gosec // G304: path is the manifest resolved inside the working area
	content, err := os.ReadFile(path)
	if err != nil {
		m.logger.Warn("manifest unreadable, continuing with empty metadata",
			interfaces.F("manifest", path), interfaces.Err(err))
		return m.Extract(nil)
	}
	return m.Extract(content)
}
