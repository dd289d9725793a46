// Package yaml provides YAML-based rule set parsing and repository implementations.
package yaml

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/ochairo/netport/internal/domain/entities"
)

// yamlRuleSet represents the raw YAML structure
type yamlRuleSet struct {
	Manifest                 yamlManifest     `yaml:"manifest"`
	Scanner                  yamlScanner      `yaml:"scanner"`
	Target                   yamlTarget       `yaml:"target"`
	IncompatibleDependencies []yamlDependency `yaml:"incompatible_dependencies"`
}

type yamlManifest struct {
	Extension        string   `yaml:"extension"`
	SourceExtensions []string `yaml:"source_extensions"`
}

type yamlScanner struct {
	DenyNamespacePrefixes []string `yaml:"deny_namespace_prefixes"`
	DenyAPITokens         []string `yaml:"deny_api_tokens"`
}

type yamlTarget struct {
	ExpectedRuntime string `yaml:"expected_runtime"`
	RuntimeIssue    string `yaml:"runtime_issue"`
	Destination     string `yaml:"destination"`
}

type yamlDependency struct {
	Name  string `yaml:"name"`
	Issue string `yaml:"issue"`
}

// RuleSetParser parses YAML rule set files
type RuleSetParser struct{}

// NewRuleSetParser creates a new YAML parser
func NewRuleSetParser() *RuleSetParser {
	return &RuleSetParser{}
}

// ParseFile parses a YAML rule set file
func (p *RuleSetParser) ParseFile(filePath string) (*entities.RuleSet, error) {
	//nolint:gosec // G304: filePath is the configured rules file
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read file %s", filePath)
	}

	return p.Parse(data)
}

// Parse parses YAML bytes into a RuleSet entity
func (p *RuleSetParser) Parse(data []byte) (*entities.RuleSet, error) {
	var raw yamlRuleSet
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "failed to parse YAML")
	}

	// Validate required fields
	if raw.Manifest.Extension == "" {
		return nil, errors.New("rule set must define manifest.extension")
	}
	if !strings.HasPrefix(raw.Manifest.Extension, ".") {
		return nil, errors.Newf("manifest.extension %q must start with a dot", raw.Manifest.Extension)
	}
	if len(raw.Manifest.SourceExtensions) == 0 {
		return nil, errors.New("rule set must define manifest.source_extensions")
	}
	if raw.Target.ExpectedRuntime != "" && raw.Target.RuntimeIssue == "" {
		return nil, errors.New("target.runtime_issue is required with target.expected_runtime")
	}

	deps := make([]entities.DependencyRule, 0, len(raw.IncompatibleDependencies))
	for i, d := range raw.IncompatibleDependencies {
		if d.Name == "" || d.Issue == "" {
			return nil, errors.Newf("incompatible_dependencies[%d] needs a name and an issue", i)
		}
		deps = append(deps, entities.DependencyRule{Name: d.Name, Issue: d.Issue})
	}

	return &entities.RuleSet{
		Manifest: entities.ManifestRules{
			Extension:        raw.Manifest.Extension,
			SourceExtensions: raw.Manifest.SourceExtensions,
		},
		Scanner: entities.ScannerRules{
			DenyNamespacePrefixes: nonNil(raw.Scanner.DenyNamespacePrefixes),
			DenyAPITokens:         nonNil(raw.Scanner.DenyAPITokens),
		},
		Target: entities.TargetRules{
			ExpectedRuntime: raw.Target.ExpectedRuntime,
			RuntimeIssue:    raw.Target.RuntimeIssue,
			Destination:     raw.Target.Destination,
		},
		IncompatibleDependencies: deps,
	}, nil
}

// Marshal renders a rule set back to YAML
func (p *RuleSetParser) Marshal(rules *entities.RuleSet) ([]byte, error) {
	raw := yamlRuleSet{
		Manifest: yamlManifest{
			Extension:        rules.Manifest.Extension,
			SourceExtensions: rules.Manifest.SourceExtensions,
		},
		Scanner: yamlScanner{
			DenyNamespacePrefixes: rules.Scanner.DenyNamespacePrefixes,
			DenyAPITokens:         rules.Scanner.DenyAPITokens,
		},
		Target: yamlTarget{
			ExpectedRuntime: rules.Target.ExpectedRuntime,
			RuntimeIssue:    rules.Target.RuntimeIssue,
			Destination:     rules.Target.Destination,
		},
	}
	for _, d := range rules.IncompatibleDependencies {
		raw.IncompatibleDependencies = append(raw.IncompatibleDependencies, yamlDependency{Name: d.Name, Issue: d.Issue})
	}

	out, err := yaml.Marshal(&raw)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode rule set")
	}
	return out, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
