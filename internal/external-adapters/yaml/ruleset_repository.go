package yaml

import (
	"context"
	_ "embed"

	"github.com/cockroachdb/errors"

	"github.com/ochairo/netport/internal/domain/entities"
	"github.com/ochairo/netport/internal/domain/interfaces/repositories"
)

var _ repositories.RuleSetRepository = (*RuleSetRepository)(nil)

//go:embed rules.yml
var defaultRules []byte

// RuleSetRepository implements repositories.RuleSetRepository from a YAML
// file, or from the built-in rules when no file is configured
type RuleSetRepository struct {
	rulesFile string
	parser    *RuleSetParser
}

// NewRuleSetRepository creates a new YAML-based rule set repository
func NewRuleSetRepository(rulesFile string) *RuleSetRepository {
	return &RuleSetRepository{
		rulesFile: rulesFile,
		parser:    NewRuleSetParser(),
	}
}

// LoadRuleSet reads and validates the rule set
func (r *RuleSetRepository) LoadRuleSet(_ context.Context) (*entities.RuleSet, error) {
	if r.rulesFile == "" {
		return DefaultRuleSet()
	}

	rules, err := r.parser.ParseFile(r.rulesFile)
	if err != nil {
		return nil, errors.WithHint(errors.Wrap(err, "invalid rules file"), "unset rules_file to use the built-in rules")
	}
	return rules, nil
}

// DefaultRuleSet returns the built-in .NET Framework 4.8 to .NET Core 8 rules
func DefaultRuleSet() (*entities.RuleSet, error) {
	return NewRuleSetParser().Parse(defaultRules)
}
