package services

import (
	"slices"

	"github.com/ochairo/netport/internal/domain/entities"
	"github.com/ochairo/netport/internal/domain/interfaces/services"
)

// compatibilityService evaluates rule-set driven compatibility rules
// Pure business logic - no I/O
type compatibilityService struct {
	target       entities.TargetRules
	dependencies []entities.DependencyRule
}

// NewCompatibilityService creates a rule engine over a loaded rule set
func NewCompatibilityService(rules *entities.RuleSet) services.CompatibilityService {
	return &compatibilityService{
		target:       rules.Target,
		dependencies: rules.IncompatibleDependencies,
	}
}

// Evaluate returns issues in rule order: the runtime rule first, then one
// issue per matching dependency rule. Runtime comparison is literal.
func (s *compatibilityService) Evaluate(info entities.ManifestInfo) []string {
	issues := make([]string, 0)

	if s.target.ExpectedRuntime != "" && info.TargetRuntime != s.target.ExpectedRuntime {
		issues = append(issues, s.target.RuntimeIssue)
	}

	for _, rule := range s.dependencies {
		if slices.Contains(info.Dependencies, rule.Name) {
			issues = append(issues, rule.Issue)
		}
	}

	return issues
}
