// Package repositories defines interfaces for data access layers.
package repositories

import (
	"context"

	"github.com/ochairo/netport/internal/domain/entities"
)

// RuleSetRepository provides the rule set that drives scanning and compatibility checks
type RuleSetRepository interface {
	// LoadRuleSet returns the effective rule set
	LoadRuleSet(ctx context.Context) (*entities.RuleSet, error)
}
