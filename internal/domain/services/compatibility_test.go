package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ochairo/netport/internal/domain/entities"
)

const (
	runtimeIssue   = "Expected .NET Framework 4.8 (net48)."
	systemWebIssue = "System.Web is incompatible with .NET Core 8."
)

func testRuleSet() *entities.RuleSet {
	return &entities.RuleSet{
		Manifest: entities.ManifestRules{Extension: ".csproj", SourceExtensions: []string{".cs"}},
		Scanner: entities.ScannerRules{
			DenyNamespacePrefixes: []string{"System.Web", "System.Drawing"},
			DenyAPITokens:         []string{"HttpContext.Current"},
		},
		Target: entities.TargetRules{
			ExpectedRuntime: "net48",
			RuntimeIssue:    runtimeIssue,
			Destination:     ".NET Core 8",
		},
		IncompatibleDependencies: []entities.DependencyRule{
			{Name: "System.Web", Issue: systemWebIssue},
		},
	}
}

func TestCompatibilityService_Evaluate(t *testing.T) {
	tests := []struct {
		name string
		info entities.ManifestInfo
		want []string
	}{
		{
			name: "expected runtime no dependencies",
			info: entities.ManifestInfo{TargetRuntime: "net48", Dependencies: []string{}},
			want: []string{},
		},
		{
			name: "runtime mismatch",
			info: entities.ManifestInfo{TargetRuntime: "net6.0"},
			want: []string{runtimeIssue},
		},
		{
			name: "unknown runtime is a mismatch",
			info: entities.ManifestInfo{TargetRuntime: entities.UnknownRuntime},
			want: []string{runtimeIssue},
		},
		{
			name: "partial version string is a mismatch",
			info: entities.ManifestInfo{TargetRuntime: "net4.8"},
			want: []string{runtimeIssue},
		},
		{
			name: "incompatible dependency only",
			info: entities.ManifestInfo{TargetRuntime: "net48", Dependencies: []string{"Newtonsoft.Json", "System.Web"}},
			want: []string{systemWebIssue},
		},
		{
			name: "runtime issue precedes dependency issue",
			info: entities.ManifestInfo{TargetRuntime: "net6.0", Dependencies: []string{"System.Web"}},
			want: []string{runtimeIssue, systemWebIssue},
		},
		{
			name: "duplicate dependency adds one issue",
			info: entities.ManifestInfo{TargetRuntime: "net48", Dependencies: []string{"System.Web", "System.Web"}},
			want: []string{systemWebIssue},
		},
		{
			name: "dependency match is exact",
			info: entities.ManifestInfo{TargetRuntime: "net48", Dependencies: []string{"System.Web.Mvc"}},
			want: []string{},
		},
	}

	svc := NewCompatibilityService(testRuleSet())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.Evaluate(tt.info))
		})
	}
}

func TestCompatibilityService_IsPure(t *testing.T) {
	svc := NewCompatibilityService(testRuleSet())
	info := entities.ManifestInfo{TargetRuntime: "net6.0", Dependencies: []string{"System.Web"}}

	first := svc.Evaluate(info)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, svc.Evaluate(info))
	}
	assert.Equal(t, []string{"System.Web"}, info.Dependencies)
}

func TestCompatibilityService_EmptyDependenciesYieldAtMostRuntimeIssue(t *testing.T) {
	svc := NewCompatibilityService(testRuleSet())

	for _, runtime := range []string{"net48", "net8.0", "", entities.UnknownRuntime} {
		issues := svc.Evaluate(entities.ManifestInfo{TargetRuntime: runtime})
		assert.LessOrEqual(t, len(issues), 1, runtime)
		for _, issue := range issues {
			assert.Equal(t, runtimeIssue, issue)
		}
	}
}
