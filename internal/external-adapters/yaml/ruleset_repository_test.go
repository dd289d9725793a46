package yaml

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestRuleSetRepository_LoadRuleSet_Default(t *testing.T) {
	rules, err := NewRuleSetRepository("").LoadRuleSet(context.Background())
	if err != nil {
		t.Fatalf("LoadRuleSet() error = %v", err)
	}
	if rules.Target.Destination != ".NET Core 8" {
		t.Errorf("Destination = %q, want .NET Core 8", rules.Target.Destination)
	}
}

func TestRuleSetRepository_LoadRuleSet_File(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "rules.yml")

	testYAML := []byte(`manifest:
  extension: .csproj
  source_extensions: [.cs]
scanner:
  deny_namespace_prefixes: [System.Web, System.Windows.Forms]
  deny_api_tokens: [HttpContext.Current, ConfigurationManager.AppSettings]
target:
  expected_runtime: net472
  runtime_issue: Expected .NET Framework 4.7.2 (net472).
  destination: .NET 8
incompatible_dependencies:
  - name: EntityFramework
    issue: EntityFramework 6 needs porting to EF Core.
  - name: System.Web
    issue: System.Web is incompatible with .NET 8.
`)
	if err := os.WriteFile(path, testYAML, 0600); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	rules, err := NewRuleSetRepository(path).LoadRuleSet(context.Background())
	if err != nil {
		t.Fatalf("LoadRuleSet() error = %v", err)
	}

	if rules.Target.ExpectedRuntime != "net472" {
		t.Errorf("ExpectedRuntime = %q, want net472", rules.Target.ExpectedRuntime)
	}
	if len(rules.IncompatibleDependencies) != 2 || rules.IncompatibleDependencies[0].Name != "EntityFramework" {
		t.Errorf("IncompatibleDependencies order not preserved: %+v", rules.IncompatibleDependencies)
	}
	if len(rules.Scanner.DenyAPITokens) != 2 {
		t.Errorf("DenyAPITokens = %v", rules.Scanner.DenyAPITokens)
	}
}

func TestRuleSetRepository_LoadRuleSet_MissingFile(t *testing.T) {
	_, err := NewRuleSetRepository(filepath.Join(t.TempDir(), "nope.yml")).LoadRuleSet(context.Background())
	if err == nil {
		t.Error("LoadRuleSet() should return error for a missing rules file")
	}
}
