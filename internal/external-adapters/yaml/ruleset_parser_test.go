package yaml

import (
	"strings"
	"testing"

	"github.com/ochairo/netport/internal/domain/entities"
)

func TestRuleSetParser_Parse_Default(t *testing.T) {
	rules, err := DefaultRuleSet()
	if err != nil {
		t.Fatalf("DefaultRuleSet() error = %v", err)
	}

	if rules.Manifest.Extension != ".csproj" {
		t.Errorf("Manifest.Extension = %q, want .csproj", rules.Manifest.Extension)
	}
	if got := strings.Join(rules.Scanner.DenyNamespacePrefixes, ","); got != "System.Web,System.Drawing" {
		t.Errorf("DenyNamespacePrefixes = %s", got)
	}
	if got := strings.Join(rules.Scanner.DenyAPITokens, ","); got != "HttpContext.Current" {
		t.Errorf("DenyAPITokens = %s", got)
	}
	if rules.Target.ExpectedRuntime != "net48" {
		t.Errorf("ExpectedRuntime = %q, want net48", rules.Target.ExpectedRuntime)
	}
	if rules.Target.RuntimeIssue != "Expected .NET Framework 4.8 (net48)." {
		t.Errorf("RuntimeIssue = %q", rules.Target.RuntimeIssue)
	}
	want := entities.DependencyRule{Name: "System.Web", Issue: "System.Web is incompatible with .NET Core 8."}
	if len(rules.IncompatibleDependencies) != 1 || rules.IncompatibleDependencies[0] != want {
		t.Errorf("IncompatibleDependencies = %+v", rules.IncompatibleDependencies)
	}
}

func TestRuleSetParser_Parse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{name: "malformed", yaml: "manifest: [", wantErr: "failed to parse YAML"},
		{name: "missing extension", yaml: "manifest:\n  source_extensions: [.cs]\n", wantErr: "manifest.extension"},
		{name: "extension without dot", yaml: "manifest:\n  extension: csproj\n  source_extensions: [.cs]\n", wantErr: "must start with a dot"},
		{name: "missing sources", yaml: "manifest:\n  extension: .csproj\n", wantErr: "source_extensions"},
		{
			name:    "runtime without issue",
			yaml:    "manifest:\n  extension: .csproj\n  source_extensions: [.cs]\ntarget:\n  expected_runtime: net48\n",
			wantErr: "runtime_issue",
		},
		{
			name:    "dependency without issue",
			yaml:    "manifest:\n  extension: .csproj\n  source_extensions: [.cs]\nincompatible_dependencies:\n  - name: System.Web\n",
			wantErr: "incompatible_dependencies[0]",
		},
	}

	parser := NewRuleSetParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Parse() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestRuleSetParser_Parse_EmptyScannerLists(t *testing.T) {
	rules, err := NewRuleSetParser().Parse([]byte("manifest:\n  extension: .vbproj\n  source_extensions: [.vb]\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if rules.Scanner.DenyNamespacePrefixes == nil || rules.Scanner.DenyAPITokens == nil {
		t.Error("scanner lists should be empty, not nil")
	}
	if rules.Target.ExpectedRuntime != "" {
		t.Errorf("ExpectedRuntime = %q, want empty", rules.Target.ExpectedRuntime)
	}
}

func TestRuleSetParser_MarshalRoundTrip(t *testing.T) {
	parser := NewRuleSetParser()
	rules, err := DefaultRuleSet()
	if err != nil {
		t.Fatalf("DefaultRuleSet() error = %v", err)
	}

	out, err := parser.Marshal(rules)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(out), "deny_api_tokens:") {
		t.Errorf("Marshal() output missing scanner keys:\n%s", out)
	}

	again, err := parser.Parse(out)
	if err != nil {
		t.Fatalf("Parse(Marshal()) error = %v", err)
	}
	if again.Target != rules.Target || len(again.IncompatibleDependencies) != len(rules.IncompatibleDependencies) {
		t.Errorf("round trip changed the rule set: %+v", again)
	}
}
