package yaml

import (
	"testing"
)

// FuzzRuleSetParser tests the YAML parser against random/malformed inputs
// to detect crashes, panics, or unexpected behavior.
//
// Run with: go test -fuzz=FuzzRuleSetParser -fuzztime=30s
func FuzzRuleSetParser(f *testing.F) {
	f.Add(defaultRules)
	f.Add([]byte("manifest:\n  extension: .csproj\n  source_extensions: [.cs]\n"))
	f.Add([]byte("incompatible_dependencies:\n  - name: x\n"))
	f.Add([]byte("{{{"))
	f.Add([]byte(""))

	parser := NewRuleSetParser()
	f.Fuzz(func(t *testing.T, data []byte) {
		rules, err := parser.Parse(data)
		if err != nil {
			return
		}
		if rules.Manifest.Extension == "" {
			t.Error("accepted a rule set without a manifest extension")
		}
		for _, d := range rules.IncompatibleDependencies {
			if d.Name == "" || d.Issue == "" {
				t.Errorf("accepted incomplete dependency rule %+v", d)
			}
		}
	})
}
