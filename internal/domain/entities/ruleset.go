package entities

// RuleSet is the configuration data driving scanning and compatibility checks.
// It is read-only once loaded and shared by concurrent requests.
type RuleSet struct {
	Manifest                 ManifestRules
	Scanner                  ScannerRules
	Target                   TargetRules
	IncompatibleDependencies []DependencyRule
}

// ManifestRules describes how manifests and sources are recognized
type ManifestRules struct {
	Extension        string   // e.g. ".csproj"
	SourceExtensions []string // e.g. [".cs"]
}

// ScannerRules lists the denied constructs
type ScannerRules struct {
	DenyNamespacePrefixes []string
	DenyAPITokens         []string
}

// TargetRules describes the expected source runtime and the destination
type TargetRules struct {
	ExpectedRuntime string // e.g. "net48"
	RuntimeIssue    string // Issue emitted when the manifest runtime differs
	Destination     string // Human label of the destination runtime, used in prompts
}

// DependencyRule flags a dependency that cannot move to the destination runtime
type DependencyRule struct {
	Name  string
	Issue string
}
