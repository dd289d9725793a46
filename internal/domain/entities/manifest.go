package entities

// UnknownRuntime is the target runtime of a manifest without a runtime tag
const UnknownRuntime = "Unknown"

// ManifestInfo is the build metadata extracted from a project manifest
type ManifestInfo struct {
	TargetRuntime string
	Dependencies  []string
}
