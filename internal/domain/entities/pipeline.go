package entities

// PipelineState is a stage of one analysis run
type PipelineState string

// Pipeline states, in order
const (
	StateValidating PipelineState = "Validating"
	StateIngesting  PipelineState = "Ingesting"
	StateExtracting PipelineState = "Extracting"
	StateScanning   PipelineState = "Scanning"
	StateSuggesting PipelineState = "Suggesting"
	StateDone       PipelineState = "Done"
	StateFailed     PipelineState = "Failed"
)
