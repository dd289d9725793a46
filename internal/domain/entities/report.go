package entities

// Report is the aggregate output of one analysis run
type Report struct {
	TargetFramework  string   `json:"targetFramework"`
	Dependencies     []string `json:"dependencies"`
	Issues           []string `json:"issues"`
	GenAISuggestions []string `json:"genAiSuggestions"`
	OriginalCode     string   `json:"originalCode"`
	MigratedCode     string   `json:"migratedCode"`
	RawScanOutput    string   `json:"roslynOutput"`
}

// NewReport returns a report whose list fields encode as [] rather than null
func NewReport() *Report {
	return &Report{
		Dependencies:     []string{},
		Issues:           []string{},
		GenAISuggestions: []string{},
	}
}

// Suggestion is the product of the suggestion generator
type Suggestion struct {
	OriginalCode string
	Suggestions  []string
	MigratedCode string
	Degraded     bool // True when the text-generation call failed
}
