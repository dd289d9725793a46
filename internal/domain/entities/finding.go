package entities

// FindingKind classifies a flagged construct
type FindingKind string

const (
	// DeprecatedNamespace is an import directive of a denied namespace family
	DeprecatedNamespace FindingKind = "DeprecatedNamespace"
	// DeprecatedAPIUsage is a member access touching a denied API
	DeprecatedAPIUsage FindingKind = "DeprecatedApiUsage"
)

// Finding is a single flagged construct. Treat as immutable.
type Finding struct {
	Kind       FindingKind
	Text       string
	SourceFile string
	Line       int
}

// ScanResult is the outcome of scanning a project's sources
type ScanResult struct {
	Findings    []Finding
	FileCount   int
	Diagnostics []string // Per-file parse failures
	Raw         string   // Scan document as emitted on the external scan boundary
}

// Texts returns the texts of findings of the given kind, in order
func (r *ScanResult) Texts(kind FindingKind) []string {
	texts := make([]string, 0)
	for _, f := range r.Findings {
		if f.Kind == kind {
			texts = append(texts, f.Text)
		}
	}
	return texts
}

// FirstOf returns the first finding of the given kind
func (r *ScanResult) FirstOf(kind FindingKind) (Finding, bool) {
	for _, f := range r.Findings {
		if f.Kind == kind {
			return f, true
		}
	}
	return Finding{}, false
}

// ScanDocument is the JSON document exchanged with an external scan process
type ScanDocument struct {
	DeprecatedNamespaces []string `json:"DeprecatedNamespaces"`
	DeprecatedApis       []string `json:"DeprecatedApis"`
	FileCount            int      `json:"FileCount"`
}

// Document renders the result in the external scan format
func (r *ScanResult) Document() ScanDocument {
	return ScanDocument{
		DeprecatedNamespaces: r.Texts(DeprecatedNamespace),
		DeprecatedApis:       r.Texts(DeprecatedAPIUsage),
		FileCount:            r.FileCount,
	}
}

// Findings expands a scan document back into findings. Namespace findings
// precede API findings; per-file attribution is not carried by the document.
func (d ScanDocument) Findings(sourceFile string) []Finding {
	findings := make([]Finding, 0, len(d.DeprecatedNamespaces)+len(d.DeprecatedApis))
	for _, ns := range d.DeprecatedNamespaces {
		findings = append(findings, Finding{Kind: DeprecatedNamespace, Text: ns, SourceFile: sourceFile})
	}
	for _, api := range d.DeprecatedApis {
		findings = append(findings, Finding{Kind: DeprecatedAPIUsage, Text: api, SourceFile: sourceFile})
	}
	return findings
}
