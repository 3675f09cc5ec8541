package rule

// Violation is one reported instance of a rule's concern. Line and Column
// are 1-based and zero when the detector works on whole-file heuristics.
type Violation struct {
	Rule           string   `json:"rule"                     yaml:"rule"`
	Severity       Severity `json:"severity"                 yaml:"severity"`
	Message        string   `json:"message"                  yaml:"message"`
	Line           int      `json:"line,omitempty"           yaml:"line,omitempty"`
	Column         int      `json:"column,omitempty"         yaml:"column,omitempty"`
	CodeSnippet    string   `json:"codeSnippet,omitempty"    yaml:"codeSnippet,omitempty"`
	Recommendation string   `json:"recommendation,omitempty" yaml:"recommendation,omitempty"`
}

// HasLocation reports whether the violation points at a source line.
func (v Violation) HasLocation() bool {
	return v.Line > 0
}
