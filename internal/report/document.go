// Package report renders batch analysis results as a table, JSON or YAML.
package report

import (
	"github.com/smykla-skalski/codeaudit/internal/analyzer"
	"github.com/smykla-skalski/codeaudit/internal/engine"
	"github.com/smykla-skalski/codeaudit/internal/rule"
)

// FileResult is the serialized outcome for one file. Analysis fields are
// empty when the file could not be read or was too large.
type FileResult struct {
	Path            string              `json:"path"                      yaml:"path"`
	Size            int64               `json:"size"                      yaml:"size"`
	Score           int                 `json:"score"                     yaml:"score"`
	TotalViolations int                 `json:"totalViolations"           yaml:"totalViolations"`
	Violations      []rule.Violation    `json:"violations"                yaml:"violations"`
	RuleResults     []engine.RuleResult `json:"ruleResults"               yaml:"ruleResults"`
	Error           string              `json:"error,omitempty"           yaml:"error,omitempty"`
}

// Summary aggregates a batch.
type Summary struct {
	Files      int            `json:"files"        yaml:"files"`
	Scored     int            `json:"scored"       yaml:"scored"`
	Failed     int            `json:"failed"       yaml:"failed"`
	Violations int            `json:"violations"   yaml:"violations"`
	BySeverity map[string]int `json:"bySeverity"   yaml:"bySeverity"`
	// AverageScore and LowestScore cover the Scored files: those that were
	// analyzed, including the ones that did not parse.
	AverageScore int   `json:"averageScore" yaml:"averageScore"`
	LowestScore  int   `json:"lowestScore"  yaml:"lowestScore"`
	Bytes        int64 `json:"bytes"        yaml:"bytes"`
}

// Document is the machine-readable report.
type Document struct {
	Files   []FileResult `json:"files"   yaml:"files"`
	Summary Summary      `json:"summary" yaml:"summary"`
}

// NewDocument converts batch reports, keeping their order.
func NewDocument(reports []analyzer.FileReport) Document {
	doc := Document{
		Files: make([]FileResult, 0, len(reports)),
		Summary: Summary{
			Files:      len(reports),
			BySeverity: make(map[string]int, len(rule.Severities())),
		},
	}

	for _, s := range rule.Severities() {
		doc.Summary.BySeverity[s.String()] = 0
	}

	scoreSum := 0

	for _, r := range reports {
		fr := FileResult{
			Path:        r.Path,
			Size:        r.Size,
			Violations:  []rule.Violation{},
			RuleResults: []engine.RuleResult{},
		}

		if r.Err != nil {
			fr.Error = r.Err.Error()
			doc.Summary.Failed++
		}

		if r.Result != nil {
			fr.Score = r.Result.Score
			fr.TotalViolations = r.Result.TotalViolations
			fr.Violations = r.Result.Violations
			fr.RuleResults = r.Result.RuleResults

			for sev, n := range r.Result.CountBySeverity() {
				doc.Summary.BySeverity[sev.String()] += n
			}

			if doc.Summary.Scored == 0 || fr.Score < doc.Summary.LowestScore {
				doc.Summary.LowestScore = fr.Score
			}

			doc.Summary.Scored++
			scoreSum += fr.Score
		}

		doc.Summary.Violations += fr.TotalViolations
		doc.Summary.Bytes += r.Size
		doc.Files = append(doc.Files, fr)
	}

	if doc.Summary.Scored > 0 {
		doc.Summary.AverageScore = scoreSum / doc.Summary.Scored
	}

	return doc
}
