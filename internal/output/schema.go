package output

import (
	"github.com/hargabyte/doxir/internal/extract"
)

// ParseOutput is the result of extracting one or more headers.
type ParseOutput struct {
	Headers  []*extract.HeaderDocument `yaml:"headers" json:"headers"`
	Failures []FileFailure             `yaml:"failures,omitempty" json:"failures,omitempty"`
}

// FileFailure is an input that produced no IR. Problem is set when the
// failure was a declaration error; Message always holds the full text.
type FileFailure struct {
	File    string         `yaml:"file" json:"file"`
	Message string         `yaml:"message" json:"message"`
	Problem *extract.Error `yaml:"problem,omitempty" json:"problem,omitempty"`
}

// Check statuses.
const (
	StatusOK      = "ok"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// CheckResult is the validation outcome for one input file.
type CheckResult struct {
	File   string `yaml:"file" json:"file"`
	Header string `yaml:"header,omitempty" json:"header,omitempty"`
	// Status is ok, skipped (IR produced with dropped declarations) or
	// failed.
	Status       string           `yaml:"status" json:"status"`
	Declarations int              `yaml:"declarations" json:"declarations"`
	Problems     []*extract.Error `yaml:"problems,omitempty" json:"problems,omitempty"`
	Message      string           `yaml:"message,omitempty" json:"message,omitempty"`
}

// CheckSummary aggregates problems across all checked files.
type CheckSummary struct {
	Files    int                    `yaml:"files" json:"files"`
	Passed   int                    `yaml:"passed" json:"passed"`
	Failed   int                    `yaml:"failed" json:"failed"`
	Problems int                    `yaml:"problems" json:"problems"`
	ByKind   map[string]int         `yaml:"by_kind,omitempty" json:"by_kind,omitempty"`
	ByRule   map[extract.RuleID]int `yaml:"by_rule,omitempty" json:"by_rule,omitempty"`
}

// CheckOutput is the result of validating headers without emitting IR.
type CheckOutput struct {
	Results []CheckResult `yaml:"results" json:"results"`
	Summary CheckSummary  `yaml:"summary" json:"summary"`
}

// NewCheckOutput computes the summary for a set of results.
func NewCheckOutput(results []CheckResult) *CheckOutput {
	out := &CheckOutput{Results: results}
	s := &out.Summary
	s.Files = len(results)
	for _, r := range results {
		if r.Status == StatusOK {
			s.Passed++
		} else {
			s.Failed++
		}
		for _, p := range r.Problems {
			s.Problems++
			if s.ByKind == nil {
				s.ByKind = make(map[string]int)
			}
			s.ByKind[p.Kind.String()]++
			if p.Rule != 0 {
				if s.ByRule == nil {
					s.ByRule = make(map[extract.RuleID]int)
				}
				s.ByRule[p.Rule]++
			}
		}
	}
	return out
}

// OK reports whether every file passed.
func (c *CheckOutput) OK() bool {
	return c.Summary.Failed == 0
}

// RulesOutput lists the attribute rule table.
type RulesOutput struct {
	Rules []extract.RuleInfo `yaml:"rules" json:"rules"`
}
