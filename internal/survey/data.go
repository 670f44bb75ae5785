package survey

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	ErrScopeNotFound   = errors.New("scope not found")
	ErrQuestionMissing = errors.New("question has no answers in scope")
	ErrMalformedData   = errors.New("malformed survey data")
)

// Meta describes the extraction run that produced the document.
type Meta struct {
	SourceFile     string `json:"sourceFile"`
	ValidResponses int    `json:"validResponses"`
	Note           string `json:"note"`
}

// YesNoCount holds the tally for the two permitted answer categories.
// The JSON keys are fixed by the extraction contract.
type YesNoCount struct {
	Yes int `json:"Si"`
	No  int `json:"No"`
}

// GradeCount is one entry of the grade distribution, in display order.
type GradeCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Overall aggregates every response regardless of grade.
type Overall struct {
	Responses          int                   `json:"responses"`
	GradesDistribution []GradeCount          `json:"gradesDistribution"`
	Answers            map[string]YesNoCount `json:"answers"`
}

// GradeData aggregates the responses attributed to a single grade.
type GradeData struct {
	Responses int                   `json:"responses"`
	Answers   map[string]YesNoCount `json:"answers"`
}

// Data is the root survey document. It is immutable after load: nothing in
// the dashboard writes back into it.
type Data struct {
	Meta      Meta                 `json:"meta"`
	Questions []string             `json:"questions"`
	Overall   Overall              `json:"overall"`
	ByGrade   map[string]GradeData `json:"byGrade"`
}

// Parse decodes a survey document and rejects structurally unusable ones.
// Per-question and per-scope gaps are left for render time, where they turn
// into explicit placeholders instead of failing the whole document.
func Parse(r io.Reader) (*Data, error) {
	var d Data
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode survey data: %w", err)
	}
	if err := d.checkStructure(); err != nil {
		return nil, err
	}
	return &d, nil
}

func LoadFile(path string) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open survey data: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}

func (d *Data) checkStructure() error {
	if len(d.Questions) == 0 {
		return fmt.Errorf("%w: questions list is empty", ErrMalformedData)
	}
	if d.Overall.Answers == nil {
		return fmt.Errorf("%w: overall answers missing", ErrMalformedData)
	}
	for name, g := range d.ByGrade {
		if g.Answers == nil {
			return fmt.Errorf("%w: grade %q has no answers mapping", ErrMalformedData, name)
		}
	}
	return nil
}

// Validate checks the full document invariants: every question resolvable in
// every scope, non-negative tallies, and a grade distribution that matches
// byGrade exactly. Violations do not prevent rendering; the dashboard
// degrades per section instead.
func (d *Data) Validate() error {
	if err := d.checkStructure(); err != nil {
		return err
	}
	if d.Meta.ValidResponses < 0 || d.Overall.Responses < 0 {
		return fmt.Errorf("%w: negative response count", ErrMalformedData)
	}

	for _, q := range d.Questions {
		c, ok := d.Overall.Answers[q]
		if !ok {
			return fmt.Errorf("%w: %q missing from overall", ErrQuestionMissing, q)
		}
		if c.Yes < 0 || c.No < 0 {
			return fmt.Errorf("%w: negative tally for %q in overall", ErrMalformedData, q)
		}
		for name, g := range d.ByGrade {
			c, ok := g.Answers[q]
			if !ok {
				return fmt.Errorf("%w: %q missing from grade %q", ErrQuestionMissing, q, name)
			}
			if c.Yes < 0 || c.No < 0 {
				return fmt.Errorf("%w: negative tally for %q in grade %q", ErrMalformedData, q, name)
			}
		}
	}

	if len(d.Overall.GradesDistribution) != len(d.ByGrade) {
		return fmt.Errorf("%w: distribution has %d entries, byGrade has %d",
			ErrMalformedData, len(d.Overall.GradesDistribution), len(d.ByGrade))
	}
	for _, gc := range d.Overall.GradesDistribution {
		g, ok := d.ByGrade[gc.Name]
		if !ok {
			return fmt.Errorf("%w: distribution grade %q missing from byGrade", ErrMalformedData, gc.Name)
		}
		if gc.Value != g.Responses {
			return fmt.Errorf("%w: distribution value %d for grade %q, responses %d",
				ErrMalformedData, gc.Value, gc.Name, g.Responses)
		}
	}

	return nil
}
