package survey

import (
	"fmt"
	"math"
	"strconv"
)

// WholeSchool is the sentinel selection for the unfiltered aggregate view.
const WholeSchool = "Toda la escuela"

// Chart colors. The only hard requirement is that the three stay distinct.
const (
	ColorYes          = "#2f9e44"
	ColorNo           = "#e03131"
	ColorDistribution = "#4263eb"
)

// ScopeData is the slice of the document the active selection sees.
type ScopeData struct {
	Responses int
	Answers   map[string]YesNoCount
}

// ResolveScope maps a selection onto its aggregate. The empty string counts
// as the whole-school sentinel so the dashboard has a usable initial state.
func (d *Data) ResolveScope(selection string) (ScopeData, error) {
	if selection == "" || selection == WholeSchool {
		return ScopeData{Responses: d.Overall.Responses, Answers: d.Overall.Answers}, nil
	}
	g, ok := d.ByGrade[selection]
	if !ok {
		return ScopeData{}, fmt.Errorf("%w: %q", ErrScopeNotFound, selection)
	}
	return ScopeData{Responses: g.Responses, Answers: g.Answers}, nil
}

// Percent formats value/total as a whole percentage, rounding half up.
// A zero total yields "0%" rather than a division error.
func Percent(value, total int) string {
	if total == 0 {
		return "0%"
	}
	n := math.Round(float64(value) / float64(total) * 100)
	return strconv.Itoa(int(n)) + "%"
}

// ChartSlice is one category of a two-category (or distribution) chart.
type ChartSlice struct {
	Label string `json:"label"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// ToChartSeries returns the fixed two-slice series for a question tally:
// Sí first, No second, independent of magnitudes.
func ToChartSeries(c YesNoCount) []ChartSlice {
	return []ChartSlice{
		{Label: "Sí", Value: c.Yes, Color: ColorYes},
		{Label: "No", Value: c.No, Color: ColorNo},
	}
}
