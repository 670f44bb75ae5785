package survey

// Service derives display values from a loaded survey document. It holds no
// other state; every view is recomputed from scratch on request.
type Service struct {
	data *Data
}

func NewService(data *Data) *Service {
	return &Service{data: data}
}

// QuestionView is the per-question block of the dashboard. Missing marks a
// question listed in the document that has no tally in the active scope; the
// rest of the fields are zero and the renderer shows a placeholder for it.
type QuestionView struct {
	Question   string       `json:"question"`
	Yes        int          `json:"si"`
	No         int          `json:"no"`
	Total      int          `json:"total"`
	YesPercent string       `json:"si_percent"`
	NoPercent  string       `json:"no_percent"`
	Series     []ChartSlice `json:"series,omitempty"`
	Missing    bool         `json:"missing,omitempty"`
}

// DistributionBar is one grade of the whole-school distribution chart.
// Width is the bar length relative to the largest grade, ready for CSS.
type DistributionBar struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Width string `json:"width"`
	Color string `json:"color"`
}

// DashboardView is everything the dashboard page needs for one scope.
type DashboardView struct {
	Scope          string            `json:"scope"`
	WholeSchool    bool              `json:"whole_school"`
	Responses      int               `json:"responses"`
	ValidResponses int               `json:"valid_responses"`
	SourceFile     string            `json:"source_file"`
	Note           string            `json:"note"`
	Scopes         []string          `json:"scopes"`
	Distribution   []DistributionBar `json:"distribution,omitempty"`
	Questions      []QuestionView    `json:"questions"`
}

// Scopes lists the selectable scopes: the whole-school sentinel followed by
// the grades in display order (the distribution sequence).
func (s *Service) Scopes() []string {
	out := make([]string, 0, len(s.data.Overall.GradesDistribution)+1)
	out = append(out, WholeSchool)
	for _, gc := range s.data.Overall.GradesDistribution {
		out = append(out, gc.Name)
	}
	return out
}

// BuildView computes the dashboard for one selection. An unknown selection
// returns ErrScopeNotFound; a question absent from the active scope degrades
// to a Missing placeholder instead of failing the view.
func (s *Service) BuildView(selection string) (*DashboardView, error) {
	scope, err := s.data.ResolveScope(selection)
	if err != nil {
		return nil, err
	}

	label := selection
	wholeSchool := selection == "" || selection == WholeSchool
	if wholeSchool {
		label = WholeSchool
	}

	view := &DashboardView{
		Scope:          label,
		WholeSchool:    wholeSchool,
		Responses:      scope.Responses,
		ValidResponses: s.data.Meta.ValidResponses,
		SourceFile:     s.data.Meta.SourceFile,
		Note:           s.data.Meta.Note,
		Scopes:         s.Scopes(),
		Questions:      make([]QuestionView, 0, len(s.data.Questions)),
	}

	if wholeSchool {
		view.Distribution = buildDistribution(s.data.Overall.GradesDistribution)
	}

	for _, q := range s.data.Questions {
		c, ok := scope.Answers[q]
		if !ok {
			view.Questions = append(view.Questions, QuestionView{Question: q, Missing: true})
			continue
		}
		total := c.Yes + c.No
		view.Questions = append(view.Questions, QuestionView{
			Question:   q,
			Yes:        c.Yes,
			No:         c.No,
			Total:      total,
			YesPercent: Percent(c.Yes, total),
			NoPercent:  Percent(c.No, total),
			Series:     ToChartSeries(c),
		})
	}

	return view, nil
}

func buildDistribution(counts []GradeCount) []DistributionBar {
	max := 0
	for _, gc := range counts {
		if gc.Value > max {
			max = gc.Value
		}
	}

	out := make([]DistributionBar, 0, len(counts))
	for _, gc := range counts {
		out = append(out, DistributionBar{
			Name:  gc.Name,
			Value: gc.Value,
			Width: Percent(gc.Value, max),
			Color: ColorDistribution,
		})
	}
	return out
}
