// Package extract converts the Google Forms spreadsheet export of the school
// questionnaire into the aggregated survey-data JSON the dashboard serves.
// It runs at build time; the dashboard itself never re-derives these counts.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"surveydash/internal/survey"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var gradeSeparators = regexp.MustCompile(`[,;/]+`)

// Config names the spreadsheet columns to aggregate. Question fields double
// as the question texts in the output document.
type Config struct {
	GradeField     string
	QuestionFields []string
	OrderedGrades  []string
	Note           string
}

func DefaultConfig() Config {
	return Config{
		GradeField: "Grado del alumno",
		QuestionFields: []string{
			"¿Te gustaría que se realice en los siguientes ciclos escolares?",
			"¿Consideras que el temario está de acuerdo con las necesidades los niñ@s?",
		},
		OrderedGrades: []string{"Primero", "Segundo", "Tercero", "Cuarto", "Quinto", "Sexto"},
		Note: "Se excluyen comentarios y marca temporal. " +
			"Algunas respuestas incluyen varios grados y se contabilizan en cada grado indicado.",
	}
}

// FromFile aggregates the first sheet of an xlsx export.
func FromFile(path string, cfg Config) (*survey.Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer func() { _ = f.Close() }()
	return FromReader(f, filepath.Base(path), cfg)
}

func FromReader(r io.Reader, sourceName string, cfg Config) (*survey.Data, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open excel: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("excel sheet is empty")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("the sheet has no rows")
	}

	header := map[string]int{}
	for i, h := range rows[0] {
		header[strings.TrimSpace(h)] = i
	}
	required := append([]string{cfg.GradeField}, cfg.QuestionFields...)
	for _, col := range required {
		if _, ok := header[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	titler := cases.Title(language.Spanish)

	gradeCounter := map[string]int{}
	gradeOrder := make([]string, 0)
	overall := map[string]map[string]int{}
	byGrade := map[string]*gradeTally{}
	for _, q := range cfg.QuestionFields {
		overall[q] = map[string]int{}
	}

	cell := func(row []string, col string) string {
		idx := header[col]
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	validResponses := 0
	for _, row := range rows[1:] {
		gradeRaw := cell(row, cfg.GradeField)
		answers := make([]string, len(cfg.QuestionFields))
		answered := false
		for i, q := range cfg.QuestionFields {
			answers[i] = cell(row, q)
			if answers[i] != "" {
				answered = true
			}
		}
		if gradeRaw == "" || !answered {
			continue
		}

		grades := normalizeGrades(gradeRaw, titler)
		if len(grades) == 0 {
			continue
		}

		validResponses++

		for i, q := range cfg.QuestionFields {
			if answers[i] != "" {
				overall[q][answers[i]]++
			}
		}

		for _, grade := range grades {
			t, ok := byGrade[grade]
			if !ok {
				t = newGradeTally(cfg.QuestionFields)
				byGrade[grade] = t
				gradeOrder = append(gradeOrder, grade)
			}
			gradeCounter[grade]++
			t.responses++
			for i, q := range cfg.QuestionFields {
				if answers[i] != "" {
					t.answers[q][answers[i]]++
				}
			}
		}
	}

	ordered := orderGrades(gradeOrder, cfg.OrderedGrades)

	data := &survey.Data{
		Meta: survey.Meta{
			SourceFile:     sourceName,
			ValidResponses: validResponses,
			Note:           cfg.Note,
		},
		Questions: append([]string(nil), cfg.QuestionFields...),
		Overall: survey.Overall{
			Responses:          validResponses,
			GradesDistribution: make([]survey.GradeCount, 0, len(ordered)),
			Answers:            make(map[string]survey.YesNoCount, len(cfg.QuestionFields)),
		},
		ByGrade: make(map[string]survey.GradeData, len(ordered)),
	}

	for _, grade := range ordered {
		data.Overall.GradesDistribution = append(data.Overall.GradesDistribution, survey.GradeCount{
			Name:  grade,
			Value: gradeCounter[grade],
		})
	}
	for _, q := range cfg.QuestionFields {
		data.Overall.Answers[q] = yesNo(overall[q])
	}
	for _, grade := range ordered {
		t := byGrade[grade]
		gd := survey.GradeData{
			Responses: t.responses,
			Answers:   make(map[string]survey.YesNoCount, len(cfg.QuestionFields)),
		}
		for _, q := range cfg.QuestionFields {
			gd.Answers[q] = yesNo(t.answers[q])
		}
		data.ByGrade[grade] = gd
	}

	return data, nil
}

// WriteJSON writes the document the way the dashboard expects it: indented,
// UTF-8, accents left unescaped.
func WriteJSON(w io.Writer, data *survey.Data) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encode survey data: %w", err)
	}
	return nil
}

type gradeTally struct {
	responses int
	answers   map[string]map[string]int
}

func newGradeTally(questions []string) *gradeTally {
	t := &gradeTally{answers: make(map[string]map[string]int, len(questions))}
	for _, q := range questions {
		t.answers[q] = map[string]int{}
	}
	return t
}

// normalizeGrades splits a raw grade cell on , ; or /, title-cases each
// mention and drops duplicates while keeping first-mention order. A response
// naming several grades counts once toward the totals but once per grade in
// the distribution.
func normalizeGrades(raw string, titler cases.Caser) []string {
	parts := gradeSeparators.Split(raw, -1)
	out := make([]string, 0, len(parts))
	seen := map[string]struct{}{}
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		g := titler.String(strings.ToLower(p))
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}

// orderGrades sorts grades by their canonical school-year position; grades
// outside the canonical list go last, keeping first-seen order.
func orderGrades(grades, canonical []string) []string {
	rank := func(g string) int {
		for i, c := range canonical {
			if c == g {
				return i
			}
		}
		return len(canonical) + 1
	}
	out := append([]string(nil), grades...)
	sort.SliceStable(out, func(i, j int) bool {
		return rank(out[i]) < rank(out[j])
	})
	return out
}

func yesNo(counter map[string]int) survey.YesNoCount {
	return survey.YesNoCount{Yes: counter["Si"], No: counter["No"]}
}
