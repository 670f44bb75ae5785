package survey

import (
	"errors"
	"strings"
	"testing"
)

const questionTemario = "¿Continuar el temario?"
const questionCiclos = "¿Repetir el próximo ciclo?"

// testData builds the document used across the package tests: two grades,
// two questions, multi-grade attribution already resolved upstream.
func testData() *Data {
	return &Data{
		Meta: Meta{
			SourceFile:     "respuestas.xlsx",
			ValidResponses: 21,
			Note:           "Se excluyen comentarios y marca temporal.",
		},
		Questions: []string{questionTemario, questionCiclos},
		Overall: Overall{
			Responses: 21,
			GradesDistribution: []GradeCount{
				{Name: "1ro", Value: 12},
				{Name: "2do", Value: 9},
			},
			Answers: map[string]YesNoCount{
				questionTemario: {Yes: 30, No: 10},
				questionCiclos:  {Yes: 12, No: 6},
			},
		},
		ByGrade: map[string]GradeData{
			"1ro": {
				Responses: 12,
				Answers: map[string]YesNoCount{
					questionTemario: {Yes: 10, No: 2},
					questionCiclos:  {Yes: 8, No: 4},
				},
			},
			"2do": {
				Responses: 9,
				Answers: map[string]YesNoCount{
					questionTemario: {Yes: 0, No: 0},
					questionCiclos:  {Yes: 4, No: 2},
				},
			},
		},
	}
}

func TestParseValidDocument(t *testing.T) {
	doc := `{
		"meta": {"sourceFile": "r.xlsx", "validResponses": 2, "note": "n"},
		"questions": ["¿Continuar el temario?"],
		"overall": {
			"responses": 2,
			"gradesDistribution": [{"name": "1ro", "value": 2}],
			"answers": {"¿Continuar el temario?": {"Si": 2, "No": 0}}
		},
		"byGrade": {
			"1ro": {"responses": 2, "answers": {"¿Continuar el temario?": {"Si": 2, "No": 0}}}
		}
	}`

	data, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.Meta.ValidResponses != 2 {
		t.Fatalf("validResponses = %d, want 2", data.Meta.ValidResponses)
	}
	if got := data.Overall.Answers["¿Continuar el temario?"]; got.Yes != 2 || got.No != 0 {
		t.Fatalf("overall answers = %+v", got)
	}
	if err := data.Validate(); err != nil {
		t.Fatalf("valid document failed validation: %v", err)
	}
}

func TestParseRejectsStructurallyBrokenDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "invalid json", doc: `{"questions": [`},
		{name: "no questions", doc: `{"questions": [], "overall": {"answers": {}}, "byGrade": {}}`},
		{name: "missing overall answers", doc: `{"questions": ["q"], "overall": {}, "byGrade": {}}`},
		{name: "grade without answers", doc: `{"questions": ["q"], "overall": {"answers": {}}, "byGrade": {"1ro": {"responses": 1}}}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tc.doc)); err == nil {
				t.Fatalf("expected error for %s", tc.name)
			}
		})
	}
}

func TestValidateInvariants(t *testing.T) {
	t.Run("accepts consistent document", func(t *testing.T) {
		if err := testData().Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("question missing from a grade", func(t *testing.T) {
		data := testData()
		delete(data.ByGrade["2do"].Answers, questionCiclos)
		err := data.Validate()
		if !errors.Is(err, ErrQuestionMissing) {
			t.Fatalf("expected ErrQuestionMissing, got %v", err)
		}
	})

	t.Run("question missing from overall", func(t *testing.T) {
		data := testData()
		delete(data.Overall.Answers, questionTemario)
		err := data.Validate()
		if !errors.Is(err, ErrQuestionMissing) {
			t.Fatalf("expected ErrQuestionMissing, got %v", err)
		}
	})

	t.Run("distribution entry without grade", func(t *testing.T) {
		data := testData()
		data.Overall.GradesDistribution[1].Name = "3ro"
		err := data.Validate()
		if !errors.Is(err, ErrMalformedData) {
			t.Fatalf("expected ErrMalformedData, got %v", err)
		}
	})

	t.Run("distribution value disagrees with responses", func(t *testing.T) {
		data := testData()
		data.Overall.GradesDistribution[0].Value = 99
		err := data.Validate()
		if !errors.Is(err, ErrMalformedData) {
			t.Fatalf("expected ErrMalformedData, got %v", err)
		}
	})

	t.Run("negative tally", func(t *testing.T) {
		data := testData()
		data.Overall.Answers[questionTemario] = YesNoCount{Yes: -1, No: 0}
		err := data.Validate()
		if !errors.Is(err, ErrMalformedData) {
			t.Fatalf("expected ErrMalformedData, got %v", err)
		}
	})
}
