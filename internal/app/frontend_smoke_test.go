package app

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"surveydash/internal/survey"

	"go.uber.org/zap"
)

func smokeData() *survey.Data {
	q := "¿Continuar el temario?"
	return &survey.Data{
		Meta:      survey.Meta{SourceFile: "r.xlsx", ValidResponses: 21},
		Questions: []string{q},
		Overall: survey.Overall{
			Responses: 21,
			GradesDistribution: []survey.GradeCount{
				{Name: "1ro", Value: 12},
				{Name: "2do", Value: 9},
			},
			Answers: map[string]survey.YesNoCount{q: {Yes: 30, No: 10}},
		},
		ByGrade: map[string]survey.GradeData{
			"1ro": {Responses: 12, Answers: map[string]survey.YesNoCount{q: {Yes: 10, No: 2}}},
			"2do": {Responses: 9, Answers: map[string]survey.YesNoCount{q: {Yes: 0, No: 0}}},
		},
	}
}

func TestFrontendSmokeRoutes(t *testing.T) {
	restore := chdirToRepoRoot(t)
	defer restore()

	router := NewRouter(Config{RateLimitPerMin: 1000}, smokeData(), zap.NewNop())

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantBody   string
	}{
		{name: "dashboard", target: "/", wantStatus: http.StatusOK, wantBody: "Sí: 30 (75%)"},
		{name: "dashboard_shows_distribution", target: "/", wantStatus: http.StatusOK, wantBody: "Respuestas por grado"},
		{name: "dashboard_grade", target: "/?scope=1ro", wantStatus: http.StatusOK, wantBody: "Sí: 10 (83%)"},
		{name: "dashboard_zero_tally", target: "/?scope=2do", wantStatus: http.StatusOK, wantBody: "Sí: 0 (0%)"},
		{name: "dashboard_unknown_scope", target: "/?scope=7mo", wantStatus: http.StatusNotFound, wantBody: "Grado no encontrado"},
		{name: "healthz", target: "/healthz", wantStatus: http.StatusOK, wantBody: `{"ok":true}`},
		{name: "metrics", target: "/metrics", wantStatus: http.StatusOK, wantBody: "surveydash_survey_valid_responses 21"},
		{name: "api_scopes", target: "/api/v1/survey/scopes", wantStatus: http.StatusOK, wantBody: "Toda la escuela"},
		{name: "api_summary", target: "/api/v1/survey/summary?scope=1ro", wantStatus: http.StatusOK, wantBody: `"responses":12`},
		{name: "api_summary_unknown", target: "/api/v1/survey/summary?scope=7mo", wantStatus: http.StatusNotFound, wantBody: "not_found"},
		{name: "static_css", target: "/static/css/app.css?v=test", wantStatus: http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tc.wantStatus {
				t.Fatalf("GET %s: got status %d, want %d", tc.target, w.Code, tc.wantStatus)
			}
			if tc.wantBody != "" && !strings.Contains(w.Body.String(), tc.wantBody) {
				t.Fatalf("GET %s: body missing %q:\n%s", tc.target, tc.wantBody, w.Body.String())
			}
		})
	}
}

func TestFrontendSmokeGradeHidesDistribution(t *testing.T) {
	restore := chdirToRepoRoot(t)
	defer restore()

	router := NewRouter(Config{RateLimitPerMin: 1000}, smokeData(), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/?scope=1ro", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", w.Code)
	}
	if strings.Contains(w.Body.String(), "Respuestas por grado") {
		t.Fatalf("distribution chart must only render for the whole school")
	}
}

func chdirToRepoRoot(t *testing.T) func() {
	t.Helper()

	start, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}

	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("repo root not found from %s", start)
		}
		dir = parent
	}

	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	return func() {
		if err := os.Chdir(start); err != nil {
			t.Fatalf("restore cwd: %v", err)
		}
	}
}
