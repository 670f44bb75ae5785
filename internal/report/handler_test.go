package report

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"surveydash/internal/survey"

	"go.uber.org/zap"
)

type mockExportService struct {
	exportFn func(scope string) ([]byte, string, error)
}

func (m *mockExportService) ExportSummaryExcel(scope string) ([]byte, string, error) {
	if m.exportFn == nil {
		return nil, "", errors.New("not implemented")
	}
	return m.exportFn(scope)
}

func TestExportExcelHandler(t *testing.T) {
	h := NewHandler(&mockExportService{
		exportFn: func(scope string) ([]byte, string, error) {
			if scope != "1ro" {
				t.Fatalf("unexpected scope %q", scope)
			}
			return []byte("xlsx-bytes"), "encuesta-1ro.xlsx", nil
		},
	}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/survey/export.xlsx?scope=1ro", nil)
	w := httptest.NewRecorder()
	h.ExportExcel(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Header().Get("Content-Disposition"); !strings.Contains(got, "encuesta-1ro.xlsx") {
		t.Fatalf("content disposition = %q", got)
	}
	if w.Body.String() != "xlsx-bytes" {
		t.Fatalf("unexpected body %q", w.Body.String())
	}
}

func TestExportExcelHandlerUnknownScope(t *testing.T) {
	h := NewHandler(&mockExportService{
		exportFn: func(scope string) ([]byte, string, error) {
			return nil, "", survey.ErrScopeNotFound
		},
	}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/survey/export.xlsx?scope=7mo", nil)
	w := httptest.NewRecorder()
	h.ExportExcel(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), "not_found") {
		t.Fatalf("expected not_found envelope, got %s", w.Body.String())
	}
}
