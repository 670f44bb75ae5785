package report

import (
	"bytes"
	"fmt"
	"strings"

	"surveydash/internal/survey"

	"github.com/xuri/excelize/v2"
)

// Service turns a dashboard view into a downloadable spreadsheet.
type Service struct {
	svc viewBuilder
}

type viewBuilder interface {
	BuildView(selection string) (*survey.DashboardView, error)
}

func NewService(svc viewBuilder) *Service {
	return &Service{svc: svc}
}

// ExportSummaryExcel builds the xlsx summary for one scope and returns the
// file bytes plus a download filename.
func (s *Service) ExportSummaryExcel(scope string) ([]byte, string, error) {
	view, err := s.svc.BuildView(scope)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	row := 1
	set := func(col int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	set(1, "Alcance")
	set(2, view.Scope)
	row++
	set(1, "Respuestas")
	set(2, view.Responses)
	row++
	set(1, "Respuestas válidas")
	set(2, view.ValidResponses)
	row++
	set(1, "Fuente")
	set(2, view.SourceFile)
	row += 2

	if len(view.Distribution) > 0 {
		set(1, "Grado")
		set(2, "Respuestas")
		row++
		for _, bar := range view.Distribution {
			set(1, bar.Name)
			set(2, bar.Value)
			row++
		}
		row++
	}

	headers := []string{"Pregunta", "Sí", "No", "Sí %", "No %"}
	for i, h := range headers {
		set(i+1, h)
	}
	row++
	for _, q := range view.Questions {
		if q.Missing {
			set(1, q.Question)
			set(2, "sin datos")
			row++
			continue
		}
		set(1, q.Question)
		set(2, q.Yes)
		set(3, q.No)
		set(4, q.YesPercent)
		set(5, q.NoPercent)
		row++
	}
	_ = f.SetColWidth(sheet, "A", "A", 64)
	_ = f.SetColWidth(sheet, "B", "E", 12)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), exportFilename(view.Scope), nil
}

func exportFilename(scope string) string {
	slug := strings.ToLower(strings.TrimSpace(scope))
	slug = strings.ReplaceAll(slug, " ", "-")
	return fmt.Sprintf("encuesta-%s.xlsx", slug)
}
