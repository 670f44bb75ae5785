package report

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"surveydash/internal/app/apiresp"
	"surveydash/internal/survey"

	"go.uber.org/zap"
)

type Handler struct {
	svc exportService
	log *zap.Logger
}

type exportService interface {
	ExportSummaryExcel(scope string) ([]byte, string, error)
}

func NewHandler(svc exportService, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	scope := strings.TrimSpace(r.URL.Query().Get("scope"))

	data, filename, err := h.svc.ExportSummaryExcel(scope)
	if err != nil {
		if errors.Is(err, survey.ErrScopeNotFound) {
			apiresp.WriteError(w, r, http.StatusNotFound, err.Error())
			return
		}
		h.log.Error("export summary", zap.String("scope", scope), zap.Error(err))
		apiresp.WriteError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
