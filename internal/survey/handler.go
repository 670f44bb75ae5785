package survey

import (
	"errors"
	"html/template"
	"net/http"
	"strings"

	"surveydash/internal/app/apiresp"

	"go.uber.org/zap"
)

type Handler struct {
	svc  dashboardService
	tmpl *template.Template
	log  *zap.Logger
}

type dashboardService interface {
	BuildView(selection string) (*DashboardView, error)
	Scopes() []string
}

func NewHandler(svc dashboardService, tmpl *template.Template, log *zap.Logger) *Handler {
	return &Handler{svc: svc, tmpl: tmpl, log: log}
}

type errorPage struct {
	Title   string
	Message string
	Scope   string
}

// Dashboard renders the HTML dashboard for the scope in the query string.
// An unknown scope gets an explicit error page, never a blank render.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	scope := strings.TrimSpace(r.URL.Query().Get("scope"))

	view, err := h.svc.BuildView(scope)
	if err != nil {
		if errors.Is(err, ErrScopeNotFound) {
			h.renderError(w, http.StatusNotFound, errorPage{
				Title:   "Grado no encontrado",
				Message: "El grado seleccionado no existe en los resultados de la encuesta.",
				Scope:   scope,
			})
			return
		}
		h.log.Error("build dashboard view", zap.String("scope", scope), zap.Error(err))
		h.renderError(w, http.StatusInternalServerError, errorPage{
			Title:   "Error interno",
			Message: "No se pudieron preparar los resultados de la encuesta.",
		})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, "dashboard", view); err != nil {
		h.log.Error("render dashboard", zap.String("scope", scope), zap.Error(err))
	}
}

// Summary is the JSON twin of Dashboard.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	scope := strings.TrimSpace(r.URL.Query().Get("scope"))

	view, err := h.svc.BuildView(scope)
	if err != nil {
		if errors.Is(err, ErrScopeNotFound) {
			apiresp.WriteError(w, r, http.StatusNotFound, err.Error())
			return
		}
		h.log.Error("build summary", zap.String("scope", scope), zap.Error(err))
		apiresp.WriteError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	apiresp.WriteData(w, r, http.StatusOK, view)
}

// ListScopes returns the selectable scopes in display order.
func (h *Handler) ListScopes(w http.ResponseWriter, r *http.Request) {
	apiresp.WriteData(w, r, http.StatusOK, h.svc.Scopes())
}

func (h *Handler) renderError(w http.ResponseWriter, status int, page errorPage) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.tmpl.ExecuteTemplate(w, "error", page); err != nil {
		h.log.Error("render error page", zap.Error(err))
	}
}
