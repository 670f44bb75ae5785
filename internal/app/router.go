package app

import (
	"html/template"
	"net/http"
	"time"

	"surveydash/internal/app/observability"
	"surveydash/internal/report"
	"surveydash/internal/survey"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func NewRouter(cfg Config, data *survey.Data, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	collector := observability.NewCollector(logger)
	collector.SetDataset(observability.DatasetInfo{
		ValidResponses: data.Meta.ValidResponses,
		Grades:         len(data.ByGrade),
		Questions:      len(data.Questions),
	})
	r.Use(collector.Middleware)

	tmpl := template.Must(template.ParseGlob("web/templates/layout/*.html"))
	template.Must(tmpl.ParseGlob("web/templates/pages/*.html"))

	svc := survey.NewService(data)
	surveyHandler := survey.NewHandler(svc, tmpl, logger)
	reportHandler := report.NewHandler(report.NewService(svc), logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	r.Get("/metrics", collector.MetricsHandler)

	r.Get("/", surveyHandler.Dashboard)

	limiter := NewIPRateLimiter(cfg.RateLimitPerMin, time.Minute)
	r.Route("/api/v1", func(api chi.Router) {
		api.Use(RateLimitMiddleware(limiter))
		api.Get("/survey/scopes", surveyHandler.ListScopes)
		api.Get("/survey/summary", surveyHandler.Summary)
		api.Get("/survey/export.xlsx", reportHandler.ExportExcel)
	})

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))

	return r
}
