package main

import (
	"log"
	"net/http"

	"surveydash/internal/app"
	"surveydash/internal/survey"

	"go.uber.org/zap"
)

func main() {
	cfg := app.LoadConfig()

	logger, err := app.NewLogger(cfg.AppEnv)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	data, err := survey.LoadFile(cfg.SurveyDataPath)
	if err != nil {
		logger.Fatal("load survey data", zap.String("path", cfg.SurveyDataPath), zap.Error(err))
	}
	if err := data.Validate(); err != nil {
		// Render-time handling degrades per section; still worth a warning.
		logger.Warn("survey data violates invariants", zap.Error(err))
	}

	r := app.NewRouter(cfg, data, logger)

	logger.Info("surveydash web listening",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("source", data.Meta.SourceFile),
		zap.Int("valid_responses", data.Meta.ValidResponses),
		zap.Int("grades", len(data.ByGrade)),
	)
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
