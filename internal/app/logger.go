package app

import "go.uber.org/zap"

// NewLogger builds the process logger: human-readable in development,
// JSON in anything else.
func NewLogger(appEnv string) (*zap.Logger, error) {
	if appEnv == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
