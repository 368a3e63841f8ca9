package db

import "go.uber.org/zap"

// NewLogger builds the zap.Logger a CLI entry point wires into New.
// debug widens the level to Debug (diagnostic-cycle tracing, deferred-
// node re-scan counts); otherwise the logger runs at Info, matching
// the teacher's own CLI-output logger configuration.
func NewLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.TimeKey = ""
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}
