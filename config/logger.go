package config

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger = zap.NewNop()

// NewLogger builds the application logger for the configured level.
// Production logs are JSON, everything else uses the console encoder.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(strings.ToLower(cfg.LogLevel))); err != nil {
		level.SetLevel(zapcore.InfoLevel)
	}

	zapCfg := zap.Config{
		Encoding:         "console",
		Level:            level,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
	}
	if cfg.IsProduction() {
		zapCfg.Encoding = "json"
		zapCfg.EncoderConfig = zap.NewProductionEncoderConfig()
	}

	return zapCfg.Build()
}

// Logger returns the process-wide logger; a no-op logger until SetLogger is called
func Logger() *zap.Logger {
	return logger
}

// SetLogger replaces the process-wide logger
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}
