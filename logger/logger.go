package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"salesdash/config"
)

// New builds a zap logger from the logger settings. Production environments
// get the JSON production preset, everything else the development one.
func New(appEnv string, cfg config.LoggerConfig) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	if appEnv == "prod" || appEnv == "production" {
		zc = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	if cfg.Encoding == "json" || cfg.Encoding == "console" {
		zc.Encoding = cfg.Encoding
	}
	zc.DisableCaller = cfg.DisableCaller
	zc.DisableStacktrace = cfg.DisableStacktrace
	zc.EncoderConfig.TimeKey = "ts"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zc.Build()
}
