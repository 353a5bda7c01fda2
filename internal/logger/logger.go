package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.SugaredLogger

// Init builds the global sugared logger. JSON output, ISO8601 timestamps;
// level comes from LOG_LEVEL.
func Init() {
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	var level zapcore.Level
	switch logLevel {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      os.Getenv("APP_ENV") == "development",
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	built, err := config.Build()
	if err != nil {
		fallback := zap.NewExample()
		log = fallback.Sugar()
		log.Warnw("failed to initialize logger, using fallback", "error", err)
		return
	}

	log = built.Sugar()
}

// L returns the global logger, initializing a default one if needed.
func L() *zap.SugaredLogger {
	if log == nil {
		Init()
	}
	return log
}

func Debug(msg string, keysAndValues ...interface{}) {
	L().Debugw(msg, keysAndValues...)
}

func Info(msg string, keysAndValues ...interface{}) {
	L().Infow(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...interface{}) {
	L().Warnw(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...interface{}) {
	L().Errorw(msg, keysAndValues...)
}

func Sync() {
	if log != nil {
		_ = log.Sync()
	}
}
