// Package logger wraps zap with the process-wide logger used by every layer
// above the pure domain model.
package logger

import (
	"os"

	"go.uber.org/zap"
)

var globalLogger *zap.Logger

// Init builds the process-wide logger. level overrides ME_LOG_LEVEL when
// non-empty; an empty level falls back to the environment variable, then to
// "info". Formatting follows GO_ENV: "production" gets the JSON production
// encoder, anything else gets the human-readable development encoder.
func Init(level string) error {
	env := os.Getenv("GO_ENV")
	var config zap.Config
	if env == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}

	if level == "" {
		level = os.Getenv("ME_LOG_LEVEL")
	}
	if level == "" {
		level = "info"
	}

	switch level {
	case "debug":
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		config.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	built, err := config.Build()
	if err != nil {
		return err
	}
	globalLogger = built
	return nil
}

// Get returns the global logger, falling back to a development logger if
// Init was never called (tests, tools).
func Get() *zap.Logger {
	if globalLogger == nil {
		globalLogger, _ = zap.NewDevelopment()
	}
	return globalLogger
}

// Sync flushes buffered log entries.
func Sync() error {
	if globalLogger != nil {
		return globalLogger.Sync()
	}
	return nil
}

// Shutdown is an alias for Sync kept for symmetry with Init.
func Shutdown() error {
	return Sync()
}

func Debug(msg string, fields ...zap.Field) { Get().Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { Get().Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { Get().Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { Get().Error(msg, fields...) }

// WithVillage returns a logger pre-tagged with village/owner context.
func WithVillage(villageID, ownerID string) *zap.Logger {
	fields := make([]zap.Field, 0, 2)
	if villageID != "" {
		fields = append(fields, zap.String("village_id", villageID))
	}
	if ownerID != "" {
		fields = append(fields, zap.String("owner_id", ownerID))
	}
	return Get().With(fields...)
}

// WithTroop returns a logger pre-tagged with troop/home-village context.
func WithTroop(troopID, homeID string) *zap.Logger {
	fields := make([]zap.Field, 0, 2)
	if troopID != "" {
		fields = append(fields, zap.String("troop_id", troopID))
	}
	if homeID != "" {
		fields = append(fields, zap.String("home_id", homeID))
	}
	return Get().With(fields...)
}

// WithTask returns a logger pre-tagged with scheduled-task context.
func WithTask(taskID, taskType string) *zap.Logger {
	fields := make([]zap.Field, 0, 2)
	if taskID != "" {
		fields = append(fields, zap.String("task_id", taskID))
	}
	if taskType != "" {
		fields = append(fields, zap.String("task_type", taskType))
	}
	return Get().With(fields...)
}
