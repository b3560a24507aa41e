package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/task-manager/internal/config"
)

const serviceName = "task-manager"

var globalLogger zerolog.Logger

var envLogLevels = map[string]zerolog.Level{
	config.EnvDev:   zerolog.DebugLevel,
	config.EnvProd:  zerolog.InfoLevel,
	config.EnvLocal: zerolog.TraceLevel,
}

func newLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).
		With().
		Timestamp().
		Caller().
		Int("pid", os.Getpid()).
		Str("service", serviceName).
		Logger()
}

func InitDefaultLogger() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	zerolog.TimestampFieldName = "timestamp"

	globalLogger = newLogger(os.Stdout)
	globalLogger.Debug().Msg("initialized default logger")
}

// MustInitApplicationLogger sets the level for cfg.Env. The local env also
// switches to human-readable console output.
func MustInitApplicationLogger(cfg *config.Config) {
	level, ok := envLogLevels[cfg.Env]
	if !ok {
		globalLogger.Error().
			Str("env", cfg.Env).
			Msg("unknown env")
		panic(fmt.Errorf("unknown env: %s", cfg.Env))
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Env == config.EnvLocal {
		consoleWriter := zerolog.NewConsoleWriter()
		consoleWriter.TimeFormat = time.DateTime
		consoleWriter.Out = os.Stdout
		globalLogger = globalLogger.Output(consoleWriter)
	}

	globalLogger = globalLogger.With().Str("env", cfg.Env).Logger()
	globalLogger.Info().
		Str("level", level.String()).
		Msg("initialized application logger")
}
