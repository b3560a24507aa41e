package app

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/adanyl0v/task-manager/internal/config"
)

// MustLoadConfig sets up logging and reads the config, from the .env file
// at path when it is given and from the environment otherwise.
func MustLoadConfig(path string) *config.Config {
	InitDefaultLogger()

	cfg, err := config.NewReader(path).Read()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("path", path).
			Msg("failed to read config")
		panic(err)
	}
	MustInitApplicationLogger(cfg)

	globalLogger.Info().
		Str("env", cfg.Env).
		Str("path", path).
		Msg("read config")
	return cfg
}
