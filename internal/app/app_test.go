package app

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/task-manager/internal/config"
	"github.com/adanyl0v/task-manager/internal/storage/memory"
)

func TestMustConnectStore(t *testing.T) {
	globalLogger = zerolog.Nop()

	store := MustConnectStore(config.DatabaseConfig{URL: "memory://", Name: "test"})
	assert.IsType(t, &memory.Store{}, store)

	assert.Panics(t, func() {
		MustConnectStore(config.DatabaseConfig{URL: "redis://localhost:6379", Name: "test"})
	})
	assert.Panics(t, func() {
		MustConnectStore(config.DatabaseConfig{URL: "://broken", Name: "test"})
	})
}

func TestMustInitApplicationLogger(t *testing.T) {
	globalLogger = zerolog.Nop()
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	MustInitApplicationLogger(&config.Config{Env: config.EnvDev})
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	assert.Panics(t, func() {
		MustInitApplicationLogger(&config.Config{Env: "staging"})
	})
}

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	names := make([]string, 0, len(cmd.Commands()))
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "migrate"}, names)

	flag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, "c", flag.Shorthand)

	cmd.SetArgs([]string{"unexpected"})
	assert.Error(t, cmd.Execute())
}
