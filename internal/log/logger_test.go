package log

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestConfigureReappliesLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)
	t.Setenv("LOG_LEVEL", "")

	// Bootstrap configuration, then the loaded configuration. The level
	// from the second call must win.
	Configure(Config{Level: "info"})
	Configure(Config{Level: "debug"})
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	Configure(Config{Level: "warn"})
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}

func TestConfigureWithoutLevelKeepsCurrent(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)
	t.Setenv("LOG_LEVEL", "")

	Configure(Config{Level: "debug"})
	// Callers without an explicit level (the lazy logger() path) must not
	// reset the level chosen at startup.
	Configure(Config{})
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestConfigureLevelFromEnv(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)
	t.Setenv("LOG_LEVEL", "error")

	Configure(Config{})
	assert.Equal(t, zerolog.ErrorLevel, zerolog.GlobalLevel())
}

func TestConfigureIgnoresInvalidLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)
	t.Setenv("LOG_LEVEL", "")

	Configure(Config{Level: "debug"})
	Configure(Config{Level: "loudest"})
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}
