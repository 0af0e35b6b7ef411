package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateFromFlags(t *testing.T) {
	cfg := &Config{LogLevel: "info"}

	cfg.UpdateFromFlags(true, false, true, "debug")
	assert.True(t, cfg.Verbose)
	assert.False(t, cfg.Quiet)
	assert.True(t, cfg.NoColor)
	assert.Equal(t, "debug", cfg.LogLevel)

	// An empty log level flag leaves the configured value alone.
	cfg.UpdateFromFlags(false, true, false, "")
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Quiet)
}

func TestStringOrDefault(t *testing.T) {
	assert.Equal(t, "set", stringOrDefault("set", "fallback"))
	assert.Equal(t, "fallback", stringOrDefault("", "fallback"))
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("SCHEDCHECK_TEST_VAR", "from-env")
	assert.Equal(t, "from-env", getEnvOrDefault("SCHEDCHECK_TEST_VAR", "fallback"))
	assert.Equal(t, "fallback", getEnvOrDefault("SCHEDCHECK_TEST_UNSET", "fallback"))
}
