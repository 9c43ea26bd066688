package logger

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestGetLogLevel(t *testing.T) {
	os.Setenv("LOG_LEVEL", "warn")
	assert.Equal(t, zerolog.WarnLevel, getLogLevel())

	// Unknown level names fall back to info
	os.Setenv("LOG_LEVEL", "nonsense")
	assert.Equal(t, zerolog.InfoLevel, getLogLevel())

	os.Unsetenv("LOG_LEVEL")
	os.Setenv("GRANTWATCH_ENVIRONMENT", "production")
	assert.Equal(t, zerolog.InfoLevel, getLogLevel())

	os.Unsetenv("GRANTWATCH_ENVIRONMENT")
	assert.Equal(t, zerolog.DebugLevel, getLogLevel())
}

func TestComponentLoggers(t *testing.T) {
	// Component constructors self-initialize when Init was never called
	Default = nil
	assert.NotPanics(t, func() {
		ForSource("Bpifrance").Info().Msg("source logger")
		ForWorker().Debug().Msg("worker logger")
		ForExtractor().Debug().Msg("extractor logger")
	})
	assert.NotNil(t, Default)
}
