package internal

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelDebug, ParseLogLevel("debug"))
	assert.Equal(t, LogLevelError, ParseLogLevel("ERROR"))
	assert.Equal(t, LogLevelInfo, ParseLogLevel("verbose"))
	assert.Equal(t, LogLevelInfo, ParseLogLevel(""))
}

func TestLogger_ComponentAndLevel(t *testing.T) {
	var buf bytes.Buffer
	original := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(original)

	logger := NewLogger(LogLevelInfo).WithComponent("permutation")
	logger.Info("ran %d shuffles", 10)
	logger.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "[INFO] [permutation] ran 10 shuffles")
	assert.NotContains(t, out, "hidden")
	assert.Equal(t, LogLevelInfo, logger.GetLevel())
}

func TestLogger_SetLevel(t *testing.T) {
	logger := NewLogger(LogLevelError)
	derived := logger.WithComponent("before")
	logger.SetLevel(LogLevelDebug)

	assert.Equal(t, LogLevelDebug, logger.GetLevel())
	assert.Equal(t, LogLevelDebug, logger.WithComponent("after").GetLevel())
	assert.Equal(t, LogLevelError, derived.GetLevel())
}
