package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// TestWithTagsTheComponent checks With produces a sub-logger whose
// records carry the component field alongside the message.
func TestWithTagsTheComponent(t *testing.T) {
	assert := require.New(t)
	var buf bytes.Buffer
	Set(zerolog.New(&buf))

	l := With("assert")
	l.Error().Msg("width mismatch")

	assert.Contains(buf.String(), "assert")
	assert.Contains(buf.String(), "width mismatch")
}

// TestSetOutputWritesToProvidedWriter checks SetOutput redirects the
// root logger's destination, including sub-loggers created afterwards.
func TestSetOutputWritesToProvidedWriter(t *testing.T) {
	assert := require.New(t)
	var buf bytes.Buffer
	Set(zerolog.New(&buf))

	var redirected bytes.Buffer
	SetOutput(&redirected)
	l := With("ops")
	l.Info().Msg("hello")

	assert.Empty(buf.String())
	assert.Contains(redirected.String(), "hello")
}

// TestDisableSilencesTheLogger checks Disable swaps in a no-op logger
// that writes nothing regardless of prior SetOutput/Set calls.
func TestDisableSilencesTheLogger(t *testing.T) {
	assert := require.New(t)
	var buf bytes.Buffer
	Set(zerolog.New(&buf))

	Disable()
	l := With("assert")
	l.Info().Msg("should not appear")

	assert.Empty(buf.String())
}

// TestSetReplacesTheRootLogger checks Set installs a caller-provided
// zerolog.Logger wholesale.
func TestSetReplacesTheRootLogger(t *testing.T) {
	assert := require.New(t)
	var buf bytes.Buffer
	Set(zerolog.New(&buf))

	l := With("core")
	l.Info().Msg("custom")

	assert.Contains(buf.String(), "custom")
}
