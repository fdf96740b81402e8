// Package logger provides the zerolog logger shared by the kernel's
// packages. Callers obtain a component-scoped sub-logger via With, so
// every record names the kernel component that emitted it; the kernel
// itself only logs on contract violations, which makes the component
// field the fastest way to locate the offending call site.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

var root zerolog.Logger

func init() {
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	root = zerolog.New(output).With().Timestamp().Logger()

	if strings.HasSuffix(os.Args[0], ".test") {
		root = zerolog.Nop()
	}
}

// With returns a sub-logger tagged with the emitting kernel component
// ("assert", "symbolic", ...).
func With(component string) zerolog.Logger {
	return root.With().Str("component", component).Logger()
}

// SetOutput changes the output of the root logger.
func SetOutput(w io.Writer) {
	root = root.Output(w)
}

// Set replaces the root logger wholesale, for embedding the kernel in a
// solver that carries its own zerolog configuration.
func Set(l zerolog.Logger) {
	root = l
}

// Disable silences all kernel logging.
func Disable() {
	root = zerolog.Nop()
}
