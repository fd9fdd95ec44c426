package core

import "fmt"

// Logger interface for diagnostics emitted while photons propagate
type Logger interface {
	Printf(format string, args ...interface{})
}

// Sampler provides uniform random numbers to the stepping engine.
// Implementations must never return 0 since samples feed a logarithm.
type Sampler interface {
	Get1D() float64
}

// DefaultLogger implements Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() Logger {
	return &DefaultLogger{}
}

// NopLogger discards everything
type NopLogger struct{}

func (NopLogger) Printf(string, ...interface{}) {}
