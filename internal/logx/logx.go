// Package logx is the thin logging façade every command and server
// wires through, matching the teacher's preference for the standard
// library's log package over a structured-logging dependency.
package logx

import (
	"log"
	"os"
)

// Logger is a prefix-scoped wrapper over the standard library logger.
type Logger struct {
	*log.Logger
}

// New returns a Logger writing to stderr with the given component
// prefix and timestamps.
func New(component string) *Logger {
	return &Logger{log.New(os.Stderr, "["+component+"] ", log.LstdFlags|log.Lmsgprefix)}
}

// With returns a derived logger scoped to a sub-component, keeping the
// same destination and flags.
func (l *Logger) With(sub string) *Logger {
	return &Logger{log.New(l.Writer(), l.Prefix()+"["+sub+"] ", log.LstdFlags|log.Lmsgprefix)}
}
