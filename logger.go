package loopsched

import (
	"fmt"
	"os"
)

// Logger is the minimal diagnostic sink loopsched and its subpackages
// call into, per SPEC_FULL.md §9. NopLogger (the default) makes every
// call a no-op; StderrLogger writes level-prefixed lines to os.Stderr, the
// way the teacher's examples package logs runnable-example output
// (_examples/katalvlaran-lvlath/examples).
type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
}

// NopLogger discards every message.
type NopLogger struct{}

// Debugf implements Logger.
func (NopLogger) Debugf(string, ...any) {}

// Warnf implements Logger.
func (NopLogger) Warnf(string, ...any) {}

// StderrLogger writes every message to os.Stderr, prefixed by level.
type StderrLogger struct{}

// Debugf implements Logger.
func (StderrLogger) Debugf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "DEBUG loopsched: "+format+"\n", args...)
}

// Warnf implements Logger.
func (StderrLogger) Warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "WARN loopsched: "+format+"\n", args...)
}

// debugAdapter lets a loopsched.Logger satisfy the narrower Debugf-only
// Logger interfaces loopblock and costmodel each declare, without those
// packages importing loopsched (which would cycle).
type debugAdapter struct{ l Logger }

func (d debugAdapter) Debugf(format string, args ...any) { d.l.Debugf(format, args...) }
