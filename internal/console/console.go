// Package console prints the single-line status messages operators read.
package console

import (
	"fmt"
	"io"
)

// Logger prefixes every line with the bracketed build tag, e.g. "[v27] ...".
type Logger struct {
	w   io.Writer
	tag string
}

// New returns a Logger writing to w.
func New(w io.Writer, tag string) *Logger {
	return &Logger{w: w, tag: tag}
}

// Printf writes one tagged line. A trailing newline is always added.
func (l *Logger) Printf(format string, args ...any) {
	fmt.Fprintf(l.w, "[%s] %s\n", l.tag, fmt.Sprintf(format, args...))
}
