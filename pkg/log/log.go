// Package log provides colored console output for diagnostics.
package log

import (
	"io"
	"os"

	"github.com/fatih/color"
)

var red = color.New(color.FgRed).FprintfFunc()
var blue = color.New(color.FgBlue).FprintfFunc()
var yellow = color.New(color.FgYellow).FprintfFunc()

// ErrorMsg prints an error message to stderr in red color.
func ErrorMsg(format string, a ...interface{}) {
	red(os.Stderr, "[!] Error: "+format, a...)
}

// InfoMsg prints an informational message to stderr in blue color.
func InfoMsg(format string, a ...interface{}) {
	blue(os.Stderr, "[+] "+format, a...)
}

// Logger writes diagnostics to a single writer. Verbose messages are only
// printed if the logger was created with verbose enabled.
// A nil *Logger discards everything.
type Logger struct {
	out     io.Writer
	verbose bool
}

// NewLogger returns a Logger writing to stderr.
func NewLogger(verbose bool) *Logger {
	return &Logger{out: os.Stderr, verbose: verbose}
}

// NewLoggerTo returns a Logger writing to w.
func NewLoggerTo(w io.Writer, verbose bool) *Logger {
	return &Logger{out: w, verbose: verbose}
}

// ErrorMsg prints an error message in red.
func (l *Logger) ErrorMsg(format string, a ...interface{}) {
	if l == nil {
		return
	}
	red(l.out, "[!] Error: "+format, a...)
}

// InfoMsg prints an informational message in blue.
func (l *Logger) InfoMsg(format string, a ...interface{}) {
	if l == nil {
		return
	}
	blue(l.out, "[+] "+format, a...)
}

// VerboseMsg prints a debug message in yellow if verbose output is enabled.
func (l *Logger) VerboseMsg(format string, a ...interface{}) {
	if l == nil || !l.verbose {
		return
	}
	yellow(l.out, "[v] "+format+"\n", a...)
}

// Verbose reports whether verbose output is enabled.
func (l *Logger) Verbose() bool {
	return l != nil && l.verbose
}
