// Package logging provides the common.Logger used by the command line and
// the tests: levelled lines written to an io.Writer.
package logging

import (
	"fmt"
	"io"
	"sync"

	"github.com/mgmeyers/unipdf/v3/common"
)

// Logger writes one "[LEVEL] message" line per call. It is safe for use by
// several documents processed at once.
type Logger struct {
	level common.LogLevel
	mu    sync.Mutex
	w     io.Writer
}

var _ common.Logger = (*Logger)(nil)

func New(level common.LogLevel, w io.Writer) *Logger {
	return &Logger{level: level, w: w}
}

func (l *Logger) IsLogLevel(level common.LogLevel) bool {
	return l.level >= level
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.output(common.LogLevelError, "[ERROR] ", format, args...)
}

func (l *Logger) Warning(format string, args ...interface{}) {
	l.output(common.LogLevelWarning, "[WARNING] ", format, args...)
}

func (l *Logger) Notice(format string, args ...interface{}) {
	l.output(common.LogLevelNotice, "[NOTICE] ", format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.output(common.LogLevelInfo, "[INFO] ", format, args...)
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.output(common.LogLevelDebug, "[DEBUG] ", format, args...)
}

func (l *Logger) Trace(format string, args ...interface{}) {
	l.output(common.LogLevelTrace, "[TRACE] ", format, args...)
}

func (l *Logger) output(level common.LogLevel, prefix, format string, args ...interface{}) {
	if !l.IsLogLevel(level) {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.w, prefix+format+"\n", args...)
}
