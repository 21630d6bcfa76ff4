package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

// Logger provides structured, leveled logging throughout the application.
// All levels go to the same writer so that stdout stays free for rendered output.
type Logger struct {
	info    *log.Logger
	warn    *log.Logger
	err     *log.Logger
	debug   *log.Logger
	verbose bool
}

// NewLogger creates a Logger writing to stderr.
func NewLogger() *Logger {
	return NewLoggerTo(os.Stderr, false)
}

// NewLoggerTo creates a Logger writing to w. Debug lines are dropped unless verbose is set.
func NewLoggerTo(w io.Writer, verbose bool) *Logger {
	flags := 0
	return &Logger{
		info:    log.New(w, "", flags),
		warn:    log.New(w, "", flags),
		err:     log.New(w, "", flags),
		debug:   log.New(w, "", flags),
		verbose: verbose,
	}
}

// Discard returns a Logger that writes nothing. Used by tests.
func Discard() *Logger {
	return NewLoggerTo(io.Discard, false)
}

func (l *Logger) timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

func (l *Logger) Info(format string, args ...any) {
	l.info.Printf(fmt.Sprintf("[%s] \033[32mINFO\033[0m  %s\n", l.timestamp(), format), args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.warn.Printf(fmt.Sprintf("[%s] \033[33mWARN\033[0m  %s\n", l.timestamp(), format), args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.err.Printf(fmt.Sprintf("[%s] \033[31mERROR\033[0m %s\n", l.timestamp(), format), args...)
}

func (l *Logger) Debug(format string, args ...any) {
	if !l.verbose {
		return
	}
	l.debug.Printf(fmt.Sprintf("[%s] \033[36mDEBUG\033[0m %s\n", l.timestamp(), format), args...)
}
