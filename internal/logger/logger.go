// Package logger provides process-wide leveled logging for docsum.
// The CLI prints errors only unless --verbose is given; the HTTP and MCP
// servers run at info level so stage timings reach the operator.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level controls which messages are printed.
type Level int

// Log levels, from least to most chatty.
const (
	LevelError Level = iota
	LevelInfo
	LevelDebug
)

var (
	mu     sync.RWMutex
	level  = LevelError
	output io.Writer = os.Stderr
)

// SetVerbose enables or disables debug logging.
// Disabling returns to error-only output.
func SetVerbose(v bool) {
	if v {
		SetLevel(LevelDebug)
		return
	}
	SetLevel(LevelError)
}

// IsVerbose returns true if debug logging is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return level >= LevelDebug
}

// SetLevel sets the minimum level that is printed.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
}

// EnableInfo raises the level to info unless it is already higher.
func EnableInfo() {
	mu.Lock()
	defer mu.Unlock()
	if level < LevelInfo {
		level = LevelInfo
	}
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func logf(min Level, prefix, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if level >= min {
		fmt.Fprintf(output, prefix+format+"\n", args...)
	}
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	logf(LevelDebug, "[DEBUG] ", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if level >= LevelDebug {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Info prints an informational message at info level and above.
func Info(format string, args ...any) {
	logf(LevelInfo, "[INFO] ", format, args...)
}

// Warn prints a warning message at info level and above.
func Warn(format string, args ...any) {
	logf(LevelInfo, "[WARN] ", format, args...)
}

// Error prints an error message. Errors are always printed.
func Error(format string, args ...any) {
	logf(LevelError, "[ERROR] ", format, args...)
}

// Timed logs how long a stage took when the returned func is called.
//
//	defer logger.Timed("extraction")()
func Timed(stage string) func() {
	start := time.Now()
	return func() {
		Info("%s took %s", stage, time.Since(start).Round(time.Millisecond))
	}
}
