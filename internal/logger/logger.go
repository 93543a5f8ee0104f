// Package logger provides leveled logging for the indexing pipeline and query runtime.
// Warnings and errors are always printed; debug output only appears in verbose mode.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	mu         sync.RWMutex
	verbose    bool
	timestamps           = true
	output     io.Writer = os.Stderr
)

// SetVerbose enables or disables debug logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// SetTimestamps toggles the leading timestamp on each line.
func SetTimestamps(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	timestamps = enabled
}

func write(level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	prefix := "[" + level + "] "
	if timestamps {
		prefix = time.Now().Format("2006/01/02 15:04:05") + " " + prefix
	}
	fmt.Fprintf(output, prefix+format+"\n", args...)
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	if !IsVerbose() {
		return
	}
	write("DEBUG", format, args...)
}

// Info prints an informational message.
func Info(format string, args ...any) {
	write("INFO", format, args...)
}

// Warn prints a warning. Used for recoverable failures that skip work.
func Warn(format string, args ...any) {
	write("WARN", format, args...)
}

// Error prints an error that aborted an operation.
func Error(format string, args ...any) {
	write("ERROR", format, args...)
}
