// Package debug provides debug logging infrastructure for vercheck.
// Logging is only enabled when the -debug flag (or the debug config key) is set.
// Logs are written to ~/.vercheck/debug.log, truncated on each launch.
//
// A Logger is constructed once by the command and handed to the packages
// that want to log. A nil *Logger is valid and discards everything.
package debug

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	// LogFileName is the name of the debug log file.
	LogFileName = "debug.log"
	// LogDirName is the name of the directory containing the log file.
	LogDirName = ".vercheck"
)

// Logger writes timestamped debug lines to a file. It is safe for concurrent use.
type Logger struct {
	mu      sync.Mutex
	logger  *log.Logger
	logFile *os.File
}

// Discard returns an enabled-looking logger that drops every message.
func Discard() *Logger {
	return &Logger{logger: log.New(io.Discard, "", 0)}
}

// New creates a logger writing to w. Used by tests and by callers that
// already own an output stream.
func New(w io.Writer) *Logger {
	return &Logger{logger: log.New(w, "", log.Ldate|log.Ltime|log.Lmicroseconds)}
}

// Open initializes file logging at path.
// If enable is false, the returned logger is nil and every call is a no-op.
// If enable is true, the log file is created or truncated.
func Open(enable bool, path string) (*Logger, error) {
	if !enable {
		return nil, nil
	}

	//nolint:gosec // G301: User config directory needs standard permissions
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	//nolint:gosec // G304: Log path is computed from user home, not user input
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	l := New(f)
	l.logFile = f
	l.logger.Printf("=== vercheck debug log started at %s ===", time.Now().Format(time.RFC3339))
	return l, nil
}

// Close closes the debug log file if open.
// Safe to call on a nil or already closed logger.
func (l *Logger) Close() {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logFile != nil {
		_ = l.logFile.Close()
		l.logFile = nil
		l.logger = log.New(io.Discard, "", 0)
	}
}

// Log writes a debug message. Arguments are handled in the manner of fmt.Print.
func (l *Logger) Log(v ...any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.Print(v...)
}

// Logf writes a formatted debug message.
// Arguments are handled in the manner of fmt.Printf.
func (l *Logger) Logf(format string, v ...any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.Printf(format, v...)
}

// Enabled reports whether messages reach a destination.
func (l *Logger) Enabled() bool {
	return l != nil
}

// DefaultLogPath returns the path to the debug log file under the user's home.
func DefaultLogPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determine user home: %w", err)
	}
	return filepath.Join(home, LogDirName, LogFileName), nil
}
