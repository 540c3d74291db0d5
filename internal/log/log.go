// Package log provides structured logging for lexarg.
// Logging is off unless a log file is configured (log_file) or LEXARG_DEBUG
// is set; the lexarg library itself never logs.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config string to a Level. Unknown values map to debug.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelDebug
	}
}

// Category groups related log messages.
type Category string

const (
	CatCLI     Category = "cli"     // Command dispatch and argument handling
	CatConfig  Category = "config"  // Configuration loading/saving
	CatHarness Category = "harness" // Test harness option parsing
	CatRender  Category = "render"  // Token stream output
	CatTrace   Category = "trace"   // Tracing provider lifecycle
)

// Logger provides structured logging.
type Logger struct {
	mu       sync.Mutex
	writer   io.Writer
	enabled  bool
	minLevel Level
}

var (
	defaultLogger *Logger
	defaultMu     sync.Mutex
)

// Init opens path for appending and routes all logging there.
// Returns a cleanup function to close the log file.
func Init(path string) (func(), error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec // G304: path is user-controlled debug log path
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	setDefault(&Logger{
		writer:   f,
		enabled:  true,
		minLevel: LevelDebug,
	})

	return func() {
		setDefault(nil)
		_ = f.Close()
	}, nil
}

// InitWriter routes logging to w. Used by tests and by LEXARG_DEBUG=stderr.
// Returns a function that disables logging again.
func InitWriter(w io.Writer) func() {
	setDefault(&Logger{
		writer:   w,
		enabled:  true,
		minLevel: LevelDebug,
	})
	return func() { setDefault(nil) }
}

func setDefault(l *Logger) {
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

func current() *Logger {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultLogger
}

// SetEnabled toggles logging on/off.
func SetEnabled(enabled bool) {
	if l := current(); l != nil {
		l.mu.Lock()
		l.enabled = enabled
		l.mu.Unlock()
	}
}

// SetMinLevel sets the minimum log level.
func SetMinLevel(level Level) {
	if l := current(); l != nil {
		l.mu.Lock()
		l.minLevel = level
		l.mu.Unlock()
	}
}

// Debug logs at debug level.
func Debug(cat Category, msg string, fields ...any) {
	log(LevelDebug, cat, msg, fields...)
}

// Info logs at info level.
func Info(cat Category, msg string, fields ...any) {
	log(LevelInfo, cat, msg, fields...)
}

// Warn logs at warning level.
func Warn(cat Category, msg string, fields ...any) {
	log(LevelWarn, cat, msg, fields...)
}

// Error logs at error level.
func Error(cat Category, msg string, fields ...any) {
	log(LevelError, cat, msg, fields...)
}

// ErrorErr logs an error with the error value.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	if err != nil {
		fields = append(fields, "error", err.Error())
	} else {
		fields = append(fields, "error", "<nil>")
	}
	log(LevelError, cat, msg, fields...)
}

func log(level Level, cat Category, msg string, fields ...any) {
	l := current()
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.enabled || level < l.minLevel || l.writer == nil {
		return
	}

	// Format: 2025-12-06T10:45:00 [ERROR] [cli] message key=value key2=value2
	var entry strings.Builder
	entry.WriteString(time.Now().Format("2006-01-02T15:04:05"))
	fmt.Fprintf(&entry, " [%s] [%s] %s", level, cat, msg)

	for i := 0; i+1 < len(fields); i += 2 {
		fmt.Fprintf(&entry, " %v=%v", fields[i], fields[i+1])
	}
	// Odd field count: orphan key with no value
	if len(fields)%2 != 0 {
		fmt.Fprintf(&entry, " %v=<missing>", fields[len(fields)-1])
	}
	entry.WriteByte('\n')

	_, _ = io.WriteString(l.writer, entry.String())
}
