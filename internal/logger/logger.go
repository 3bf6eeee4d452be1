// Package logger provides leveled, file-backed logging for the console.
// Log output goes to a file in the cache directory so it never draws over
// the terminal UI.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/truckline/dispatchdesk/internal/config"
	"github.com/truckline/dispatchdesk/pkg/api/interfaces"
)

// LogFileName is the name of the log file inside the cache directory.
const LogFileName = "dispatchdesk.log"

// Level represents the logging level.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the log level.
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

// Logger implements interfaces.Logger with a configurable output and level.
type Logger struct {
	mu     sync.Mutex
	out    *log.Logger
	level  Level
	prefix string
	output io.Writer
}

// Config holds configuration for the logger.
type Config struct {
	Level      Level
	Output     io.Writer
	LogToFile  bool
	LogFile    string
	TimeFormat string
}

// NewInternalLogger creates a logger writing to LogFileName in cacheDir.
func NewInternalLogger(level Level, cacheDir string) (*Logger, error) {
	logsDir := cacheDir
	if logsDir == "" {
		logsDir = "."
	}

	if err := os.MkdirAll(logsDir, 0o750); err != nil {
		logsDir = "."
	}

	return NewLogger(&Config{
		Level:     level,
		LogToFile: true,
		LogFile:   filepath.Join(logsDir, LogFileName),
	})
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() *Config {
	return &Config{
		Level:      LevelInfo,
		Output:     os.Stdout,
		TimeFormat: "2006-01-02 15:04:05",
	}
}

// NewLogger creates a new logger with the given configuration.
func NewLogger(cfg *Config) (*Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	if cfg.LogToFile && cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}

		if cfg.Output == os.Stdout {
			output = io.MultiWriter(os.Stdout, file)
		} else {
			output = file
		}
	}

	return &Logger{
		out:    log.New(output, "", 0),
		level:  cfg.Level,
		output: output,
	}, nil
}

// NewSimpleLogger creates a logger that writes to stderr with the given
// level. It is used by the CLI commands that run without the UI.
func NewSimpleLogger(level Level) *Logger {
	l, _ := NewLogger(&Config{Level: level, Output: os.Stderr})

	return l
}

// WithPrefix returns a logger sharing l's output that tags every message
// with [prefix].
func (l *Logger) WithPrefix(prefix string) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	return &Logger{out: l.out, level: l.level, prefix: prefix, output: l.output}
}

func (l *Logger) logf(level Level, format string, args ...interface{}) {
	l.mu.Lock()
	enabled := l.level <= level
	l.mu.Unlock()

	if !enabled {
		return
	}

	message := fmt.Sprintf(format, args...)
	if l.prefix != "" {
		message = "[" + l.prefix + "] " + message
	}

	// log.Logger serializes writes.
	l.out.Printf("[%s] [%s] %s", time.Now().Format("2006-01-02 15:04:05"), level, message)
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) { l.logf(LevelDebug, format, args...) }

// Info logs an info message.
func (l *Logger) Info(format string, args ...interface{}) { l.logf(LevelInfo, format, args...) }

// Warn logs a warning.
func (l *Logger) Warn(format string, args ...interface{}) { l.logf(LevelWarn, format, args...) }

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) { l.logf(LevelError, format, args...) }

// SetLevel changes the logging level.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.level = level
}

// GetLevel returns the current logging level.
func (l *Logger) GetLevel() Level {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.level
}

// Close closes the log file if the logger writes to one.
func (l *Logger) Close() error {
	if closer, ok := l.output.(io.Closer); ok {
		return closer.Close()
	}

	return nil
}

var _ interfaces.Logger = (*Logger)(nil)

// Global logger shared by every package.
var (
	globalMu     sync.Mutex
	globalLogger *Logger
)

// InitGlobalLogger opens the shared log file in cacheDir. On failure the
// global logger falls back to stderr and the error is returned.
func InitGlobalLogger(level Level, cacheDir string) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalLogger != nil {
		return nil
	}

	l, err := NewInternalLogger(level, cacheDir)
	if err != nil {
		globalLogger = NewSimpleLogger(level)
		return err
	}

	globalLogger = l

	return nil
}

// GetGlobalLogger returns the shared logger, creating an Info-level stderr
// logger if InitGlobalLogger was never called.
func GetGlobalLogger() *Logger {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalLogger == nil {
		globalLogger = NewSimpleLogger(LevelFromDebug(config.DebugEnabled))
	}

	return globalLogger
}

// GetPackageLogger returns the shared logger tagged with packageName.
func GetPackageLogger(packageName string) interfaces.Logger {
	return GetGlobalLogger().WithPrefix(packageName)
}

// LevelFromDebug maps the debug flag to a level.
func LevelFromDebug(debug bool) Level {
	if debug {
		return LevelDebug
	}

	return LevelInfo
}

// resetGlobal is used by tests.
func resetGlobal() {
	globalMu.Lock()
	defer globalMu.Unlock()

	globalLogger = nil
}
