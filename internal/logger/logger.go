// Package logger configures the zerolog logger shared by every nmclean component.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu     sync.RWMutex
	logger = zerolog.Nop()
	file   *os.File
)

// ParseLevel maps a config/flag level name to a zerolog level.
// Unknown names fall back to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "off", "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// Init sets up the global logger. When path is empty logs go to stderr in a
// human friendly console format, otherwise they are appended to path as JSON.
func Init(level, path string) error {
	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}

	if path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		out = f

		mu.Lock()
		closeFileLocked()
		file = f
		mu.Unlock()
	}

	l := zerolog.New(out).With().Timestamp().Logger().Level(ParseLevel(level))

	mu.Lock()
	logger = l
	mu.Unlock()
	return nil
}

// Set replaces the global logger. Tests use it to capture output.
func Set(l zerolog.Logger) {
	mu.Lock()
	logger = l
	mu.Unlock()
}

// Quiet silences console logging while the full-screen UI owns the terminal.
// A file-backed logger is left untouched.
func Quiet() {
	mu.Lock()
	defer mu.Unlock()
	if file == nil {
		logger = zerolog.Nop()
	}
}

// Close releases the log file, if any.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	closeFileLocked()
	logger = zerolog.Nop()
}

func closeFileLocked() {
	if file != nil {
		_ = file.Close()
		file = nil
	}
}

// Get returns the current logger.
func Get() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := logger
	return &l
}

func Debug() *zerolog.Event { return Get().Debug() }

func Info() *zerolog.Event { return Get().Info() }

func Warn() *zerolog.Event { return Get().Warn() }

func Error() *zerolog.Event { return Get().Error() }
