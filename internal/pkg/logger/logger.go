package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type Level = logrus.Level

const (
	DEBUG = logrus.DebugLevel
	INFO  = logrus.InfoLevel
	WARN  = logrus.WarnLevel
	ERROR = logrus.ErrorLevel
	FATAL = logrus.FatalLevel
)

// Fields is an alias so callers don't need to import logrus directly.
type Fields = logrus.Fields

// Logger wraps a logrus logger with the helpers used across the service.
type Logger struct {
	*logrus.Logger
}

// New creates a logger at the given level. Production environments log JSON.
func New(level Level, env string) *Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetLevel(level)
	if env == "production" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"})
	}
	return &Logger{Logger: l}
}

// LogError records a failure with the module and function it came from.
func (l *Logger) LogError(module, funcName, context string, data interface{}, err error) {
	l.WithFields(logrus.Fields{
		"module":   module,
		"function": funcName,
		"context":  context,
		"data":     data,
	}).WithError(err).Error("operation failed")
}

// ParseLevel converts a config string to a level, falling back to INFO.
func ParseLevel(s string) Level {
	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return INFO
	}
	return lvl
}

// Global logger instance
var defaultLogger = New(INFO, "development")

// Default returns the process-wide logger.
func Default() *Logger { return defaultLogger }

// Configure replaces the global logger's level and format.
func Configure(level Level, env string) {
	defaultLogger = New(level, env)
}

// SetOutput redirects the global logger, mostly for tests.
func SetOutput(w io.Writer) { defaultLogger.SetOutput(w) }

// Package-level functions for easy access
func Debug(format string, v ...interface{}) { defaultLogger.Debugf(format, v...) }
func Info(format string, v ...interface{})  { defaultLogger.Infof(format, v...) }
func Warn(format string, v ...interface{})  { defaultLogger.Warnf(format, v...) }
func Error(format string, v ...interface{}) { defaultLogger.Errorf(format, v...) }
func Fatal(format string, v ...interface{}) { defaultLogger.Fatalf(format, v...) }

func WithFields(fields Fields) *logrus.Entry { return defaultLogger.WithFields(fields) }

func LogError(module, funcName, context string, data interface{}, err error) {
	defaultLogger.LogError(module, funcName, context, data, err)
}

// SetGlobalLevel sets the level for the global logger
func SetGlobalLevel(level Level) {
	defaultLogger.SetLevel(level)
}
