package logger

import (
	"github.com/sirupsen/logrus"
)

// Logger defines the inkwell logging contract.
// Implementations should support standard log levels and be safe for concurrent use.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Debug(msg string, args ...any)
}

// LogrusLogger implements the logging contract on a logrus logger.
type LogrusLogger struct {
	logger *logrus.Logger
}

// NewLogrusLogger creates a LogrusLogger writing text-formatted lines
// to stderr at debug level.
func NewLogrusLogger() *LogrusLogger {
	l := logrus.New()
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return &LogrusLogger{logger: l}
}

func (l *LogrusLogger) Info(msg string, args ...any) {
	l.logger.Infof(msg, args...)
}

func (l *LogrusLogger) Warn(msg string, args ...any) {
	l.logger.Warnf(msg, args...)
}

func (l *LogrusLogger) Error(msg string, args ...any) {
	l.logger.Errorf(msg, args...)
}

func (l *LogrusLogger) Debug(msg string, args ...any) {
	l.logger.Debugf(msg, args...)
}

// Default provides a global default logger instance.
var Default Logger = NewLogrusLogger()
