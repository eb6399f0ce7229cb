// Package logger предоставляет единый интерфейс логирования поверх logrus.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger — интерфейс логгера, который передаётся во все компоненты приложения.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(err error, format string, args ...any)
}

// LogrusLogger реализует Logger поверх logrus.
type LogrusLogger struct {
	log *logrus.Logger
}

// NewLogrusLogger создаёт JSON-логгер в stdout. Уровень берётся из LOG_LEVEL (debug, info, warn, error).
func NewLogrusLogger() *LogrusLogger {
	return NewLogrusLoggerWithWriter(os.Stdout, os.Getenv("LOG_LEVEL"))
}

func NewLogrusLoggerWithWriter(w io.Writer, level string) *LogrusLogger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(parseLevel(level))

	return &LogrusLogger{log: log}
}

func (l *LogrusLogger) Debugf(format string, args ...any) {
	l.log.Debugf(format, args...)
}

func (l *LogrusLogger) Infof(format string, args ...any) {
	l.log.Infof(format, args...)
}

func (l *LogrusLogger) Warnf(format string, args ...any) {
	l.log.Warnf(format, args...)
}

// Errorf пишет сообщение уровня error, ошибка выносится в поле error.
func (l *LogrusLogger) Errorf(err error, format string, args ...any) {
	entry := logrus.NewEntry(l.log)
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Error(fmt.Sprintf(format, args...))
}

func parseLevel(s string) logrus.Level {
	level, err := logrus.ParseLevel(strings.TrimSpace(s))
	if err != nil {
		return logrus.InfoLevel
	}

	return level
}
