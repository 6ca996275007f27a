// Package logrus adapts github.com/sirupsen/logrus to the logger.Logger
// interface, as a plain text alternative to the zerolog backend.
package logrus

import (
	"fmt"
	"os"

	"github.com/cryptoriginal/signalx/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Adapter wraps a logrus entry behind logger.Logger.
type Adapter struct {
	entry *logrus.Entry
}

// New builds an Adapter writing to stdout. The JSON formatter is used
// when jsonFormat is set, the text formatter otherwise.
func New(level, timeLayout string, colored, jsonFormat bool) (*Adapter, error) {
	logMode, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}

	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetLevel(logMode)

	if jsonFormat {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: timeLayout})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: timeLayout,
			ForceColors:     colored,
			DisableColors:   !colored,
		})
	}

	return &Adapter{entry: logrus.NewEntry(l)}, nil
}

// GetLevel implements logger.Logger.
func (a *Adapter) GetLevel() logger.Level {
	return toLevel(a.entry.Logger.GetLevel())
}

// SetLevel implements logger.Logger.
func (a *Adapter) SetLevel(level logger.Level) {
	a.entry.Logger.SetLevel(toLogrusLevel(level))
}

// Print implements logger.Logger.
func (a *Adapter) Print(args ...any) {
	a.entry.Print(args...)
}

// Trace implements logger.Logger.
func (a *Adapter) Trace(args ...any) {
	a.entry.Trace(args...)
}

// Debug implements logger.Logger.
func (a *Adapter) Debug(args ...any) {
	a.entry.Debug(args...)
}

// Info implements logger.Logger.
func (a *Adapter) Info(args ...any) {
	a.entry.Info(args...)
}

// Warn implements logger.Logger.
func (a *Adapter) Warn(args ...any) {
	a.entry.Warn(args...)
}

// Error implements logger.Logger.
func (a *Adapter) Error(args ...any) {
	a.entry.Error(args...)
}

// Fatal implements logger.Logger.
func (a *Adapter) Fatal(args ...any) {
	a.entry.Fatal(args...)
}

// Panic implements logger.Logger.
func (a *Adapter) Panic(args ...any) {
	a.entry.Panic(args...)
}

// Printf implements logger.Logger.
func (a *Adapter) Printf(format string, args ...any) {
	a.entry.Printf(format, args...)
}

// Tracef implements logger.Logger.
func (a *Adapter) Tracef(format string, args ...any) {
	a.entry.Tracef(format, args...)
}

// Debugf implements logger.Logger.
func (a *Adapter) Debugf(format string, args ...any) {
	a.entry.Debugf(format, args...)
}

// Infof implements logger.Logger.
func (a *Adapter) Infof(format string, args ...any) {
	a.entry.Infof(format, args...)
}

// Warnf implements logger.Logger.
func (a *Adapter) Warnf(format string, args ...any) {
	a.entry.Warnf(format, args...)
}

// Errorf implements logger.Logger.
func (a *Adapter) Errorf(format string, args ...any) {
	a.entry.Errorf(format, args...)
}

// Fatalf implements logger.Logger.
func (a *Adapter) Fatalf(format string, args ...any) {
	a.entry.Fatalf(format, args...)
}

// Panicf implements logger.Logger.
func (a *Adapter) Panicf(format string, args ...any) {
	a.entry.Panicf(format, args...)
}

// WithError implements logger.Logger.
func (a *Adapter) WithError(err error) logger.Logger {
	return &Adapter{entry: a.entry.WithError(err)}
}

// WithField implements logger.Logger.
func (a *Adapter) WithField(key string, value any) logger.Logger {
	return &Adapter{entry: a.entry.WithField(key, value)}
}

// WithFields implements logger.Logger.
func (a *Adapter) WithFields(fields map[string]any) logger.Logger {
	return &Adapter{entry: a.entry.WithFields(logrus.Fields(fields))}
}

func toLevel(level logrus.Level) logger.Level {
	levelMap := map[logrus.Level]logger.Level{
		logrus.TraceLevel: logger.TraceLevel,
		logrus.DebugLevel: logger.DebugLevel,
		logrus.InfoLevel:  logger.InfoLevel,
		logrus.WarnLevel:  logger.WarnLevel,
		logrus.ErrorLevel: logger.ErrorLevel,
		logrus.FatalLevel: logger.FatalLevel,
		logrus.PanicLevel: logger.PanicLevel,
	}

	if l, ok := levelMap[level]; ok {
		return l
	}
	return logger.NoLevel
}

func toLogrusLevel(level logger.Level) logrus.Level {
	levelMap := map[logger.Level]logrus.Level{
		logger.TraceLevel: logrus.TraceLevel,
		logger.DebugLevel: logrus.DebugLevel,
		logger.InfoLevel:  logrus.InfoLevel,
		logger.WarnLevel:  logrus.WarnLevel,
		logger.ErrorLevel: logrus.ErrorLevel,
		logger.FatalLevel: logrus.FatalLevel,
		logger.PanicLevel: logrus.PanicLevel,
		// logrus has no off switch, panic only is the quietest
		logger.Disabled: logrus.PanicLevel,
	}

	if l, ok := levelMap[level]; ok {
		return l
	}
	return logrus.InfoLevel
}
