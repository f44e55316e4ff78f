// Package log is the leveled, structured logger used across dirsort.
// It wraps logrus behind a small API so call sites read the same whether
// they log a plain line or attach fields.
package log

import (
	"io"
	"os"

	"dirsort/internal/errors"

	"github.com/sirupsen/logrus"
)

var logger = NewLogger()

// Field is a single structured key/value pair
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Logger writes leveled log lines through logrus
type Logger struct {
	base  *logrus.Logger
	entry *logrus.Entry
	file  *os.File
}

// Option configures a Logger
type Option func(*Logger)

// WithOutput sends log lines to w
func WithOutput(w io.Writer) Option {
	return func(l *Logger) {
		l.base.SetOutput(w)
	}
}

// WithJSON switches to one JSON object per line
func WithJSON() Option {
	return func(l *Logger) {
		l.base.SetFormatter(&logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		})
	}
}

// WithLevel sets the minimum level. Unknown names fall back to info.
func WithLevel(level string) Option {
	return func(l *Logger) {
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			l.base.Warnf("Invalid log level '%s', using 'info'", level)
			lvl = logrus.InfoLevel
		}
		l.base.SetLevel(lvl)
	}
}

// WithFile appends log lines to path in addition to the current output
func WithFile(path string) Option {
	return func(l *Logger) {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
		if err != nil {
			l.base.Errorf("failed to open log file %s: %v", path, err)
			return
		}
		l.file = f
		l.base.SetOutput(io.MultiWriter(l.base.Out, f))
	}
}

// NewLogger creates a text logger on stderr at info level
func NewLogger(opts ...Option) *Logger {
	base := logrus.New()
	base.SetOutput(os.Stderr)
	base.SetLevel(logrus.InfoLevel)
	base.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	l := &Logger{base: base}
	for _, opt := range opts {
		opt(l)
	}
	l.entry = logrus.NewEntry(base)
	return l
}

// Configure replaces the package-level logger
func Configure(opts ...Option) {
	if logger != nil && logger.file != nil {
		logger.file.Close()
	}
	logger = NewLogger(opts...)
}

// SetDebug toggles debug output on the package-level logger
func SetDebug(debug bool) {
	if debug {
		logger.base.SetLevel(logrus.DebugLevel)
		return
	}
	if logger.base.GetLevel() == logrus.DebugLevel {
		logger.base.SetLevel(logrus.InfoLevel)
	}
}

// IsDebug reports whether debug lines are currently emitted
func IsDebug() bool {
	return logger.base.IsLevelEnabled(logrus.DebugLevel)
}

// With returns an Entry carrying the given fields
func (l *Logger) With(fields ...Field) *Entry {
	return &Entry{e: l.entry.WithFields(toLogrus(fields))}
}

func (l *Logger) Debug(args ...interface{}) { l.entry.Debug(args...) }
func (l *Logger) Info(args ...interface{})  { l.entry.Info(args...) }
func (l *Logger) Warn(args ...interface{})  { l.entry.Warn(args...) }
func (l *Logger) Error(args ...interface{}) { l.entry.Error(args...) }

func (l *Logger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }

// Entry is a log line under construction with fields attached
type Entry struct {
	e *logrus.Entry
}

// With adds more fields
func (e *Entry) With(fields ...Field) *Entry {
	return &Entry{e: e.e.WithFields(toLogrus(fields))}
}

func (e *Entry) Debug(msg string) { e.e.Debug(msg) }
func (e *Entry) Info(msg string)  { e.e.Info(msg) }
func (e *Entry) Warn(msg string)  { e.e.Warn(msg) }
func (e *Entry) Error(msg string) { e.e.Error(msg) }

func toLogrus(fields []Field) logrus.Fields {
	out := make(logrus.Fields, len(fields))
	for _, f := range fields {
		out[f.Key] = f.Value
	}
	return out
}

// LogWithFields starts an entry on the package-level logger
func LogWithFields(fields ...Field) *Entry {
	return logger.With(fields...)
}

// LogWithError starts an entry describing err. Application errors also
// contribute their kind and, for file errors, the path.
func LogWithError(err error) *Entry {
	if err == nil {
		return logger.With(F("error", "<nil>"))
	}
	fields := []Field{F("error", err.Error())}

	var fileErr *errors.FileError
	var configErr *errors.ConfigError
	switch {
	case errors.As(err, &fileErr):
		fields = append(fields, F("error_kind", fileErr.Kind().String()), F("path", fileErr.Path()))
	case errors.As(err, &configErr):
		fields = append(fields, F("error_kind", configErr.Kind().String()), F("param", configErr.Param()))
	default:
		fields = append(fields, F("error_kind", errors.KindOf(err).String()))
	}
	return logger.With(fields...)
}

// LogError logs err at error level with msg
func LogError(err error, msg string) {
	LogWithError(err).Error(msg)
}

func Debug(args ...interface{}) { logger.Debug(args...) }
func Info(args ...interface{})  { logger.Info(args...) }
func Warn(args ...interface{})  { logger.Warn(args...) }
func Error(args ...interface{}) { logger.Error(args...) }

// Debugf logs a formatted message at debug level
func Debugf(format string, args ...interface{}) { logger.Debugf(format, args...) }

// Infof logs a formatted message at info level
func Infof(format string, args ...interface{}) { logger.Infof(format, args...) }

// Warnf logs a formatted message at warn level
func Warnf(format string, args ...interface{}) { logger.Warnf(format, args...) }

// Errorf logs a formatted message at error level
func Errorf(format string, args ...interface{}) { logger.Errorf(format, args...) }
