package observability

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"workua-scraper/internal/config"
)

// Logger пишет в консоль и в ротируемый файл.
// Поля передаются парами ключ/значение: logger.Info("msg", "page", 1).
type Logger struct {
	entry  *logrus.Entry
	closer io.Closer
}

func NewLogger(cfg config.ObservabilityConfig) (*Logger, error) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.LogPath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.CompressOld,
	}

	base := logrus.New()
	base.SetLevel(level)
	base.SetOutput(io.MultiWriter(os.Stderr, rotator))
	base.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &Logger{
		entry:  logrus.NewEntry(base),
		closer: rotator,
	}, nil
}

// NewWriterLogger — логгер без файла, для тестов и вспомогательных команд
func NewWriterLogger(w io.Writer, level logrus.Level) *Logger {
	base := logrus.New()
	base.SetLevel(level)
	base.SetOutput(w)
	return &Logger{entry: logrus.NewEntry(base)}
}

// Nop глотает все записи
func Nop() *Logger {
	return NewWriterLogger(io.Discard, logrus.PanicLevel)
}

// WithRunID помечает все записи идентификатором запуска
func (l *Logger) WithRunID() (*Logger, string) {
	id := uuid.NewString()
	return l.With("run_id", id), id
}

func (l *Logger) With(fields ...interface{}) *Logger {
	return &Logger{entry: l.entry.WithFields(toFields(fields)), closer: l.closer}
}

func (l *Logger) Debug(msg string, fields ...interface{}) {
	l.entry.WithFields(toFields(fields)).Debug(msg)
}

func (l *Logger) Info(msg string, fields ...interface{}) {
	l.entry.WithFields(toFields(fields)).Info(msg)
}

func (l *Logger) Warn(msg string, fields ...interface{}) {
	l.entry.WithFields(toFields(fields)).Warn(msg)
}

func (l *Logger) Error(msg string, fields ...interface{}) {
	l.entry.WithFields(toFields(fields)).Error(msg)
}

// Close закрывает файл лога; у дочерних логгеров (With) он общий
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func toFields(kv []interface{}) logrus.Fields {
	fields := make(logrus.Fields, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		key = strings.TrimSpace(key)
		if i+1 >= len(kv) {
			fields[key] = "(missing)"
			break
		}
		fields[key] = kv[i+1]
	}
	return fields
}
