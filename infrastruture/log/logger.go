// Package log provides colored component loggers backed by logrus.
package log

import (
	"errors"
	"fmt"
	"io"

	"github.com/beka-birhanu/vinom-nav/config"
	"github.com/sirupsen/logrus"
)

var ErrEmptyPrefix = errors.New("logger prefix is required")

// Logger writes one line per message, tagged with its component.
type Logger struct {
	entry *logrus.Entry
}

// New creates a logger that prints every line with prefix, colored with
// color, to out.
func New(prefix, color string, out io.Writer) (*Logger, error) {
	if prefix == "" {
		return nil, ErrEmptyPrefix
	}
	if out == nil {
		return nil, fmt.Errorf("logger %s: nil writer", prefix)
	}

	base := logrus.New()
	base.SetOutput(out)
	base.SetLevel(logrus.DebugLevel)
	base.SetFormatter(&logrus.TextFormatter{
		DisableColors:    true,
		FullTimestamp:    true,
		TimestampFormat:  "2006-01-02 15:04:05",
		DisableSorting:   false,
		QuoteEmptyFields: true,
	})

	tag := fmt.Sprintf("%s[%s]%s", color, prefix, config.ColorReset)
	if color == "" {
		tag = fmt.Sprintf("[%s]", prefix)
	}
	return &Logger{entry: base.WithField("component", tag)}, nil
}

func (l *Logger) Info(msg string) {
	l.entry.Info(msg)
}

func (l *Logger) Warning(msg string) {
	l.entry.Warn(msg)
}

func (l *Logger) Error(msg string) {
	l.entry.Error(msg)
}

func (l *Logger) Debug(msg string) {
	l.entry.Debug(msg)
}
