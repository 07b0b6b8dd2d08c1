// Package log configures a new logger for an application.
package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	logrusadapter "logur.dev/adapter/logrus"
	"logur.dev/logur"
)

// NewLogger creates a new logger writing to stdout.
func NewLogger(config *Config) logur.Logger {
	return NewLoggerTo(os.Stdout, config)
}

// NewLoggerTo creates a new logger writing to out.
func NewLoggerTo(out io.Writer, config *Config) logur.Logger {
	if config == nil {
		config = DefaultConfig()
	}

	logger := logrus.New()

	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors:             config.NoColor,
		EnvironmentOverrideColors: true,
	})

	switch config.Format {
	case "logfmt":
		// Already the default

	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	if level, err := logrus.ParseLevel(config.Level); err == nil {
		logger.SetLevel(level)
	}

	return logrusadapter.New(logger)
}

// WithFields returns a new contextual logger instance with context added to it.
func WithFields(logger logur.Logger, fields map[string]interface{}) logur.Logger {
	return logur.WithFields(logger, fields)
}

func DefaultLogger(withFields map[string]interface{}) logur.Logger {
	logger := NewLogger(DefaultConfig())

	if len(withFields) > 0 {
		logger = WithFields(logger, withFields)
	}
	return logger
}
