package tracing

import (
	"fmt"

	"logur.dev/logur"
)

// jaegerLogger forwards jaeger client messages to the service logger.
type jaegerLogger struct {
	logger logur.Logger
}

func newLogger(logger logur.Logger) *jaegerLogger {
	return &jaegerLogger{logger: logur.WithFields(logger, map[string]interface{}{"component": "jaeger"})}
}

func (t *jaegerLogger) Error(msg string) {
	t.logger.Error(msg)
}

func (t *jaegerLogger) Infof(msg string, args ...interface{}) {
	t.logger.Debug(fmt.Sprintf(msg, args...))
}
