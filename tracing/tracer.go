// Package tracing installs a jaeger tracer as the global opentracing
// tracer. The middleware starts a span per request on whatever tracer is
// global, so without InitTracing spans are no-ops.
package tracing

import (
	"io"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	jaegercfg "github.com/uber/jaeger-client-go/config"
	"github.com/uber/jaeger-lib/metrics"
	"logur.dev/logur"
)

const (
	TracingEnabled = "Tracing.Enabled"
	ServiceName    = "Tracing.ServiceName"
)

func init() {
	viper.SetDefault(TracingEnabled, false)
	viper.SetDefault(ServiceName, "restaurants")
}

func Enabled() bool {
	return viper.GetBool(TracingEnabled)
}

// InitTracing reads the JAEGER_* environment, builds a tracer for
// serviceName and makes it the global tracer. Close the returned closer to
// flush pending spans.
func InitTracing(serviceName string, logger logur.Logger) (io.Closer, error) {
	cfg, err := jaegercfg.FromEnv()
	if err != nil {
		return nil, errors.WithMessage(err, "Could not parse Jaeger env vars")
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = serviceName
	}

	tracer, closer, err := cfg.NewTracer(
		jaegercfg.Logger(newLogger(logger)),
		jaegercfg.Metrics(metrics.NullFactory),
	)
	if err != nil {
		return nil, errors.WithMessage(err, "couldn't setup tracing")
	}

	opentracing.SetGlobalTracer(tracer)
	return closer, nil
}
