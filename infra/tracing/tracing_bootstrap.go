package tracing

import (
	"io"

	"venuedesk/common"

	"github.com/opentracing/opentracing-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
	"github.com/uber/jaeger-lib/metrics"
)

// Bootstrap wires the jaeger tracer from JAEGER_* environment variables.
// Without an agent configured the tracer degrades to a no-op.
func Bootstrap() io.Closer {
	cfg, err := jaegercfg.FromEnv()
	if err != nil {
		common.Log.Warnf("tracing disabled, invalid jaeger config: %v", err)
		return nil
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = common.GetServiceName()
	}

	tracer, closer, err := cfg.NewTracer(jaegercfg.Metrics(metrics.NullFactory))
	if err != nil {
		common.Log.Warnf("tracing disabled, tracer init failed: %v", err)
		return nil
	}
	opentracing.SetGlobalTracer(tracer)
	return closer
}
