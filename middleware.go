package eatery

import (
	"bufio"
	"context"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"
	"logur.dev/logur"

	"gitlab.com/silenteer-oss/eatery/log"
)

// NewMiddleware tags every request with an id, a contextual logger, its
// query params and a tracing span, and logs the outcome.
func NewMiddleware(name string, logger logur.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			t := time.Now()
			if r.Header == nil {
				r.Header = http.Header{}
			}
			requestID := r.Header.Get(XRequestId)
			if requestID == "" {
				requestID = uuid.New().String()
				r.Header.Set(XRequestId, requestID)
			}
			logWithId := log.WithFields(logger, map[string]interface{}{
				"id":     requestID,
				"method": r.Method,
				"url":    ExtractLoggablePartsFromUrl(r.URL.Path),
			})
			logWithId.Debug(name + " server received request")
			BeginRequest(logWithId, r.Header)
			defer EndRequest()

			span := startSpan(r, requestID)
			defer span.Finish()

			ctx := opentracing.ContextWithSpan(r.Context(), span)
			ctx = context.WithValue(ctx, XLoggerId, logWithId)
			ctx = context.WithValue(ctx, XRequestId, requestID)
			ctx = context.WithValue(ctx, XQueryParams, QueryParams(r.URL.Query()))

			rp := NewCustomResponseWriter(w)
			rp.Header().Set(XRequestId, requestID)

			defer func() {
				ext.HTTPStatusCode.Set(span, uint16(rp.Status()))
				logWithId.Debug(name+" server request complete", map[string]interface{}{
					"status":     rp.Status(),
					"elapsed_ms": float64(time.Since(t).Nanoseconds()) / 1000000.0,
				})
			}()

			next.ServeHTTP(rp, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}

func startSpan(r *http.Request, requestID string) opentracing.Span {
	tracer := opentracing.GlobalTracer()
	opts := []opentracing.StartSpanOption{ext.SpanKindRPCServer}
	if spanCtx, err := tracer.Extract(opentracing.HTTPHeaders, opentracing.HTTPHeadersCarrier(r.Header)); err == nil {
		opts = append(opts, ext.RPCServerOption(spanCtx))
	}
	span := tracer.StartSpan(r.Method+" "+ExtractLoggablePartsFromUrl(r.URL.Path), opts...)
	ext.HTTPMethod.Set(span, r.Method)
	ext.HTTPUrl.Set(span, r.URL.Path)
	span.SetTag(XRequestId, requestID)
	return span
}

// CustomResponseWriter remembers the status written through it.
type CustomResponseWriter struct {
	w          http.ResponseWriter
	StatusCode int
}

func NewCustomResponseWriter(w http.ResponseWriter) *CustomResponseWriter {
	return &CustomResponseWriter{w: w}
}

func (c *CustomResponseWriter) Header() http.Header {
	return c.w.Header()
}

func (c *CustomResponseWriter) Write(b []byte) (int, error) {
	if c.StatusCode == 0 {
		c.StatusCode = http.StatusOK
	}
	return c.w.Write(b)
}

func (c *CustomResponseWriter) WriteHeader(statusCode int) {
	c.w.WriteHeader(statusCode)
	c.StatusCode = statusCode
}

// Status is the written status, 200 if the handler never set one.
func (c *CustomResponseWriter) Status() int {
	if c.StatusCode == 0 {
		return http.StatusOK
	}
	return c.StatusCode
}

// Hijack is needed by the websocket upgrader.
func (c *CustomResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := c.w.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return h.Hijack()
}
