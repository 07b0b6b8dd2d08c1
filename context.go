package eatery

import (
	"context"
	"time"

	"github.com/go-chi/chi"
	"github.com/opentracing/opentracing-go"
	"logur.dev/logur"
)

type QueryParams map[string][]string
type PathParams map[string]string

// Context carries the per-request values the middleware collects.
type Context struct {
	context context.Context
}

func NewBackgroundContext() *Context {
	return NewContext(context.Background())
}

func NewContext(c context.Context) *Context {
	return &Context{context: c}
}

func (c *Context) WithValue(key, val interface{}) *Context {
	return &Context{context: context.WithValue(c.context, key, val)}
}

func (c *Context) Deadline() (deadline time.Time, ok bool) {
	return c.context.Deadline()
}

func (c *Context) Err() error {
	return c.context.Err()
}

func (c *Context) Value(key interface{}) interface{} {
	return c.context.Value(key)
}

func (c *Context) Done() <-chan struct{} {
	return c.context.Done()
}

func (c *Context) Logger() logur.Logger {
	logger, ok := c.Value(XLoggerId).(logur.Logger)
	if !ok {
		logger = GetLogger()
	}
	return logger
}

func (c *Context) RequestId() string {
	id, _ := c.Value(XRequestId).(string)
	return id
}

func (c *Context) QueryParams() QueryParams {
	requestParams, ok := c.Value(XQueryParams).(QueryParams)
	if !ok {
		requestParams = QueryParams{}
	}
	return requestParams
}

func (c *Context) PathParams() PathParams {
	pathParams, ok := c.Value(XPathParams).(PathParams)
	if !ok {
		pathParams = PathParams{}
	}
	return pathParams
}

func (c *Context) GetPathParam(name string) string {
	return c.PathParams()[name]
}

// Span returns the request span, or nil outside a traced request.
func (c *Context) Span() opentracing.Span {
	return opentracing.SpanFromContext(c.context)
}

func ParsePathParams(ctx context.Context) PathParams {
	rParams := PathParams{}
	rctx := chi.RouteContext(ctx)
	if rctx == nil {
		return rParams
	}
	oParams := rctx.URLParams
	for i, k := range oParams.Keys {
		if len(oParams.Values) > i {
			rParams[k] = oParams.Values[i]
		} else {
			rParams[k] = ""
		}
	}
	return rParams
}
