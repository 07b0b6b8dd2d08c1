package eatery

import (
	"net/http"
)

// Response is the transport independent form of an http response. It
// implements http.ResponseWriter so a router can serve NATS requests.
type Response struct {
	Status     string      `json:"reason"` // e.g. "200 OK"
	StatusCode int         `json:"code"`   // e.g. 200
	Headers    http.Header `json:"headers"`
	Body       []byte      `json:"body"`
}

func (r *Response) Header() http.Header {
	if r.Headers == nil {
		r.Headers = http.Header{}
	}
	return r.Headers
}

func (r *Response) Write(b []byte) (n int, err error) {
	if r.StatusCode == 0 {
		r.WriteHeader(http.StatusOK)
	}
	r.Body = append(r.Body, b...)
	return len(b), nil
}

func (r *Response) WriteHeader(code int) {
	if r.StatusCode != 0 {
		return
	}
	if _, hasType := r.Header()[contentType]; !hasType {
		r.Headers.Add(contentType, "application/json; charset=utf-8")
	}
	r.StatusCode = code
	r.Status = http.StatusText(code)
}

// ----------------- response builder code ----------------------

type ResponseBuilder struct {
	statusCode   int
	headers      http.Header
	bodyProvider BodyProvider
}

func NewResBuilder() *ResponseBuilder {
	rq := &ResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(http.Header),
	}
	rq.SetContentType(jsonContentType)
	return rq
}

func (r *ResponseBuilder) SetHeader(key, value string) *ResponseBuilder {
	r.headers.Set(key, value)
	return r
}

func (r *ResponseBuilder) SetContentType(value string) {
	r.SetHeader(contentType, value)
}

func (r *ResponseBuilder) Body(body []byte) *ResponseBuilder {
	if body == nil {
		return r
	}
	return r.BodyProvider(byteBodyProvider{body: body})
}

func (r *ResponseBuilder) StatusCode(status int) *ResponseBuilder {
	r.statusCode = status
	return r
}

// BodyProvider sets the ResponseBuilder's body provider.
func (r *ResponseBuilder) BodyProvider(body BodyProvider) *ResponseBuilder {
	if body == nil {
		return r
	}
	r.bodyProvider = body

	ct := body.ContentType()
	if ct != "" {
		r.SetHeader(contentType, ct)
	}

	return r
}

func (r *ResponseBuilder) BodyJSON(bodyJSON interface{}) *ResponseBuilder {
	if bodyJSON == nil {
		return r
	}
	return r.BodyProvider(jsonBodyProvider{payload: bodyJSON})
}

func (r *ResponseBuilder) Build() *Response {
	var body []byte
	var err error
	if r.bodyProvider != nil {
		body, err = r.bodyProvider.Body()
		if err != nil {
			return &Response{StatusCode: http.StatusInternalServerError, Headers: r.headers, Body: []byte("Invalid body return")}
		}
	}
	return &Response{StatusCode: r.statusCode, Status: http.StatusText(r.statusCode), Headers: r.headers, Body: body}
}
