package eatery

import (
	"bytes"
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

const (
	XRequestId      = "X-Request-Id"
	XLoggerId       = "X-LOGGER-ID"
	XPathParams     = "X-PATH-PARAMS"
	XQueryParams    = "X-QUERY-PARAMS"
	XRequestTime    = "X-Request-Time"
	UberTraceID     = "Uber-Trace-Id"
	contentType     = "Content-Type"
	jsonContentType = "application/json"
)

// Request is the transport independent form of an http request. It is the
// payload of NATS request messages.
type Request struct {
	Method  string      `json:"method"`
	Headers http.Header `json:"headers"`
	Body    []byte      `json:"body"`
	URL     string      `json:"url"`

	// in case of using NATS subject instead of Restful url prefix
	Subject string `json:"subject"`
}

func (r *Request) HasBody() bool {
	return nil != r.Body
}

func (r *Request) BodyJson(v interface{}) error {
	if !r.HasBody() {
		return errors.New("body not found")
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return errors.WithMessage(err, "Json Unmarshal error ")
	}
	return nil
}

// ---------------------------- Request builder code ------------------------------------

type RequestBuilder struct {
	method       string
	headers      http.Header
	bodyProvider BodyProvider
	rawURL       string
	subject      string
}

func NewReqBuilder() *RequestBuilder {
	rq := &RequestBuilder{
		method:  http.MethodGet,
		headers: make(http.Header),
	}
	rq.SetContentType(jsonContentType)
	return rq
}

// Get sets the Request method to GET and sets the given pathURL.
func (r *RequestBuilder) Get(pathURL string) *RequestBuilder {
	r.method = http.MethodGet
	return r.Url(pathURL)
}

// Post sets the Request method to POST and sets the given pathURL.
func (r *RequestBuilder) Post(pathURL string) *RequestBuilder {
	r.method = http.MethodPost
	return r.Url(pathURL)
}

// Put sets the Request method to PUT and sets the given pathURL.
func (r *RequestBuilder) Put(pathURL string) *RequestBuilder {
	r.method = http.MethodPut
	return r.Url(pathURL)
}

// Delete sets the Request method to DELETE and sets the given pathURL.
func (r *RequestBuilder) Delete(pathURL string) *RequestBuilder {
	r.method = http.MethodDelete
	return r.Url(pathURL)
}

func (r *RequestBuilder) Url(url string) *RequestBuilder {
	r.rawURL = url
	return r
}

// SetHeader sets the key, value pair in Headers, replacing existing values
// associated with key. Header keys are canonicalized.
func (r *RequestBuilder) SetHeader(key, value string) *RequestBuilder {
	r.headers.Set(key, value)
	return r
}

func (r *RequestBuilder) SetContentType(value string) {
	r.SetHeader(contentType, value)
}

// BodyProvider sets the RequestBuilder's body provider.
func (r *RequestBuilder) BodyProvider(body BodyProvider) *RequestBuilder {
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

func (r *RequestBuilder) BodyJSON(bodyJSON interface{}) *RequestBuilder {
	if bodyJSON == nil {
		return r
	}
	return r.BodyProvider(jsonBodyProvider{payload: bodyJSON})
}

func (r *RequestBuilder) Subject(subject string) *RequestBuilder {
	r.subject = subject
	return r
}

func (r *RequestBuilder) Build() (*Request, error) {
	_, err := url.Parse(r.rawURL)
	if err != nil {
		return nil, errors.New("invalid url " + r.rawURL)
	}
	var body []byte
	if r.bodyProvider != nil {
		body, err = r.bodyProvider.Body()
		if err != nil {
			return nil, errors.WithMessage(err, "Invalid body format ")
		}
	}
	return &Request{URL: r.rawURL, Method: r.method, Headers: r.headers, Body: body, Subject: r.subject}, nil
}

func NatsRequestToHttpRequest(rq *Request) (*http.Request, error) {
	var body io.Reader
	if rq.Body != nil {
		body = bytes.NewReader(rq.Body)
	} else {
		body = bytes.NewReader([]byte{})
	}

	u := rq.URL
	if !strings.HasPrefix(u, "/") {
		u = "/" + u
	}

	request, err := http.NewRequest(rq.Method, u, body)
	if err != nil {
		return nil, errors.WithMessage(err, "Nats: Something wrong with creating the request")
	}

	if rq.Headers != nil {
		request.Header = rq.Headers
	}

	return request, nil
}

func HttpRequestToNatsRequest(r *http.Request) (*Request, error) {
	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		return nil, errors.WithMessage(err, "Error reading body:")
	}

	defer func() { _ = r.Body.Close() }()
	if len(body) == 0 {
		body = nil
	}

	return &Request{
		Body:    body,
		URL:     r.URL.RequestURI(),
		Method:  r.Method,
		Headers: r.Header,
	}, nil
}
