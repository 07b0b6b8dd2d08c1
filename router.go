package eatery

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi"
	"github.com/pkg/errors"
	"logur.dev/logur"
)

type Handler interface{}
type HandlerFunc func(*Context, *Request) *Response

type Router interface {
	http.Handler
	Register(method, pattern string, h HandlerFunc)
	// RegisterJson accepts `func(*Context) (T, error)` or
	// `func(*Context, In) (T, error)`, In being decoded from the JSON body.
	RegisterJson(method, pattern string, h Handler)
	Handle(pattern string, h http.Handler)
}

type Mux struct {
	Router chi.Router
	Logger logur.Logger
}

func NewRouter(r chi.Router, logger logur.Logger) *Mux {
	return &Mux{Router: r, Logger: logger}
}

// implement http.Handler
func (m *Mux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.Router.ServeHTTP(w, r)
}

func (m *Mux) Handle(pattern string, h http.Handler) {
	m.Router.Handle(pattern, h)
}

func (m *Mux) Register(method, pattern string, handlerFunc HandlerFunc) {
	m.Router.MethodFunc(method, pattern, func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), XPathParams, ParsePathParams(r.Context()))

		newRequest, err := HttpRequestToNatsRequest(r)
		if err != nil {
			m.Logger.Error(fmt.Sprintf("request converting error: %+v\n ", err))
			newRequest = &Request{URL: r.URL.RequestURI(), Method: r.Method, Headers: r.Header}
		}

		rp := handlerFunc(NewContext(ctx), newRequest)

		err = writeResponse(w, rp)
		if err != nil {
			m.Logger.Error(fmt.Sprintf("response writing error: %+v\n ", err))
		}
	})
}

func (m *Mux) RegisterJson(method, pattern string, h Handler) {
	if err := checkJsonHandler(h); err != nil {
		panic(fmt.Sprintf("%s %s: %s", method, pattern, err))
	}
	m.Router.MethodFunc(method, pattern, func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), XPathParams, ParsePathParams(r.Context()))

		rp := handleJsonRequest(NewContext(ctx), r, h)
		err := writeResponse(w, rp)
		if err != nil {
			m.Logger.Error(fmt.Sprintf("json response writing error: %+v\n ", err))
		}
	})
}

// side effect function
func writeResponse(w http.ResponseWriter, rp *Response) error {
	for name, values := range rp.Headers {
		for _, value := range values {
			w.Header().Add(name, value)
		}
	}

	if rp.StatusCode != 0 {
		w.WriteHeader(rp.StatusCode)
	}

	if rp.Body != nil {
		_, err := w.Write(rp.Body)
		if err != nil {
			return errors.WithMessage(err, "Writing response error")
		}
	}
	return nil
}

func errorResponse(c *Context, r *http.Request, err error) *Response {
	body := &DefaultJsonError{
		Message: err.Error(),
		LogRef:  c.RequestId(),
		Path:    r.URL.Path,
		TraceId: c.RequestId(),
		Links:   map[string][]string{"self": {r.URL.String()}},
	}
	var httpErr *HttpError
	if errors.As(err, &httpErr) {
		body.ValidationErrors = httpErr.ValidationErrors
	}
	return NewResBuilder().
		StatusCode(StatusOf(err)).
		BodyJSON(body).
		Build()
}

func handleJsonRequest(c *Context, r *http.Request, cb Handler) *Response {
	logger := c.Logger()

	//1. read body
	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		logger.Error(fmt.Sprintf("Body reading error: %+v\n ", err))
		return errorResponse(c, r, NewBadRequestError(errors.WithMessage(err, "Body reading error")))
	}
	_ = r.Body.Close()

	//2. call function handler
	ret, err := callJsonHandler(c, body, cb)
	if err != nil {
		status := StatusOf(err)
		if status >= http.StatusInternalServerError {
			logger.Error(fmt.Sprintf("Json handler error: %+v\n ", err))
		} else {
			logger.Debug("Json handler rejected request", map[string]interface{}{"status": status, "error": err.Error()})
		}
		return errorResponse(c, r, err)
	}

	if isNil(ret) {
		return NewResBuilder().
			StatusCode(http.StatusOK).
			Build()
	}

	//3. process result
	retJson, err := json.Marshal(ret)
	if err != nil {
		logger.Error(fmt.Sprintf("response json encoding error: %+v\n ", err))
		return errorResponse(c, r, errors.WithMessage(err, "response json encoding error"))
	}
	return NewResBuilder().
		Body(retJson).
		Build()
}

func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map:
		return rv.IsNil()
	}
	return false
}

var emptyContextType = reflect.TypeOf(&Context{})
var errorType = reflect.TypeOf((*error)(nil)).Elem()
var handlerExample = "\n Example: `func(c *Context, interface{}) (interface{}, error)` or \n `func(c *Context) (interface{}, error)`"

func checkJsonHandler(cb Handler) error {
	if cb == nil {
		return errors.New("Handler is required")
	}
	cbType := reflect.TypeOf(cb)

	if cbType.Kind() != reflect.Func {
		return errors.New("Handler needs to be a func" + handlerExample)
	}

	numIn := cbType.NumIn()
	numOut := cbType.NumOut()

	if numIn == 0 || numIn > 2 {
		return errors.New("Handler requires one or two parameters " + handlerExample)
	}

	if cbType.In(0) != emptyContextType {
		return errors.New("Handler requires first parameter must be instance of *Context " + handlerExample)
	}

	if numOut == 0 || numOut > 2 {
		return errors.New("Handler requires one or two return values " + handlerExample)
	}

	if cbType.Out(numOut-1) != errorType {
		return errors.New("Handler requires last return value is an `error` " + handlerExample)
	}
	return nil
}

func callJsonHandler(c *Context, body []byte, cb Handler) (interface{}, error) {
	if err := checkJsonHandler(cb); err != nil {
		return nil, err
	}
	cbType := reflect.TypeOf(cb)
	numIn := cbType.NumIn()
	numOut := cbType.NumOut()

	cbValue := reflect.ValueOf(cb)
	oV := []reflect.Value{reflect.ValueOf(c)}

	if numIn == 2 {
		argType := cbType.In(1)
		if len(body) == 0 {
			return nil, NewBadRequestError(errors.New("Body is empty"))
		}
		var oPtr reflect.Value
		if argType.Kind() != reflect.Ptr {
			oPtr = reflect.New(argType)
		} else {
			oPtr = reflect.New(argType.Elem())
		}
		if err := decode(body, oPtr.Interface()); err != nil {
			return nil, NewBadRequestError(errors.WithMessage(err, "Body parsing error"))
		}
		if argType.Kind() != reflect.Ptr {
			oPtr = reflect.Indirect(oPtr)
		}
		oV = append(oV, oPtr)
	}

	res := cbValue.Call(oV)

	var err error
	if v := res[numOut-1].Interface(); v != nil {
		err = v.(error)
	}
	if numOut == 2 {
		return res[0].Interface(), err
	}
	return nil, err
}

func decode(data []byte, vPtr interface{}) (err error) {
	switch arg := vPtr.(type) {
	case *string:
		// If they want a string and it is a JSON string, strip quotes
		str := string(data)
		if strings.HasPrefix(str, `"`) && strings.HasSuffix(str, `"`) {
			*arg = str[1 : len(str)-1]
		} else {
			*arg = str
		}
	case *[]byte:
		*arg = data
	default:
		err = json.Unmarshal(data, arg)
	}
	return
}
