package eatery

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// Message is the envelope of published events.
type Message struct {
	Headers http.Header `json:"headers"`
	Body    []byte      `json:"body"`
}

func NewMessage(v interface{}) (*Message, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, errors.WithMessage(err, "Json Marshal error ")
	}
	headers := http.Header{}
	headers.Set(XRequestTime, strconv.FormatInt(time.Now().UnixNano(), 10))
	return &Message{Headers: headers, Body: body}, nil
}

func (r *Message) bodyJson(v interface{}) error {
	if r.Body == nil {
		return errors.New("body not found")
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return errors.WithMessage(err, "Json Unmarshal error ")
	}
	return nil
}

func (r *Message) context() *Context {
	ctx := context.Background()
	if r.Headers != nil {
		ctx = context.WithValue(ctx, XRequestId, r.Headers.Get(XRequestId))
	}
	return NewContext(ctx)
}

// Parse decodes the body into v and returns a context carrying the
// message's request id.
func (r *Message) Parse(v interface{}) (*Context, error) {
	if err := r.bodyJson(v); err != nil {
		return nil, err
	}
	return r.context(), nil
}
