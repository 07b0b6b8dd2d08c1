package eatery

import (
	"fmt"
	"net/http"

	"emperror.dev/errors"
)

// DefaultJsonError is the body of every error response. It follows the
// Vnd.Error layout without the content type requirements.
type DefaultJsonError struct {
	Message  string              `json:"message"`
	LogRef   string              `json:"logref"`
	Path     string              `json:"path"`
	Links    map[string][]string `json:"_links"`
	TraceId  string              `json:"traceId"`

	ValidationErrors map[string]string `json:"validationErrors,omitempty"`
}

// HttpError attaches a response status to an error raised by a handler.
type HttpError struct {
	StatusCode       int
	Cause            error
	ValidationErrors map[string]string
}

func (e *HttpError) Error() string {
	if e.Cause == nil {
		return http.StatusText(e.StatusCode)
	}
	return e.Cause.Error()
}

func (e *HttpError) Unwrap() error {
	return e.Cause
}

func NewHttpError(statusCode int, cause error) *HttpError {
	return &HttpError{StatusCode: statusCode, Cause: cause}
}

func NewBadRequestError(cause error) *HttpError {
	return NewHttpError(http.StatusBadRequest, cause)
}

func NewNotFoundError(cause error) *HttpError {
	return NewHttpError(http.StatusNotFound, cause)
}

// StatusOf returns the status carried by err, 500 when there is none.
func StatusOf(err error) int {
	var httpErr *HttpError
	if errors.As(err, &httpErr) && httpErr.StatusCode != 0 {
		return httpErr.StatusCode
	}
	return http.StatusInternalServerError
}

// ClientResponseError is returned by Client when the server answers with a
// status >= 300 or cannot be reached.
type ClientResponseError struct {
	Message  string
	Response *Response
	Cause    error
}

func (h *ClientResponseError) Error() string {
	if h.Response != nil {
		return fmt.Sprintf("%s (%d)", h.Message, h.Response.StatusCode)
	}
	return h.Message
}

func (h *ClientResponseError) Unwrap() error {
	return h.Cause
}
