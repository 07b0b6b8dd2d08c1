package eatery

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

type Client struct {
	conn IConnection
}

func NewClient(conn IConnection) *Client {
	return &Client{conn: conn}
}

func (srv *Client) SendAndReceiveJson(ctx *Context, rq *Request, receive interface{}) error {
	msg, err := srv.SendRequest(ctx, rq)
	if err != nil {
		return err
	}

	if len(msg.Body) == 0 {
		return nil
	}

	err = json.Unmarshal(msg.Body, receive)
	if err != nil {
		return errors.WithMessage(err, "client json parsing error")
	}
	return nil
}

func (srv *Client) SendRequest(ctx *Context, rq *Request) (*Response, error) {
	if rq.Headers == nil {
		rq.Headers = http.Header{}
	}
	if id := ctx.RequestId(); id != "" && rq.Headers.Get(XRequestId) == "" {
		rq.Headers.Set(XRequestId, id)
	}

	rq.Headers.Set(XRequestTime, strconv.FormatInt(time.Now().UnixNano(), 10))

	subject := rq.Subject
	if subject == "" {
		subject = Url2Subject(rq.URL)
	}

	rp, err := srv.conn.SendRequest(rq, subject)
	if err != nil {
		rpErr := &Response{Status: "Internal Server Error", StatusCode: http.StatusInternalServerError}
		if err.Error() == "nats: timeout" {
			rpErr = &Response{Status: "Request Timeout", StatusCode: http.StatusRequestTimeout}
		}
		return nil, &ClientResponseError{Message: "Client request failed", Response: rpErr, Cause: err}
	}

	if rp.StatusCode >= 400 {
		return nil, &ClientResponseError{Message: responseMessage(rp), Response: rp}
	}

	if rp.StatusCode >= 300 {
		return nil, &ClientResponseError{Message: "HTTP 3xx Redirection was not implemented yet", Response: rp}
	}

	if rp.StatusCode < 200 {
		return rp, &ClientResponseError{Message: "HTTP 1xx Informational response was not implemented yet", Response: rp}
	}
	return rp, nil
}

func responseMessage(rp *Response) string {
	var body DefaultJsonError
	if err := json.Unmarshal(rp.Body, &body); err == nil && body.Message != "" {
		return body.Message
	}
	return rp.Status
}
