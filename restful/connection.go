package restful

import (
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"gitlab.com/silenteer-oss/eatery"
)

// Connection sends framework requests over plain HTTP.
type Connection struct {
	client *http.Client
	add    string // example : http://192.168.1.10:8080/
}

func NewConnection(add string, timeout time.Duration) *Connection {
	return &Connection{
		add:    add,
		client: &http.Client{Timeout: timeout},
	}
}

func (c *Connection) SendRequest(rq *eatery.Request, _ string) (*eatery.Response, error) {
	request, err := eatery.NatsRequestToHttpRequest(rq)
	if err != nil {
		return nil, err
	}

	urlString := fmt.Sprintf("%s/%s", strings.TrimSuffix(c.add, "/"), strings.TrimPrefix(rq.URL, "/"))
	u, err := url.Parse(urlString)
	if err != nil {
		return nil, errors.WithMessage(err, "invalid request url")
	}
	request.URL = u
	request.Host = u.Host

	response, err := c.client.Do(request)
	if err != nil {
		return nil, err
	}

	defer response.Body.Close()
	body, err := ioutil.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	return &eatery.Response{
		Status:     response.Status,
		StatusCode: response.StatusCode,
		Headers:    response.Header,
		Body:       body,
	}, nil
}

func (c *Connection) Publish(subject string, v interface{}) error {
	return errors.New("publish is not supported over http")
}

func (c *Connection) Flush() error {
	return nil
}

func (c *Connection) Close() {
	c.client.CloseIdleConnections()
}
