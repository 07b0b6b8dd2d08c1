package restful_test

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"logur.dev/logur"

	"gitlab.com/silenteer-oss/eatery"
	"gitlab.com/silenteer-oss/eatery/restful"
	"gitlab.com/silenteer-oss/eatery/test"
)

type GetResult struct {
	RequestId   string             `json:"RequestId"`
	QueryParams eatery.QueryParams `json:"QueryParams"`
	PathParams  eatery.PathParams  `json:"PathParams"`
}

type echo struct {
	Name string `json:"name"`
}

func startServer(t *testing.T, routes func(eatery.Router)) (string, func()) {
	server, err := restful.NewServer("0",
		restful.Logger(logur.NoopLogger{}),
		restful.Routes(routes),
	)
	require.NoError(t, err)

	testServer := test.NewTestServer(t, server)
	testServer.Start()

	port := server.Addr().(*net.TCPAddr).Port
	return fmt.Sprintf("http://127.0.0.1:%d", port), server.Stop
}

func TestGetRequest(t *testing.T) {
	//1. setup server
	base, stop := startServer(t, func(r eatery.Router) {
		r.Register("GET", "/api/service/test/get/{id}", func(c *eatery.Context, rq *eatery.Request) *eatery.Response {
			return eatery.NewResBuilder().
				BodyJSON(&GetResult{
					c.RequestId(),
					c.QueryParams(),
					c.PathParams(),
				}).
				Build()
		})
	})
	defer stop()

	//2. client request it
	resp, err := http.Get(base + "/api/service/test/get/10002?from=10&to=90")
	require.Nil(t, err)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	body, err := ioutil.ReadAll(resp.Body)
	require.Nil(t, err)

	result := &GetResult{}
	require.NoError(t, json.Unmarshal(body, &result), "Unmarshal response error")

	//3. assert it
	assert.NotEmpty(t, result.RequestId, "Request Id not found")
	assert.Equal(t, result.RequestId, resp.Header.Get(eatery.XRequestId))
	assert.Equal(t, "10002", result.PathParams["id"])
	assert.Equal(t, "10", result.QueryParams["from"][0])
	assert.Equal(t, "90", result.QueryParams["to"][0])
}

func TestJsonRouteAndErrors(t *testing.T) {
	base, stop := startServer(t, func(r eatery.Router) {
		r.RegisterJson("POST", "/api/service/test/echo", func(c *eatery.Context, in *echo) (*echo, error) {
			if in.Name == "missing" {
				return nil, eatery.NewNotFoundError(fmt.Errorf("%s not found", in.Name))
			}
			return in, nil
		})
	})
	defer stop()

	resp, err := http.Post(base+"/api/service/test/echo", "application/json", strings.NewReader(`{"name":"karma"}`))
	require.NoError(t, err)
	body, _ := ioutil.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"name":"karma"}`, string(body))

	resp, err = http.Post(base+"/api/service/test/echo", "application/json", strings.NewReader(`{"name":"missing"}`))
	require.NoError(t, err)
	body, _ = ioutil.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var jsonErr eatery.DefaultJsonError
	require.NoError(t, json.Unmarshal(body, &jsonErr))
	assert.Equal(t, "missing not found", jsonErr.Message)
	assert.Equal(t, "/api/service/test/echo", jsonErr.Path)

	resp, err = http.Post(base+"/api/service/test/echo", "application/json", strings.NewReader(`{not json`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDefaultHandlers(t *testing.T) {
	base, stop := startServer(t, func(eatery.Router) {})
	defer stop()

	resp, err := http.Get(base + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health eatery.Health
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, eatery.UP, health.Status)
}

func TestMonitoring(t *testing.T) {
	base, stop := startServer(t, func(eatery.Router) {})
	defer stop()

	resp, err := http.Get(base + "/monitoring")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var m eatery.Monitoring
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&m))
	assert.Equal(t, eatery.UP, m.Status)
	assert.Equal(t, "Go", m.Language)
	assert.GreaterOrEqual(t, m.MsgNum, int64(1))
	assert.GreaterOrEqual(t, m.MsgTotal, uint64(1))
}

func TestCorsPreflight(t *testing.T) {
	base, stop := startServer(t, func(r eatery.Router) {
		r.RegisterJson("GET", "/api/service/test", func(c *eatery.Context) (string, error) { return "ok", nil })
	})
	defer stop()

	req, _ := http.NewRequest(http.MethodOptions, base+"/api/service/test", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestHttpConnection(t *testing.T) {
	base, stop := startServer(t, func(r eatery.Router) {
		r.RegisterJson("PUT", "/api/service/test/echo", func(c *eatery.Context, in echo) (echo, error) {
			in.Name = strings.ToUpper(in.Name)
			return in, nil
		})
	})
	defer stop()

	client := eatery.NewClient(restful.NewConnection(base, 5*time.Second))
	request, err := eatery.NewReqBuilder().
		Put("/api/service/test/echo").
		BodyJSON(&echo{Name: "fiorellas"}).
		Build()
	require.NoError(t, err)

	var result echo
	require.NoError(t, client.SendAndReceiveJson(eatery.NewBackgroundContext(), request, &result))
	assert.Equal(t, "FIORELLAS", result.Name)

	request, _ = eatery.NewReqBuilder().Get("/api/service/test/nowhere").Build()
	_, err = client.SendRequest(eatery.NewBackgroundContext(), request)
	require.Error(t, err)
	clientErr, ok := err.(*eatery.ClientResponseError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, clientErr.Response.StatusCode)
}

func TestStopWithoutStart(t *testing.T) {
	server, err := restful.NewServer("0", restful.Logger(logur.NoopLogger{}))
	require.NoError(t, err)

	done := make(chan interface{})
	go func() {
		server.Stop()
		close(done)
	}()
	test.WaitOrTimedOut(t, done, "Stop blocked without Start")
}
