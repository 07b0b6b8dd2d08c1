package app_test

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/silenteer-oss/eatery/api"
	"gitlab.com/silenteer-oss/eatery/internal/app"
	"gitlab.com/silenteer-oss/eatery/restaurant"
	"gitlab.com/silenteer-oss/eatery/test"
)

func startApplication(t *testing.T, config *app.Config) (*app.Application, string) {
	t.Helper()
	application, err := app.NewApplication(config)
	require.NoError(t, err)

	test.NewTestServer(t, application).Start()
	t.Cleanup(application.Stop)

	port := application.HttpAddr().(*net.TCPAddr).Port
	return application, fmt.Sprintf("127.0.0.1:%d", port)
}

func TestApplicationServesHttp(t *testing.T) {
	_, addr := startApplication(t, app.DefaultConfig())

	resp, err := http.Get("http://" + addr + api.BasePath)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got []api.Restaurant
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Len(t, got, 3)
}

func TestFeedReceivesDirectoryEvents(t *testing.T) {
	//1. setup application and subscribe to the feed
	application, addr := startApplication(t, app.DefaultConfig())

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+addr+api.BasePath+"/feed", nil)
	require.NoError(t, err)
	defer conn.Close()

	//2. mutate until the hub has registered the client and the feed sees it
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			application.Directory().Create("Nobu", "Japanese")
			select {
			case <-stop:
				return
			case <-ticker.C:
			}
		}
	}()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, message, err := conn.ReadMessage()
	require.NoError(t, err)

	//3. assert it
	var event restaurant.Event
	require.NoError(t, json.Unmarshal(message, &event))
	assert.Equal(t, restaurant.Created, event.Type)
	assert.Equal(t, "Nobu", event.Restaurant.Name)
	assert.Greater(t, event.Restaurant.ID, 3)
}

func TestApplicationWithoutSeed(t *testing.T) {
	config := app.DefaultConfig()
	config.Directory.Seed = false
	config.Directory.Ids = restaurant.IDsLength

	application, err := app.NewApplication(config)
	require.NoError(t, err)
	assert.Equal(t, 0, application.Directory().Len())
	assert.Equal(t, 1, application.Directory().Create("A", "").ID)
}

func TestApplicationRejectsUnknownIdGenerator(t *testing.T) {
	config := app.DefaultConfig()
	config.Directory.Ids = "random"

	_, err := app.NewApplication(config)
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	config := app.LoadConfig()

	assert.True(t, config.Directory.Seed)
	assert.Equal(t, restaurant.IDsSequence, config.Directory.Ids)
	assert.Equal(t, viper.GetString("Http.Port"), config.Http.Port)
	assert.Equal(t, "api.service.restaurants.events", config.Nats.EventSubject())
	assert.False(t, config.Tracing)
	assert.True(t, strings.HasPrefix(config.Nats.Servers, "nats://"))
}

func TestApplicationRejectsForeignSubject(t *testing.T) {
	config := app.DefaultConfig()
	config.Nats.Subject = "api.service.other"

	_, err := app.NewApplication(config)
	assert.Error(t, err)
}

func TestStopWithoutStart(t *testing.T) {
	application, err := app.NewApplication(app.DefaultConfig())
	require.NoError(t, err)

	done := make(chan interface{})
	go func() {
		application.Stop()
		close(done)
	}()
	test.WaitOrTimedOut(t, done, "Stop blocked without Start")
}

func TestFeedRefusesForeignOrigin(t *testing.T) {
	config := app.DefaultConfig()
	config.Http.CorsOrigins = []string{"http://allowed.example"}
	_, addr := startApplication(t, config)

	_, resp, err := websocket.DefaultDialer.Dial("ws://"+addr+api.BasePath+"/feed",
		http.Header{"Origin": {"http://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
