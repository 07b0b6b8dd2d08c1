package app

import (
	"fmt"
	"io"
	"net"
	"sync/atomic"

	"github.com/pkg/errors"
	"logur.dev/logur"

	"gitlab.com/silenteer-oss/eatery"
	"gitlab.com/silenteer-oss/eatery/api"
	"gitlab.com/silenteer-oss/eatery/log"
	"gitlab.com/silenteer-oss/eatery/restaurant"
	"gitlab.com/silenteer-oss/eatery/restful"
	"gitlab.com/silenteer-oss/eatery/socket"
	"gitlab.com/silenteer-oss/eatery/tracing"
)

// Application serves one restaurant directory over HTTP, and over NATS when
// enabled. Directory changes go to the websocket feed and the event subject.
type Application struct {
	config    *Config
	logger    logur.Logger
	directory *restaurant.Directory
	hub       *socket.Hub
	publisher *eatery.Publisher
	http      *restful.Server
	nats      *eatery.Server

	running int32
	stop    chan interface{}
	done    chan interface{}
}

func NewApplication(config *Config) (*Application, error) {
	if config == nil {
		config = DefaultConfig()
	}
	// routes are mounted at api.BasePath, so NATS must listen on its subject
	if config.Nats.Subject != api.Subject {
		return nil, errors.Errorf("Nats.Subject must be %q, got %q", api.Subject, config.Nats.Subject)
	}
	logger := log.NewLogger(config.Logging)

	ids, err := restaurant.NewIDGenerator(config.Directory.Ids)
	if err != nil {
		return nil, err
	}

	a := &Application{
		config:    config,
		logger:    logger,
		hub:       socket.NewHub(log.WithFields(logger, map[string]interface{}{"component": "feed"})),
		publisher: eatery.NewPublisher(config.Nats.EventSubject(), logger),
		stop:      make(chan interface{}, 1),
		done:      make(chan interface{}),
	}

	a.hub.AllowOrigins(config.Http.CorsOrigins...)

	options := []restaurant.Option{
		restaurant.WithIDGenerator(ids),
		restaurant.WithListener(a.onEvent),
	}
	if !config.Directory.Seed {
		options = append(options, restaurant.WithSeed())
	}
	a.directory = restaurant.NewDirectory(options...)

	service, err := NewRestaurantService(a.directory, a.hub)
	if err != nil {
		return nil, err
	}

	a.http, err = restful.NewServer(config.Http.Port,
		restful.Logger(logger),
		restful.CorsOrigins(config.Http.CorsOrigins...),
		restful.Subject(api.Subject),
		restful.Routes(service.Routes),
	)
	if err != nil {
		return nil, err
	}

	if config.Nats.Enabled {
		a.nats = eatery.NewServer(config.Nats, a.http.Handler(), logger)
	}
	return a, nil
}

func (a *Application) Directory() *restaurant.Directory {
	return a.directory
}

// HttpAddr is the bound HTTP address, nil until started.
func (a *Application) HttpAddr() net.Addr {
	return a.http.Addr()
}

// Start blocks until Stop is called or the process is interrupted. started
// is signalled once every server accepts requests.
func (a *Application) Start(started ...chan interface{}) error {
	atomic.StoreInt32(&a.running, 1)
	defer close(a.done)

	if a.config.Tracing {
		closer, err := tracing.InitTracing("restaurants", a.logger)
		if err != nil {
			return err
		}
		defer closeQuietly(closer, a.logger)
	}

	go a.hub.Run()
	defer a.hub.Stop()

	if a.nats != nil {
		natsStarted := make(chan interface{}, 1)
		natsErr := make(chan error, 1)
		go func() { natsErr <- a.nats.Start(natsStarted) }()

		select {
		case <-natsStarted:
			a.publisher.SetConnection(a.nats.Connection())
			defer a.nats.Stop()
		case err := <-natsErr:
			return errors.WithMessage(err, "Nats server error")
		}
	}

	httpErr := make(chan error, 1)
	go func() { httpErr <- a.http.Start(started...) }()

	select {
	case err := <-httpErr:
		return err
	case <-a.stop:
		a.http.Stop()
		return <-httpErr
	}
}

// Stop shuts every server down and waits for Start to return. It does
// nothing when Start was never called.
func (a *Application) Stop() {
	if atomic.LoadInt32(&a.running) == 0 {
		return
	}
	select {
	case a.stop <- "stop":
	default:
	}
	<-a.done
}

func (a *Application) onEvent(e restaurant.Event) {
	a.logger.Debug("Directory changed", map[string]interface{}{"type": string(e.Type), "id": e.Restaurant.ID})

	if err := a.hub.BroadcastJson(e); err != nil {
		a.logger.Error(fmt.Sprintf("Feed broadcast error: %+v", err))
	}
	a.publisher.Publish(e)
}

func closeQuietly(c io.Closer, logger logur.Logger) {
	if err := c.Close(); err != nil {
		logger.Error(fmt.Sprintf("Close error: %+v", err))
	}
}
