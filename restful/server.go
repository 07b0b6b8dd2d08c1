package restful

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/pkg/errors"
	"logur.dev/logur"

	"gitlab.com/silenteer-oss/eatery"
	"gitlab.com/silenteer-oss/eatery/log"
)

// Option is a function on the options for a server.
type Option func(*Options) error

// Options can be used to create a customized server.
type Options struct {
	logger      logur.Logger
	corsOrigins []string
	subject     string
	routes      []func(eatery.Router)
}

func Logger(logger logur.Logger) Option {
	return func(o *Options) error {
		if logger == nil {
			return errors.New("logger can not be nil")
		}
		o.logger = logger
		return nil
	}
}

func CorsOrigins(origins ...string) Option {
	return func(o *Options) error {
		o.corsOrigins = origins
		return nil
	}
}

// Subject mounts the health, info and monitoring handlers under the
// subject's path instead of the root.
func Subject(subject string) Option {
	return func(o *Options) error {
		o.subject = subject
		return nil
	}
}

func Routes(r func(eatery.Router)) Option {
	return func(o *Options) error {
		o.routes = append(o.routes, r)
		return nil
	}
}

type Server struct {
	port    string
	handler http.Handler
	logger  logur.Logger

	mu      sync.Mutex
	addr    net.Addr
	running bool
	stop    chan interface{}
	stopped chan interface{}
}

func NewServer(port string, options ...Option) (*Server, error) {
	opts := Options{
		logger:      eatery.GetLogger(),
		corsOrigins: []string{"*"},
	}

	for _, opt := range options {
		if opt != nil {
			if err := opt(&opts); err != nil {
				return nil, errors.WithMessage(err, "Http server creation error")
			}
		}
	}

	logger := log.WithFields(opts.logger, map[string]interface{}{"port": port})

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", eatery.XRequestId, eatery.UberTraceID},
		ExposedHeaders: []string{eatery.XRequestId},
		MaxAge:         300,
	}))
	r.Use(eatery.NewMiddleware("Http", logger))

	router := eatery.NewRouter(r, logger)

	// health check and build info
	defaultHandlers := &eatery.DefaultHandlers{Subject: opts.subject}
	defaultHandlers.Register(router)

	for _, routes := range opts.routes {
		routes(router)
	}

	return &Server{
		port:    port,
		handler: router,
		logger:  logger,
		stop:    make(chan interface{}, 1),
		stopped: make(chan interface{}),
	}, nil
}

// Handler exposes the routed handler, so other transports can serve the
// same routes.
func (srv *Server) Handler() http.Handler {
	return srv.handler
}

// Addr is the bound listener address, nil until the server has started.
func (srv *Server) Addr() net.Addr {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	return srv.addr
}

// Start listens on the configured port and blocks until Stop is called or
// the process is interrupted.
func (srv *Server) Start(started ...chan interface{}) error {
	srv.mu.Lock()
	srv.running = true
	srv.mu.Unlock()
	defer close(srv.stopped)

	if srv.port == "" {
		return errors.New("Port not found")
	}

	listener, err := net.Listen("tcp", ":"+srv.port)
	if err != nil {
		return errors.WithMessage(err, "Http listen error")
	}
	srv.mu.Lock()
	srv.addr = listener.Addr()
	srv.mu.Unlock()

	h := &http.Server{Handler: srv.handler}

	go func() {
		if err := h.Serve(listener); err != nil && err != http.ErrServerClosed {
			srv.logger.Error(fmt.Sprintf("listen:%+s\n", err))
		}
	}()

	srv.logger.Info("Http server started", map[string]interface{}{"addr": listener.Addr().String()})
	for i := range started {
		started[i] <- true
	}

	// Handle SIGINT and SIGTERM.
	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(done)

	select {
	case <-srv.stop:
	case <-done:
	}

	srv.logger.Info("Http server stopping")

	ctxShutDown, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := h.Shutdown(ctxShutDown); err != nil {
		srv.logger.Error(fmt.Sprintf("server Shutdown Failed:%+s", err))
	}

	srv.logger.Info("Http server exited properly")
	return nil
}

// Stop asks a running server to shut down and waits until it has. It does
// nothing when Start was never called.
func (srv *Server) Stop() {
	srv.mu.Lock()
	running := srv.running
	srv.mu.Unlock()
	if !running {
		return
	}
	select {
	case srv.stop <- "stop":
	default:
	}
	<-srv.stopped
}
