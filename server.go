package eatery

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"logur.dev/logur"

	"gitlab.com/silenteer-oss/eatery/log"
)

// Server answers NATS request messages by serving them through an
// http.Handler, so the same routes work over HTTP and NATS.
type Server struct {
	config  *NatsConfig
	handler http.Handler
	logger  logur.Logger
	conn    *Connection
	stop    chan interface{} // command that instruct the server should be shutdown
	stopped chan interface{} // inform client that the server has stop
	msgNum  int64            // number of processing messages
	running int32
}

func NewServer(config *NatsConfig, handler http.Handler, logger logur.Logger) *Server {
	if logger == nil {
		logger = GetLogger()
	}
	return &Server{
		config:  config,
		handler: handler,
		logger:  log.WithFields(logger, map[string]interface{}{"subject": config.Subject, "queue": config.Queue}),
		stop:    make(chan interface{}, 1),
		stopped: make(chan interface{}),
	}
}

// Start blocks until Stop is called or the process is interrupted.
func (srv *Server) Start(started ...chan interface{}) error {
	atomic.StoreInt32(&srv.running, 1)
	defer close(srv.stopped)

	if srv.handler == nil {
		return errors.New("nats: Handler not found")
	}
	config := srv.config
	if config.Subject == "" {
		return errors.New("nats: Subject can not be empty")
	}
	if config.Servers == "" {
		return errors.New("nats: Address can not be empty")
	}
	if config.ReadTimeout <= 0 {
		return errors.New("nats: ReadTimeout can not be empty")
	}

	timeoutHandler := http.TimeoutHandler(srv.handler, config.GetReadTimeoutDuration(), `{"message": "nats handler timeout"}`)

	srv.logger.Info("Connecting to NATS Server", map[string]interface{}{"add": config.Servers})
	conn, err := NewConnection(config.Servers, config.GetReadTimeoutDuration(), DefaultNatsOptions(config.Subject, srv.logger)...)
	if err != nil {
		return errors.WithMessage(err, "Nats connection error ")
	}
	srv.conn = conn

	subscription, err := srv.subscribe(conn.Conn, timeoutHandler)
	if err != nil {
		conn.Close()
		return errors.WithMessage(err, "Nats serve error ")
	}

	if err := conn.Flush(); err != nil {
		srv.logger.Error(fmt.Sprintf("Subscriptions flush error: %+v\n ", err))
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(done)

	srv.logger.Info("Nats server started")
	for i := range started {
		started[i] <- true
	}

	select {
	case <-srv.stop:
	case <-done:
	}

	srv.logger.Info("Nats server is closing")
	if er := subscription.Drain(); er != nil {
		srv.logger.Error(fmt.Sprintf("Unsubscribe error: %+v\n ", er))
	}

	// wait for all messages processed or timeout
	deadline := time.After(15 * time.Second)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
wait:
	for atomic.LoadInt64(&srv.msgNum) > 0 {
		select {
		case <-ticker.C:
		case <-deadline:
			break wait
		}
	}

	conn.Drain()
	srv.logger.Info("Nats server stopped")
	return nil
}

// Stop asks a running server to drain and waits until it has. It does
// nothing when Start was never called.
func (srv *Server) Stop() {
	if atomic.LoadInt32(&srv.running) == 0 {
		return
	}
	select {
	case srv.stop <- "stop command":
	default:
	}
	<-srv.stopped
}

// Connection is the server's NATS connection, nil before Start.
func (srv *Server) Connection() *Connection {
	return srv.conn
}

func (srv *Server) subscribe(conn *nats.EncodedConn, handler http.Handler) (*nats.Subscription, error) {
	return conn.QueueSubscribe(srv.config.Subject, srv.config.Queue, func(_ string, rpSubject string, msg []byte) {
		go srv.serve(conn, handler, rpSubject, msg)
	})
}

func (srv *Server) serve(enc *nats.EncodedConn, handler http.Handler, rpSubject string, msg []byte) {
	atomic.AddInt64(&srv.msgNum, 1)
	defer atomic.AddInt64(&srv.msgNum, -1)

	var rq Request
	if err := json.Unmarshal(msg, &rq); err != nil {
		srv.logger.Error(fmt.Sprintf("Nats server deserialize body error: %+v", err))
		replyError(enc, srv.logger, err, rpSubject)
		return
	}

	logWithId := log.WithFields(srv.logger, map[string]interface{}{"method": rq.Method, "url": rq.URL})
	defer handlePanic(enc, logWithId, rpSubject)

	rp := ServeRequest(handler, &rq)
	if err := enc.Publish(rpSubject, rp); err != nil {
		logWithId.Error(fmt.Sprintf("Nats error on publish result back: %+v\n ", err))
	}
}

// ServeRequest runs rq through handler and captures the response.
func ServeRequest(handler http.Handler, rq *Request) *Response {
	rp := &Response{Headers: http.Header{}}

	httpReq, err := NatsRequestToHttpRequest(rq)
	if err != nil {
		return &Response{StatusCode: http.StatusBadRequest, Status: err.Error(), Headers: http.Header{}}
	}

	handler.ServeHTTP(rp, httpReq)
	if rp.StatusCode == 0 {
		rp.WriteHeader(http.StatusOK)
	}
	return rp
}

func handlePanic(enc *nats.EncodedConn, logger logur.Logger, rpSubject string) {
	if r := recover(); r != nil {
		err, ok := r.(error)
		if !ok {
			err = fmt.Errorf("panic : %v", r)
		}
		replyError(enc, logger, err, rpSubject)
		logger.Info("panic recovered")
	}
}

func replyError(enc *nats.EncodedConn, logger logur.Logger, err error, rpSubject string) {
	logger.Error(fmt.Sprintf("Nats error: %+v\n ", err))
	resp := &Response{
		StatusCode: http.StatusInternalServerError,
		Status:     http.StatusText(http.StatusInternalServerError),
		Headers:    http.Header{},
	}
	if er := enc.Publish(rpSubject, resp); er != nil {
		logger.Error(fmt.Sprintf("Nats error on reply back: %+v\n ", er))
	}
}
