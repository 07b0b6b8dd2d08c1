package test

import (
	"testing"
	"time"
)

// Startable is a server whose Start blocks until Stop.
type Startable interface {
	Start(started ...chan interface{}) error
	Stop()
}

type TestServer struct {
	Startable
	t *testing.T
}

func NewTestServer(t *testing.T, server Startable) *TestServer {
	return &TestServer{server, t}
}

// Start runs the server in the background and waits until it reports it
// has started. A start error fails the test.
func (s *TestServer) Start() {
	started := make(chan interface{}, 1)
	failed := make(chan error, 1)

	go func() {
		if err := s.Startable.Start(started); err != nil {
			failed <- err
		}
	}()

	select {
	case <-started:
	case err := <-failed:
		s.t.Fatalf("Server start error: %+v", err)
	case <-time.After(5 * time.Second):
		s.t.Fatal("Server start timed out after 5 seconds")
	}
}

func WaitOrTimedOut(t *testing.T, ch chan interface{}, msg string) {
	select {
	case <-ch:
	case <-time.After(1 * time.Second):
		t.Error(msg + " after 1 second")
	}
}
