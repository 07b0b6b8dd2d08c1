package eatery

import (
	"fmt"
	"runtime/debug"

	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"logur.dev/logur"
)

type MessageHandler func(*Message) error

type Registration struct {
	Subject string
	Queue   string
	Handler MessageHandler
}

// MessageSubscriber collects handlers for published messages and attaches
// them to a connection in one go.
type MessageSubscriber struct {
	logger        logur.Logger
	registrations []*Registration
	subscriptions []*nats.Subscription
}

func NewMessageSubscriber(logger logur.Logger) *MessageSubscriber {
	return &MessageSubscriber{logger: logger}
}

// Register adds a handler. An empty queue delivers every message to every
// subscriber.
func (s *MessageSubscriber) Register(subject string, queue string, handler MessageHandler) {
	s.registrations = append(s.registrations, &Registration{
		Subject: subject,
		Queue:   queue,
		Handler: createHandlerWithRecover(s.logger, handler),
	})
}

func (s *MessageSubscriber) Subscribe(conn *Connection) error {
	for index, registration := range s.registrations {
		handler := registration.Handler
		cb := func(msg *Message) { _ = handler(msg) }

		var sub *nats.Subscription
		var err error
		if registration.Queue == "" {
			sub, err = conn.Conn.Subscribe(registration.Subject, cb)
		} else {
			sub, err = conn.Conn.QueueSubscribe(registration.Subject, registration.Queue, cb)
		}
		if err != nil {
			return errors.WithMessagef(err, "Nats subscription [%d] error ", index)
		}
		s.subscriptions = append(s.subscriptions, sub)
	}

	s.registrations = nil
	return nil
}

func (s *MessageSubscriber) Drain() {
	for _, sub := range s.subscriptions {
		if er := sub.Drain(); er != nil {
			s.logger.Error(fmt.Sprintf("Drain error: %+v\n ", er))
		}
	}
	s.subscriptions = nil
}

func createHandlerWithRecover(logger logur.Logger, next MessageHandler) MessageHandler {
	return func(msg *Message) (err error) {
		defer func() {
			if _err := recover(); _err != nil {
				err = fmt.Errorf("panicking from subscriber %+v", _err)
				logger.Error("stacktrace from panic subscriber: \n" + string(debug.Stack()))
			}
			if err != nil {
				logger.Error(fmt.Sprintf("Message handler error: %+v", err))
			}
		}()
		return next(msg)
	}
}
