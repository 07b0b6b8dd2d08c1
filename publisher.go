package eatery

import (
	"fmt"
	"sync"

	"logur.dev/logur"
)

// Publisher publishes values wrapped in a Message to a fixed subject once a
// connection has been attached. Until then messages are dropped.
type Publisher struct {
	mu      sync.RWMutex
	conn    IConnection
	subject string
	logger  logur.Logger
}

func NewPublisher(subject string, logger logur.Logger) *Publisher {
	return &Publisher{subject: subject, logger: logger}
}

func (p *Publisher) SetConnection(conn IConnection) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.conn = conn
}

func (p *Publisher) Publish(v interface{}) {
	p.mu.RLock()
	conn := p.conn
	p.mu.RUnlock()

	if conn == nil {
		return
	}
	msg, err := NewMessage(v)
	if err != nil {
		p.logger.Error(fmt.Sprintf("Publish to %s error: %+v", p.subject, err))
		return
	}
	if err := conn.Publish(p.subject, msg); err != nil {
		p.logger.Error(fmt.Sprintf("Publish to %s error: %+v", p.subject, err))
	}
}
