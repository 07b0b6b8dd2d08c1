package api

import (
	"gitlab.com/silenteer-oss/eatery"
	"gitlab.com/silenteer-oss/eatery/restaurant"
)

// EventSubject carries directory change events when the service runs with
// NATS enabled.
const EventSubject = Subject + ".events"

type EventHandler func(ctx *eatery.Context, event restaurant.Event) error

// RegisterEventHandler decodes every change event for handler. Subscribers
// sharing a queue split the events between them.
func RegisterEventHandler(subscriber *eatery.MessageSubscriber, queue string, handler EventHandler) {
	subscriber.Register(EventSubject, queue, func(msg *eatery.Message) error {
		var event restaurant.Event
		ctx, err := msg.Parse(&event)
		if err != nil {
			return err
		}
		return handler(ctx, event)
	})
}
