package events

import (
	"context"
	"fmt"
	apperrors "quickshow/pkg/errors"
	"quickshow/pkg/kafka"
	"quickshow/pkg/logger"
	"time"
)

// Event is one delivery handed to a registered handler. ID is stable
// across redeliveries and identifies the durable invocation.
type Event struct {
	ID         string
	Type       string
	Payload    []byte
	ReceivedAt time.Time
}

type Handler func(ctx context.Context, evt Event) error

// Dispatcher routes consumed messages to handlers by event type. It is
// the worker-side counterpart of the platform's event dispatcher:
// handlers stay leaves, the dispatcher is their sole caller.
type Dispatcher struct {
	handlers map[string]Handler
	log      *logger.Logger
}

func NewDispatcher(log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string]Handler),
		log:      log.WithComponent("dispatcher"),
	}
}

func (d *Dispatcher) Register(eventType string, h Handler) {
	if _, exists := d.handlers[eventType]; exists {
		d.log.Warn("Handler registered twice, keeping the latest", "event_type", eventType)
	}
	d.handlers[eventType] = h
}

// HandleMessage adapts the dispatcher to the kafka consumer contract.
func (d *Dispatcher) HandleMessage(ctx context.Context, msg kafka.Message) error {
	eventType := msg.GetEventType()
	if eventType == "" {
		return apperrors.New(apperrors.CodeMalformedPayload, "message is missing the event-type header")
	}

	handler, ok := d.handlers[eventType]
	if !ok {
		// Unknown kinds are acked, not retried: this worker simply does
		// not subscribe to them.
		d.log.Warn("No handler for event type, skipping", "event_type", eventType)
		return nil
	}

	evt := Event{
		ID:         msg.GetEventID(),
		Type:       eventType,
		Payload:    msg.Value,
		ReceivedAt: msg.Timestamp,
	}
	if evt.ID == "" {
		// Partition and offset are stable across redeliveries, so they
		// still make a usable invocation identity.
		evt.ID = fmt.Sprintf("%s-%d-%d", msg.Topic, msg.Partition, msg.Offset)
	}
	if evt.ReceivedAt.IsZero() {
		evt.ReceivedAt = time.Now()
	}

	return handler(ctx, evt)
}
