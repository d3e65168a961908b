package events

import (
	"context"
	apperrors "quickshow/pkg/errors"
	"quickshow/pkg/kafka"
	"quickshow/pkg/logger"
	"testing"
	"time"
)

func messageOf(eventType, eventID string, payload string) kafka.Message {
	builder := kafka.NewMessage().
		WithKey("key").
		WithRawValue([]byte(payload)).
		WithEventType(eventType)
	if eventID != "" {
		builder = builder.WithEventID(eventID)
	}
	msg := builder.Build()
	msg.Topic = "quickshow.events"
	msg.Timestamp = time.Now()
	return msg
}

func TestDispatcher_RoutesByEventType(t *testing.T) {
	d := NewDispatcher(logger.Discard())

	var got Event
	d.Register(TypeShowAdded, func(ctx context.Context, evt Event) error {
		got = evt
		return nil
	})

	msg := messageOf(TypeShowAdded, "evt-42", `{"movieTitle":"Dune"}`)
	if err := d.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.ID != "evt-42" {
		t.Errorf("expected event id evt-42, got %q", got.ID)
	}
	if got.Type != TypeShowAdded {
		t.Errorf("expected type %s, got %s", TypeShowAdded, got.Type)
	}
	if string(got.Payload) != `{"movieTitle":"Dune"}` {
		t.Errorf("payload not passed through: %s", got.Payload)
	}
}

func TestDispatcher_UnknownTypeIsAcked(t *testing.T) {
	d := NewDispatcher(logger.Discard())

	msg := messageOf("payment.settled", "evt-1", `{}`)
	if err := d.HandleMessage(context.Background(), msg); err != nil {
		t.Errorf("unknown event types must be acked, got error: %v", err)
	}
}

func TestDispatcher_MissingEventTypeHeader(t *testing.T) {
	d := NewDispatcher(logger.Discard())

	msg := kafka.NewMessage().WithKey("key").WithRawValue([]byte(`{}`)).Build()
	err := d.HandleMessage(context.Background(), msg)
	if err == nil {
		t.Fatal("expected error for missing event-type header")
	}
	if !apperrors.HasCode(err, apperrors.CodeMalformedPayload) {
		t.Errorf("expected MALFORMED_PAYLOAD, got %v", err)
	}
}

func TestDispatcher_FallbackInvocationID(t *testing.T) {
	d := NewDispatcher(logger.Discard())

	var got Event
	d.Register(TypeShowAdded, func(ctx context.Context, evt Event) error {
		got = evt
		return nil
	})

	// A message that arrived without an event-id header.
	msg := kafka.Message{
		Key:       "key",
		Value:     []byte(`{"movieTitle":"Dune"}`),
		Headers:   map[string]string{"event-type": TypeShowAdded},
		Topic:     "quickshow.events",
		Partition: 2,
		Offset:    1337,
	}

	if err := d.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "quickshow.events-2-1337" {
		t.Errorf("expected offset-derived invocation id, got %q", got.ID)
	}
}
