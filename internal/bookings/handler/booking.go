package handler

import (
	"context"
	"quickshow/internal/bookings/service"
	"quickshow/internal/events"
	"quickshow/pkg/durable"
	"quickshow/pkg/logger"
	"time"
)

// BookingHandler consumes booking lifecycle events. Both events carry a
// booking reference; the event ID anchors the durable invocation so a
// redelivery resumes instead of repeating side effects.
type BookingHandler struct {
	release      *service.ReleaseService
	confirmation *service.ConfirmationService
	decoder      *events.Decoder
	ledger       durable.Ledger
	holdWindow   time.Duration
	log          *logger.Logger
}

func NewBookingHandler(
	release *service.ReleaseService,
	confirmation *service.ConfirmationService,
	decoder *events.Decoder,
	ledger durable.Ledger,
	holdWindow time.Duration,
	log *logger.Logger,
) *BookingHandler {
	return &BookingHandler{
		release:      release,
		confirmation: confirmation,
		decoder:      decoder,
		ledger:       ledger,
		holdWindow:   holdWindow,
		log:          log.WithComponent("booking-handler"),
	}
}

func (h *BookingHandler) Register(d *events.Dispatcher) {
	d.Register(events.TypePaymentPending, h.handlePaymentPending)
	d.Register(events.TypeShowBooked, h.handleShowBooked)
}

func (h *BookingHandler) handlePaymentPending(ctx context.Context, evt events.Event) error {
	payload, err := h.decoder.BookingRef(evt.Type, evt.Payload)
	if err != nil {
		return err
	}

	inv := durable.NewInvocation(evt.ID, h.ledger, h.log)
	deadline := evt.ReceivedAt.Add(h.holdWindow)
	return h.release.Release(ctx, inv, payload.BookingID, deadline)
}

func (h *BookingHandler) handleShowBooked(ctx context.Context, evt events.Event) error {
	payload, err := h.decoder.BookingRef(evt.Type, evt.Payload)
	if err != nil {
		return err
	}

	inv := durable.NewInvocation(evt.ID, h.ledger, h.log)
	return h.confirmation.SendConfirmation(ctx, inv, payload.BookingID)
}
