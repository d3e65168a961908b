package handler

import (
	"context"
	"quickshow/internal/events"
	"quickshow/internal/shows/service"
	"quickshow/pkg/durable"
	"quickshow/pkg/logger"
)

// ShowHandler consumes catalogue events about shows.
type ShowHandler struct {
	broadcast *service.BroadcastService
	decoder   *events.Decoder
	ledger    durable.Ledger
	log       *logger.Logger
}

func NewShowHandler(broadcast *service.BroadcastService, decoder *events.Decoder, ledger durable.Ledger, log *logger.Logger) *ShowHandler {
	return &ShowHandler{
		broadcast: broadcast,
		decoder:   decoder,
		ledger:    ledger,
		log:       log.WithComponent("show-handler"),
	}
}

func (h *ShowHandler) Register(d *events.Dispatcher) {
	d.Register(events.TypeShowAdded, h.handleShowAdded)
}

func (h *ShowHandler) handleShowAdded(ctx context.Context, evt events.Event) error {
	payload, err := h.decoder.ShowAdded(evt.Payload)
	if err != nil {
		return err
	}

	inv := durable.NewInvocation(evt.ID, h.ledger, h.log)
	return h.broadcast.Announce(ctx, inv, payload.MovieTitle)
}
