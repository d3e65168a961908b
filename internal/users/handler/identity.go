package handler

import (
	"context"
	"quickshow/internal/events"
	"quickshow/internal/users/service"
	"quickshow/pkg/logger"
)

// IdentityHandler consumes identity-provider webhook events and keeps
// the user store in sync.
type IdentityHandler struct {
	service service.SyncService
	decoder *events.Decoder
	log     *logger.Logger
}

func NewIdentityHandler(service service.SyncService, decoder *events.Decoder, log *logger.Logger) *IdentityHandler {
	return &IdentityHandler{
		service: service,
		decoder: decoder,
		log:     log.WithComponent("identity-handler"),
	}
}

func (h *IdentityHandler) Register(d *events.Dispatcher) {
	d.Register(events.TypeIdentityCreated, h.handleCreated)
	d.Register(events.TypeIdentityUpdated, h.handleUpdated)
	d.Register(events.TypeIdentityDeleted, h.handleDeleted)
}

func (h *IdentityHandler) handleCreated(ctx context.Context, evt events.Event) error {
	payload, err := h.decoder.Identity(evt.Type, evt.Payload)
	if err != nil {
		return err
	}
	return h.service.CreateFromIdentity(ctx, payload)
}

func (h *IdentityHandler) handleUpdated(ctx context.Context, evt events.Event) error {
	payload, err := h.decoder.Identity(evt.Type, evt.Payload)
	if err != nil {
		return err
	}
	return h.service.UpdateFromIdentity(ctx, payload)
}

func (h *IdentityHandler) handleDeleted(ctx context.Context, evt events.Event) error {
	payload, err := h.decoder.IdentityRef(evt.Payload)
	if err != nil {
		return err
	}
	return h.service.DeleteByIdentity(ctx, payload.ID)
}
