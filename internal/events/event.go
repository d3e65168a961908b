package events

import (
	"encoding/json"
	apperrors "quickshow/pkg/errors"

	"github.com/go-playground/validator/v10"
)

// Event types carried in the event-type message header.
const (
	TypeIdentityCreated = "identity.created"
	TypeIdentityUpdated = "identity.updated"
	TypeIdentityDeleted = "identity.deleted"
	TypePaymentPending  = "payment.pending"
	TypeShowBooked      = "show.booked"
	TypeShowAdded       = "show.added"
)

// IdentityPayload is the identity-provider webhook body for created and
// updated events. Field names follow the provider's wire format.
type IdentityPayload struct {
	ID             string         `json:"id" validate:"required"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	EmailAddresses []EmailAddress `json:"email_addresses" validate:"required,min=1,dive"`
	ImageURL       string         `json:"image_url" validate:"omitempty,url"`
}

type EmailAddress struct {
	EmailAddress string `json:"email_address" validate:"required,email"`
}

// PrimaryEmail returns the first listed address, which the provider
// documents as the primary one.
func (p *IdentityPayload) PrimaryEmail() string {
	return p.EmailAddresses[0].EmailAddress
}

// IdentityRef is the identity-deleted body: just the identifier.
type IdentityRef struct {
	ID string `json:"id" validate:"required"`
}

// BookingRef is shared by payment.pending and show.booked.
type BookingRef struct {
	BookingID string `json:"bookingId" validate:"required"`
}

// ShowAddedPayload announces a new show for a movie.
type ShowAddedPayload struct {
	MovieTitle string `json:"movieTitle" validate:"required"`
}

// Decoder unmarshals and validates event payloads at the consumer
// boundary. A payload that fails either stage is permanently rejected.
type Decoder struct {
	validate *validator.Validate
}

func NewDecoder() *Decoder {
	return &Decoder{validate: validator.New()}
}

func (d *Decoder) decode(eventType string, data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return apperrors.MalformedPayload(eventType, err)
	}
	if err := d.validate.Struct(out); err != nil {
		return apperrors.MalformedPayload(eventType, err)
	}
	return nil
}

func (d *Decoder) Identity(eventType string, data []byte) (*IdentityPayload, error) {
	var p IdentityPayload
	if err := d.decode(eventType, data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (d *Decoder) IdentityRef(data []byte) (*IdentityRef, error) {
	var p IdentityRef
	if err := d.decode(TypeIdentityDeleted, data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (d *Decoder) BookingRef(eventType string, data []byte) (*BookingRef, error) {
	var p BookingRef
	if err := d.decode(eventType, data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (d *Decoder) ShowAdded(data []byte) (*ShowAddedPayload, error) {
	var p ShowAddedPayload
	if err := d.decode(TypeShowAdded, data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
