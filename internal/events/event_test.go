package events

import (
	apperrors "quickshow/pkg/errors"
	"testing"
)

func TestDecoder_Identity(t *testing.T) {
	d := NewDecoder()

	payload := []byte(`{
		"id": "user_29w8",
		"first_name": "Jane",
		"last_name": "Doe",
		"email_addresses": [{"email_address": "jane@example.com"}],
		"image_url": "https://img.example.com/jane.png"
	}`)

	p, err := d.Identity(TypeIdentityCreated, payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != "user_29w8" {
		t.Errorf("expected id user_29w8, got %s", p.ID)
	}
	if p.PrimaryEmail() != "jane@example.com" {
		t.Errorf("expected primary email jane@example.com, got %s", p.PrimaryEmail())
	}
}

func TestDecoder_Identity_Malformed(t *testing.T) {
	d := NewDecoder()

	tests := []struct {
		name    string
		payload string
	}{
		{"not json", `{{`},
		{"missing id", `{"first_name":"Jane","email_addresses":[{"email_address":"a@b.com"}]}`},
		{"no email addresses", `{"id":"user_1","email_addresses":[]}`},
		{"invalid email", `{"id":"user_1","email_addresses":[{"email_address":"nope"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.Identity(TypeIdentityCreated, []byte(tt.payload))
			if err == nil {
				t.Fatal("expected error")
			}
			if !apperrors.HasCode(err, apperrors.CodeMalformedPayload) {
				t.Errorf("expected MALFORMED_PAYLOAD, got %v", err)
			}
			if !apperrors.IsPermanent(err) {
				t.Errorf("malformed payloads must be permanent failures")
			}
		})
	}
}

func TestDecoder_BookingRef(t *testing.T) {
	d := NewDecoder()

	p, err := d.BookingRef(TypePaymentPending, []byte(`{"bookingId":"665f1c2ab1e4d3a9c8b45f01"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.BookingID != "665f1c2ab1e4d3a9c8b45f01" {
		t.Errorf("unexpected booking id: %s", p.BookingID)
	}

	if _, err := d.BookingRef(TypePaymentPending, []byte(`{}`)); err == nil {
		t.Error("expected error for missing bookingId")
	}
}

func TestDecoder_ShowAdded(t *testing.T) {
	d := NewDecoder()

	p, err := d.ShowAdded([]byte(`{"movieTitle":"Interstellar"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.MovieTitle != "Interstellar" {
		t.Errorf("unexpected title: %s", p.MovieTitle)
	}

	if _, err := d.ShowAdded([]byte(`{"movieTitle":""}`)); err == nil {
		t.Error("expected error for empty movieTitle")
	}
}
