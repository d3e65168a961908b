package model

import "time"

type Booking struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	User        string    `json:"user" bson:"user" validate:"required"`
	Show        string    `json:"show" bson:"show" validate:"required,mongodb"`
	Amount      float64   `json:"amount" bson:"amount" validate:"gte=0"`
	BookedSeats []string  `json:"booked_seats" bson:"booked_seats" validate:"required,min=1,dive,required"`
	IsPaid      bool      `json:"is_paid" bson:"is_paid"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
