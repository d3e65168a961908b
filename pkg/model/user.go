package model

import "time"

// User mirrors an identity-provider account. The _id is the provider's
// own identifier, not an ObjectID, so sync events can address records
// without a lookup table.
type User struct {
	ID        string    `json:"id" bson:"_id" validate:"required"`
	Name      string    `json:"name" bson:"name" validate:"required"`
	Email     string    `json:"email" bson:"email" validate:"required,email"`
	Image     string    `json:"image" bson:"image" validate:"omitempty,url"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
