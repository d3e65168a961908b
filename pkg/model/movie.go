package model

// Movie is owned by the catalogue service; this worker only reads it.
// The _id is the external catalogue identifier.
type Movie struct {
	ID          string `json:"id" bson:"_id" validate:"required"`
	Title       string `json:"title" bson:"title" validate:"required"`
	Overview    string `json:"overview" bson:"overview"`
	PosterPath  string `json:"poster_path" bson:"poster_path"`
	ReleaseDate string `json:"release_date" bson:"release_date"`
	Runtime     int    `json:"runtime" bson:"runtime" validate:"gte=0"`
}
