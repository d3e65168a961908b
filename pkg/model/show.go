package model

import "time"

// Show is one screening of a movie. OccupiedSeats maps a seat label
// ("A1") to the identifier of the user holding it; free seats are simply
// absent from the map.
type Show struct {
	ID            string            `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Movie         string            `json:"movie" bson:"movie" validate:"required"`
	ShowDateTime  time.Time         `json:"show_date_time" bson:"show_date_time" validate:"required"`
	ShowPrice     float64           `json:"show_price" bson:"show_price" validate:"gte=0"`
	OccupiedSeats map[string]string `json:"occupied_seats" bson:"occupied_seats"`
}

// OccupantIDs returns the distinct user identifiers holding seats,
// in no particular order.
func (s *Show) OccupantIDs() []string {
	if len(s.OccupiedSeats) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(s.OccupiedSeats))
	ids := make([]string, 0, len(s.OccupiedSeats))
	for _, userID := range s.OccupiedSeats {
		if _, ok := seen[userID]; ok {
			continue
		}
		seen[userID] = struct{}{}
		ids = append(ids, userID)
	}
	return ids
}
