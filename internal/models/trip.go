package models

import "time"

type TripStatus string

const (
	TripScheduled TripStatus = "scheduled"
	TripActive    TripStatus = "active"
	TripCompleted TripStatus = "completed"
	TripCanceled  TripStatus = "canceled"
)

type Trip struct {
	ID          string     `json:"id"`
	TravelerID  string     `json:"traveler_id"`
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`
	DepartureAt time.Time  `json:"departure_at"`
	Status      TripStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}
