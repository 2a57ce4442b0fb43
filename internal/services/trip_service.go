package services

import (
	"context"
	"time"

	"github.com/vya-logistics/vya-backend/internal/models"
	repo "github.com/vya-logistics/vya-backend/internal/repository"
)

type TripService struct {
	trips repo.Trips
}

func NewTripService(trips repo.Trips) *TripService {
	return &TripService{trips: trips}
}

func (s *TripService) Create(ctx context.Context, travelerID, origin, destination string, departureAt time.Time) (models.Trip, error) {
	if origin == "" || destination == "" {
		return models.Trip{}, &ValidationError{Field: "route", Msg: "origin and destination are required"}
	}
	if departureAt.Before(time.Now()) {
		return models.Trip{}, &ValidationError{Field: "departure_at", Msg: "must be in the future"}
	}
	return s.trips.Create(ctx, models.Trip{
		TravelerID:  travelerID,
		Origin:      origin,
		Destination: destination,
		DepartureAt: departureAt,
		Status:      models.TripScheduled,
	})
}

func (s *TripService) ListByTraveler(ctx context.Context, travelerID string) ([]models.Trip, error) {
	return s.trips.ListByTraveler(ctx, travelerID)
}
