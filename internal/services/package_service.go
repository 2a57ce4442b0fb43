package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/vya-logistics/vya-backend/internal/models"
	repo "github.com/vya-logistics/vya-backend/internal/repository"
)

type PackageService struct {
	packages repo.Packages
	trips    repo.Trips
}

func NewPackageService(packages repo.Packages, trips repo.Trips) *PackageService {
	return &PackageService{packages: packages, trips: trips}
}

var validSizes = map[string]bool{"small": true, "medium": true, "large": true}

func (s *PackageService) Create(ctx context.Context, senderID, sizeClass, description, origin, destination string, price decimal.Decimal) (models.Package, error) {
	if !validSizes[sizeClass] {
		return models.Package{}, &ValidationError{Field: "size_class", Msg: "must be small, medium or large"}
	}
	if origin == "" || destination == "" {
		return models.Package{}, &ValidationError{Field: "route", Msg: "origin and destination are required"}
	}
	if !price.IsPositive() {
		return models.Package{}, &ValidationError{Field: "price", Msg: "must be > 0"}
	}
	return s.packages.Create(ctx, models.Package{
		SenderID:    senderID,
		SizeClass:   sizeClass,
		Description: description,
		Origin:      origin,
		Destination: destination,
		Price:       price.Round(2),
		Status:      models.PkgSearching,
	})
}

func (s *PackageService) ListBySender(ctx context.Context, senderID string, limit, offset int) ([]models.Package, error) {
	return s.packages.ListBySender(ctx, senderID, limit, offset)
}

func (s *PackageService) ListAvailable(ctx context.Context, limit, offset int) ([]models.Package, error) {
	return s.packages.ListSearching(ctx, limit, offset)
}

// Advance applies a caller-requested forward transition (pickup, transit,
// delivery confirmations). Only the package's sender or its assigned
// traveler may confirm. The target must be the immediate next status; the
// write itself is guarded on the current one, so concurrent confirmations
// cannot double-apply.
func (s *PackageService) Advance(ctx context.Context, actorID, packageID string, to models.PackageStatus) (models.Package, error) {
	pkg, err := s.packages.GetByID(ctx, packageID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Package{}, ErrNotFound
		}
		return models.Package{}, fmt.Errorf("%w: load package: %v", ErrInternal, err)
	}
	if !s.mayConfirm(ctx, actorID, pkg) {
		return models.Package{}, ErrForbidden
	}
	if !pkg.Status.CanTransition(to) {
		return models.Package{}, &ConflictError{Msg: fmt.Sprintf("cannot move to %s", to), CurrentStatus: pkg.Status}
	}
	// Payment-gated transitions belong to the settlement flow only.
	if to == models.PkgWaitingPayment || to == models.PkgWaitingPickup {
		return models.Package{}, &ConflictError{Msg: "transition is driven by payment", CurrentStatus: pkg.Status}
	}
	ok, err := s.packages.UpdateStatus(ctx, packageID, pkg.Status, to)
	if err != nil {
		return models.Package{}, fmt.Errorf("%w: update status: %v", ErrInternal, err)
	}
	if !ok {
		return models.Package{}, &ConflictError{Msg: "package changed concurrently", CurrentStatus: pkg.Status}
	}
	return s.packages.GetByID(ctx, packageID)
}

// mayConfirm reports whether the actor is the package's sender or the
// traveler assigned through its trip.
func (s *PackageService) mayConfirm(ctx context.Context, actorID string, pkg models.Package) bool {
	if actorID == pkg.SenderID {
		return true
	}
	if pkg.TripID == nil {
		return false
	}
	t, err := s.trips.GetByID(ctx, *pkg.TripID)
	return err == nil && t.TravelerID == actorID
}
