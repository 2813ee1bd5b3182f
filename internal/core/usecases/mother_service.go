package usecases

import (
	"context"
	"fmt"

	"github.com/kanahhealth/kanah/internal/core/domain"
	"github.com/kanahhealth/kanah/internal/core/ports"
)

// MotherService handles care-seeker profile logic.
type MotherService struct {
	mothers ports.MotherRepository
}

// NewMotherService creates a new MotherService.
func NewMotherService(mothers ports.MotherRepository) *MotherService {
	return &MotherService{mothers: mothers}
}

// Get returns a mother's profile.
func (s *MotherService) Get(ctx context.Context, id string) (*domain.Mother, error) {
	return s.mothers.GetByID(ctx, id)
}

// UpdateLocation stores the mother's most recent coordinate. The coordinate
// is validated against WGS 84 ranges before it is written.
func (s *MotherService) UpdateLocation(ctx context.Context, id string, loc domain.GeoPoint) error {
	if loc.Lat < -90 || loc.Lat > 90 || loc.Lon < -180 || loc.Lon > 180 {
		return fmt.Errorf("coordinate out of range: %.4f, %.4f", loc.Lat, loc.Lon)
	}
	return s.mothers.UpdateLocation(ctx, id, loc)
}
