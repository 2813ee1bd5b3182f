package postgres

import (
	"context"

	"github.com/kanahhealth/kanah/internal/core/domain"
)

// MotherRepo implements ports.MotherRepository with pgx.
type MotherRepo struct {
	db *DB
}

// NewMotherRepo creates a new MotherRepo.
func NewMotherRepo(db *DB) *MotherRepo {
	return &MotherRepo{db: db}
}

// Create inserts a mother profile.
func (r *MotherRepo) Create(ctx context.Context, m *domain.Mother) error {
	var lat, lon *float64
	if m.Location != nil {
		lat, lon = &m.Location.Lat, &m.Location.Lon
	}
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO mothers
			(user_id, full_name, phone_number, birth_type, subscription_status,
			 language_preference, latitude, longitude, baby_birth_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`, m.UserID, m.FullName, m.PhoneNumber, m.BirthType, m.SubscriptionStatus,
		m.LanguagePreference, lat, lon, m.BabyBirthDate,
	).Scan(&m.ID, &m.CreatedAt)
}

// GetByID returns a mother by UUID.
func (r *MotherRepo) GetByID(ctx context.Context, id string) (*domain.Mother, error) {
	var m domain.Mother
	var lat, lon *float64
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, user_id, full_name, phone_number, birth_type, subscription_status,
		       language_preference, latitude, longitude, baby_birth_date, created_at
		FROM mothers WHERE id = $1
	`, id).Scan(
		&m.ID, &m.UserID, &m.FullName, &m.PhoneNumber, &m.BirthType, &m.SubscriptionStatus,
		&m.LanguagePreference, &lat, &lon, &m.BabyBirthDate, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lat != nil && lon != nil {
		m.Location = &domain.GeoPoint{Lat: *lat, Lon: *lon}
	}
	return &m, nil
}

// UpdateLocation stores the mother's latest coordinate.
func (r *MotherRepo) UpdateLocation(ctx context.Context, id string, loc domain.GeoPoint) error {
	_, err := r.db.Pool.Exec(ctx, `
		UPDATE mothers SET latitude = $2, longitude = $3, updated_at = now()
		WHERE id = $1
	`, id, loc.Lat, loc.Lon)
	return err
}
