package postgres

import (
	"context"

	"github.com/kanahhealth/kanah/internal/core/domain"
)

// SymptomRepo implements ports.SymptomCheckRepository with pgx.
type SymptomRepo struct {
	db *DB
}

// NewSymptomRepo creates a new SymptomRepo.
func NewSymptomRepo(db *DB) *SymptomRepo {
	return &SymptomRepo{db: db}
}

// Create inserts a symptom check record.
func (r *SymptomRepo) Create(ctx context.Context, c *domain.SymptomCheck) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO symptom_checks
			(mother_id, subject, symptom_description, severity_level, recommendation)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, c.MotherID, c.Subject, c.Description, c.SeverityLevel, c.Recommendation,
	).Scan(&c.ID, &c.CreatedAt)
}

// ListByMother returns a mother's symptom checks, newest first.
func (r *SymptomRepo) ListByMother(ctx context.Context, motherID string) ([]domain.SymptomCheck, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, mother_id, subject, symptom_description, severity_level,
		       COALESCE(recommendation, ''), created_at
		FROM symptom_checks WHERE mother_id = $1 ORDER BY created_at DESC
	`, motherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var checks []domain.SymptomCheck
	for rows.Next() {
		var c domain.SymptomCheck
		if err := rows.Scan(
			&c.ID, &c.MotherID, &c.Subject, &c.Description,
			&c.SeverityLevel, &c.Recommendation, &c.CreatedAt,
		); err != nil {
			return nil, err
		}
		checks = append(checks, c)
	}
	return checks, rows.Err()
}
