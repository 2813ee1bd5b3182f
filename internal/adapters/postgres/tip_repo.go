package postgres

import (
	"context"

	"github.com/kanahhealth/kanah/internal/core/domain"
)

// TipRepo implements ports.HealthTipRepository with pgx.
type TipRepo struct {
	db *DB
}

// NewTipRepo creates a new TipRepo.
func NewTipRepo(db *DB) *TipRepo {
	return &TipRepo{db: db}
}

// ListApplicable returns tips matching the mother's birth type ("all" rows
// always apply), postpartum-day window, and language. Premium rows are
// filtered out unless includePremium is set.
func (r *TipRepo) ListApplicable(ctx context.Context, birthType string, daysPostpartum int, language string, includePremium bool) ([]domain.HealthTip, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, title, content, content_type, COALESCE(video_url, ''), category,
		       applicable_birth_type, applicable_days_postpartum_min,
		       applicable_days_postpartum_max, language, premium_content, created_at
		FROM health_tips
		WHERE (applicable_birth_type = 'all' OR applicable_birth_type = $1)
		  AND applicable_days_postpartum_min <= $2
		  AND applicable_days_postpartum_max >= $2
		  AND language = $3
		  AND (premium_content = false OR $4)
		ORDER BY category, created_at
	`, birthType, daysPostpartum, language, includePremium)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tips []domain.HealthTip
	for rows.Next() {
		var t domain.HealthTip
		if err := rows.Scan(
			&t.ID, &t.Title, &t.Content, &t.ContentType, &t.VideoURL, &t.Category,
			&t.BirthType, &t.DaysPostpartumMin, &t.DaysPostpartumMax,
			&t.Language, &t.PremiumContent, &t.CreatedAt,
		); err != nil {
			return nil, err
		}
		tips = append(tips, t)
	}
	return tips, rows.Err()
}
