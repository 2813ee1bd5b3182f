package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kanahhealth/kanah/internal/core/domain"
	"github.com/kanahhealth/kanah/internal/core/ports"
)

// TipService serves the postnatal tips feed.
type TipService struct {
	tips    ports.HealthTipRepository
	mothers ports.MotherRepository
	cache   ports.CacheService

	now func() time.Time
}

// NewTipService creates a new TipService.
func NewTipService(tips ports.HealthTipRepository, mothers ports.MotherRepository, cache ports.CacheService) *TipService {
	return &TipService{tips: tips, mothers: mothers, cache: cache, now: time.Now}
}

// ListForMother returns tips applicable to the mother's birth type, current
// postpartum day, and language. Premium rows are included only for premium
// subscribers. Mothers without a recorded birth date see the day-1 window.
func (s *TipService) ListForMother(ctx context.Context, motherID string) ([]domain.HealthTip, error) {
	mother, err := s.mothers.GetByID(ctx, motherID)
	if err != nil {
		return nil, fmt.Errorf("get mother: %w", err)
	}

	days := mother.DaysPostpartum(s.now())
	if days < 0 {
		days = 1
	}
	language := mother.LanguagePreference
	if language == "" {
		language = "english"
	}
	includePremium := mother.SubscriptionStatus == "premium"

	cacheKey := fmt.Sprintf("tips:%s:%d:%s:%t", mother.BirthType, days, language, includePremium)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var tips []domain.HealthTip
			if err := json.Unmarshal(data, &tips); err == nil {
				return tips, nil
			}
		}
	}

	tips, err := s.tips.ListApplicable(ctx, mother.BirthType, days, language, includePremium)
	if err != nil {
		return nil, err
	}

	// Cache for 10 minutes; tip content is editorial and slow-moving
	if s.cache != nil {
		if data, err := json.Marshal(tips); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 600)
		}
	}

	return tips, nil
}
