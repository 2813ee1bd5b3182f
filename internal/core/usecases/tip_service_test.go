package usecases_test

import (
	"context"
	"testing"
	"time"

	"github.com/kanahhealth/kanah/internal/core/domain"
	"github.com/kanahhealth/kanah/internal/core/usecases"
)

type mockMotherRepo struct {
	getByIDFn func(ctx context.Context, id string) (*domain.Mother, error)
	updated   *domain.GeoPoint
}

func (m *mockMotherRepo) Create(ctx context.Context, mother *domain.Mother) error { return nil }
func (m *mockMotherRepo) GetByID(ctx context.Context, id string) (*domain.Mother, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return &domain.Mother{ID: id}, nil
}
func (m *mockMotherRepo) UpdateLocation(ctx context.Context, id string, loc domain.GeoPoint) error {
	m.updated = &loc
	return nil
}

type mockTipRepo struct {
	listFn func(ctx context.Context, birthType string, days int, language string, includePremium bool) ([]domain.HealthTip, error)
}

func (m *mockTipRepo) ListApplicable(ctx context.Context, birthType string, days int, language string, includePremium bool) ([]domain.HealthTip, error) {
	if m.listFn != nil {
		return m.listFn(ctx, birthType, days, language, includePremium)
	}
	return nil, nil
}

func TestTipService_ListForMother_FiltersByProfile(t *testing.T) {
	birthDate := time.Now().Add(-14 * 24 * time.Hour)
	mothers := &mockMotherRepo{getByIDFn: func(ctx context.Context, id string) (*domain.Mother, error) {
		return &domain.Mother{
			ID:                 id,
			BirthType:          "c_section",
			SubscriptionStatus: "premium",
			LanguagePreference: "swahili",
			BabyBirthDate:      &birthDate,
		}, nil
	}}

	var gotBirthType, gotLang string
	var gotDays int
	var gotPremium bool
	tips := &mockTipRepo{listFn: func(ctx context.Context, birthType string, days int, language string, includePremium bool) ([]domain.HealthTip, error) {
		gotBirthType, gotDays, gotLang, gotPremium = birthType, days, language, includePremium
		return []domain.HealthTip{{ID: "t1", Title: "Wound care"}}, nil
	}}

	svc := usecases.NewTipService(tips, mothers, nil)
	got, err := svc.ListForMother(context.Background(), "m1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "t1" {
		t.Fatalf("unexpected tips %+v", got)
	}
	if gotBirthType != "c_section" || gotLang != "swahili" || !gotPremium {
		t.Errorf("filter mismatch: %s/%s/premium=%t", gotBirthType, gotLang, gotPremium)
	}
	if gotDays != 14 {
		t.Errorf("expected 14 days postpartum, got %d", gotDays)
	}
}

func TestTipService_ListForMother_DefaultsWithoutBirthDate(t *testing.T) {
	mothers := &mockMotherRepo{getByIDFn: func(ctx context.Context, id string) (*domain.Mother, error) {
		return &domain.Mother{ID: id, BirthType: "vaginal", SubscriptionStatus: "free"}, nil
	}}

	var gotDays int
	var gotPremium bool
	var gotLang string
	tips := &mockTipRepo{listFn: func(ctx context.Context, birthType string, days int, language string, includePremium bool) ([]domain.HealthTip, error) {
		gotDays, gotLang, gotPremium = days, language, includePremium
		return nil, nil
	}}

	svc := usecases.NewTipService(tips, mothers, nil)
	if _, err := svc.ListForMother(context.Background(), "m1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotDays != 1 {
		t.Errorf("expected day-1 default, got %d", gotDays)
	}
	if gotLang != "english" {
		t.Errorf("expected english default, got %q", gotLang)
	}
	if gotPremium {
		t.Error("free subscription must not include premium tips")
	}
}

func TestMotherService_UpdateLocation_Validates(t *testing.T) {
	repo := &mockMotherRepo{}
	svc := usecases.NewMotherService(repo)

	if err := svc.UpdateLocation(context.Background(), "m1", domain.GeoPoint{Lat: 91, Lon: 0}); err == nil {
		t.Error("expected error for out-of-range latitude")
	}
	if repo.updated != nil {
		t.Error("invalid coordinate must not be written")
	}

	if err := svc.UpdateLocation(context.Background(), "m1", domain.GeoPoint{Lat: -1.29, Lon: 36.82}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if repo.updated == nil {
		t.Error("valid coordinate was not written")
	}
}
