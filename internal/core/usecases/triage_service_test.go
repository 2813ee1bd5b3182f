package usecases_test

import (
	"context"
	"testing"

	"github.com/kanahhealth/kanah/internal/core/domain"
	"github.com/kanahhealth/kanah/internal/core/usecases"
)

type mockSymptomRepo struct {
	created []domain.SymptomCheck
}

func (m *mockSymptomRepo) Create(ctx context.Context, check *domain.SymptomCheck) error {
	check.ID = "sc-1"
	m.created = append(m.created, *check)
	return nil
}
func (m *mockSymptomRepo) ListByMother(ctx context.Context, motherID string) ([]domain.SymptomCheck, error) {
	return m.created, nil
}

func TestClassify_DangerSignsEscalate(t *testing.T) {
	cases := []string{
		"heavy bleeding since this morning",
		"I soaked two pads in an hour",
		"I almost fainted in the bathroom",
		"blurred vision and headache",
	}
	for _, desc := range cases {
		severity, _ := usecases.Classify("bleeding", desc)
		if severity != "severe" {
			t.Errorf("%q: expected severe, got %s", desc, severity)
		}
	}
}

func TestClassify_SubjectDefaults(t *testing.T) {
	cases := []struct {
		subject  string
		severity string
	}{
		{"bleeding", "moderate"},
		{"fever", "moderate"},
		{"pain", "mild"},
		{"breastfeeding", "mild"},
		{"something else", "mild"},
	}
	for _, c := range cases {
		severity, rec := usecases.Classify(c.subject, "mild discomfort")
		if severity != c.severity {
			t.Errorf("%s: expected %s, got %s", c.subject, c.severity, severity)
		}
		if rec == "" {
			t.Errorf("%s: empty recommendation", c.subject)
		}
	}
}

func TestTriageService_Check(t *testing.T) {
	repo := &mockSymptomRepo{}
	svc := usecases.NewTriageService(repo)

	check, err := svc.Check(context.Background(), "m1", "fever", "38.5 this evening")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if check.ID != "sc-1" {
		t.Errorf("expected persisted id, got %q", check.ID)
	}
	if check.SeverityLevel != "moderate" {
		t.Errorf("expected moderate, got %s", check.SeverityLevel)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 stored check, got %d", len(repo.created))
	}
}

func TestTriageService_Check_EmptySubject(t *testing.T) {
	svc := usecases.NewTriageService(&mockSymptomRepo{})
	if _, err := svc.Check(context.Background(), "m1", "  ", "hmm"); err == nil {
		t.Error("expected error for empty subject")
	}
}

func TestFollowUpPrompt(t *testing.T) {
	if got := usecases.FollowUpPrompt("bleeding"); got != "How heavy is the bleeding? Is it heavier than a normal period?" {
		t.Errorf("unexpected prompt %q", got)
	}
	if got := usecases.FollowUpPrompt("anything"); got != "Can you tell me more about your symptoms?" {
		t.Errorf("unexpected default prompt %q", got)
	}
}
