package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/kanahhealth/kanah/internal/core/domain"
	"github.com/kanahhealth/kanah/internal/core/ports"
)

// TriageService records symptom checks and classifies their urgency.
type TriageService struct {
	checks ports.SymptomCheckRepository
}

// NewTriageService creates a new TriageService.
func NewTriageService(checks ports.SymptomCheckRepository) *TriageService {
	return &TriageService{checks: checks}
}

// Danger-sign phrases that always escalate to severe, whatever the subject.
var severeSigns = []string{
	"heavy bleeding",
	"soaked",
	"soaking",
	"fainted",
	"fainting",
	"blurred vision",
	"seizure",
	"can't breathe",
	"cannot breathe",
	"chest pain",
}

// Classify derives a severity level and recommendation from the subject and
// free-text description. Pure; no repository access.
func Classify(subject, description string) (severity, recommendation string) {
	text := strings.ToLower(description)
	for _, sign := range severeSigns {
		if strings.Contains(text, sign) {
			return "severe", "These are potential danger signs. Please seek medical help immediately or call a nurse."
		}
	}

	switch strings.ToLower(subject) {
	case "bleeding":
		return "moderate", "Monitor the bleeding closely. If it becomes heavier than a normal period, seek care right away."
	case "fever":
		return "moderate", "Take your temperature and rest. A fever above 38°C that lasts more than a day needs medical attention."
	case "pain":
		return "mild", "Some pain is normal while recovering. If it worsens or is severe, book a visit with a health worker."
	case "breastfeeding":
		return "mild", "Latching and supply concerns are common. A community health worker can help during a home visit."
	default:
		return "mild", "Keep an eye on your symptoms and reach out to a health worker if anything changes."
	}
}

// FollowUpPrompt returns the assistant's canned follow-up question for a
// symptom subject.
func FollowUpPrompt(subject string) string {
	switch strings.ToLower(subject) {
	case "pain":
		return "Please tell me more about what you're experiencing."
	case "bleeding":
		return "How heavy is the bleeding? Is it heavier than a normal period?"
	case "fever":
		return "What is your temperature? Do you have any other symptoms?"
	case "breastfeeding":
		return "Are you experiencing pain, difficulty with latching, or concerns about milk supply?"
	default:
		return "Can you tell me more about your symptoms?"
	}
}

// Check classifies and persists a symptom report.
func (s *TriageService) Check(ctx context.Context, motherID, subject, description string) (*domain.SymptomCheck, error) {
	if strings.TrimSpace(subject) == "" {
		return nil, fmt.Errorf("subject must not be empty")
	}

	severity, recommendation := Classify(subject, description)
	check := &domain.SymptomCheck{
		MotherID:       motherID,
		Subject:        subject,
		Description:    description,
		SeverityLevel:  severity,
		Recommendation: recommendation,
	}
	if err := s.checks.Create(ctx, check); err != nil {
		return nil, fmt.Errorf("create symptom check: %w", err)
	}
	return check, nil
}

// History returns the mother's previous symptom checks.
func (s *TriageService) History(ctx context.Context, motherID string) ([]domain.SymptomCheck, error) {
	return s.checks.ListByMother(ctx, motherID)
}
