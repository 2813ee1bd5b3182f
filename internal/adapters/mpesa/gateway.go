package mpesa

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"
)

// StubGateway simulates an M-Pesa STK push. No real money moves: the prompt
// "settles" after a short delay and returns a generated reference. Swap in a
// Daraja-backed implementation behind the same port for production.
type StubGateway struct {
	// SettleDelay imitates the time the customer spends approving the
	// prompt on their handset.
	SettleDelay time.Duration
}

// New creates a stub gateway with the default settle delay.
func New() *StubGateway {
	return &StubGateway{SettleDelay: 2 * time.Second}
}

// PromptPayment pretends to push an STK prompt to the phone and waits for
// the simulated confirmation.
func (g *StubGateway) PromptPayment(ctx context.Context, phoneNumber string, amount int) (string, error) {
	slog.Info("simulated STK push", "phone", maskPhone(phoneNumber), "amount", amount)

	select {
	case <-time.After(g.SettleDelay):
	case <-ctx.Done():
		return "", fmt.Errorf("payment prompt cancelled: %w", ctx.Err())
	}

	ref, err := generateReference()
	if err != nil {
		return "", err
	}
	slog.Info("simulated payment confirmed", "reference", ref)
	return ref, nil
}

func generateReference() (string, error) {
	b := make([]byte, 5)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate reference: %w", err)
	}
	return "KH-" + hex.EncodeToString(b), nil
}

func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	return "****" + phone[len(phone)-4:]
}
