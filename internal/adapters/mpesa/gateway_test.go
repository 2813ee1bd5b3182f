package mpesa

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestPromptPayment_ReturnsReference(t *testing.T) {
	g := &StubGateway{SettleDelay: time.Millisecond}
	ref, err := g.PromptPayment(context.Background(), "+254712345678", 1500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(ref, "KH-") || len(ref) != 13 {
		t.Errorf("unexpected reference %q", ref)
	}
}

func TestPromptPayment_CancelledContext(t *testing.T) {
	g := &StubGateway{SettleDelay: time.Second}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := g.PromptPayment(ctx, "+254712345678", 1000); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestMaskPhone(t *testing.T) {
	if got := maskPhone("+254712345678"); got != "****5678" {
		t.Errorf("unexpected mask %q", got)
	}
	if got := maskPhone("123"); got != "****" {
		t.Errorf("short numbers should be fully masked, got %q", got)
	}
}
