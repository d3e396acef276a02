package ticket

import (
	"errors"
	"testing"
	"time"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	svc := New("secret", time.Minute)

	ticket, err := svc.Issue("u1", "customer")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	userID, err := svc.Verify(ticket)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if userID != "u1" {
		t.Fatalf("expected u1, got %q", userID)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	svc := New("secret", -time.Minute)

	ticket, err := svc.Issue("u1", "customer")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.Verify(ticket); !errors.Is(err, ErrInvalidTicket) {
		t.Fatalf("expected ErrInvalidTicket, got %v", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := New("secret-a", time.Minute)
	verifier := New("secret-b", time.Minute)

	ticket, err := issuer.Issue("u1", "customer")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := verifier.Verify(ticket); !errors.Is(err, ErrInvalidTicket) {
		t.Fatalf("expected ErrInvalidTicket, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc := New("secret", time.Minute)
	if _, err := svc.Verify("not-a-ticket"); !errors.Is(err, ErrInvalidTicket) {
		t.Fatalf("expected ErrInvalidTicket, got %v", err)
	}
}
