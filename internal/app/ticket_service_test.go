package app

import (
	"errors"
	"testing"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

func TestTicketRoundTrip(t *testing.T) {
	svc := NewTicketService("test-secret", "tilemerge", time.Minute)
	want := SessionSettings{Algorithm: "expectimax", Heuristic: "SNAKE", Depth: 3}

	ticket, err := svc.Issue("user123", want)
	if err != nil {
		t.Fatalf("issue ticket error: %v", err)
	}

	userID, got, err := svc.Verify(ticket)
	if err != nil {
		t.Fatalf("verify ticket error: %v", err)
	}
	if userID != "user123" || got != want {
		t.Fatalf("verify = %s %+v, want user123 %+v", userID, got, want)
	}
}

func TestTicketClaims(t *testing.T) {
	svc := NewTicketService("test-secret", "tilemerge", time.Minute)
	ticket, err := svc.Issue("user123", SessionSettings{Algorithm: "alphabeta", Heuristic: "CORNER", Depth: 4})
	if err != nil {
		t.Fatalf("issue ticket error: %v", err)
	}

	token, err := jwt.Parse(ticket, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("parse token error: %v", err)
	}
	claims := token.Claims.(jwt.MapClaims)
	if claims["iss"] != "tilemerge" || claims["sub"] != "user123" || claims["algo"] != "alphabeta" {
		t.Fatalf("claims = %v", claims)
	}
	if _, ok := claims["exp"].(float64); !ok {
		t.Fatalf("exp missing: %v", claims["exp"])
	}
}

func TestTicketRejections(t *testing.T) {
	svc := NewTicketService("test-secret", "tilemerge", time.Minute)
	ticket, _ := svc.Issue("user123", SessionSettings{})

	tests := []struct {
		name   string
		svc    *TicketService
		ticket string
	}{
		{name: "wrong secret", svc: NewTicketService("other", "tilemerge", time.Minute), ticket: ticket},
		{name: "wrong issuer", svc: NewTicketService("test-secret", "elsewhere", time.Minute), ticket: ticket},
		{name: "garbage", svc: svc, ticket: "not-a-token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := tt.svc.Verify(tt.ticket); !errors.Is(err, ErrInvalidTicket) {
				t.Fatalf("expected ErrInvalidTicket, got %v", err)
			}
		})
	}

	expired := NewTicketService("test-secret", "tilemerge", -time.Minute)
	old, err := expired.Issue("user123", SessionSettings{})
	if err != nil {
		t.Fatalf("issue expired ticket error: %v", err)
	}
	if _, _, err := expired.Verify(old); !errors.Is(err, ErrInvalidTicket) {
		t.Fatalf("expired ticket: got %v", err)
	}
}

func TestTicketIssueRequiresConfig(t *testing.T) {
	if _, err := NewTicketService("", "tilemerge", 0).Issue("user", SessionSettings{}); err == nil {
		t.Fatal("expected error for missing secret")
	}
	if _, err := NewTicketService("secret", "tilemerge", 0).Issue("", SessionSettings{}); err == nil {
		t.Fatal("expected error for missing user")
	}
}
