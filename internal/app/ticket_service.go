package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

// ErrInvalidTicket is returned for tickets that fail signature, expiry or claim checks.
var ErrInvalidTicket = errors.New("invalid session ticket")

// SessionSettings are the search parameters a ticket pins for its holder.
type SessionSettings struct {
	Algorithm string
	Heuristic string
	Depth     int
}

// TicketService signs session tickets so best_move calls carry their own
// settings and the server keeps no per-session state.
type TicketService struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewTicketService(secret, issuer string, ttl time.Duration) *TicketService {
	if ttl == 0 {
		ttl = DefaultTicketTTL
	}
	return &TicketService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

// TTL is how long issued tickets stay valid.
func (s *TicketService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a ticket for userID with the given settings.
func (s *TicketService) Issue(userID string, settings SessionSettings) (string, error) {
	if s == nil {
		return "", fmt.Errorf("ticket service is nil")
	}
	if userID == "" {
		return "", fmt.Errorf("user is required")
	}
	if len(s.secret) == 0 {
		return "", fmt.Errorf("ticket secret is not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   s.issuer,
		"sub":   userID,
		"iat":   now.Unix(),
		"exp":   now.Add(s.ttl).Unix(),
		"algo":  settings.Algorithm,
		"heur":  settings.Heuristic,
		"depth": settings.Depth,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks the signature, expiry and issuer and returns the ticket's holder and settings.
func (s *TicketService) Verify(ticket string) (string, SessionSettings, error) {
	token, err := jwt.Parse(ticket, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", SessionSettings{}, fmt.Errorf("%w: %v", ErrInvalidTicket, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", SessionSettings{}, ErrInvalidTicket
	}
	if !claims.VerifyIssuer(s.issuer, true) {
		return "", SessionSettings{}, fmt.Errorf("%w: issuer mismatch", ErrInvalidTicket)
	}

	userID, _ := claims["sub"].(string)
	if userID == "" {
		return "", SessionSettings{}, fmt.Errorf("%w: missing subject", ErrInvalidTicket)
	}
	settings := SessionSettings{}
	settings.Algorithm, _ = claims["algo"].(string)
	settings.Heuristic, _ = claims["heur"].(string)
	// JSON numbers decode as float64.
	if depth, ok := claims["depth"].(float64); ok {
		settings.Depth = int(depth)
	}
	return userID, settings, nil
}
