// Package ticket issues short-lived signed tickets that bind a websocket
// connection to an authenticated user without a database round trip during
// the upgrade handshake.
package ticket

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidTicket = errors.New("invalid ticket")

type Service struct {
	secret []byte
	ttl    time.Duration
}

func New(secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Service{secret: []byte(secret), ttl: ttl}
}

// Issue signs a ticket for the given user.
func (s *Service) Issue(userID, role string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify validates a ticket and returns the bound user id.
func (s *Service) Verify(ticket string) (string, error) {
	parsed, err := jwt.Parse(ticket, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidTicket
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidTicket
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidTicket
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", ErrInvalidTicket
	}
	return sub, nil
}
