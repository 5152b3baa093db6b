// Package session decides, once per session, whether data lives locally or behind the remote API.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrTokenExpired = errors.New("session token expired")

// Mode is either Guest or Authenticated.
type Mode interface {
	isMode()
	String() string
}

// Guest keeps everything in the local store and never touches the network.
type Guest struct{}

// Authenticated proxies every read and mutation to the remote API.
type Authenticated struct {
	Token string
}

func (Guest) isMode()         {}
func (Authenticated) isMode() {}

func (Guest) String() string         { return "guest" }
func (Authenticated) String() string { return "authenticated" }

// FromToken builds the session mode. An empty token means Guest.
// JWTs are inspected without verifying the signature, which only the remote API can check,
// and rejected when their exp claim is in the past. Opaque tokens are accepted as they are.
func FromToken(token string) (Mode, error) {
	return fromToken(token, time.Now())
}

func fromToken(token string, now time.Time) (Mode, error) {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return Guest{}, nil
	}
	if strings.Count(token, ".") != 2 {
		return Authenticated{Token: token}, nil
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		// Not a JWT after all.
		return Authenticated{Token: token}, nil
	}
	if claims.ExpiresAt != nil && !claims.ExpiresAt.After(now) {
		return nil, fmt.Errorf("token expired at %s: %w", claims.ExpiresAt.Format(time.RFC3339), ErrTokenExpired)
	}
	return Authenticated{Token: token}, nil
}

// IsGuest reports whether m is the guest mode.
func IsGuest(m Mode) bool {
	_, ok := m.(Guest)
	return ok
}

// Token returns the bearer token of an authenticated mode, or "" for guests.
func Token(m Mode) string {
	if a, ok := m.(Authenticated); ok {
		return a.Token
	}
	return ""
}
