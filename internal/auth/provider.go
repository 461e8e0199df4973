// Package auth implements social sign-in for the site: an identity provider
// abstraction (Google OAuth2 or a static development user), browser sessions
// and a per-session guard that rejects overlapping sign-in attempts.
package auth

import (
	"context"
	"errors"
)

// User is the identity returned by a provider and attached to a session.
type User struct {
	UID      string `json:"uid"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhotoURL string `json:"photoURL,omitempty"`
}

// Provider is an opaque identity provider driven by the authorization-code
// flow.
type Provider interface {
	// Name identifies the provider in logs and routes.
	Name() string
	// AuthCodeURL returns the URL the browser is sent to. state is echoed
	// back to the callback unchanged.
	AuthCodeURL(state string) string
	// Exchange trades an authorization code for the signed-in user.
	Exchange(ctx context.Context, code string) (*User, error)
}

// ErrMissingCode is returned when the callback carries no authorization code.
var ErrMissingCode = errors.New("missing authorization code")
