package auth

import (
	"context"
	"net/url"
)

// DevUser is the identity StaticProvider signs in when none is configured.
var DevUser = User{
	UID:   "mock-user-123",
	Name:  "Usuário Teste",
	Email: "teste@cdforge.shop",
}

// StaticProvider signs every attempt in as the same user without leaving
// the site. Use it for local development and tests.
type StaticProvider struct {
	User        User
	CallbackURL string
}

// NewStaticProvider returns a provider that redirects straight to
// callbackURL and signs in DevUser.
func NewStaticProvider(callbackURL string) *StaticProvider {
	return &StaticProvider{User: DevUser, CallbackURL: callbackURL}
}

// Name implements Provider.
func (p *StaticProvider) Name() string { return "static" }

// AuthCodeURL implements Provider.
func (p *StaticProvider) AuthCodeURL(state string) string {
	q := url.Values{"state": {state}, "code": {"static"}}
	return p.CallbackURL + "?" + q.Encode()
}

// Exchange implements Provider.
func (p *StaticProvider) Exchange(_ context.Context, code string) (*User, error) {
	if code == "" {
		return nil, ErrMissingCode
	}
	u := p.User
	return &u, nil
}
