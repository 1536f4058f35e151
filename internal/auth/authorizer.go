// Package auth resolves bearer tokens to account emails. Token issuance and
// session management live outside this service; the backend only needs to
// know which account a request acts for.
package auth

import (
	"context"
	"errors"
)

// ErrUnauthorized is returned when a token is missing, unknown, or revoked.
var ErrUnauthorized = errors.New("unauthorized")

// Authorizer validates a bearer token and returns the email of the account
// it belongs to.
type Authorizer interface {
	Authorize(ctx context.Context, token string) (string, error)
}

// StaticAuthorizer resolves tokens from a fixed map. It backs single-user
// and development deployments where tokens are supplied via configuration.
type StaticAuthorizer struct {
	tokens map[string]string
}

// NewStaticAuthorizer builds an authorizer over a token -> email map.
func NewStaticAuthorizer(tokens map[string]string) *StaticAuthorizer {
	return &StaticAuthorizer{tokens: tokens}
}

func (a *StaticAuthorizer) Authorize(_ context.Context, token string) (string, error) {
	email, ok := a.tokens[token]
	if !ok || token == "" {
		return "", ErrUnauthorized
	}
	return email, nil
}
