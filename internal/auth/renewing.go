package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gridway-io/transfer-client/pkg/transfer"
)

// RenewalCallback observes each successful token renewal, typically to
// persist the new token. An error from the callback fails the request that
// triggered the renewal.
type RenewalCallback func(grant *transfer.TokenGrant) error

// RenewingAuthorizer presents tokens from a TokenSource and renews them
// when they are absent or inside the expiration skew window. All checks
// and renewals happen under one mutex, so concurrent callers racing on an
// expired token trigger exactly one fetch: the later lock holders re-check
// and find the fresh token already in place.
type RenewingAuthorizer struct {
	source    TokenSource
	onRenewal RenewalCallback

	mu    sync.Mutex
	token *Token
}

// NewRenewingAuthorizer creates an authorizer over source. onRenewal may
// be nil.
func NewRenewingAuthorizer(source TokenSource, onRenewal RenewalCallback) *RenewingAuthorizer {
	return &RenewingAuthorizer{
		source:    source,
		onRenewal: onRenewal,
	}
}

// SetToken seeds the authorizer with a token obtained elsewhere, deferring
// the first renewal until it nears expiry.
func (a *RenewingAuthorizer) SetToken(accessToken string, expiresAt time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.token = &Token{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
	}
}

// AuthorizationHeader returns a bearer header for a token that is fresh
// beyond the skew window, renewing first if necessary.
func (a *RenewingAuthorizer) AuthorizationHeader(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.token.Valid() {
		err := a.renewLocked(ctx)
		if err != nil {
			return "", err
		}
	}

	return "Bearer " + a.token.AccessToken, nil
}

// HandleMissingAuthorization discards the current token so the next
// request renews, and reports that a retry is worthwhile.
func (a *RenewingAuthorizer) HandleMissingAuthorization(ctx context.Context) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.token = nil

	return true
}

// renewLocked fetches a new token. Caller holds the mutex. The token is
// stored before the callback runs, so a callback failure surfaces to the
// caller without losing the renewed token.
func (a *RenewingAuthorizer) renewLocked(ctx context.Context) error {
	token, grant, err := a.source.Token(ctx)
	if err != nil {
		return fmt.Errorf("token renewal failed: %w", err)
	}

	a.token = token

	if a.onRenewal != nil {
		err = a.onRenewal(grant)
		if err != nil {
			return fmt.Errorf("token renewal callback failed: %w", err)
		}
	}

	return nil
}

var _ transfer.Authorizer = (*RenewingAuthorizer)(nil)
