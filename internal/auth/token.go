package auth

import (
	"time"

	"github.com/gridway-io/transfer-client/internal/constants"
)

// Token holds an access token and its lifetime as issued by the auth
// service.
type Token struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	ExpiresIn    int       `json:"expires_in,omitempty"`
	Scope        string    `json:"scope,omitempty"`
	ExpiresAt    time.Time `json:"expires_at,omitempty"`
}

// Valid reports whether the token can still be used. A token with no
// recorded expiry counts as expired: a grant that omitted expires_in has
// an unknown lifetime and must be re-acquired, not trusted indefinitely.
// A token inside the expiration skew window counts as expired too, so it
// is renewed before the service would reject it.
func (t *Token) Valid() bool {
	if t == nil || t.AccessToken == "" {
		return false
	}

	if t.ExpiresAt.IsZero() {
		return false
	}

	return time.Now().Add(constants.TokenExpirationSkew).Before(t.ExpiresAt)
}
