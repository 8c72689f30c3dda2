package auth

import (
	"context"

	"github.com/gridway-io/transfer-client/pkg/transfer"
)

// StaticAuthorizer presents a fixed access token. It cannot recover from
// an authentication failure.
type StaticAuthorizer struct {
	header string
}

// NewStaticAuthorizer wraps a raw access token.
func NewStaticAuthorizer(accessToken string) *StaticAuthorizer {
	return &StaticAuthorizer{header: "Bearer " + accessToken}
}

// AuthorizationHeader returns the fixed bearer header.
func (a *StaticAuthorizer) AuthorizationHeader(ctx context.Context) (string, error) {
	return a.header, nil
}

// HandleMissingAuthorization reports that nothing can be done: the token
// is whatever the caller supplied.
func (a *StaticAuthorizer) HandleMissingAuthorization(ctx context.Context) bool {
	return false
}

var _ transfer.Authorizer = (*StaticAuthorizer)(nil)
