package adapter

import (
	"context"

	"buzzugc/internal/domain/model"
)

// IdentityVerifier turns a bearer token into a verified Identity. The check
// is local (signature + claims); no calls to the identity provider.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*model.Identity, error)
}
