package repository

import (
	"context"

	"buzzugc/internal/domain/model"
)

// GrantRepository resolves manually provisioned plan grants, the fallback
// tier consulted when no active subscription record exists. Today this is a
// config allow-list of grandfathered users; the interface lets it move to a
// store-backed table without touching resolver logic.
type GrantRepository interface {
	// FindGrant matches either the stable user id or the email label and
	// returns the granted tier, or domain.ErrNotFound.
	FindGrant(ctx context.Context, userID, email string) (model.PlanID, error)
}
