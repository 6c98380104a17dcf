package repository

import (
	"context"
	"time"

	"buzzugc/internal/domain/model"
)

// CreationRepository persists completed generations and answers usage
// queries over them.
type CreationRepository interface {
	Save(ctx context.Context, c *model.Creation) error

	// CountSince returns how many creations the user made at or after the
	// given instant. Quota checks pass the first-of-month boundary.
	CountSince(ctx context.Context, userID string, since time.Time) (int, error)

	// ListByUser returns the most recent creations, newest first.
	ListByUser(ctx context.Context, userID string, limit int) ([]*model.Creation, error)
}
