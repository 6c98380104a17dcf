package repository

import (
	"context"
	"time"

	"buzzugc/internal/domain/model"
)

// SubscriptionRepository reads and writes paid entitlement records. The
// resolver only calls FindActiveByUser; the write methods serve the payment
// webhook flow.
type SubscriptionRepository interface {
	// FindActiveByUser returns the most recent record with status=active for
	// the user, or domain.ErrNotFound. Callers must still lapse-check the
	// period bounds themselves.
	FindActiveByUser(ctx context.Context, userID string) (*model.UserSubscription, error)

	// Upsert writes a record keyed on user_id so a renewal replaces the
	// previous period instead of stacking a second active record.
	Upsert(ctx context.Context, sub *model.UserSubscription) error

	// UpdateByStripeSubscription syncs status and period end for the record
	// carrying the given provider subscription id.
	UpdateByStripeSubscription(ctx context.Context, stripeSubID string, status model.SubscriptionStatus, periodEnd time.Time) error
}
