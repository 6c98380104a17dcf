package model

import (
	"time"

	"buzzugc/internal/domain"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
	SubscriptionStatusPastDue  SubscriptionStatus = "past_due"
	SubscriptionStatusUnpaid   SubscriptionStatus = "unpaid"
)

// UserSubscription is a paid entitlement record, created and mutated by the
// payment webhook flow. The resolver only ever reads the most recent active
// record; at most one active record exists per user at a time.
type UserSubscription struct {
	ID                   string // UUID
	UserID               string // UUID of identity
	PlanID               PlanID
	Status               SubscriptionStatus
	CurrentPeriodStart   time.Time
	CurrentPeriodEnd     time.Time
	StripeCustomerID     string
	StripeSubscriptionID string
	CreatedAt            time.Time
}

// NewUserSubscription validates and constructs an active subscription
// covering [start, end).
func NewUserSubscription(id, userID string, plan PlanID, start, end time.Time) (*UserSubscription, error) {
	if id == "" || userID == "" || plan == PlanNone || !end.After(start) {
		return nil, domain.ErrInvalidArgument
	}
	return &UserSubscription{
		ID:                 id,
		UserID:             userID,
		PlanID:             plan,
		Status:             SubscriptionStatusActive,
		CurrentPeriodStart: start,
		CurrentPeriodEnd:   end,
		CreatedAt:          time.Now(),
	}, nil
}

// ActiveAt reports whether the record grants access at the given instant.
// Records marked active whose period has lapsed do not count: billing
// webhooks can lag, and a lapsed-but-unmarked record must not grant access.
func (s *UserSubscription) ActiveAt(now time.Time) bool {
	return s != nil && s.Status == SubscriptionStatusActive && now.Before(s.CurrentPeriodEnd)
}
