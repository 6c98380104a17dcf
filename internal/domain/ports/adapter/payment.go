package adapter

import (
	"context"
	"time"

	"buzzugc/internal/domain/model"
)

// CheckoutSession is the redirect handle returned by the payment provider.
type CheckoutSession struct {
	ID  string
	URL string
}

// SubscriptionEventType enumerates the webhook events the backend applies.
type SubscriptionEventType string

const (
	EventCheckoutCompleted   SubscriptionEventType = "checkout_completed"
	EventSubscriptionUpdated SubscriptionEventType = "subscription_updated"
	EventSubscriptionDeleted SubscriptionEventType = "subscription_deleted"
	EventIgnored             SubscriptionEventType = "ignored"
)

// SubscriptionEvent is a provider webhook decoded into domain terms.
type SubscriptionEvent struct {
	Type                 SubscriptionEventType
	UserID               string
	PlanID               model.PlanID
	Status               model.SubscriptionStatus
	PeriodStart          time.Time
	PeriodEnd            time.Time
	StripeCustomerID     string
	StripeSubscriptionID string
}

// PaymentGateway is the port to the payment provider. Checkout redirects the
// user out of the app; webhooks bring subscription state back in.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, userID string, plan model.PlanID, origin string) (*CheckoutSession, error)

	// ParseWebhook verifies the signature and decodes the payload. Events the
	// backend does not act on come back with Type == EventIgnored.
	ParseWebhook(payload []byte, signature string) (*SubscriptionEvent, error)
}
