package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	stripe "github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
	"github.com/stripe/stripe-go/v78/webhook"

	"buzzugc/internal/domain"
	"buzzugc/internal/domain/model"
	"buzzugc/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*StripeGateway)(nil)

// StripeGateway implements the payment port with Stripe Checkout. Plan ids
// map to pre-created Stripe price ids from config; the webhook side decodes
// provider events into domain subscription events.
type StripeGateway struct {
	sc            *client.API
	webhookSecret string
	successPath   string
	cancelPath    string
	prices        map[model.PlanID]string
	log           *zerolog.Logger
}

func NewStripeGateway(secretKey, webhookSecret, successPath, cancelPath string, prices map[model.PlanID]string, logger *zerolog.Logger) *StripeGateway {
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return &StripeGateway{
		sc:            sc,
		webhookSecret: webhookSecret,
		successPath:   successPath,
		cancelPath:    cancelPath,
		prices:        prices,
		log:           logger,
	}
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, userID string, plan model.PlanID, origin string) (*adapter.CheckoutSession, error) {
	priceID, ok := g.prices[plan]
	if !ok || priceID == "" {
		return nil, fmt.Errorf("no price configured for plan %q: %w", plan, domain.ErrInvalidArgument)
	}
	origin = strings.TrimRight(origin, "/")

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL:        stripe.String(origin + g.successPath + "&plan=" + string(plan)),
		CancelURL:         stripe.String(origin + g.cancelPath),
		ClientReferenceID: stripe.String(userID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Price:    stripe.String(priceID),
			Quantity: stripe.Int64(1),
		}},
	}
	params.Context = ctx
	params.AddMetadata("planId", string(plan))
	params.AddMetadata("userId", userID)

	sess, err := g.sc.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe checkout session: %w", err)
	}
	return &adapter.CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*adapter.SubscriptionEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("webhook signature: %w", err)
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("decode checkout session: %w", err)
		}
		userID := sess.ClientReferenceID
		if userID == "" {
			userID = sess.Metadata["userId"]
		}
		plan := model.PlanID(sess.Metadata["planId"])
		ev := &adapter.SubscriptionEvent{
			Type:        adapter.EventCheckoutCompleted,
			UserID:      userID,
			PlanID:      plan,
			Status:      model.SubscriptionStatusActive,
			PeriodStart: time.Now(),
			// The subscription.updated event that follows carries the exact
			// period end; a month is the safe floor until it arrives.
			PeriodEnd: time.Now().Add(30 * 24 * time.Hour),
		}
		if sess.Customer != nil {
			ev.StripeCustomerID = sess.Customer.ID
		}
		if sess.Subscription != nil {
			ev.StripeSubscriptionID = sess.Subscription.ID
		}
		return ev, nil

	case "customer.subscription.updated", "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return nil, fmt.Errorf("decode subscription: %w", err)
		}
		evType := adapter.EventSubscriptionUpdated
		status := mapStatus(sub.Status)
		if event.Type == "customer.subscription.deleted" {
			evType = adapter.EventSubscriptionDeleted
			status = model.SubscriptionStatusCanceled
		}
		ev := &adapter.SubscriptionEvent{
			Type:                 evType,
			Status:               status,
			PeriodStart:          time.Unix(sub.CurrentPeriodStart, 0),
			PeriodEnd:            time.Unix(sub.CurrentPeriodEnd, 0),
			StripeSubscriptionID: sub.ID,
		}
		if sub.Customer != nil {
			ev.StripeCustomerID = sub.Customer.ID
		}
		return ev, nil
	}

	g.log.Debug().Str("type", string(event.Type)).Msg("webhook event ignored")
	return &adapter.SubscriptionEvent{Type: adapter.EventIgnored}, nil
}

func mapStatus(s stripe.SubscriptionStatus) model.SubscriptionStatus {
	switch s {
	case stripe.SubscriptionStatusActive, stripe.SubscriptionStatusTrialing:
		return model.SubscriptionStatusActive
	case stripe.SubscriptionStatusPastDue:
		return model.SubscriptionStatusPastDue
	case stripe.SubscriptionStatusUnpaid:
		return model.SubscriptionStatusUnpaid
	default:
		return model.SubscriptionStatusCanceled
	}
}
