// File: internal/usecase/checkout_uc.go
package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"buzzugc/internal/domain"
	"buzzugc/internal/domain/model"
	"buzzugc/internal/domain/ports/adapter"
	"buzzugc/internal/domain/ports/repository"
	"buzzugc/internal/infra/metrics"
)

// CheckoutUseCase owns the payment flow: sending users to the provider's
// hosted checkout and folding webhook events back into subscription records.
// The entitlement resolver never writes payment state; everything here is
// driven by provider confirmations.
type CheckoutUseCase struct {
	gateway adapter.PaymentGateway
	subRepo repository.SubscriptionRepository
	log     *zerolog.Logger
}

func NewCheckoutUseCase(gateway adapter.PaymentGateway, subRepo repository.SubscriptionRepository, logger *zerolog.Logger) *CheckoutUseCase {
	return &CheckoutUseCase{gateway: gateway, subRepo: subRepo, log: logger}
}

func (uc *CheckoutUseCase) CreateCheckoutSession(ctx context.Context, identity model.Identity, plan model.PlanID, origin string) (*adapter.CheckoutSession, error) {
	if plan.Rank() == 0 {
		return nil, domain.ErrInvalidArgument
	}
	sess, err := uc.gateway.CreateCheckoutSession(ctx, identity.ID, plan, origin)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	uc.log.Info().Str("user_id", identity.ID).Str("plan", string(plan)).
		Str("session_id", sess.ID).Msg("checkout session created")
	return sess, nil
}

// HandleWebhook verifies and applies one provider event. Upserts are keyed on
// user_id, so replayed checkout events are idempotent.
func (uc *CheckoutUseCase) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	ev, err := uc.gateway.ParseWebhook(payload, signature)
	if err != nil {
		metrics.IncWebhookEvent("invalid")
		return fmt.Errorf("parse webhook: %w", err)
	}
	metrics.IncWebhookEvent(string(ev.Type))

	switch ev.Type {
	case adapter.EventCheckoutCompleted:
		sub, err := model.NewUserSubscription(uuid.NewString(), ev.UserID, ev.PlanID, ev.PeriodStart, ev.PeriodEnd)
		if err != nil {
			return fmt.Errorf("webhook subscription payload: %w", err)
		}
		sub.StripeCustomerID = ev.StripeCustomerID
		sub.StripeSubscriptionID = ev.StripeSubscriptionID
		if err := uc.subRepo.Upsert(ctx, sub); err != nil {
			return fmt.Errorf("upsert subscription: %w", err)
		}
		uc.log.Info().Str("user_id", ev.UserID).Str("plan", string(ev.PlanID)).
			Time("period_end", ev.PeriodEnd).Msg("subscription activated")
		return nil

	case adapter.EventSubscriptionUpdated, adapter.EventSubscriptionDeleted:
		if err := uc.subRepo.UpdateByStripeSubscription(ctx, ev.StripeSubscriptionID, ev.Status, ev.PeriodEnd); err != nil {
			return fmt.Errorf("sync subscription: %w", err)
		}
		uc.log.Info().Str("stripe_sub", ev.StripeSubscriptionID).
			Str("status", string(ev.Status)).Msg("subscription synced")
		return nil

	case adapter.EventIgnored:
		return nil
	}
	return nil
}
