//go:build !integration

// File: internal/usecase/checkout_uc_test.go
package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"buzzugc/internal/domain"
	"buzzugc/internal/domain/model"
	"buzzugc/internal/domain/ports/adapter"
	"buzzugc/internal/usecase"
)

func TestCheckoutUseCase_CreateCheckoutSession(t *testing.T) {
	ctx := context.Background()
	identity := model.Identity{ID: "u1", Email: "u1@example.com"}

	t.Run("unknown plan is rejected", func(t *testing.T) {
		uc := usecase.NewCheckoutUseCase(&mockGateway{}, &mockSubRepo{}, newTestLogger())
		if _, err := uc.CreateCheckoutSession(ctx, identity, model.PlanID("gold"), "https://app.example.com"); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got: %v", err)
		}
	})

	t.Run("plan none is rejected", func(t *testing.T) {
		uc := usecase.NewCheckoutUseCase(&mockGateway{}, &mockSubRepo{}, newTestLogger())
		if _, err := uc.CreateCheckoutSession(ctx, identity, model.PlanNone, "https://app.example.com"); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got: %v", err)
		}
	})

	t.Run("valid plan returns the provider session", func(t *testing.T) {
		gateway := &mockGateway{
			CreateCheckoutSessionFunc: func(ctx context.Context, userID string, plan model.PlanID, origin string) (*adapter.CheckoutSession, error) {
				if userID != "u1" || plan != model.PlanStarter || origin != "https://app.example.com" {
					t.Errorf("unexpected gateway call: %s %s %s", userID, plan, origin)
				}
				return &adapter.CheckoutSession{ID: "cs_1", URL: "https://checkout.test/cs_1"}, nil
			},
		}
		uc := usecase.NewCheckoutUseCase(gateway, &mockSubRepo{}, newTestLogger())

		sess, err := uc.CreateCheckoutSession(ctx, identity, model.PlanStarter, "https://app.example.com")
		if err != nil {
			t.Fatalf("expected session, got: %v", err)
		}
		if sess.ID != "cs_1" || sess.URL != "https://checkout.test/cs_1" {
			t.Errorf("unexpected session: %+v", sess)
		}
	})
}

func TestCheckoutUseCase_HandleWebhook(t *testing.T) {
	ctx := context.Background()

	t.Run("checkout completed upserts an active subscription", func(t *testing.T) {
		periodEnd := time.Now().Add(30 * 24 * time.Hour)
		gateway := &mockGateway{
			ParseWebhookFunc: func(payload []byte, signature string) (*adapter.SubscriptionEvent, error) {
				return &adapter.SubscriptionEvent{
					Type:                 adapter.EventCheckoutCompleted,
					UserID:               "u1",
					PlanID:               model.PlanProfessional,
					PeriodStart:          time.Now(),
					PeriodEnd:            periodEnd,
					StripeCustomerID:     "cus_1",
					StripeSubscriptionID: "sub_stripe_1",
				}, nil
			},
		}
		var upserted *model.UserSubscription
		subRepo := &mockSubRepo{
			UpsertFunc: func(ctx context.Context, sub *model.UserSubscription) error {
				upserted = sub
				return nil
			},
		}
		uc := usecase.NewCheckoutUseCase(gateway, subRepo, newTestLogger())

		if err := uc.HandleWebhook(ctx, []byte(`{}`), "sig"); err != nil {
			t.Fatalf("expected webhook to apply, got: %v", err)
		}
		if upserted == nil {
			t.Fatal("expected an upsert")
		}
		if upserted.UserID != "u1" || upserted.PlanID != model.PlanProfessional {
			t.Errorf("unexpected subscription: %+v", upserted)
		}
		if upserted.Status != model.SubscriptionStatusActive {
			t.Errorf("status = %s, want active", upserted.Status)
		}
		if upserted.StripeSubscriptionID != "sub_stripe_1" {
			t.Errorf("stripe sub id = %q", upserted.StripeSubscriptionID)
		}
	})

	t.Run("subscription deleted marks the record canceled", func(t *testing.T) {
		gateway := &mockGateway{
			ParseWebhookFunc: func(payload []byte, signature string) (*adapter.SubscriptionEvent, error) {
				return &adapter.SubscriptionEvent{
					Type:                 adapter.EventSubscriptionDeleted,
					Status:               model.SubscriptionStatusCanceled,
					StripeSubscriptionID: "sub_stripe_1",
					PeriodEnd:            time.Now(),
				}, nil
			},
		}
		var gotStatus model.SubscriptionStatus
		subRepo := &mockSubRepo{
			UpdateByStripeSubscriptionFunc: func(ctx context.Context, stripeSubID string, status model.SubscriptionStatus, periodEnd time.Time) error {
				if stripeSubID != "sub_stripe_1" {
					t.Errorf("stripe sub id = %q", stripeSubID)
				}
				gotStatus = status
				return nil
			},
		}
		uc := usecase.NewCheckoutUseCase(gateway, subRepo, newTestLogger())

		if err := uc.HandleWebhook(ctx, []byte(`{}`), "sig"); err != nil {
			t.Fatalf("expected webhook to apply, got: %v", err)
		}
		if gotStatus != model.SubscriptionStatusCanceled {
			t.Errorf("status = %s, want canceled", gotStatus)
		}
	})

	t.Run("ignored events are a no-op", func(t *testing.T) {
		subRepo := &mockSubRepo{
			UpsertFunc: func(ctx context.Context, sub *model.UserSubscription) error {
				t.Fatal("ignored event must not write")
				return nil
			},
		}
		uc := usecase.NewCheckoutUseCase(&mockGateway{}, subRepo, newTestLogger())
		if err := uc.HandleWebhook(ctx, []byte(`{}`), "sig"); err != nil {
			t.Fatalf("expected nil, got: %v", err)
		}
	})

	t.Run("signature failure surfaces as error", func(t *testing.T) {
		gateway := &mockGateway{
			ParseWebhookFunc: func(payload []byte, signature string) (*adapter.SubscriptionEvent, error) {
				return nil, errors.New("bad signature")
			},
		}
		uc := usecase.NewCheckoutUseCase(gateway, &mockSubRepo{}, newTestLogger())
		if err := uc.HandleWebhook(ctx, []byte(`{}`), "bad"); err == nil {
			t.Fatal("expected error for bad signature")
		}
	})
}
