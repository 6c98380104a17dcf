//go:build !integration

// File: internal/usecase/mocks_test.go
package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"buzzugc/internal/domain"
	"buzzugc/internal/domain/model"
	"buzzugc/internal/domain/ports/adapter"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// mockSubRepo is a hook-style subscription repository for unit tests.
type mockSubRepo struct {
	FindActiveByUserFunc           func(ctx context.Context, userID string) (*model.UserSubscription, error)
	UpsertFunc                     func(ctx context.Context, sub *model.UserSubscription) error
	UpdateByStripeSubscriptionFunc func(ctx context.Context, stripeSubID string, status model.SubscriptionStatus, periodEnd time.Time) error
}

func (m *mockSubRepo) FindActiveByUser(ctx context.Context, userID string) (*model.UserSubscription, error) {
	if m.FindActiveByUserFunc != nil {
		return m.FindActiveByUserFunc(ctx, userID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockSubRepo) Upsert(ctx context.Context, sub *model.UserSubscription) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, sub)
	}
	return nil
}

func (m *mockSubRepo) UpdateByStripeSubscription(ctx context.Context, stripeSubID string, status model.SubscriptionStatus, periodEnd time.Time) error {
	if m.UpdateByStripeSubscriptionFunc != nil {
		return m.UpdateByStripeSubscriptionFunc(ctx, stripeSubID, status, periodEnd)
	}
	return nil
}

// mockCreationRepo counts saves and answers usage queries.
type mockCreationRepo struct {
	mu            sync.Mutex
	saved         []*model.Creation
	CountSinceFunc func(ctx context.Context, userID string, since time.Time) (int, error)
}

func (m *mockCreationRepo) Save(ctx context.Context, c *model.Creation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, c)
	return nil
}

func (m *mockCreationRepo) CountSince(ctx context.Context, userID string, since time.Time) (int, error) {
	if m.CountSinceFunc != nil {
		return m.CountSinceFunc(ctx, userID, since)
	}
	return 0, nil
}

func (m *mockCreationRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*model.Creation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.Creation(nil), m.saved...), nil
}

// mockGrants wraps a fixed member set.
type mockGrants struct {
	FindGrantFunc func(ctx context.Context, userID, email string) (model.PlanID, error)
}

func (m *mockGrants) FindGrant(ctx context.Context, userID, email string) (model.PlanID, error) {
	if m.FindGrantFunc != nil {
		return m.FindGrantFunc(ctx, userID, email)
	}
	return "", domain.ErrNotFound
}

// mockTransport records calls and delegates to a hook.
type mockTransport struct {
	name         string
	mu           sync.Mutex
	calls        int
	GenerateFunc func(ctx context.Context, req adapter.GenerationRequest) (*adapter.GenerationResult, error)
}

func (m *mockTransport) Name() string { return m.name }

func (m *mockTransport) Generate(ctx context.Context, req adapter.GenerationRequest) (*adapter.GenerationResult, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	return nil, domain.ErrProviderUnavailable
}

func (m *mockTransport) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockGateway is a hook-style payment gateway.
type mockGateway struct {
	CreateCheckoutSessionFunc func(ctx context.Context, userID string, plan model.PlanID, origin string) (*adapter.CheckoutSession, error)
	ParseWebhookFunc          func(payload []byte, signature string) (*adapter.SubscriptionEvent, error)
}

func (m *mockGateway) CreateCheckoutSession(ctx context.Context, userID string, plan model.PlanID, origin string) (*adapter.CheckoutSession, error) {
	if m.CreateCheckoutSessionFunc != nil {
		return m.CreateCheckoutSessionFunc(ctx, userID, plan, origin)
	}
	return &adapter.CheckoutSession{ID: "cs_test", URL: "https://checkout.test/cs_test"}, nil
}

func (m *mockGateway) ParseWebhook(payload []byte, signature string) (*adapter.SubscriptionEvent, error) {
	if m.ParseWebhookFunc != nil {
		return m.ParseWebhookFunc(payload, signature)
	}
	return &adapter.SubscriptionEvent{Type: adapter.EventIgnored}, nil
}
