// File: internal/usecase/entitlement_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"buzzugc/internal/domain"
	"buzzugc/internal/domain/model"
	"buzzugc/internal/domain/ports/repository"
	"buzzugc/internal/infra/metrics"
)

// QuotaVerdict is the answer to "can this identity generate right now".
// Quota exhaustion is a verdict, not an error; the UI renders Message
// verbatim, so the strings below are part of the contract.
type QuotaVerdict struct {
	Allowed bool   `json:"allowed"`
	Used    int    `json:"used"`
	Limit   int    `json:"limit"`
	Message string `json:"message"`
}

// EntitlementUseCase resolves an identity's effective plan, quota and feature
// flags. All operations are read-only and safe to call concurrently; every
// call re-derives its answer so webhook-driven plan changes show up
// immediately.
type EntitlementUseCase struct {
	subRepo      repository.SubscriptionRepository
	creationRepo repository.CreationRepository
	grants       repository.GrantRepository
	plans        map[model.PlanID]model.PlanLimits
	log          *zerolog.Logger
}

func NewEntitlementUseCase(
	subRepo repository.SubscriptionRepository,
	creationRepo repository.CreationRepository,
	grants repository.GrantRepository,
	plans map[model.PlanID]model.PlanLimits,
	logger *zerolog.Logger,
) *EntitlementUseCase {
	if plans == nil {
		plans = model.DefaultPlanTable()
	}
	return &EntitlementUseCase{
		subRepo:      subRepo,
		creationRepo: creationRepo,
		grants:       grants,
		plans:        plans,
		log:          logger,
	}
}

func (uc *EntitlementUseCase) limitsFor(plan model.PlanID) model.PlanLimits {
	if l, ok := uc.plans[plan]; ok {
		return l
	}
	// Unknown plan id in a subscription record: grant nothing.
	return model.PlanLimits{Plan: model.PlanNone}
}

// ResolveEntitlement applies the precedence tiers in strict order:
// super-admin override, active subscription record, legacy grant, none.
// The super-admin branch must not touch any store so an outage can never
// lock an operator out.
func (uc *EntitlementUseCase) ResolveEntitlement(ctx context.Context, identity model.Identity) (*model.Entitlement, error) {
	if identity.SuperAdmin {
		metrics.IncEntitlementResolved(string(model.SourceSuperAdmin), string(model.PlanEnterprise))
		return &model.Entitlement{
			Plan:   model.PlanEnterprise,
			Limits: uc.limitsFor(model.PlanEnterprise),
			Source: model.SourceSuperAdmin,
		}, nil
	}

	sub, err := uc.subRepo.FindActiveByUser(ctx, identity.ID)
	switch {
	case err == nil:
		if sub.ActiveAt(time.Now()) {
			metrics.IncEntitlementResolved(string(model.SourceSubscription), string(sub.PlanID))
			return &model.Entitlement{
				Plan:   sub.PlanID,
				Limits: uc.limitsFor(sub.PlanID),
				Source: model.SourceSubscription,
			}, nil
		}
		// Marked active but period lapsed: billing webhooks lag sometimes.
		// Fall through as if no record existed.
		uc.log.Warn().Str("user_id", identity.ID).Str("sub_id", sub.ID).
			Time("period_end", sub.CurrentPeriodEnd).Msg("active subscription with lapsed period, ignoring")
	case errors.Is(err, domain.ErrNotFound):
		// no record, fall through to grants
	default:
		uc.log.Error().Err(err).Str("user_id", identity.ID).Msg("subscription lookup failed")
		return nil, fmt.Errorf("find active subscription: %w", domain.ErrStoreUnreachable)
	}

	plan, err := uc.grants.FindGrant(ctx, identity.ID, identity.Email)
	switch {
	case err == nil:
		metrics.IncEntitlementResolved(string(model.SourceGrant), string(plan))
		return &model.Entitlement{
			Plan:   plan,
			Limits: uc.limitsFor(plan),
			Source: model.SourceGrant,
		}, nil
	case errors.Is(err, domain.ErrNotFound):
	default:
		return nil, fmt.Errorf("find legacy grant: %w", domain.ErrStoreUnreachable)
	}

	metrics.IncEntitlementResolved(string(model.SourceNone), string(model.PlanNone))
	return &model.Entitlement{
		Plan:   model.PlanNone,
		Limits: uc.limitsFor(model.PlanNone),
		Source: model.SourceNone,
	}, nil
}

// failClosedVerdict is returned whenever the stores cannot answer: never
// silently grant unmetered access.
func failClosedVerdict() *QuotaVerdict {
	return &QuotaVerdict{
		Allowed: false,
		Used:    0,
		Limit:   0,
		Message: "Error checking quota. Please try again.",
	}
}

// CanGenerate folds the resolved entitlement together with this month's
// usage count into a verdict. Infrastructure failures degrade to a denial
// rather than an error so the caller always gets a renderable answer.
func (uc *EntitlementUseCase) CanGenerate(ctx context.Context, identity model.Identity) *QuotaVerdict {
	if identity.SuperAdmin {
		metrics.IncQuotaVerdict("allowed_unlimited")
		return &QuotaVerdict{
			Allowed: true,
			Used:    0,
			Limit:   model.UnlimitedCreations,
			Message: "Super Admin - Unlimited Access",
		}
	}

	ent, err := uc.ResolveEntitlement(ctx, identity)
	if err != nil {
		metrics.IncQuotaVerdict("error")
		return failClosedVerdict()
	}

	used, usageErr := uc.creationRepo.CountSince(ctx, identity.ID, startOfCurrentMonth(time.Now()))

	if ent.Limits.Unlimited() {
		if usageErr != nil {
			// Unlimited stays unlimited even when the counter is down.
			used = 0
		}
		metrics.IncQuotaVerdict("allowed_unlimited")
		return &QuotaVerdict{
			Allowed: true,
			Used:    used,
			Limit:   model.UnlimitedCreations,
			Message: "Enterprise - Unlimited Access",
		}
	}

	if usageErr != nil {
		uc.log.Error().Err(usageErr).Str("user_id", identity.ID).Msg("usage count failed, failing closed")
		metrics.IncQuotaVerdict("error")
		return failClosedVerdict()
	}

	limit := ent.Limits.MonthlyCreations
	if used < limit {
		remaining := limit - used
		plural := "s"
		if remaining == 1 {
			plural = ""
		}
		metrics.IncQuotaVerdict("allowed")
		return &QuotaVerdict{
			Allowed: true,
			Used:    used,
			Limit:   limit,
			Message: fmt.Sprintf("%d video%s remaining this month", remaining, plural),
		}
	}

	metrics.IncQuotaVerdict("denied")
	return &QuotaVerdict{
		Allowed: false,
		Used:    used,
		Limit:   limit,
		Message: fmt.Sprintf("Monthly limit reached (%d/%d). Upgrade your plan to generate more videos.", used, limit),
	}
}

// startOfCurrentMonth is the usage window boundary: first of the month,
// 00:00 UTC.
func startOfCurrentMonth(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}
