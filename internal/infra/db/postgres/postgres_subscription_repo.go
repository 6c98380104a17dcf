package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"buzzugc/internal/domain"
	"buzzugc/internal/domain/model"
	"buzzugc/internal/domain/ports/repository"
)

var _ repository.SubscriptionRepository = (*subscriptionRepo)(nil)

type subscriptionRepo struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepo(pool *pgxpool.Pool) *subscriptionRepo {
	return &subscriptionRepo{pool: pool}
}

func (r *subscriptionRepo) FindActiveByUser(ctx context.Context, userID string) (*model.UserSubscription, error) {
	const q = `
SELECT id, user_id, plan_id, status, current_period_start, current_period_end,
       stripe_customer_id, stripe_subscription_id, created_at
  FROM user_subscriptions
 WHERE user_id=$1 AND status='active'
 ORDER BY current_period_end DESC
 LIMIT 1;`
	row := r.pool.QueryRow(ctx, q, userID)
	s, err := scanSub(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrOperationFailed
	}
	return s, nil
}

func (r *subscriptionRepo) Upsert(ctx context.Context, s *model.UserSubscription) error {
	const q = `
INSERT INTO user_subscriptions (
  id, user_id, plan_id, status, current_period_start, current_period_end,
  stripe_customer_id, stripe_subscription_id, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (user_id) DO UPDATE SET
  plan_id=$3, status=$4, current_period_start=$5, current_period_end=$6,
  stripe_customer_id=$7, stripe_subscription_id=$8;`

	_, err := r.pool.Exec(ctx, q,
		s.ID, s.UserID, s.PlanID, s.Status, s.CurrentPeriodStart, s.CurrentPeriodEnd,
		s.StripeCustomerID, s.StripeSubscriptionID, s.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return domain.ErrInvalidArgument
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *subscriptionRepo) UpdateByStripeSubscription(ctx context.Context, stripeSubID string, status model.SubscriptionStatus, periodEnd time.Time) error {
	const q = `
UPDATE user_subscriptions
   SET status=$2, current_period_end=$3
 WHERE stripe_subscription_id=$1;`
	tag, err := r.pool.Exec(ctx, q, stripeSubID, status, periodEnd)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanSub(row pgx.Row) (*model.UserSubscription, error) {
	var s model.UserSubscription
	err := row.Scan(&s.ID, &s.UserID, &s.PlanID, &s.Status,
		&s.CurrentPeriodStart, &s.CurrentPeriodEnd,
		&s.StripeCustomerID, &s.StripeSubscriptionID, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
