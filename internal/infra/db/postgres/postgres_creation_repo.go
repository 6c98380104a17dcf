package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"buzzugc/internal/domain"
	"buzzugc/internal/domain/model"
	"buzzugc/internal/domain/ports/repository"
)

var _ repository.CreationRepository = (*creationRepo)(nil)

type creationRepo struct {
	pool *pgxpool.Pool
}

func NewCreationRepo(pool *pgxpool.Pool) *creationRepo {
	return &creationRepo{pool: pool}
}

func (r *creationRepo) Save(ctx context.Context, c *model.Creation) error {
	const q = `
INSERT INTO creations (id, user_id, avatar_image_url, script, video_url, created_at)
VALUES ($1,$2,$3,$4,$5,$6);`
	_, err := r.pool.Exec(ctx, q, c.ID, c.UserID, c.AvatarImageURL, c.Script, c.VideoURL, c.CreatedAt)
	if err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *creationRepo) CountSince(ctx context.Context, userID string, since time.Time) (int, error) {
	const q = `SELECT COUNT(*) FROM creations WHERE user_id=$1 AND created_at >= $2;`
	var count int
	if err := r.pool.QueryRow(ctx, q, userID, since).Scan(&count); err != nil {
		return 0, domain.ErrStoreUnreachable
	}
	return count, nil
}

func (r *creationRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*model.Creation, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `
SELECT id, user_id, avatar_image_url, script, video_url, created_at
  FROM creations
 WHERE user_id=$1
 ORDER BY created_at DESC
 LIMIT $2;`
	rows, err := r.pool.Query(ctx, q, userID, limit)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Creation
	for rows.Next() {
		var c model.Creation
		if err := rows.Scan(&c.ID, &c.UserID, &c.AvatarImageURL, &c.Script, &c.VideoURL, &c.CreatedAt); err != nil {
			return nil, domain.ErrOperationFailed
		}
		out = append(out, &c)
	}
	if rows.Err() != nil && !errors.Is(rows.Err(), context.Canceled) {
		return nil, domain.ErrOperationFailed
	}
	return out, nil
}
