package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gameshelf/newsletter/internal/domain"
)

type pgSubscriberRepository struct {
	pool *pgxpool.Pool
}

// NewPgSubscriberRepository returns a SubscriberRepository backed by PostgreSQL.
func NewPgSubscriberRepository(pool *pgxpool.Pool) SubscriberRepository {
	return &pgSubscriberRepository{pool: pool}
}

func (r *pgSubscriberRepository) FindSubscribed(ctx context.Context) ([]*domain.Subscriber, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, email, name, subscribed, created_at
		FROM subscribers
		WHERE subscribed
		ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("find subscribed: %w", err)
	}
	defer rows.Close()

	var subscribers []*domain.Subscriber
	for rows.Next() {
		var s domain.Subscriber
		if err := rows.Scan(&s.ID, &s.Email, &s.Name, &s.Subscribed, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan subscriber: %w", err)
		}
		subscribers = append(subscribers, &s)
	}
	return subscribers, rows.Err()
}
