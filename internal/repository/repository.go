package repository

import (
	"context"
	"time"

	"github.com/gameshelf/newsletter/internal/domain"
)

// SubscriberRepository exposes the read operations the dispatcher needs.
// The pgx implementation is in pg_subscriber_repo.go; tests use the
// hand-written in-memory mocks in mock_repos.go.
type SubscriberRepository interface {
	// FindSubscribed returns every subscriber whose subscription flag is
	// true, in a stable order (ascending id).
	FindSubscribed(ctx context.Context) ([]*domain.Subscriber, error)
}

// GameRepository exposes release-window queries over the games catalogue.
type GameRepository interface {
	// FindReleasingBetween returns games whose release date falls inside
	// [start, end], inclusive on both ends, ordered by release date ascending.
	FindReleasingBetween(ctx context.Context, start, end time.Time) ([]*domain.Game, error)
}
