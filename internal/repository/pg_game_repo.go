package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gameshelf/newsletter/internal/domain"
)

type pgGameRepository struct {
	pool *pgxpool.Pool
}

// NewPgGameRepository returns a GameRepository backed by PostgreSQL.
func NewPgGameRepository(pool *pgxpool.Pool) GameRepository {
	return &pgGameRepository{pool: pool}
}

func (r *pgGameRepository) FindReleasingBetween(ctx context.Context, start, end time.Time) ([]*domain.Game, error) {
	// BETWEEN is inclusive on both bounds, which is exactly the window
	// contract: a game releasing at the window edge is still announced.
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, release_date, description, publisher, cover_image
		FROM games
		WHERE release_date BETWEEN $1 AND $2
		ORDER BY release_date ASC`, start, end)
	if err != nil {
		return nil, fmt.Errorf("find releasing between: %w", err)
	}
	defer rows.Close()

	var games []*domain.Game
	for rows.Next() {
		var (
			g           domain.Game
			description *string
			publisher   *string
			coverImage  *string
		)
		if err := rows.Scan(&g.ID, &g.Title, &g.ReleaseDate, &description, &publisher, &coverImage); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		if description != nil {
			g.Description = *description
		}
		if publisher != nil {
			g.Publisher = *publisher
		}
		if coverImage != nil {
			g.CoverImage = *coverImage
		}
		games = append(games, &g)
	}
	return games, rows.Err()
}
