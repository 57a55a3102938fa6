package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gameshelf/newsletter/internal/domain"
)

// MockSubscriberRepository is a hand-written, in-memory implementation of
// SubscriberRepository used in unit tests. No mock-generation library needed.
type MockSubscriberRepository struct {
	mu          sync.RWMutex
	subscribers []*domain.Subscriber

	// Optional error override — set in tests to simulate query failure.
	FindErr error
}

func NewMockSubscriberRepository(subscribers ...*domain.Subscriber) *MockSubscriberRepository {
	return &MockSubscriberRepository{subscribers: subscribers}
}

func (m *MockSubscriberRepository) Add(s *domain.Subscriber) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, s)
}

func (m *MockSubscriberRepository) FindSubscribed(_ context.Context) ([]*domain.Subscriber, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Subscriber
	for _, s := range m.subscribers {
		if s.Subscribed {
			clone := *s
			result = append(result, &clone)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// MockGameRepository mirrors the pg implementation's window semantics:
// the interval is closed on both ends and results come back ordered by
// release date ascending.
type MockGameRepository struct {
	mu    sync.RWMutex
	games []*domain.Game

	FindErr error

	// LastStart/LastEnd capture the window of the most recent query so
	// tests can assert the dispatcher computed it from a single timestamp.
	LastStart time.Time
	LastEnd   time.Time
}

func NewMockGameRepository(games ...*domain.Game) *MockGameRepository {
	return &MockGameRepository{games: games}
}

func (m *MockGameRepository) Add(g *domain.Game) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games = append(m.games, g)
}

func (m *MockGameRepository) FindReleasingBetween(_ context.Context, start, end time.Time) ([]*domain.Game, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	m.mu.Lock()
	m.LastStart, m.LastEnd = start, end
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Game
	for _, g := range m.games {
		if g.ReleaseDate.Before(start) || g.ReleaseDate.After(end) {
			continue
		}
		clone := *g
		result = append(result, &clone)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ReleaseDate.Before(result[j].ReleaseDate)
	})
	return result, nil
}
