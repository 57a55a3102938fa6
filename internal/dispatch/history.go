package dispatch

import (
	"sync"

	"github.com/gameshelf/newsletter/internal/domain"
)

// History keeps the most recent run reports in memory, newest first.
// Reports are not persisted; a restart starts with an empty history.
type History struct {
	mu      sync.Mutex
	cap     int
	reports []*domain.RunReport
}

func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = 50
	}
	return &History{cap: capacity}
}

func (h *History) Add(r *domain.RunReport) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reports = append([]*domain.RunReport{r}, h.reports...)
	if len(h.reports) > h.cap {
		h.reports = h.reports[:h.cap]
	}
}

// Recent returns a copy of the stored reports, newest first.
func (h *History) Recent() []*domain.RunReport {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*domain.RunReport, len(h.reports))
	copy(out, h.reports)
	return out
}

// Latest returns the most recent report, or ErrNoRunsYet if none exists.
func (h *History) Latest() (*domain.RunReport, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.reports) == 0 {
		return nil, domain.ErrNoRunsYet
	}
	return h.reports[0], nil
}
