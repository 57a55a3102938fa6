package dispatch_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gameshelf/newsletter/internal/dispatch"
	"github.com/gameshelf/newsletter/internal/domain"
)

func TestHistory_NewestFirstAndCapped(t *testing.T) {
	h := dispatch.NewHistory(3)
	for i := 1; i <= 5; i++ {
		h.Add(&domain.RunReport{RunID: fmt.Sprintf("run-%d", i)})
	}

	recent := h.Recent()
	if len(recent) != 3 {
		t.Fatalf("expected history capped at 3, got %d", len(recent))
	}
	if recent[0].RunID != "run-5" || recent[2].RunID != "run-3" {
		t.Fatalf("expected newest first, got %s..%s", recent[0].RunID, recent[2].RunID)
	}
}

func TestHistory_LatestEmpty(t *testing.T) {
	h := dispatch.NewHistory(3)
	if _, err := h.Latest(); !errors.Is(err, domain.ErrNoRunsYet) {
		t.Fatalf("expected ErrNoRunsYet, got %v", err)
	}
}
