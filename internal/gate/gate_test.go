package gate_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gameshelf/newsletter/internal/gate"
	"github.com/gameshelf/newsletter/internal/mailer"
)

// recordingMailer captures the start time of every forwarded send.
type recordingMailer struct {
	mu     sync.Mutex
	starts []time.Time
	errs   []error // consumed in order; nil entries succeed
}

func (m *recordingMailer) Send(_ context.Context, _ mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.starts = append(m.starts, time.Now())
	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		return err
	}
	return nil
}

func TestGate_EnforcesMinimumInterval(t *testing.T) {
	const interval = 50 * time.Millisecond
	m := &recordingMailer{}
	g := gate.New(m, interval)
	ctx := context.Background()
	msg := mailer.Message{To: "a@example.com"}

	for i := 0; i < 3; i++ {
		if err := g.Send(ctx, msg); err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
	}

	if len(m.starts) != 3 {
		t.Fatalf("expected 3 forwarded sends, got %d", len(m.starts))
	}
	for i := 1; i < len(m.starts); i++ {
		gap := m.starts[i].Sub(m.starts[i-1])
		// Small tolerance for timer resolution.
		if gap < interval-5*time.Millisecond {
			t.Fatalf("sends %d and %d only %v apart, want >= %v", i-1, i, gap, interval)
		}
	}
}

func TestGate_FailedSendStillConsumesSlot(t *testing.T) {
	const interval = 50 * time.Millisecond
	m := &recordingMailer{errs: []error{nil, errors.New("boom"), nil}}
	g := gate.New(m, interval)
	ctx := context.Background()
	msg := mailer.Message{To: "a@example.com"}

	if err := g.Send(ctx, msg); err != nil {
		t.Fatalf("first send: %v", err)
	}
	if err := g.Send(ctx, msg); err == nil {
		t.Fatal("second send should fail")
	}
	if err := g.Send(ctx, msg); err != nil {
		t.Fatalf("third send: %v", err)
	}

	gap := m.starts[2].Sub(m.starts[1])
	if gap < interval-5*time.Millisecond {
		t.Fatalf("failed send must still occupy its interval; gap was %v", gap)
	}
}

func TestGate_CancelledWhileWaiting(t *testing.T) {
	m := &recordingMailer{}
	g := gate.New(m, time.Minute)
	msg := mailer.Message{To: "a@example.com"}

	// Consume the single burst token.
	if err := g.Send(context.Background(), msg); err != nil {
		t.Fatalf("first send: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := g.Send(ctx, msg)
	if err == nil {
		t.Fatal("expected an error when cancelled while throttled")
	}
	if len(m.starts) != 1 {
		t.Fatalf("mailer must not be invoked after cancellation; got %d calls", len(m.starts))
	}
}
