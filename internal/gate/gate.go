package gate

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/gameshelf/newsletter/internal/mailer"
)

// Gate wraps the Mailer with a minimum-interval throttle. The mail provider
// accepts roughly one send per five seconds; the gate guarantees consecutive
// Send calls start at least minInterval apart.
//
// Burst is 1, so no tokens accumulate between runs: the first send of a run
// goes out immediately, every later send waits its full slot. The slot is
// consumed before the transport is invoked, which means a failing send still
// occupies its interval — a storm of failures cannot defeat the rate limit.
//
// The dispatcher's sequential loop is the only caller during a run; the bus
// serializes runs of the same job, so a single limiter is sufficient.
type Gate struct {
	mailer  mailer.Mailer
	limiter *rate.Limiter
}

func New(m mailer.Mailer, minInterval time.Duration) *Gate {
	return &Gate{
		mailer:  m,
		limiter: rate.NewLimiter(rate.Every(minInterval), 1),
	}
}

// Send blocks until the throttle grants a slot, then forwards to the mailer.
// Returns the context error if ctx is cancelled while waiting, so a shutdown
// never leaves the gate sleeping.
func (g *Gate) Send(ctx context.Context, msg mailer.Message) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return err
	}
	return g.mailer.Send(ctx, msg)
}
