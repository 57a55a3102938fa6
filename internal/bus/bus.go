package bus

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/gameshelf/newsletter/internal/domain"
)

// Envelope is the trigger token routed to a job handler. It deliberately
// carries no window parameters: the handler recomputes "now" when it runs,
// so a delayed or manually replayed envelope behaves identically to a
// freshly scheduled one.
type Envelope struct {
	Job        string
	Trigger    domain.Trigger
	EnqueuedAt time.Time
}

// Handler processes one envelope. A returned error is a run-level failure
// (e.g. a query that could not complete); the bus logs it and moves on.
type Handler func(ctx context.Context, env Envelope) error

// jobLine is the single-consumer lane for one job name. Exactly one
// goroutine drains the channel, so two runs of the same job can never
// overlap — required so concurrent runs cannot jointly exceed the mail
// provider's rate limit.
type jobLine struct {
	ch      chan Envelope
	handler Handler
}

// Bus routes envelopes from the scheduler (or manual senders) to the single
// registered handler per job name. Each dispatched envelope results in
// exactly one handler invocation.
type Bus struct {
	mu     sync.Mutex
	lines  map[string]*jobLine
	buffer int
	wg     sync.WaitGroup
	logger *zap.Logger
}

func New(buffer int, logger *zap.Logger) *Bus {
	if buffer <= 0 {
		buffer = 16
	}
	return &Bus{
		lines:  make(map[string]*jobLine),
		buffer: buffer,
		logger: logger,
	}
}

// Register binds a handler to a job name. Call before Start; registering
// the same job twice replaces the handler but keeps the lane.
func (b *Bus) Register(job string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if line, ok := b.lines[job]; ok {
		line.handler = h
		return
	}
	b.lines[job] = &jobLine{
		ch:      make(chan Envelope, b.buffer),
		handler: h,
	}
}

// Dispatch places an envelope on its job's lane. It is non-blocking: if the
// lane buffer is full, ErrBusFull is returned immediately rather than
// stalling the caller (the cron goroutine or an HTTP handler).
func (b *Bus) Dispatch(env Envelope) error {
	b.mu.Lock()
	line, ok := b.lines[env.Job]
	b.mu.Unlock()
	if !ok {
		return domain.ErrUnknownJob
	}

	select {
	case line.ch <- env:
		return nil
	default:
		return domain.ErrBusFull
	}
}

// Start launches one consumer goroutine per registered job. Cancelling ctx
// stops all consumers after their in-flight run finishes.
func (b *Bus) Start(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for job, line := range b.lines {
		b.wg.Add(1)
		go func(job string, line *jobLine) {
			defer b.wg.Done()
			b.consume(ctx, job, line)
		}(job, line)
	}
}

// Wait blocks until every consumer has returned after ctx is cancelled.
// Call this after cancelling the context so in-flight runs finish cleanly.
func (b *Bus) Wait() {
	b.wg.Wait()
}

func (b *Bus) consume(ctx context.Context, job string, line *jobLine) {
	log := b.logger.With(zap.String("job", job))
	log.Info("job consumer started")
	for {
		select {
		case <-ctx.Done():
			log.Info("job consumer stopping")
			return
		case env := <-line.ch:
			wait := time.Since(env.EnqueuedAt)
			if err := line.handler(ctx, env); err != nil {
				log.Error("job run failed",
					zap.String("trigger", string(env.Trigger)),
					zap.Duration("queue_wait", wait),
					zap.Error(err),
				)
			}
		}
	}
}
