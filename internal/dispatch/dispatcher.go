package dispatch

import (
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	_ "embed"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gameshelf/newsletter/internal/bus"
	"github.com/gameshelf/newsletter/internal/domain"
	"github.com/gameshelf/newsletter/internal/mailer"
	"github.com/gameshelf/newsletter/internal/repository"
)

// Job is the bus job name for the weekly newsletter.
const Job = "send-newsletter"

//go:embed newsletter.html.tmpl
var newsletterTmpl string

// Sender is the delivery dependency of the dispatcher. The throttled gate
// satisfies it in production; tests substitute a recording fake.
type Sender interface {
	Send(ctx context.Context, msg mailer.Message) error
}

// Config carries the run parameters of the dispatcher.
type Config struct {
	From      string
	Subject   string
	Lookahead time.Duration
	// Now supplies the single timestamp a run is anchored on.
	// Defaults to time.Now; fixed in tests.
	Now func() time.Time
}

// Hooks carries the metric callbacks injected by main. Optional (nil = no-op).
type Hooks struct {
	OnRun func(*domain.RunReport)
}

// Dispatcher turns one trigger envelope into zero or more outbound emails.
//
// A run anchors on a single "now", selects subscribed readers and the games
// releasing within [now, now+Lookahead] (both ends inclusive), and sends one
// email per subscriber through the gate. Every subscriber gets the same game
// list. A failing send is recorded in the run report and never aborts the
// batch; only a failed query aborts the run.
type Dispatcher struct {
	subscribers repository.SubscriberRepository
	games       repository.GameRepository
	sender      Sender
	tmpl        *template.Template
	cfg         Config
	history     *History
	hooks       Hooks
	logger      *zap.Logger
}

func NewDispatcher(
	subscribers repository.SubscriberRepository,
	games repository.GameRepository,
	sender Sender,
	cfg Config,
	history *History,
	hooks Hooks,
	logger *zap.Logger,
) (*Dispatcher, error) {
	tmpl, err := template.New("newsletter").Parse(newsletterTmpl)
	if err != nil {
		return nil, fmt.Errorf("parse newsletter template: %w", err)
	}
	if cfg.Lookahead <= 0 {
		cfg.Lookahead = 7 * 24 * time.Hour
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if hooks.OnRun == nil {
		hooks.OnRun = func(*domain.RunReport) {}
	}
	return &Dispatcher{
		subscribers: subscribers,
		games:       games,
		sender:      sender,
		tmpl:        tmpl,
		cfg:         cfg,
		history:     history,
		hooks:       hooks,
		logger:      logger,
	}, nil
}

// Handler adapts the dispatcher to the bus. Scheduled and manual envelopes
// take the identical path.
func (d *Dispatcher) Handler() bus.Handler {
	return func(ctx context.Context, env bus.Envelope) error {
		_, err := d.Run(ctx, env.Trigger)
		return err
	}
}

// Run executes one newsletter batch and returns its report. The returned
// error is non-nil only for run-level failures: a subscriber or game query
// that could not complete. Individual delivery failures are absorbed into
// the report.
func (d *Dispatcher) Run(ctx context.Context, trigger domain.Trigger) (*domain.RunReport, error) {
	now := d.cfg.Now().UTC()
	report := &domain.RunReport{
		RunID:       uuid.New().String(),
		Trigger:     trigger,
		StartedAt:   now,
		WindowStart: now,
		WindowEnd:   now.Add(d.cfg.Lookahead),
	}
	log := d.logger.With(
		zap.String("run_id", report.RunID),
		zap.String("trigger", string(trigger)),
	)

	subscribers, err := d.subscribers.FindSubscribed(ctx)
	if err != nil {
		return nil, fmt.Errorf("query subscribers: %w", err)
	}
	report.SubscribersConsidered = len(subscribers)
	if len(subscribers) == 0 {
		log.Info("no subscribed readers, nothing to send")
		return d.finalize(log, report), nil
	}

	games, err := d.games.FindReleasingBetween(ctx, report.WindowStart, report.WindowEnd)
	if err != nil {
		return nil, fmt.Errorf("query upcoming games: %w", err)
	}
	report.GamesConsidered = len(games)
	if len(games) == 0 {
		log.Info("no games releasing in window, nothing to send",
			zap.Time("window_start", report.WindowStart),
			zap.Time("window_end", report.WindowEnd),
		)
		return d.finalize(log, report), nil
	}

	for _, sub := range subscribers {
		if ctx.Err() != nil {
			report.Incomplete = true
			break
		}

		body, err := d.renderBody(sub, games)
		if err != nil {
			// Parse succeeded at startup, so this is effectively unreachable;
			// treat it like any other per-subscriber failure.
			report.Failures = append(report.Failures, domain.SendFailure{
				SubscriberID: sub.ID,
				Email:        sub.Email,
				Error:        err.Error(),
			})
			continue
		}

		err = d.sender.Send(ctx, mailer.Message{
			From:     d.cfg.From,
			To:       sub.Email,
			Subject:  d.cfg.Subject,
			HTMLBody: body,
		})
		if err != nil {
			if ctx.Err() != nil {
				// Shutdown while throttled or mid-send, not a subscriber fault.
				report.Incomplete = true
				break
			}
			log.Warn("newsletter send failed",
				zap.String("email", sub.Email),
				zap.Error(err),
			)
			report.Failures = append(report.Failures, domain.SendFailure{
				SubscriberID: sub.ID,
				Email:        sub.Email,
				Error:        err.Error(),
			})
			continue
		}
		report.Sent++
	}

	return d.finalize(log, report), nil
}

func (d *Dispatcher) finalize(log *zap.Logger, report *domain.RunReport) *domain.RunReport {
	report.FinishedAt = time.Now().UTC()
	if d.history != nil {
		d.history.Add(report)
	}
	d.hooks.OnRun(report)

	log.Info("newsletter run finished",
		zap.Int("subscribers", report.SubscribersConsidered),
		zap.Int("games", report.GamesConsidered),
		zap.Int("sent", report.Sent),
		zap.Int("failed", report.Failed()),
		zap.Bool("incomplete", report.Incomplete),
		zap.Duration("duration", report.Duration()),
	)
	return report
}

func (d *Dispatcher) renderBody(sub *domain.Subscriber, games []*domain.Game) (string, error) {
	var buf strings.Builder
	data := struct {
		Subscriber *domain.Subscriber
		Games      []*domain.Game
	}{sub, games}
	if err := d.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render newsletter body: %w", err)
	}
	return buf.String(), nil
}
