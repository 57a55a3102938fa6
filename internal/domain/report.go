package domain

import "time"

// Trigger records what caused a newsletter run.
type Trigger string

const (
	TriggerSchedule Trigger = "schedule"
	TriggerManual   Trigger = "manual"
)

// SendFailure is one subscriber whose delivery attempt failed. Failures are
// collected per run; they never abort the batch.
type SendFailure struct {
	SubscriberID int64  `json:"subscriber_id"`
	Email        string `json:"email"`
	Error        string `json:"error"`
}

// RunReport summarizes a single newsletter run. Reports are held in memory
// only (logged and exposed over HTTP); nothing durable is written, so a
// process restart forgets past runs.
type RunReport struct {
	RunID       string    `json:"run_id"`
	Trigger     Trigger   `json:"trigger"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`

	SubscribersConsidered int           `json:"subscribers_considered"`
	GamesConsidered       int           `json:"games_considered"`
	Sent                  int           `json:"sent"`
	Failures              []SendFailure `json:"failures"`

	// Incomplete is set when the run was cancelled mid-loop (process
	// shutdown). Already-sent emails stay sent; delivery is not transactional.
	Incomplete bool `json:"incomplete,omitempty"`
}

// Failed returns the number of delivery attempts that errored.
func (r *RunReport) Failed() int { return len(r.Failures) }

// Duration returns the wall-clock length of the run.
func (r *RunReport) Duration() time.Duration { return r.FinishedAt.Sub(r.StartedAt) }
