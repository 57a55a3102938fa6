package handler

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	apimw "github.com/gameshelf/newsletter/internal/api/middleware"
	"github.com/gameshelf/newsletter/internal/bus"
	"github.com/gameshelf/newsletter/internal/dispatch"
	"github.com/gameshelf/newsletter/internal/domain"
)

// NewsletterHandler exposes the operational surface of the newsletter job:
// a manual trigger and the in-memory run history.
type NewsletterHandler struct {
	bus     *bus.Bus
	history *dispatch.History
	logger  *zap.Logger
}

func NewNewsletterHandler(b *bus.Bus, history *dispatch.History, logger *zap.Logger) *NewsletterHandler {
	return &NewsletterHandler{bus: b, history: history, logger: logger}
}

// Trigger handles POST /api/v1/newsletter/dispatch
//
// Places one envelope on the bus and returns as soon as it is enqueued,
// independent of whether the sends later succeed. The resulting run is
// behaviorally identical to a schedule-triggered one: the release window is
// computed when the run executes, not now.
func (h *NewsletterHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	env := bus.Envelope{
		Job:        dispatch.Job,
		Trigger:    domain.TriggerManual,
		EnqueuedAt: time.Now().UTC(),
	}
	if err := h.bus.Dispatch(env); err != nil {
		h.logger.Warn("manual newsletter trigger rejected",
			zap.String("correlation_id", apimw.GetCorrelationID(r.Context())),
			zap.Error(err),
		)
		mapError(w, err)
		return
	}

	h.logger.Info("manual newsletter trigger accepted",
		zap.String("correlation_id", apimw.GetCorrelationID(r.Context())),
	)
	respondJSON(w, http.StatusAccepted, map[string]string{"status": "enqueued"})
}

// ListRuns handles GET /api/v1/newsletter/runs
//
// Returns recent run reports, newest first. History is in-memory only and
// resets on restart.
func (h *NewsletterHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs := h.history.Recent()
	respondJSON(w, http.StatusOK, map[string]any{
		"runs":  runs,
		"count": len(runs),
	})
}

// LatestRun handles GET /api/v1/newsletter/runs/latest
func (h *NewsletterHandler) LatestRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.history.Latest()
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, run)
}
