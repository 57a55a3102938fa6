package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/gameshelf/newsletter/internal/api"
	"github.com/gameshelf/newsletter/internal/bus"
	"github.com/gameshelf/newsletter/internal/config"
	"github.com/gameshelf/newsletter/internal/db"
	"github.com/gameshelf/newsletter/internal/dispatch"
	"github.com/gameshelf/newsletter/internal/gate"
	"github.com/gameshelf/newsletter/internal/mailer"
	"github.com/gameshelf/newsletter/internal/metrics"
	"github.com/gameshelf/newsletter/internal/repository"
	"github.com/gameshelf/newsletter/internal/scheduler"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync() //nolint:errcheck

	// ---- configuration ----
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	// ---- database ----
	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	logger.Info("database migrations applied")

	// ---- core dependencies ----
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	subscriberRepo := repository.NewPgSubscriberRepository(pool)
	gameRepo := repository.NewPgGameRepository(pool)
	apiMailer := mailer.NewAPIMailer(cfg.MailAPIURL, cfg.MailAPIToken, cfg.MailTimeout)
	sendGate := gate.New(apiMailer, cfg.SendMinInterval)
	history := dispatch.NewHistory(cfg.HistorySize)

	dispatcher, err := dispatch.NewDispatcher(
		subscriberRepo,
		gameRepo,
		sendGate,
		dispatch.Config{
			From:      cfg.MailFrom,
			Subject:   cfg.MailSubject,
			Lookahead: cfg.ReleaseLookahead,
		},
		history,
		dispatch.Hooks{OnRun: m.RunHook()},
		logger,
	)
	if err != nil {
		logger.Fatal("failed to build dispatcher", zap.Error(err))
	}

	// ---- bus & schedule ----
	// Context for all background goroutines; cancelled on shutdown signal.
	busCtx, cancelBus := context.WithCancel(ctx)
	defer cancelBus()

	b := bus.New(cfg.DispatchBuffer, logger)
	b.Register(dispatch.Job, dispatcher.Handler())
	b.Start(busCtx)

	sched, err := scheduler.New(cfg.Timezone, b, logger,
		scheduler.Job{Name: dispatch.Job, Spec: cfg.NewsletterCron},
	)
	if err != nil {
		logger.Fatal("failed to build scheduler", zap.Error(err))
	}
	sched.Start()

	// ---- HTTP server ----
	router := api.NewRouter(b, history, reg, logger)
	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start server in a goroutine so it does not block the shutdown listener.
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// ---- graceful shutdown ----
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutdown signal received")

	// 1. Stop firing new scheduled runs.
	sched.Stop()

	// 2. Stop accepting new HTTP requests (manual triggers included).
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	// 3. Cancel the bus context so an in-flight run stops at its next
	//    send boundary (the report is marked incomplete), then wait.
	cancelBus()
	b.Wait()

	logger.Info("server stopped cleanly")
}
