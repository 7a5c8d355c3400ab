package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"dispatch/internal/core/application/usecases/commands"
)

// StaleDriverJob manages the scheduled stale-GPS sweep.
// Runs every minute to take drivers with outdated position reports out of
// the dispatch pool.
type StaleDriverJob struct {
	handler commands.MarkStaleDriversOfflineCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewStaleDriverJob creates a new stale-GPS sweep job.
func NewStaleDriverJob(handler commands.MarkStaleDriversOfflineCommandHandler, logger *slog.Logger) *StaleDriverJob {
	return &StaleDriverJob{
		handler: handler,
		cron:    cron.New(),
		logger:  logger.With("component", "stale_driver_job"),
	}
}

// Start begins the stale-GPS sweep to run every minute.
func (j *StaleDriverJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewMarkStaleDriversOfflineCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Stale driver sweep failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Stale driver job started (running every minute)")
	return nil
}

// Stop stops the stale-GPS sweep.
func (j *StaleDriverJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Stale driver job stopped")
}
