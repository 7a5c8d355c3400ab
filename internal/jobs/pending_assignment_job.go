package jobs

import (
	"context"
	"errors"
	"log/slog"

	"github.com/robfig/cron/v3"

	"dispatch/internal/core/application/usecases/commands"
)

// PendingAssignmentJob manages the scheduled auto-dispatch sweep.
// Runs every second to match pending jobs with available drivers.
type PendingAssignmentJob struct {
	handler commands.AssignPendingJobCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewPendingAssignmentJob creates a new auto-dispatch job.
// Uses AssignPendingJobCommandHandler to process one assignment per tick.
func NewPendingAssignmentJob(handler commands.AssignPendingJobCommandHandler, logger *slog.Logger) *PendingAssignmentJob {
	return &PendingAssignmentJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "pending_assignment_job"),
	}
}

// Start begins the auto-dispatch sweep to run every second.
func (j *PendingAssignmentJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewAssignPendingJobCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			// Only log errors that are not expected business scenarios
			if !errors.Is(err, commands.ErrNoPendingJobs) && !errors.Is(err, commands.ErrNoDriversAvailable) {
				j.logger.ErrorContext(ctx, "Pending assignment job failed", "error", err)
			}
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Pending assignment job started (running every second)")
	return nil
}

// Stop stops the auto-dispatch sweep.
func (j *PendingAssignmentJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Pending assignment job stopped")
}
