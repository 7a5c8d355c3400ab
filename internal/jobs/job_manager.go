package jobs

import (
	"fmt"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	pendingAssignmentJob *PendingAssignmentJob
	staleDriverJob       *StaleDriverJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	assignPendingJobHandler commands.AssignPendingJobCommandHandler,
	markStaleDriversHandler commands.MarkStaleDriversOfflineCommandHandler,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		pendingAssignmentJob: NewPendingAssignmentJob(assignPendingJobHandler, logger),
		staleDriverJob:       NewStaleDriverJob(markStaleDriversHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.pendingAssignmentJob.Start(); err != nil {
		return fmt.Errorf("failed to start pending assignment job: %w", err)
	}

	if err := jm.staleDriverJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.pendingAssignmentJob.Stop()
		return fmt.Errorf("failed to start stale driver job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.pendingAssignmentJob.Stop()
	jm.staleDriverJob.Stop()
}
