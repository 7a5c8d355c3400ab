package commands

import (
	"context"

	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/ports"
)

// CreateJobCommandHandler handles the business logic for job creation.
// Creates new jobs in the "requested" status and announces them to operators.
type CreateJobCommandHandler struct {
	uowFactory JobUoWFactory
	notifier   ports.DispatchNotifier
}

// NewCreateJobCommandHandler creates a handler for job creation operations.
// Requires a JobUoWFactory for transactional persistence and a
// DispatchNotifier for announcing the new job.
func NewCreateJobCommandHandler(uowFactory JobUoWFactory, notifier ports.DispatchNotifier) CreateJobCommandHandler {
	return CreateJobCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the job creation command. The job is persisted in the
// requested status; the notification fires only after the commit so listeners
// never observe a job that was rolled back.
func (h CreateJobCommandHandler) Handle(ctx context.Context, cmd CreateJobCommand) (*job.Job, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	newJob, err := job.NewJob(cmd.JobID(), cmd.CustomerID(),
		cmd.PickupAddress(), cmd.DropoffAddress(), cmd.Pickup(), cmd.ScheduledFor())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.JobRepository().Add(ctx, newJob); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.notifier.NotifyJobCreated(ctx, newJob)

	return newJob, nil
}
