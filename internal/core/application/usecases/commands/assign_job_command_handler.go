package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// AssignJobCommandHandler orchestrates the job assignment transaction.
//
// The job row and the candidate driver rows are locked at the start of one
// transaction and held until commit, so two concurrent assignments of the
// same job serialize: the loser re-reads the committed state, observes the
// assignment already set and aborts with a conflict error. The same locks
// keep one driver from being reserved by two jobs at once.
//
// Example:
//
//	handler := NewAssignJobCommandHandler(uowFactory, notifier)
//	cmd, _ := NewAssignJobCommand(jobID, nil) // nearest mode
//	assigned, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrObjectNotFound):
//	    // unknown job or driver
//	case errors.Is(err, errs.ErrConflict):
//	    // lost the assignment race
//	case errors.Is(err, errs.ErrInvalidState):
//	    // driver unavailable, no coordinates, or no eligible drivers
//	}
type AssignJobCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.DispatchNotifier
}

// NewAssignJobCommandHandler creates a handler for job assignment operations.
// Requires a UoWFactory for coordinating transactional updates across both
// repositories and a DispatchNotifier for announcing the assignment.
func NewAssignJobCommandHandler(uowFactory UoWFactory, notifier ports.DispatchNotifier) AssignJobCommandHandler {
	return AssignJobCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the assignment command. Preconditions are checked inside
// one transaction in a fixed order: lock and fetch the job, guard against an
// existing assignment, resolve the driver by explicit or nearest mode,
// reserve the driver and bind the job, persist both, commit. The
// notification fires only after the commit.
func (h AssignJobCommandHandler) Handle(ctx context.Context, command AssignJobCommand) (*job.Job, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	jobRepo := uow.JobRepository()
	driverRepo := uow.DriverRepository()

	targetJob, err := jobRepo.GetForUpdate(ctx, command.JobID())
	if err != nil {
		return nil, err
	}

	if targetJob.AssignedDriver() != nil {
		return nil, errs.NewConflictError("job already assigned")
	}

	var assignedDriver *driver.Driver
	if command.DriverID() != nil {
		assignedDriver, err = h.assignExplicit(ctx, driverRepo, targetJob, *command.DriverID())
	} else {
		assignedDriver, err = h.assignNearest(ctx, driverRepo, targetJob)
	}
	if err != nil {
		return nil, err
	}

	if err = jobRepo.Update(ctx, targetJob); err != nil {
		return nil, err
	}

	if err = driverRepo.Update(ctx, assignedDriver); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.notifier.NotifyJobAssigned(ctx, targetJob, assignedDriver.ID())

	return targetJob, nil
}

// assignExplicit locks the requested driver and reserves it for the job.
func (h AssignJobCommandHandler) assignExplicit(ctx context.Context,
	driverRepo ports.DriverRepository, targetJob *job.Job, driverID kernel.UUID,
) (*driver.Driver, error) {
	candidate, err := driverRepo.GetForUpdate(ctx, driverID)
	if err != nil {
		return nil, err
	}

	if err = candidate.Reserve(); err != nil {
		return nil, err
	}

	if err = targetJob.Assign(candidate.ID()); err != nil {
		return nil, err
	}

	return candidate, nil
}

// assignNearest locks the full set of available drivers with coordinates and
// dispatches the job to the closest one.
func (h AssignJobCommandHandler) assignNearest(ctx context.Context,
	driverRepo ports.DriverRepository, targetJob *job.Job,
) (*driver.Driver, error) {
	if targetJob.Pickup() == nil {
		return nil, errs.NewInvalidStateError("job has no pickup coordinates")
	}

	candidates, err := driverRepo.GetAllAvailableWithCoordinatesForUpdate(ctx)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, errs.NewInvalidStateError("no available drivers with coordinates")
	}

	assignedDriver, err := services.NewJobDispatcher().Dispatch(targetJob, candidates)
	if errors.Is(err, services.ErrDriverNotFound) {
		return nil, errs.NewInvalidStateErrorWithCause("no available drivers with coordinates", err)
	}
	if err != nil {
		return nil, err
	}

	return assignedDriver, nil
}
