package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

var (
	ErrNoPendingJobs      = errors.New("no pending jobs found")
	ErrNoDriversAvailable = errors.New("no drivers available")
)

// AssignPendingJobCommandHandler runs one auto-dispatch pass: the oldest
// unassigned job in the requested status that carries pickup coordinates is
// matched with the nearest available driver.
//
// Example:
//
//	handler := NewAssignPendingJobCommandHandler(uowFactory, notifier)
//	cmd := NewAssignPendingJobCommand()
//	err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, ErrNoPendingJobs):
//	    // nothing to dispatch
//	case errors.Is(err, ErrNoDriversAvailable):
//	    // all drivers busy or offline
//	case err != nil:
//	    log.Printf("auto-dispatch failed: %v", err)
//	}
type AssignPendingJobCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.DispatchNotifier
}

// NewAssignPendingJobCommandHandler creates a handler for the auto-dispatch
// sweep.
func NewAssignPendingJobCommandHandler(uowFactory UoWFactory, notifier ports.DispatchNotifier,
) AssignPendingJobCommandHandler {
	return AssignPendingJobCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes one sweep pass. Returns ErrNoPendingJobs when no job
// qualifies and ErrNoDriversAvailable when no driver can take it; both are
// expected outcomes for the caller to filter, not failures.
func (h AssignPendingJobCommandHandler) Handle(ctx context.Context, command AssignPendingJobCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	jobRepo := uow.JobRepository()
	driverRepo := uow.DriverRepository()

	pendingJob, err := jobRepo.GetFirstRequestedWithPickupForUpdate(ctx)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ErrNoPendingJobs
	}
	if err != nil {
		return err
	}

	candidates, err := driverRepo.GetAllAvailableWithCoordinatesForUpdate(ctx)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return ErrNoDriversAvailable
	}

	assignedDriver, err := services.NewJobDispatcher().Dispatch(pendingJob, candidates)
	if errors.Is(err, services.ErrDriverNotFound) {
		return ErrNoDriversAvailable
	}
	if err != nil {
		return err
	}

	if err = jobRepo.Update(ctx, pendingJob); err != nil {
		return err
	}

	if err = driverRepo.Update(ctx, assignedDriver); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.notifier.NotifyJobAssigned(ctx, pendingJob, assignedDriver.ID())

	return nil
}
