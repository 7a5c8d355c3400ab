package commands

import (
	"context"
	"errors"
	"log/slog"

	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// UpdateJobStatusCommandHandler validates and applies job status transitions.
//
// Authorization: a driver-role requester may only advance a job currently
// assigned to the driver linked to their own account; operators and admins
// may advance any job.
//
// Driver side effects: reaching on_trip marks the assigned driver on_trip;
// reaching completed releases the driver back to available. Both run after
// the job commit in their own transaction and are best effort; the job
// update result is authoritative and is returned even when the side effect
// fails to find or update the driver.
type UpdateJobStatusCommandHandler struct {
	uowFactory       UoWFactory
	driverUoWFactory DriverUoWFactory
	notifier         ports.DispatchNotifier
	logger           *slog.Logger
}

// NewUpdateJobStatusCommandHandler creates a handler for status transitions.
// The driver unit of work factory is used for the post-commit side effects;
// failures there are logged, never returned.
func NewUpdateJobStatusCommandHandler(uowFactory UoWFactory, driverUoWFactory DriverUoWFactory,
	notifier ports.DispatchNotifier, logger *slog.Logger,
) UpdateJobStatusCommandHandler {
	return UpdateJobStatusCommandHandler{
		uowFactory:       uowFactory,
		driverUoWFactory: driverUoWFactory,
		notifier:         notifier,
		logger:           logger.With("component", "update_job_status"),
	}
}

// Handle processes the status transition command: lock and fetch the job,
// authorize the requester, run the state machine, persist and commit, then
// apply the driver side effect and notify listeners.
func (h UpdateJobStatusCommandHandler) Handle(ctx context.Context, command UpdateJobStatusCommand) (*job.Job, error) {
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

	targetJob, err := jobRepo.GetForUpdate(ctx, command.JobID())
	if err != nil {
		return nil, err
	}

	if err = h.authorize(ctx, uow, targetJob, command.Requester()); err != nil {
		return nil, err
	}

	if err = targetJob.TransitionTo(command.NextStatus()); err != nil {
		return nil, err
	}

	if err = jobRepo.Update(ctx, targetJob); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.applyDriverSideEffect(ctx, targetJob)

	h.notifier.NotifyJobStatusChanged(ctx, targetJob)

	return targetJob, nil
}

// authorize enforces the driver-role ownership rule: the job must be
// assigned, and the assigned driver's linked account must match the
// requester. Any mismatch, including an unassigned job or a missing driver
// record, is reported as forbidden rather than leaking why.
func (h UpdateJobStatusCommandHandler) authorize(ctx context.Context,
	uow UoW, targetJob *job.Job, requester Requester,
) error {
	if !requester.IsDriver() {
		return nil
	}

	if targetJob.AssignedDriver() == nil {
		return errs.NewForbiddenError("job is not assigned to the requester")
	}

	assignedDriver, err := uow.DriverRepository().Get(ctx, *targetJob.AssignedDriver())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return errs.NewForbiddenError("job is not assigned to the requester")
	}
	if err != nil {
		return err
	}

	if !assignedDriver.AccountID().IsEqual(requester.AccountID()) {
		return errs.NewForbiddenError("job is assigned to another driver")
	}

	return nil
}

// applyDriverSideEffect mirrors the job's progress onto the assigned
// driver's status. Runs after the job commit; any failure is logged and
// swallowed.
func (h UpdateJobStatusCommandHandler) applyDriverSideEffect(ctx context.Context, targetJob *job.Job) {
	if targetJob.AssignedDriver() == nil {
		return
	}

	switch targetJob.Status() {
	case job.OnTrip, job.Completed:
	default:
		return
	}

	if err := h.updateDriverStatus(ctx, *targetJob.AssignedDriver(), targetJob.Status()); err != nil {
		h.logger.WarnContext(ctx, "driver status side effect failed",
			"job_id", targetJob.ID().String(),
			"driver_id", targetJob.AssignedDriver().String(),
			"job_status", targetJob.Status().String(),
			"error", err)
	}
}

func (h UpdateJobStatusCommandHandler) updateDriverStatus(ctx context.Context,
	driverID kernel.UUID, jobStatus job.Status,
) error {
	uow := h.driverUoWFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	driverRepo := uow.DriverRepository()

	assignedDriver, err := driverRepo.GetForUpdate(ctx, driverID)
	if err != nil {
		return err
	}

	if jobStatus == job.OnTrip {
		err = assignedDriver.StartTrip()
	} else {
		err = assignedDriver.Release()
	}
	if err != nil {
		return err
	}

	if err = driverRepo.Update(ctx, assignedDriver); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
