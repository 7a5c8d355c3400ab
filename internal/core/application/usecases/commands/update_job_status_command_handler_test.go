package commands_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestUpdateJobStatusCommandHandler_Handle_OperatorAdvancesJob(t *testing.T) {
	ctx := t.Context()
	testJob := newTestJob(t, nil)
	require.NoError(t, testJob.Assign(kernel.NewUUID()))

	cmd, err := commands.NewUpdateJobStatusCommand(testJob.ID(), job.Accepted, newOperatorRequester(t))
	require.NoError(t, err)

	jobRepo := new(MockJobRepository)
	uow := new(MockUoW)
	notifier := new(MockDispatchNotifier)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(jobRepo).Once(),
		jobRepo.On("GetForUpdate", ctx, testJob.ID()).Return(testJob, nil).Once(),
		jobRepo.On("Update", ctx, mock.AnythingOfType("*job.Job")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		notifier.On("NotifyJobStatusChanged", ctx, mock.AnythingOfType("*job.Job")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()
	driverFactory := new(MockDriverUoWFactory)

	handler := commands.NewUpdateJobStatusCommandHandler(factory, driverFactory, notifier, discardLogger())
	updated, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, job.Accepted, updated.Status())
	// accepted triggers no driver side effect
	driverFactory.AssertNotCalled(t, "Create")
	jobRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestUpdateJobStatusCommandHandler_Handle_InvalidTransition(t *testing.T) {
	ctx := t.Context()
	testJob := newTestJob(t, nil)

	cmd, err := commands.NewUpdateJobStatusCommand(testJob.ID(), job.Completed, newOperatorRequester(t))
	require.NoError(t, err)

	jobRepo := new(MockJobRepository)
	uow := new(MockUoW)
	notifier := new(MockDispatchNotifier)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(jobRepo).Once(),
		jobRepo.On("GetForUpdate", ctx, testJob.ID()).Return(testJob, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()
	driverFactory := new(MockDriverUoWFactory)

	handler := commands.NewUpdateJobStatusCommandHandler(factory, driverFactory, notifier, discardLogger())
	updated, err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	assert.Nil(t, updated)
	assert.Equal(t, job.Requested, testJob.Status())
	jobRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "NotifyJobStatusChanged", mock.Anything, mock.Anything)
}

func TestUpdateJobStatusCommandHandler_Handle_JobNotFound(t *testing.T) {
	ctx := t.Context()
	jobID := kernel.NewUUID()

	cmd, err := commands.NewUpdateJobStatusCommand(jobID, job.Accepted, newOperatorRequester(t))
	require.NoError(t, err)

	jobRepo := new(MockJobRepository)
	uow := new(MockUoW)
	notifier := new(MockDispatchNotifier)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(jobRepo).Once(),
		jobRepo.On("GetForUpdate", ctx, jobID).Return(nil, errs.NewObjectNotFoundError("jobID", jobID)).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewUpdateJobStatusCommandHandler(factory, new(MockDriverUoWFactory), notifier, discardLogger())
	_, err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestUpdateJobStatusCommandHandler_Handle_DriverRoleOwnJob(t *testing.T) {
	ctx := t.Context()
	accountID := kernel.NewUUID()
	assignedDriver, err := driver.NewDriver(kernel.NewUUID(), accountID, "Own", "Driver", "+15550100")
	require.NoError(t, err)

	testJob := newTestJob(t, nil)
	require.NoError(t, testJob.Assign(assignedDriver.ID()))

	cmd, err := commands.NewUpdateJobStatusCommand(testJob.ID(), job.Accepted, newDriverRequester(t, accountID))
	require.NoError(t, err)

	jobRepo := new(MockJobRepository)
	driverRepo := new(MockDriverRepository)
	uow := new(MockUoW)
	notifier := new(MockDispatchNotifier)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(jobRepo).Once(),
		jobRepo.On("GetForUpdate", ctx, testJob.ID()).Return(testJob, nil).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		driverRepo.On("Get", ctx, assignedDriver.ID()).Return(assignedDriver, nil).Once(),
		jobRepo.On("Update", ctx, mock.AnythingOfType("*job.Job")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		notifier.On("NotifyJobStatusChanged", ctx, mock.AnythingOfType("*job.Job")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewUpdateJobStatusCommandHandler(factory, new(MockDriverUoWFactory), notifier, discardLogger())
	updated, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, job.Accepted, updated.Status())
}

func TestUpdateJobStatusCommandHandler_Handle_DriverRoleForeignJob(t *testing.T) {
	ctx := t.Context()
	assignedDriver, err := driver.NewDriver(kernel.NewUUID(), kernel.NewUUID(), "Other", "Driver", "+15550101")
	require.NoError(t, err)

	testJob := newTestJob(t, nil)
	require.NoError(t, testJob.Assign(assignedDriver.ID()))

	// requester authenticates as a different account
	cmd, err := commands.NewUpdateJobStatusCommand(testJob.ID(), job.Accepted,
		newDriverRequester(t, kernel.NewUUID()))
	require.NoError(t, err)

	jobRepo := new(MockJobRepository)
	driverRepo := new(MockDriverRepository)
	uow := new(MockUoW)
	notifier := new(MockDispatchNotifier)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(jobRepo).Once(),
		jobRepo.On("GetForUpdate", ctx, testJob.ID()).Return(testJob, nil).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		driverRepo.On("Get", ctx, assignedDriver.ID()).Return(assignedDriver, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewUpdateJobStatusCommandHandler(factory, new(MockDriverUoWFactory), notifier, discardLogger())
	updated, err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrForbidden)
	assert.Nil(t, updated)
	assert.Equal(t, job.Requested, testJob.Status())
	jobRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateJobStatusCommandHandler_Handle_DriverRoleUnassignedJob(t *testing.T) {
	ctx := t.Context()
	testJob := newTestJob(t, nil)

	cmd, err := commands.NewUpdateJobStatusCommand(testJob.ID(), job.Accepted,
		newDriverRequester(t, kernel.NewUUID()))
	require.NoError(t, err)

	jobRepo := new(MockJobRepository)
	driverRepo := new(MockDriverRepository)
	uow := new(MockUoW)
	notifier := new(MockDispatchNotifier)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(jobRepo).Once(),
		jobRepo.On("GetForUpdate", ctx, testJob.ID()).Return(testJob, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewUpdateJobStatusCommandHandler(factory, new(MockDriverUoWFactory), notifier, discardLogger())
	_, err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrForbidden)
	driverRepo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestUpdateJobStatusCommandHandler_Handle_OnTripSideEffect(t *testing.T) {
	ctx := t.Context()
	assignedDriver := newAvailableDriver(t, 51.5074, -0.1278)
	require.NoError(t, assignedDriver.Reserve())

	testJob := newTestJob(t, nil)
	require.NoError(t, testJob.Assign(assignedDriver.ID()))
	require.NoError(t, testJob.TransitionTo(job.Accepted))
	require.NoError(t, testJob.TransitionTo(job.Arrived))

	cmd, err := commands.NewUpdateJobStatusCommand(testJob.ID(), job.OnTrip, newOperatorRequester(t))
	require.NoError(t, err)

	jobRepo := new(MockJobRepository)
	driverRepo := new(MockDriverRepository)
	uow := new(MockUoW)
	driverUoW := new(MockUoW)
	notifier := new(MockDispatchNotifier)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(jobRepo).Once(),
		jobRepo.On("GetForUpdate", ctx, testJob.ID()).Return(testJob, nil).Once(),
		jobRepo.On("Update", ctx, mock.AnythingOfType("*job.Job")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		driverUoW.On("Begin", ctx).Return(nil).Once(),
		driverUoW.On("DriverRepository").Return(driverRepo).Once(),
		driverRepo.On("GetForUpdate", ctx, assignedDriver.ID()).Return(assignedDriver, nil).Once(),
		driverRepo.On("Update", ctx, mock.AnythingOfType("*driver.Driver")).Return(nil).Once(),
		driverUoW.On("Commit", ctx).Return(nil).Once(),
		driverUoW.On("Rollback", ctx).Return(nil).Once(),
		notifier.On("NotifyJobStatusChanged", ctx, mock.AnythingOfType("*job.Job")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()
	driverFactory := new(MockDriverUoWFactory)
	driverFactory.On("Create").Return(driverUoW).Once()

	handler := commands.NewUpdateJobStatusCommandHandler(factory, driverFactory, notifier, discardLogger())
	updated, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, job.OnTrip, updated.Status())
	assert.Equal(t, driver.OnTrip, assignedDriver.Status())
	driverUoW.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestUpdateJobStatusCommandHandler_Handle_CompletedReleasesDriver(t *testing.T) {
	ctx := t.Context()
	assignedDriver := newAvailableDriver(t, 51.5074, -0.1278)
	require.NoError(t, assignedDriver.Reserve())
	require.NoError(t, assignedDriver.StartTrip())

	testJob := newTestJob(t, nil)
	require.NoError(t, testJob.Assign(assignedDriver.ID()))
	require.NoError(t, testJob.TransitionTo(job.Accepted))
	require.NoError(t, testJob.TransitionTo(job.Arrived))
	require.NoError(t, testJob.TransitionTo(job.OnTrip))

	cmd, err := commands.NewUpdateJobStatusCommand(testJob.ID(), job.Completed, newOperatorRequester(t))
	require.NoError(t, err)

	jobRepo := new(MockJobRepository)
	driverRepo := new(MockDriverRepository)
	uow := new(MockUoW)
	driverUoW := new(MockUoW)
	notifier := new(MockDispatchNotifier)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(jobRepo).Once(),
		jobRepo.On("GetForUpdate", ctx, testJob.ID()).Return(testJob, nil).Once(),
		jobRepo.On("Update", ctx, mock.AnythingOfType("*job.Job")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		driverUoW.On("Begin", ctx).Return(nil).Once(),
		driverUoW.On("DriverRepository").Return(driverRepo).Once(),
		driverRepo.On("GetForUpdate", ctx, assignedDriver.ID()).Return(assignedDriver, nil).Once(),
		driverRepo.On("Update", ctx, mock.AnythingOfType("*driver.Driver")).Return(nil).Once(),
		driverUoW.On("Commit", ctx).Return(nil).Once(),
		driverUoW.On("Rollback", ctx).Return(nil).Once(),
		notifier.On("NotifyJobStatusChanged", ctx, mock.AnythingOfType("*job.Job")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()
	driverFactory := new(MockDriverUoWFactory)
	driverFactory.On("Create").Return(driverUoW).Once()

	handler := commands.NewUpdateJobStatusCommandHandler(factory, driverFactory, notifier, discardLogger())
	updated, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, job.Completed, updated.Status())
	assert.Equal(t, driver.Available, assignedDriver.Status())
}

func TestUpdateJobStatusCommandHandler_Handle_SideEffectFailureDoesNotFailJob(t *testing.T) {
	ctx := t.Context()
	driverID := kernel.NewUUID()

	testJob := newTestJob(t, nil)
	require.NoError(t, testJob.Assign(driverID))
	require.NoError(t, testJob.TransitionTo(job.Accepted))
	require.NoError(t, testJob.TransitionTo(job.Arrived))

	cmd, err := commands.NewUpdateJobStatusCommand(testJob.ID(), job.OnTrip, newOperatorRequester(t))
	require.NoError(t, err)

	jobRepo := new(MockJobRepository)
	driverRepo := new(MockDriverRepository)
	uow := new(MockUoW)
	driverUoW := new(MockUoW)
	notifier := new(MockDispatchNotifier)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(jobRepo).Once(),
		jobRepo.On("GetForUpdate", ctx, testJob.ID()).Return(testJob, nil).Once(),
		jobRepo.On("Update", ctx, mock.AnythingOfType("*job.Job")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		driverUoW.On("Begin", ctx).Return(nil).Once(),
		driverUoW.On("DriverRepository").Return(driverRepo).Once(),
		driverRepo.On("GetForUpdate", ctx, driverID).
			Return(nil, errs.NewObjectNotFoundError("driverID", driverID)).Once(),
		driverUoW.On("Rollback", ctx).Return(nil).Once(),
		notifier.On("NotifyJobStatusChanged", ctx, mock.AnythingOfType("*job.Job")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()
	driverFactory := new(MockDriverUoWFactory)
	driverFactory.On("Create").Return(driverUoW).Once()

	handler := commands.NewUpdateJobStatusCommandHandler(factory, driverFactory, notifier, discardLogger())
	updated, err := handler.Handle(ctx, cmd)

	// job update result is authoritative
	require.NoError(t, err)
	assert.Equal(t, job.OnTrip, updated.Status())
	notifier.AssertExpectations(t)
}

func TestUpdateJobStatusCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.UpdateJobStatusCommand{} // not constructed properly

	factory := new(MockUoWFactory)
	handler := commands.NewUpdateJobStatusCommandHandler(factory, new(MockDriverUoWFactory),
		new(MockDispatchNotifier), discardLogger())

	_, err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrUpdateJobStatusCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestUpdateJobStatusCommandHandler_Handle_CommitError(t *testing.T) {
	ctx := t.Context()
	testJob := newTestJob(t, nil)

	cmd, err := commands.NewUpdateJobStatusCommand(testJob.ID(), job.Accepted, newOperatorRequester(t))
	require.NoError(t, err)

	jobRepo := new(MockJobRepository)
	uow := new(MockUoW)
	notifier := new(MockDispatchNotifier)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(jobRepo).Once(),
		jobRepo.On("GetForUpdate", ctx, testJob.ID()).Return(testJob, nil).Once(),
		jobRepo.On("Update", ctx, mock.AnythingOfType("*job.Job")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(errors.New("commit error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewUpdateJobStatusCommandHandler(factory, new(MockDriverUoWFactory), notifier, discardLogger())
	_, err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.EqualError(t, err, "commit error")
	notifier.AssertNotCalled(t, "NotifyJobStatusChanged", mock.Anything, mock.Anything)
}
