package commands_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

func TestUpdateDriverLocationCommandHandler_Handle_OwnRecord(t *testing.T) {
	ctx := t.Context()
	accountID := kernel.NewUUID()
	testDriver, err := driver.NewDriver(kernel.NewUUID(), accountID, "Own", "Driver", "+15550100")
	require.NoError(t, err)

	location := mustPoint(t, 51.5074, -0.1278)
	cmd, err := commands.NewUpdateDriverLocationCommand(testDriver.ID(), location,
		newDriverRequester(t, accountID))
	require.NoError(t, err)

	driverRepo := new(MockDriverRepository)
	uow := new(MockUoW)
	cache := new(MockDriverLocationCache)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		driverRepo.On("GetForUpdate", ctx, testDriver.ID()).Return(testDriver, nil).Once(),
		driverRepo.On("Update", ctx, mock.AnythingOfType("*driver.Driver")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		cache.On("SetDriverLocation", ctx, testDriver.ID(), location).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDriverUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewUpdateDriverLocationCommandHandler(factory, cache, discardLogger())
	updated, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, updated.Location())
	assert.True(t, updated.Location().IsEqual(location))
	require.NotNil(t, updated.LastGPSAt())
	driverRepo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestUpdateDriverLocationCommandHandler_Handle_ForeignRecord(t *testing.T) {
	ctx := t.Context()
	testDriver, err := driver.NewDriver(kernel.NewUUID(), kernel.NewUUID(), "Other", "Driver", "+15550101")
	require.NoError(t, err)

	cmd, err := commands.NewUpdateDriverLocationCommand(testDriver.ID(),
		mustPoint(t, 51.5074, -0.1278), newDriverRequester(t, kernel.NewUUID()))
	require.NoError(t, err)

	driverRepo := new(MockDriverRepository)
	uow := new(MockUoW)
	cache := new(MockDriverLocationCache)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		driverRepo.On("GetForUpdate", ctx, testDriver.ID()).Return(testDriver, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDriverUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewUpdateDriverLocationCommandHandler(factory, cache, discardLogger())
	updated, err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrForbidden)
	assert.Nil(t, updated)
	assert.Nil(t, testDriver.Location())
	driverRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	cache.AssertNotCalled(t, "SetDriverLocation", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateDriverLocationCommandHandler_Handle_OperatorUpdatesAnyDriver(t *testing.T) {
	ctx := t.Context()
	testDriver, err := driver.NewDriver(kernel.NewUUID(), kernel.NewUUID(), "Any", "Driver", "+15550102")
	require.NoError(t, err)

	location := mustPoint(t, 48.8566, 2.3522)
	cmd, err := commands.NewUpdateDriverLocationCommand(testDriver.ID(), location, newOperatorRequester(t))
	require.NoError(t, err)

	driverRepo := new(MockDriverRepository)
	uow := new(MockUoW)
	cache := new(MockDriverLocationCache)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		driverRepo.On("GetForUpdate", ctx, testDriver.ID()).Return(testDriver, nil).Once(),
		driverRepo.On("Update", ctx, mock.AnythingOfType("*driver.Driver")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		cache.On("SetDriverLocation", ctx, testDriver.ID(), location).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDriverUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewUpdateDriverLocationCommandHandler(factory, cache, discardLogger())
	_, err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
}

func TestUpdateDriverLocationCommandHandler_Handle_CacheFailureIsSwallowed(t *testing.T) {
	ctx := t.Context()
	accountID := kernel.NewUUID()
	testDriver, err := driver.NewDriver(kernel.NewUUID(), accountID, "Own", "Driver", "+15550100")
	require.NoError(t, err)

	location := mustPoint(t, 51.5074, -0.1278)
	cmd, err := commands.NewUpdateDriverLocationCommand(testDriver.ID(), location,
		newDriverRequester(t, accountID))
	require.NoError(t, err)

	driverRepo := new(MockDriverRepository)
	uow := new(MockUoW)
	cache := new(MockDriverLocationCache)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		driverRepo.On("GetForUpdate", ctx, testDriver.ID()).Return(testDriver, nil).Once(),
		driverRepo.On("Update", ctx, mock.AnythingOfType("*driver.Driver")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		cache.On("SetDriverLocation", ctx, testDriver.ID(), location).
			Return(errors.New("redis unavailable")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDriverUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewUpdateDriverLocationCommandHandler(factory, cache, discardLogger())
	updated, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, updated)
}

func TestUpdateDriverLocationCommandHandler_Handle_NilCache(t *testing.T) {
	ctx := t.Context()
	accountID := kernel.NewUUID()
	testDriver, err := driver.NewDriver(kernel.NewUUID(), accountID, "Own", "Driver", "+15550100")
	require.NoError(t, err)

	cmd, err := commands.NewUpdateDriverLocationCommand(testDriver.ID(),
		mustPoint(t, 51.5074, -0.1278), newDriverRequester(t, accountID))
	require.NoError(t, err)

	driverRepo := new(MockDriverRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		driverRepo.On("GetForUpdate", ctx, testDriver.ID()).Return(testDriver, nil).Once(),
		driverRepo.On("Update", ctx, mock.AnythingOfType("*driver.Driver")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDriverUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewUpdateDriverLocationCommandHandler(factory, nil, discardLogger())
	_, err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
}
