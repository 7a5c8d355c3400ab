package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

type MockJobRepository struct{ mock.Mock }

func (m *MockJobRepository) Add(ctx context.Context, aggregate *job.Job) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockJobRepository) Update(ctx context.Context, aggregate *job.Job) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockJobRepository) Get(ctx context.Context, id kernel.UUID) (*job.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*job.Job), args.Error(1)
}

func (m *MockJobRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*job.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*job.Job), args.Error(1)
}

func (m *MockJobRepository) GetFirstRequestedWithPickupForUpdate(ctx context.Context) (*job.Job, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*job.Job), args.Error(1)
}

func (m *MockJobRepository) GetAllActive(ctx context.Context) ([]*job.Job, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*job.Job), args.Error(1)
}

type MockDriverRepository struct{ mock.Mock }

func (m *MockDriverRepository) Add(ctx context.Context, aggregate *driver.Driver) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockDriverRepository) Update(ctx context.Context, aggregate *driver.Driver) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockDriverRepository) Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.Driver), args.Error(1)
}

func (m *MockDriverRepository) GetByAccount(ctx context.Context, accountID kernel.UUID) (*driver.Driver, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.Driver), args.Error(1)
}

func (m *MockDriverRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.Driver), args.Error(1)
}

func (m *MockDriverRepository) GetAllAvailableWithCoordinatesForUpdate(ctx context.Context) ([]*driver.Driver, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*driver.Driver), args.Error(1)
}

func (m *MockDriverRepository) GetAllStaleForUpdate(ctx context.Context, cutoff time.Time) ([]*driver.Driver, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*driver.Driver), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) JobRepository() ports.JobRepository {
	args := m.Called()
	return args.Get(0).(ports.JobRepository)
}

func (m *MockUoW) DriverRepository() ports.DriverRepository {
	args := m.Called()
	return args.Get(0).(ports.DriverRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

// MockJobUoWFactory adapts MockUoW to job-only units of work.
type MockJobUoWFactory struct{ mock.Mock }

func (m *MockJobUoWFactory) Create() commands.JobUoW {
	args := m.Called()
	return args.Get(0).(commands.JobUoW)
}

type MockDriverUoWFactory struct{ mock.Mock }

func (m *MockDriverUoWFactory) Create() commands.DriverUoW {
	args := m.Called()
	return args.Get(0).(commands.DriverUoW)
}

type MockDispatchNotifier struct{ mock.Mock }

func (m *MockDispatchNotifier) NotifyJobCreated(ctx context.Context, aggregate *job.Job) {
	m.Called(ctx, aggregate)
}

func (m *MockDispatchNotifier) NotifyJobAssigned(ctx context.Context, aggregate *job.Job, driverID kernel.UUID) {
	m.Called(ctx, aggregate, driverID)
}

func (m *MockDispatchNotifier) NotifyJobStatusChanged(ctx context.Context, aggregate *job.Job) {
	m.Called(ctx, aggregate)
}

type MockDriverLocationCache struct{ mock.Mock }

func (m *MockDriverLocationCache) SetDriverLocation(ctx context.Context,
	driverID kernel.UUID, location kernel.GeoPoint,
) error {
	args := m.Called(ctx, driverID, location)
	return args.Error(0)
}

// Shared test fixtures.

func mustPoint(t *testing.T, lat, lon float64) kernel.GeoPoint {
	t.Helper()
	point, err := kernel.NewGeoPoint(lat, lon)
	require.NoError(t, err)
	return point
}

func newTestJob(t *testing.T, pickup *kernel.GeoPoint) *job.Job {
	t.Helper()
	j, err := job.NewJob(kernel.NewUUID(), kernel.NewUUID(),
		"1 Origin St", "2 Destination Ave", pickup, nil)
	require.NoError(t, err)
	return j
}

func newAvailableDriver(t *testing.T, lat, lon float64) *driver.Driver {
	t.Helper()
	d, err := driver.NewDriver(kernel.NewUUID(), kernel.NewUUID(),
		"Test", "Driver", "+15550100")
	require.NoError(t, err)
	require.NoError(t, d.UpdateLocation(mustPoint(t, lat, lon), time.Now()))
	require.NoError(t, d.Release())
	return d
}

func newOperatorRequester(t *testing.T) commands.Requester {
	t.Helper()
	requester, err := commands.NewRequester(kernel.NewUUID(), commands.RoleOperator)
	require.NoError(t, err)
	return requester
}

func newDriverRequester(t *testing.T, accountID kernel.UUID) commands.Requester {
	t.Helper()
	requester, err := commands.NewRequester(accountID, commands.RoleDriver)
	require.NoError(t, err)
	return requester
}
