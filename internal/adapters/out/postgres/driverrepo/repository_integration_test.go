package driverrepo_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"dispatch/internal/adapters/out/postgres/driverrepo"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// MockAggregateTracker is a mock implementation of the aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// DriverRepositoryIntegrationTestSuite provides integration tests for
// DriverRepository using PostgreSQL containers.
type DriverRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *driverrepo.GormDriverRepository
	tracker    *MockAggregateTracker
}

func (suite *DriverRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&driverrepo.DriverDTO{}))
}

func (suite *DriverRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE drivers").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = driverrepo.NewGormDriverRepository(suite.db, suite.tracker)
}

func (suite *DriverRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *DriverRepositoryIntegrationTestSuite) createTestDriver(name string) *driver.Driver {
	d, err := driver.NewDriver(kernel.NewUUID(), kernel.NewUUID(),
		name, "Tester", fmt.Sprintf("+44700%s", name))
	suite.Require().NoError(err)
	return d
}

func (suite *DriverRepositoryIntegrationTestSuite) createAvailableDriver(name string) *driver.Driver {
	d := suite.createTestDriver(name)
	point, err := kernel.NewGeoPoint(51.5074, -0.1278)
	suite.Require().NoError(err)
	suite.Require().NoError(d.UpdateLocation(point, time.Now().UTC()))
	suite.Require().NoError(d.Release())
	return d
}

func (suite *DriverRepositoryIntegrationTestSuite) TestAdd_ValidDriver_Success() {
	ctx := context.Background()
	testDriver := suite.createTestDriver("Alice")

	suite.tracker.On("TrackAggregate", testDriver.ID(), testDriver).Once()

	err := suite.repository.Add(ctx, testDriver)
	suite.Require().NoError(err)

	var count int64
	suite.Require().NoError(suite.db.Model(&driverrepo.DriverDTO{}).Count(&count).Error)
	suite.Equal(int64(1), count)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *DriverRepositoryIntegrationTestSuite) TestGet_RoundTripsAllFields() {
	ctx := context.Background()
	original := suite.createAvailableDriver("Bob")

	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	suite.Require().NoError(suite.repository.Add(ctx, original))

	loaded, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)

	suite.True(loaded.ID().IsEqual(original.ID()))
	suite.True(loaded.AccountID().IsEqual(original.AccountID()))
	suite.Equal("Bob", loaded.FirstName())
	suite.Equal("Tester", loaded.LastName())
	suite.Equal(driver.Available, loaded.Status())
	suite.Require().NotNil(loaded.Location())
	suite.InDelta(51.5074, loaded.Location().Latitude(), 1e-6)
	suite.InDelta(-0.1278, loaded.Location().Longitude(), 1e-6)
	suite.Require().NotNil(loaded.LastGPSAt())
}

func (suite *DriverRepositoryIntegrationTestSuite) TestGet_UnknownDriver_NotFound() {
	ctx := context.Background()

	_, err := suite.repository.Get(ctx, kernel.NewUUID())

	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *DriverRepositoryIntegrationTestSuite) TestGetByAccount_FindsDriver() {
	ctx := context.Background()
	testDriver := suite.createTestDriver("Carol")

	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	suite.Require().NoError(suite.repository.Add(ctx, testDriver))

	loaded, err := suite.repository.GetByAccount(ctx, testDriver.AccountID())
	suite.Require().NoError(err)
	suite.True(loaded.ID().IsEqual(testDriver.ID()))

	_, err = suite.repository.GetByAccount(ctx, kernel.NewUUID())
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *DriverRepositoryIntegrationTestSuite) TestUpdate_PersistsStatusAndLocation() {
	ctx := context.Background()
	testDriver := suite.createAvailableDriver("Dave")

	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	suite.Require().NoError(suite.repository.Add(ctx, testDriver))

	suite.Require().NoError(testDriver.Reserve())
	suite.Require().NoError(suite.repository.Update(ctx, testDriver))

	loaded, err := suite.repository.Get(ctx, testDriver.ID())
	suite.Require().NoError(err)
	suite.Equal(driver.Reserved, loaded.Status())
}

func (suite *DriverRepositoryIntegrationTestSuite) TestGetAllAvailableWithCoordinates_FiltersCandidates() {
	ctx := context.Background()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)

	available := suite.createAvailableDriver("Erin")
	suite.Require().NoError(suite.repository.Add(ctx, available))

	offline := suite.createTestDriver("Frank")
	suite.Require().NoError(suite.repository.Add(ctx, offline))

	reserved := suite.createAvailableDriver("Grace")
	suite.Require().NoError(reserved.Reserve())
	suite.Require().NoError(suite.repository.Add(ctx, reserved))

	tx := suite.db.Begin()
	suite.Require().NoError(tx.Error)
	defer tx.Rollback()

	repo := driverrepo.NewGormDriverRepository(tx, suite.tracker)
	candidates, err := repo.GetAllAvailableWithCoordinatesForUpdate(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(candidates, 1)
	suite.True(candidates[0].ID().IsEqual(available.ID()))
}

func (suite *DriverRepositoryIntegrationTestSuite) TestGetAllStale_ReturnsOnlyAvailableWithOldGPS() {
	ctx := context.Background()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	point, err := kernel.NewGeoPoint(51.5074, -0.1278)
	suite.Require().NoError(err)

	stale := suite.createTestDriver("Heidi")
	suite.Require().NoError(stale.UpdateLocation(point, time.Now().UTC().Add(-10*time.Minute)))
	suite.Require().NoError(stale.Release())
	suite.Require().NoError(suite.repository.Add(ctx, stale))

	fresh := suite.createTestDriver("Ivan")
	suite.Require().NoError(fresh.UpdateLocation(point, time.Now().UTC()))
	suite.Require().NoError(fresh.Release())
	suite.Require().NoError(suite.repository.Add(ctx, fresh))

	staleButReserved := suite.createTestDriver("Judy")
	suite.Require().NoError(staleButReserved.UpdateLocation(point, time.Now().UTC().Add(-10*time.Minute)))
	suite.Require().NoError(staleButReserved.Release())
	suite.Require().NoError(staleButReserved.Reserve())
	suite.Require().NoError(suite.repository.Add(ctx, staleButReserved))

	tx := suite.db.Begin()
	suite.Require().NoError(tx.Error)
	defer tx.Rollback()

	cutoff := time.Now().UTC().Add(-5 * time.Minute)
	repo := driverrepo.NewGormDriverRepository(tx, suite.tracker)
	staleDrivers, err := repo.GetAllStaleForUpdate(ctx, cutoff)
	suite.Require().NoError(err)
	suite.Require().Len(staleDrivers, 1)
	suite.True(staleDrivers[0].ID().IsEqual(stale.ID()))
}

func TestDriverRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(DriverRepositoryIntegrationTestSuite))
}
