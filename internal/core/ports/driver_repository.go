package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
)

// DriverRepository defines the persistence contract for driver aggregates.
type DriverRepository interface {
	// Add persists a new driver aggregate to storage.
	Add(ctx context.Context, aggregate *driver.Driver) error

	// Update persists changes to an existing driver aggregate.
	Update(ctx context.Context, aggregate *driver.Driver) error

	// Get retrieves a driver aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error)

	// GetByAccount retrieves the driver aggregate owned by the given account.
	GetByAccount(ctx context.Context, accountID kernel.UUID) (*driver.Driver, error)

	// GetForUpdate retrieves a driver aggregate by its identifier while
	// holding a row-level write lock for the duration of the surrounding
	// transaction.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*driver.Driver, error)

	// GetAllAvailableWithCoordinatesForUpdate retrieves every driver in the
	// available status that has reported coordinates, locking the rows so a
	// concurrent assignment cannot reserve the same driver.
	GetAllAvailableWithCoordinatesForUpdate(ctx context.Context) ([]*driver.Driver, error)

	// GetAllStaleForUpdate retrieves available drivers whose last GPS report
	// is older than the cutoff, locking the rows. Drivers that never
	// reported a position, and drivers currently working a job, are not
	// included.
	GetAllStaleForUpdate(ctx context.Context, cutoff time.Time) ([]*driver.Driver, error)
}
