// Package ports defines the contracts between the application core and
// infrastructure: repositories, the unit of work, the dispatch notifier and
// the driver location cache. Implementations live under internal/adapters.
package ports

import (
	"context"

	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"
)

// JobRepository defines the persistence contract for job aggregates.
type JobRepository interface {
	// Add persists a new job aggregate to storage.
	Add(ctx context.Context, aggregate *job.Job) error

	// Update persists changes to an existing job aggregate.
	Update(ctx context.Context, aggregate *job.Job) error

	// Get retrieves a job aggregate by its unique identifier.
	// Returns an object-not-found error for unknown or soft-deleted jobs.
	Get(ctx context.Context, id kernel.UUID) (*job.Job, error)

	// GetForUpdate retrieves a job aggregate by its identifier while holding
	// a row-level write lock for the duration of the surrounding transaction.
	// Concurrent callers serialize on the row, which is what prevents two
	// assignments from racing past the conflict check.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*job.Job, error)

	// GetFirstRequestedWithPickupForUpdate retrieves the oldest unassigned
	// job in the requested status that carries pickup coordinates, holding a
	// row-level write lock. Used by the auto-dispatch sweep.
	GetFirstRequestedWithPickupForUpdate(ctx context.Context) (*job.Job, error)

	// GetAllActive retrieves all jobs that have not reached a terminal
	// status, oldest first.
	GetAllActive(ctx context.Context) ([]*job.Job, error)
}
