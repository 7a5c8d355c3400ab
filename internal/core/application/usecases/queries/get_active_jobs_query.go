// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetActiveJobsQueryIsNotConstructed = errors.New(
	"GetActiveJobsQuery must be created via NewGetActiveJobsQuery constructor",
)

// GetActiveJobsQuery retrieves all jobs that have not reached a terminal
// status. Soft-deleted jobs are excluded.
//
// Example:
//
//	query := NewGetActiveJobsQuery()
//	handler := NewGetActiveJobsQueryHandler(db)
//
//	jobs, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to retrieve active jobs: %w", err)
//	}
type GetActiveJobsQuery struct {
	guard guard.ConstructorGuard
}

// NewGetActiveJobsQuery creates a query to retrieve active jobs.
// This is a parameterless query.
func NewGetActiveJobsQuery() GetActiveJobsQuery {
	return GetActiveJobsQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetActiveJobsQueryIsNotConstructed if validation fails.
func (q GetActiveJobsQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveJobsQueryIsNotConstructed)
}

// GetActiveJobsQueryResponse represents job information in the read model.
type GetActiveJobsQueryResponse struct {
	ID               kernel.UUID
	CustomerID       kernel.UUID
	PickupAddress    string
	DropoffAddress   string
	Status           string
	Pickup           *kernel.GeoPoint
	AssignedDriverID *kernel.UUID
}
