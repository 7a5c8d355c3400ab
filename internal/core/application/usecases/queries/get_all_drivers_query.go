package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetAllDriversQueryIsNotConstructed = errors.New(
	"GetAllDriversQuery must be created via NewGetAllDriversQuery constructor",
)

// GetAllDriversQuery retrieves information about all drivers in the system.
// Returns driver identities, statuses and last known positions for monitoring
// and dispatch decisions.
type GetAllDriversQuery struct {
	guard guard.ConstructorGuard
}

// NewGetAllDriversQuery creates a query to retrieve all drivers.
// This is a parameterless query that fetches the complete driver list.
func NewGetAllDriversQuery() GetAllDriversQuery {
	return GetAllDriversQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetAllDriversQueryIsNotConstructed if validation fails.
func (q GetAllDriversQuery) Validate() error {
	return q.guard.Validate(ErrGetAllDriversQueryIsNotConstructed)
}

// GetAllDriversQueryResponse represents driver information in the read model.
type GetAllDriversQueryResponse struct {
	ID        kernel.UUID
	FirstName string
	LastName  string
	Phone     string
	Status    string
	Location  *kernel.GeoPoint
	LastGPSAt *time.Time
}
