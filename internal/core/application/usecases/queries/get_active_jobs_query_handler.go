package queries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"
)

// GetActiveJobsQueryHandler retrieves active jobs from the database.
// Uses direct SQL queries for optimal read performance in the CQRS pattern.
type GetActiveJobsQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveJobsQueryHandler creates a handler for active job queries.
// Requires a GORM database connection for query execution.
func NewGetActiveJobsQueryHandler(db *gorm.DB) GetActiveJobsQueryHandler {
	return GetActiveJobsQueryHandler{db: db}
}

// Handle executes the query to retrieve all non-terminal jobs, oldest first.
// Soft-deleted rows are excluded.
func (h GetActiveJobsQueryHandler) Handle(
	ctx context.Context,
	query GetActiveJobsQuery,
) ([]GetActiveJobsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	jobs := make([]GetActiveJobsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			customer_id,
			pickup_address,
			dropoff_address,
			status,
			pickup_latitude,
			pickup_longitude,
			assigned_driver_id
		FROM jobs
		WHERE status != ?
		  AND deleted_at IS NULL
		ORDER BY created_at
	`, job.Completed.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var jobResp GetActiveJobsQueryResponse
		var id, customerID uuid.UUID
		var pickupLatitude, pickupLongitude *float64
		var assignedDriverID *uuid.UUID

		err = rows.Scan(
			&id,
			&customerID,
			&jobResp.PickupAddress,
			&jobResp.DropoffAddress,
			&jobResp.Status,
			&pickupLatitude,
			&pickupLongitude,
			&assignedDriverID,
		)
		if err != nil {
			return nil, err
		}

		jobID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		jobResp.ID = jobID

		jobCustomerID, idErr := kernel.UUIDFromBytes(customerID[:])
		if idErr != nil {
			return nil, idErr
		}
		jobResp.CustomerID = jobCustomerID

		if pickupLatitude != nil && pickupLongitude != nil {
			pickup, pointErr := kernel.NewGeoPoint(*pickupLatitude, *pickupLongitude)
			if pointErr != nil {
				return nil, pointErr
			}
			jobResp.Pickup = &pickup
		}

		if assignedDriverID != nil {
			driverID, idErr := kernel.UUIDFromBytes(assignedDriverID[:])
			if idErr != nil {
				return nil, idErr
			}
			jobResp.AssignedDriverID = &driverID
		}

		jobs = append(jobs, jobResp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return jobs, nil
}
