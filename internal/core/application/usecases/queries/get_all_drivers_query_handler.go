package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dispatch/internal/core/domain/model/kernel"
)

// GetAllDriversQueryHandler retrieves all driver information from the
// database. Uses direct SQL queries for optimal read performance in the CQRS
// pattern.
type GetAllDriversQueryHandler struct {
	db *gorm.DB
}

// NewGetAllDriversQueryHandler creates a handler for driver retrieval
// queries. Requires a GORM database connection for query execution.
func NewGetAllDriversQueryHandler(db *gorm.DB) GetAllDriversQueryHandler {
	return GetAllDriversQueryHandler{db: db}
}

// Handle executes the query to retrieve all drivers, sorted by name.
func (h GetAllDriversQueryHandler) Handle(
	ctx context.Context,
	query GetAllDriversQuery,
) ([]GetAllDriversQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	drivers := make([]GetAllDriversQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			first_name,
			last_name,
			phone,
			status,
			latitude,
			longitude,
			last_gps_at
		FROM drivers
		ORDER BY last_name, first_name
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var driverResp GetAllDriversQueryResponse
		var id uuid.UUID
		var latitude, longitude *float64
		var lastGPSAt *time.Time

		err = rows.Scan(
			&id,
			&driverResp.FirstName,
			&driverResp.LastName,
			&driverResp.Phone,
			&driverResp.Status,
			&latitude,
			&longitude,
			&lastGPSAt,
		)
		if err != nil {
			return nil, err
		}

		driverID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		driverResp.ID = driverID

		if latitude != nil && longitude != nil {
			location, pointErr := kernel.NewGeoPoint(*latitude, *longitude)
			if pointErr != nil {
				return nil, pointErr
			}
			driverResp.Location = &location
		}
		driverResp.LastGPSAt = lastGPSAt

		drivers = append(drivers, driverResp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return drivers, nil
}
