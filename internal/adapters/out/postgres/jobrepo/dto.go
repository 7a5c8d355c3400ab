// Package jobrepo provides data transfer objects and mapping functions for
// job persistence. This package implements the repository pattern for the job
// domain aggregate, handling the conversion between domain entities and
// database representations.
package jobrepo

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"
)

// JobDTO represents the database structure for persisting job aggregates.
// Coordinates are stored as numeric(10,7); jobs are soft-deleted via
// deleted_at so historical jobs stay queryable for audit.
type JobDTO struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CustomerID       uuid.UUID  `gorm:"type:uuid;index"`
	PickupAddress    string     `gorm:"not null"`
	DropoffAddress   string     `gorm:"not null"`
	PickupLatitude   *float64   `gorm:"type:numeric(10,7)"`
	PickupLongitude  *float64   `gorm:"type:numeric(10,7)"`
	ScheduledFor     *time.Time
	Status           string     `gorm:"index;not null"`
	AssignedDriverID *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt        time.Time  `gorm:"autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime"`
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the database table name for job entities.
func (JobDTO) TableName() string {
	return "jobs"
}

// fromDomain converts a job domain aggregate to its database representation.
func fromDomain(aggregate *job.Job) JobDTO {
	var assignedDriverID *uuid.UUID
	if id := aggregate.AssignedDriver(); id != nil {
		raw := id.Bytes()
		assignedDriverID = &raw
	}

	var pickupLatitude, pickupLongitude *float64
	if pickup := aggregate.Pickup(); pickup != nil {
		lat := pickup.Latitude()
		lon := pickup.Longitude()
		pickupLatitude = &lat
		pickupLongitude = &lon
	}

	return JobDTO{
		ID:               aggregate.ID().Bytes(),
		CustomerID:       aggregate.CustomerID().Bytes(),
		PickupAddress:    aggregate.PickupAddress(),
		DropoffAddress:   aggregate.DropoffAddress(),
		PickupLatitude:   pickupLatitude,
		PickupLongitude:  pickupLongitude,
		ScheduledFor:     aggregate.ScheduledFor(),
		Status:           aggregate.Status().String(),
		AssignedDriverID: assignedDriverID,
	}
}

// toDomain converts a database DTO to a job domain aggregate using RestoreJob.
func toDomain(dto JobDTO) (*job.Job, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	var pickup *kernel.GeoPoint
	if dto.PickupLatitude != nil && dto.PickupLongitude != nil {
		point, pointErr := kernel.NewGeoPoint(*dto.PickupLatitude, *dto.PickupLongitude)
		if pointErr != nil {
			return nil, pointErr
		}
		pickup = &point
	}

	var assignedDriverID *kernel.UUID
	if dto.AssignedDriverID != nil {
		driverID, driverErr := kernel.UUIDFromBytes((*dto.AssignedDriverID)[:])
		if driverErr != nil {
			return nil, driverErr
		}
		assignedDriverID = &driverID
	}

	status, err := job.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return job.RestoreJob(id, customerID, dto.PickupAddress, dto.DropoffAddress,
		pickup, dto.ScheduledFor, status, assignedDriverID)
}
