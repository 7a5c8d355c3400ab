// Package driverrepo provides data transfer objects and mapping functions
// for driver persistence.
package driverrepo

import (
	"time"

	"github.com/google/uuid"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
)

// DriverDTO represents the database structure for persisting driver
// aggregates. Coordinates are stored as numeric(10,7).
type DriverDTO struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	AccountID uuid.UUID  `gorm:"type:uuid;uniqueIndex"`
	FirstName string     `gorm:"not null"`
	LastName  string     `gorm:"not null"`
	Phone     string     `gorm:"not null"`
	Status    string     `gorm:"index;not null"`
	Latitude  *float64   `gorm:"type:numeric(10,7)"`
	Longitude *float64   `gorm:"type:numeric(10,7)"`
	LastGPSAt *time.Time
	VehicleID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
}

// TableName specifies the database table name for driver entities.
func (DriverDTO) TableName() string {
	return "drivers"
}

// fromDomain converts a driver domain aggregate to its database representation.
func fromDomain(aggregate *driver.Driver) DriverDTO {
	var latitude, longitude *float64
	if location := aggregate.Location(); location != nil {
		lat := location.Latitude()
		lon := location.Longitude()
		latitude = &lat
		longitude = &lon
	}

	var vehicleID *uuid.UUID
	if id := aggregate.VehicleID(); id != nil {
		raw := id.Bytes()
		vehicleID = &raw
	}

	return DriverDTO{
		ID:        aggregate.ID().Bytes(),
		AccountID: aggregate.AccountID().Bytes(),
		FirstName: aggregate.FirstName(),
		LastName:  aggregate.LastName(),
		Phone:     aggregate.Phone(),
		Status:    aggregate.Status().String(),
		Latitude:  latitude,
		Longitude: longitude,
		LastGPSAt: aggregate.LastGPSAt(),
		VehicleID: vehicleID,
	}
}

// toDomain converts a database DTO to a driver domain aggregate using
// RestoreDriver.
func toDomain(dto DriverDTO) (*driver.Driver, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	accountID, err := kernel.UUIDFromBytes(dto.AccountID[:])
	if err != nil {
		return nil, err
	}

	var location *kernel.GeoPoint
	if dto.Latitude != nil && dto.Longitude != nil {
		point, pointErr := kernel.NewGeoPoint(*dto.Latitude, *dto.Longitude)
		if pointErr != nil {
			return nil, pointErr
		}
		location = &point
	}

	var vehicleID *kernel.UUID
	if dto.VehicleID != nil {
		vID, vehicleErr := kernel.UUIDFromBytes((*dto.VehicleID)[:])
		if vehicleErr != nil {
			return nil, vehicleErr
		}
		vehicleID = &vID
	}

	status, err := driver.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return driver.RestoreDriver(id, accountID, dto.FirstName, dto.LastName, dto.Phone,
		status, location, dto.LastGPSAt, vehicleID)
}
