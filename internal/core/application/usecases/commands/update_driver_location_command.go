package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrUpdateDriverLocationCommandIsNotConstructed = errors.New(
	"UpdateDriverLocationCommand must be created via NewUpdateDriverLocationCommand constructor",
)

// UpdateDriverLocationCommand represents a GPS report for a driver.
type UpdateDriverLocationCommand struct { //nolint:recvcheck //using for validation
	driverID  kernel.UUID
	location  kernel.GeoPoint
	requester Requester

	guard guard.ConstructorGuard
}

// NewUpdateDriverLocationCommand creates a location update command.
func NewUpdateDriverLocationCommand(driverID kernel.UUID, location kernel.GeoPoint, requester Requester,
) (UpdateDriverLocationCommand, error) {
	locationCommand := UpdateDriverLocationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		locationCommand.setDriverID(driverID),
		locationCommand.setLocation(location),
		locationCommand.setRequester(requester),
	); err != nil {
		return UpdateDriverLocationCommand{}, err
	}

	return locationCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateDriverLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdateDriverLocationCommandIsNotConstructed)
}

// DriverID returns the driver whose location is being reported.
func (c UpdateDriverLocationCommand) DriverID() kernel.UUID {
	return c.driverID
}

// Location returns the reported coordinates.
func (c UpdateDriverLocationCommand) Location() kernel.GeoPoint {
	return c.location
}

// Requester returns the authenticated caller.
func (c UpdateDriverLocationCommand) Requester() Requester {
	return c.requester
}

func (c *UpdateDriverLocationCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}

func (c *UpdateDriverLocationCommand) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}

	c.location = location
	return nil
}

func (c *UpdateDriverLocationCommand) setRequester(requester Requester) error {
	if err := requester.Validate(); err != nil {
		return err
	}

	c.requester = requester
	return nil
}
