package driver

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	ErrDriverIsNotConstructed = errs.NewValueIsRequiredError("driver must be created via NewDriver or RestoreDriver")
	ErrFirstNameIsRequired    = errs.NewValueIsRequiredError("firstName")
	ErrLastNameIsRequired     = errs.NewValueIsRequiredError("lastName")
	ErrPhoneIsRequired        = errs.NewValueIsRequiredError("phone")
)

// Driver is the aggregate for a driver available for dispatch.
//
// A driver belongs to an account (the credential the driver authenticates
// with); authorization checks compare the requester's account against
// AccountID, never against the driver ID itself.
type Driver struct {
	id        kernel.UUID
	accountID kernel.UUID

	firstName string
	lastName  string
	phone     string

	status    Status
	location  *kernel.GeoPoint
	lastGPSAt *time.Time
	vehicleID *kernel.UUID

	guard.ConstructorGuard
}

// NewDriver creates a driver in the offline status with no known location.
func NewDriver(id kernel.UUID, accountID kernel.UUID,
	firstName string, lastName string, phone string,
) (*Driver, error) {
	driver := &Driver{
		ConstructorGuard: guard.NewConstructorGuard(),

		status: Offline,
	}
	err := errors.Join(
		driver.setID(id),
		driver.setAccountID(accountID),
		driver.setFirstName(firstName),
		driver.setLastName(lastName),
		driver.setPhone(phone),
	)
	if err != nil {
		return nil, err
	}
	return driver, nil
}

// RestoreDriver reconstitutes a Driver from persistence.
func RestoreDriver(id kernel.UUID, accountID kernel.UUID,
	firstName string, lastName string, phone string,
	status Status, location *kernel.GeoPoint, lastGPSAt *time.Time, vehicleID *kernel.UUID,
) (*Driver, error) {
	driver, err := NewDriver(id, accountID, firstName, lastName, phone)
	if err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}
	if location != nil {
		if err := location.Validate(); err != nil {
			return nil, err
		}
	}
	if vehicleID != nil {
		if err := vehicleID.Validate(); err != nil {
			return nil, err
		}
	}

	driver.status = status
	driver.location = location
	driver.lastGPSAt = lastGPSAt
	driver.vehicleID = vehicleID
	return driver, nil
}

func (d *Driver) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Driver) setAccountID(accountID kernel.UUID) error {
	if err := accountID.Validate(); err != nil {
		return errs.NewValueIsRequiredError("accountID")
	}
	d.accountID = accountID
	return nil
}

func (d *Driver) setFirstName(firstName string) error {
	if firstName == "" {
		return ErrFirstNameIsRequired
	}
	d.firstName = firstName
	return nil
}

func (d *Driver) setLastName(lastName string) error {
	if lastName == "" {
		return ErrLastNameIsRequired
	}
	d.lastName = lastName
	return nil
}

func (d *Driver) setPhone(phone string) error {
	if phone == "" {
		return ErrPhoneIsRequired
	}
	d.phone = phone
	return nil
}

// IsEqual compares drivers by identity.
func (d *Driver) IsEqual(other *Driver) bool {
	return d.id.IsEqual(other.id)
}

func (d *Driver) ID() kernel.UUID {
	return d.id
}

func (d *Driver) AccountID() kernel.UUID {
	return d.accountID
}

func (d *Driver) FirstName() string {
	return d.firstName
}

func (d *Driver) LastName() string {
	return d.lastName
}

func (d *Driver) Phone() string {
	return d.phone
}

func (d *Driver) Status() Status {
	return d.status
}

// Location returns the driver's last reported position, nil when the driver
// has never reported one.
func (d *Driver) Location() *kernel.GeoPoint {
	return d.location
}

// LastGPSAt returns the time of the last location report.
func (d *Driver) LastGPSAt() *time.Time {
	return d.lastGPSAt
}

func (d *Driver) VehicleID() *kernel.UUID {
	return d.vehicleID
}

// HasCoordinates reports whether the driver has ever reported a position.
func (d *Driver) HasCoordinates() bool {
	return d.location != nil
}

// Reserve binds the driver to a job. Only an available driver with known
// coordinates can be reserved.
func (d *Driver) Reserve() error {
	if err := d.Validate(); err != nil {
		return err
	}
	if d.status != Available {
		return errs.NewInvalidStateError("driver is not available for assignment")
	}
	if !d.HasCoordinates() {
		return errs.NewInvalidStateError("driver has no known coordinates")
	}
	d.status = Reserved
	return nil
}

// StartTrip marks the driver as transporting a passenger. The call is
// unconditional: the job status machine is authoritative and the driver
// status merely mirrors it.
func (d *Driver) StartTrip() error {
	if err := d.Validate(); err != nil {
		return err
	}
	d.status = OnTrip
	return nil
}

// Release returns the driver to the available pool after a job completes.
// Unconditional for the same reason as StartTrip.
func (d *Driver) Release() error {
	if err := d.Validate(); err != nil {
		return err
	}
	d.status = Available
	return nil
}

// MarkOffline takes the driver out of the dispatch pool.
func (d *Driver) MarkOffline() error {
	if err := d.Validate(); err != nil {
		return err
	}
	d.status = Offline
	return nil
}

// UpdateLocation records a fresh GPS report.
func (d *Driver) UpdateLocation(location kernel.GeoPoint, at time.Time) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if err := location.Validate(); err != nil {
		return err
	}
	d.location = &location
	d.lastGPSAt = &at
	return nil
}

// Validate checks that the driver was built through a constructor.
func (d *Driver) Validate() error {
	return d.ConstructorGuard.Validate(ErrDriverIsNotConstructed)
}
