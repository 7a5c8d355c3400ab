package job

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Domain errors for job operations.
var (
	// ErrJobIsNotConstructed is returned when a Job instance was not created
	// through the NewJob or RestoreJob factory functions.
	ErrJobIsNotConstructed = errors.New("Job must be created via NewJob or RestoreJob")
	// ErrPickupAddressIsRequired is returned when creating a job without a pickup address.
	ErrPickupAddressIsRequired = errs.NewValueIsRequiredError("pickupAddress")
	// ErrDropoffAddressIsRequired is returned when creating a job without a dropoff address.
	ErrDropoffAddressIsRequired = errs.NewValueIsRequiredError("dropoffAddress")
)

// Job represents a single transportation request from pickup to dropoff.
// It is the aggregate root that manages the job lifecycle from request through
// assignment to completion.
//
// Job follows these invariants:
//   - Must have valid job and customer identifiers
//   - Pickup and dropoff addresses must be non-empty
//   - The assigned driver is set at most once, by a successful assignment
//   - Status changes follow the forward-only state machine in Status
//   - Can only be created through NewJob or RestoreJob
//
// Pickup coordinates and the scheduled time are optional: a job without
// coordinates can still be assigned explicitly, but is not eligible for
// nearest-driver assignment.
type Job struct {
	// id is the unique identifier for the job
	id kernel.UUID

	// customerID references the requesting customer
	customerID kernel.UUID

	// pickupAddress and dropoffAddress are free-form street addresses
	pickupAddress  string
	dropoffAddress string

	// pickup is the optional pickup coordinate pair
	pickup *kernel.GeoPoint

	// scheduledFor is the optional requested pickup time
	scheduledFor *time.Time

	// status is the current state in the job lifecycle
	status Status

	// assignedDriverID is the assigned driver's ID (nil if unassigned)
	assignedDriverID *kernel.UUID

	// guard ensures the job was created via a factory function
	guard guard.ConstructorGuard
}

// NewJob creates a new Job in requested status with no driver assigned.
// This is the only way to create a fresh Job; all inputs are validated and
// validation errors are aggregated.
//
// Example:
//
//	pickup, _ := kernel.NewGeoPoint(51.5074, -0.1278)
//	j, err := job.NewJob(kernel.NewUUID(), customerID,
//	    "1 Trafalgar Square", "10 Downing Street", &pickup, nil)
//	if err != nil {
//	    // Handle validation error
//	}
func NewJob(
	id kernel.UUID,
	customerID kernel.UUID,
	pickupAddress string,
	dropoffAddress string,
	pickup *kernel.GeoPoint,
	scheduledFor *time.Time,
) (*Job, error) {
	j := &Job{
		status: Requested,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		j.setID(id),
		j.setCustomerID(customerID),
		j.setPickupAddress(pickupAddress),
		j.setDropoffAddress(dropoffAddress),
		j.setPickup(pickup),
	); err != nil {
		return nil, err
	}

	j.scheduledFor = scheduledFor
	return j, nil
}

// RestoreJob reconstructs a Job from persistence with an explicit status and
// driver assignment. It performs the same field validation as NewJob plus
// status validity, but does not re-run transition rules: the stored state is
// taken as authoritative.
func RestoreJob(
	id kernel.UUID,
	customerID kernel.UUID,
	pickupAddress string,
	dropoffAddress string,
	pickup *kernel.GeoPoint,
	scheduledFor *time.Time,
	status Status,
	assignedDriverID *kernel.UUID,
) (*Job, error) {
	j, err := NewJob(id, customerID, pickupAddress, dropoffAddress, pickup, scheduledFor)
	if err != nil {
		return nil, err
	}

	if err = status.Validate(); err != nil {
		return nil, err
	}
	if assignedDriverID != nil {
		if err = assignedDriverID.Validate(); err != nil {
			return nil, err
		}
		driverID := *assignedDriverID
		j.assignedDriverID = &driverID
	}

	j.status = status
	return j, nil
}

// Validate ensures the Job instance was properly constructed.
func (j *Job) Validate() error {
	if j == nil {
		return ErrJobIsNotConstructed
	}
	return j.guard.Validate(ErrJobIsNotConstructed)
}

// IsEqual compares two jobs by their unique identifiers.
func (j *Job) IsEqual(other *Job) bool {
	return other != nil && j.id.IsEqual(other.id)
}

// ID returns the job's unique identifier.
func (j *Job) ID() kernel.UUID {
	return j.id
}

// CustomerID returns the requesting customer's identifier.
func (j *Job) CustomerID() kernel.UUID {
	return j.customerID
}

// PickupAddress returns the pickup street address.
func (j *Job) PickupAddress() string {
	return j.pickupAddress
}

// DropoffAddress returns the dropoff street address.
func (j *Job) DropoffAddress() string {
	return j.dropoffAddress
}

// Pickup returns the pickup coordinates, or nil if the job has none.
func (j *Job) Pickup() *kernel.GeoPoint {
	return j.pickup
}

// ScheduledFor returns the requested pickup time, or nil for as-soon-as-possible jobs.
func (j *Job) ScheduledFor() *time.Time {
	return j.scheduledFor
}

// Status returns the current status of the job.
func (j *Job) Status() Status {
	return j.status
}

// AssignedDriver returns the assigned driver's ID, or nil if unassigned.
func (j *Job) AssignedDriver() *kernel.UUID {
	return j.assignedDriverID
}

// Assign binds the job to a driver.
//
// The driver reference is set at most once: if the job already has an
// assigned driver, Assign fails with a ConflictError. Under concurrent
// assignment attempts the first committer wins and the loser observes the
// already-set reference after acquiring its row lock.
func (j *Job) Assign(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	if j.assignedDriverID != nil {
		return errs.NewConflictError("job already assigned")
	}

	j.assignedDriverID = &driverID
	return nil
}

// TransitionTo advances the job to the next status.
// Only transitions adjacent in the forward chain succeed; anything else
// fails with an InvalidTransitionError carrying the attempted pair.
func (j *Job) TransitionTo(next Status) error {
	newStatus, err := j.status.TransitionTo(next)
	if err != nil {
		return err
	}

	j.status = newStatus
	return nil
}

func (j *Job) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	j.id = id
	return nil
}

func (j *Job) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	j.customerID = customerID
	return nil
}

func (j *Job) setPickupAddress(address string) error {
	if address == "" {
		return ErrPickupAddressIsRequired
	}
	j.pickupAddress = address
	return nil
}

func (j *Job) setDropoffAddress(address string) error {
	if address == "" {
		return ErrDropoffAddressIsRequired
	}
	j.dropoffAddress = address
	return nil
}

func (j *Job) setPickup(pickup *kernel.GeoPoint) error {
	if pickup == nil {
		return nil
	}
	if err := pickup.Validate(); err != nil {
		return err
	}
	point := *pickup
	j.pickup = &point
	return nil
}
