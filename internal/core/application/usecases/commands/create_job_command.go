package commands

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrCreateJobCommandIsNotConstructed = errors.New(
	"CreateJobCommand must be created via NewCreateJobCommand constructor",
)

// CreateJobCommand represents a request to create a new transportation job.
// Encapsulates the customer reference, pickup/dropoff addresses, optional
// pickup coordinates and optional scheduled time.
//
// Example:
//
//	jobID := kernel.NewUUID()
//	cmd, err := NewCreateJobCommand(jobID, customerID, "1 Origin St", "2 Destination Ave", &pickup, nil)
//	if err != nil {
//	    return fmt.Errorf("invalid job data: %w", err)
//	}
//
//	handler := NewCreateJobCommandHandler(uowFactory, notifier)
//	created, err := handler.Handle(ctx, cmd)
type CreateJobCommand struct { //nolint:recvcheck //using for validation
	jobID          kernel.UUID
	customerID     kernel.UUID
	pickupAddress  string
	dropoffAddress string
	pickup         *kernel.GeoPoint
	scheduledFor   *time.Time

	guard guard.ConstructorGuard
}

// NewCreateJobCommand creates a command to register a new job. Validates the
// identifiers, the addresses, and the pickup coordinates when supplied.
func NewCreateJobCommand(jobID kernel.UUID, customerID kernel.UUID,
	pickupAddress string, dropoffAddress string,
	pickup *kernel.GeoPoint, scheduledFor *time.Time,
) (CreateJobCommand, error) {
	jobCommand := CreateJobCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		jobCommand.setJobID(jobID),
		jobCommand.setCustomerID(customerID),
		jobCommand.setAddresses(pickupAddress, dropoffAddress),
		jobCommand.setPickup(pickup),
	); err != nil {
		return CreateJobCommand{}, err
	}

	jobCommand.scheduledFor = scheduledFor
	return jobCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateJobCommandIsNotConstructed if validation fails.
func (c CreateJobCommand) Validate() error {
	return c.guard.Validate(ErrCreateJobCommandIsNotConstructed)
}

// JobID returns the unique identifier for the job.
func (c CreateJobCommand) JobID() kernel.UUID {
	return c.jobID
}

// CustomerID returns the customer the job belongs to.
func (c CreateJobCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// PickupAddress returns the pickup street address.
func (c CreateJobCommand) PickupAddress() string {
	return c.pickupAddress
}

// DropoffAddress returns the dropoff street address.
func (c CreateJobCommand) DropoffAddress() string {
	return c.dropoffAddress
}

// Pickup returns the optional pickup coordinates.
func (c CreateJobCommand) Pickup() *kernel.GeoPoint {
	return c.pickup
}

// ScheduledFor returns the optional scheduled time.
func (c CreateJobCommand) ScheduledFor() *time.Time {
	return c.scheduledFor
}

func (c *CreateJobCommand) setJobID(jobID kernel.UUID) error {
	if err := jobID.Validate(); err != nil {
		return err
	}

	c.jobID = jobID
	return nil
}

func (c *CreateJobCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}

	c.customerID = customerID
	return nil
}

func (c *CreateJobCommand) setAddresses(pickupAddress string, dropoffAddress string) error {
	if pickupAddress == "" {
		return job.ErrPickupAddressIsRequired
	}
	if dropoffAddress == "" {
		return job.ErrDropoffAddressIsRequired
	}

	c.pickupAddress = pickupAddress
	c.dropoffAddress = dropoffAddress
	return nil
}

func (c *CreateJobCommand) setPickup(pickup *kernel.GeoPoint) error {
	if pickup != nil {
		if err := pickup.Validate(); err != nil {
			return err
		}
	}

	c.pickup = pickup
	return nil
}
