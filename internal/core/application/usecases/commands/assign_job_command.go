package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrAssignJobCommandIsNotConstructed = errors.New(
	"AssignJobCommand must be created via NewAssignJobCommand constructor",
)

// AssignJobCommand represents a request to bind a driver to a job.
//
// Two selection modes exist: explicit mode (a driver ID is supplied and that
// specific driver is reserved) and nearest mode (no driver ID; the closest
// available driver to the job's pickup point is selected).
type AssignJobCommand struct { //nolint:recvcheck //using for validation
	jobID    kernel.UUID
	driverID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewAssignJobCommand creates an assignment command. Pass a nil driverID to
// request nearest-mode selection.
func NewAssignJobCommand(jobID kernel.UUID, driverID *kernel.UUID) (AssignJobCommand, error) {
	jobCommand := AssignJobCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		jobCommand.setJobID(jobID),
		jobCommand.setDriverID(driverID),
	); err != nil {
		return AssignJobCommand{}, err
	}

	return jobCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAssignJobCommandIsNotConstructed if validation fails.
func (c AssignJobCommand) Validate() error {
	return c.guard.Validate(ErrAssignJobCommandIsNotConstructed)
}

// JobID returns the job to assign.
func (c AssignJobCommand) JobID() kernel.UUID {
	return c.jobID
}

// DriverID returns the explicitly requested driver, nil in nearest mode.
func (c AssignJobCommand) DriverID() *kernel.UUID {
	return c.driverID
}

func (c *AssignJobCommand) setJobID(jobID kernel.UUID) error {
	if err := jobID.Validate(); err != nil {
		return err
	}

	c.jobID = jobID
	return nil
}

func (c *AssignJobCommand) setDriverID(driverID *kernel.UUID) error {
	if driverID != nil {
		if err := driverID.Validate(); err != nil {
			return err
		}
	}

	c.driverID = driverID
	return nil
}
