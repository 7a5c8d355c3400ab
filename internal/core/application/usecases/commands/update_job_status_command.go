package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrUpdateJobStatusCommandIsNotConstructed = errors.New(
	"UpdateJobStatusCommand must be created via NewUpdateJobStatusCommand constructor",
)

// UpdateJobStatusCommand represents a request to advance a job's status.
// Carries the requester identity so the handler can enforce the driver-role
// ownership rule.
type UpdateJobStatusCommand struct { //nolint:recvcheck //using for validation
	jobID      kernel.UUID
	nextStatus job.Status
	requester  Requester

	guard guard.ConstructorGuard
}

// NewUpdateJobStatusCommand creates a status transition command. The target
// status must be one of the known tokens; whether the transition itself is
// legal is decided by the job's state machine inside the handler.
func NewUpdateJobStatusCommand(jobID kernel.UUID, nextStatus job.Status, requester Requester,
) (UpdateJobStatusCommand, error) {
	jobCommand := UpdateJobStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		jobCommand.setJobID(jobID),
		jobCommand.setNextStatus(nextStatus),
		jobCommand.setRequester(requester),
	); err != nil {
		return UpdateJobStatusCommand{}, err
	}

	return jobCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrUpdateJobStatusCommandIsNotConstructed if validation fails.
func (c UpdateJobStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateJobStatusCommandIsNotConstructed)
}

// JobID returns the job whose status is changing.
func (c UpdateJobStatusCommand) JobID() kernel.UUID {
	return c.jobID
}

// NextStatus returns the requested target status.
func (c UpdateJobStatusCommand) NextStatus() job.Status {
	return c.nextStatus
}

// Requester returns the authenticated caller.
func (c UpdateJobStatusCommand) Requester() Requester {
	return c.requester
}

func (c *UpdateJobStatusCommand) setJobID(jobID kernel.UUID) error {
	if err := jobID.Validate(); err != nil {
		return err
	}

	c.jobID = jobID
	return nil
}

func (c *UpdateJobStatusCommand) setNextStatus(nextStatus job.Status) error {
	if err := nextStatus.Validate(); err != nil {
		return err
	}

	c.nextStatus = nextStatus
	return nil
}

func (c *UpdateJobStatusCommand) setRequester(requester Requester) error {
	if err := requester.Validate(); err != nil {
		return err
	}

	c.requester = requester
	return nil
}
