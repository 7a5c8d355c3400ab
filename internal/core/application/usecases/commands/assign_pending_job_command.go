package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrAssignPendingJobCommandIsNotConstructed = errors.New(
	"AssignPendingJobCommand must be created via NewAssignPendingJobCommand constructor",
)

// AssignPendingJobCommand triggers the assignment of the oldest unassigned
// requested job to the nearest available driver. Run periodically by the
// background sweep; it is a parameterless command.
type AssignPendingJobCommand struct {
	guard guard.ConstructorGuard
}

// NewAssignPendingJobCommand creates a new command to trigger the
// auto-dispatch sweep.
func NewAssignPendingJobCommand() AssignPendingJobCommand {
	return AssignPendingJobCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
// Returns ErrAssignPendingJobCommandIsNotConstructed if validation fails.
func (c *AssignPendingJobCommand) Validate() error {
	return c.guard.Validate(ErrAssignPendingJobCommandIsNotConstructed)
}
