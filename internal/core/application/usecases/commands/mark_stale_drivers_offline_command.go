package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrMarkStaleDriversOfflineCommandIsNotConstructed = errors.New(
	"MarkStaleDriversOfflineCommand must be created via NewMarkStaleDriversOfflineCommand constructor",
)

// MarkStaleDriversOfflineCommand triggers the sweep that takes drivers with
// outdated GPS reports out of the dispatch pool.
type MarkStaleDriversOfflineCommand struct {
	guard guard.ConstructorGuard
}

// NewMarkStaleDriversOfflineCommand creates a new command to trigger the
// stale-GPS sweep.
func NewMarkStaleDriversOfflineCommand() MarkStaleDriversOfflineCommand {
	return MarkStaleDriversOfflineCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c *MarkStaleDriversOfflineCommand) Validate() error {
	return c.guard.Validate(ErrMarkStaleDriversOfflineCommandIsNotConstructed)
}
