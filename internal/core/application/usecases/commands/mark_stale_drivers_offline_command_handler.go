package commands

import (
	"context"
	"time"
)

// MarkStaleDriversOfflineCommandHandler flips drivers whose last GPS report
// is older than the staleness window to offline so the assignment
// coordinator stops considering them. Drivers that never reported a position
// are already excluded from assignment and are left alone.
type MarkStaleDriversOfflineCommandHandler struct {
	uowFactory      DriverUoWFactory
	stalenessWindow time.Duration
}

// NewMarkStaleDriversOfflineCommandHandler creates a handler for the
// stale-GPS sweep with the given staleness window.
func NewMarkStaleDriversOfflineCommandHandler(uowFactory DriverUoWFactory, stalenessWindow time.Duration,
) MarkStaleDriversOfflineCommandHandler {
	return MarkStaleDriversOfflineCommandHandler{
		uowFactory:      uowFactory,
		stalenessWindow: stalenessWindow,
	}
}

// Handle processes one sweep pass. All stale drivers found are flipped
// inside a single transaction.
func (h MarkStaleDriversOfflineCommandHandler) Handle(ctx context.Context, command MarkStaleDriversOfflineCommand,
) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	driverRepo := uow.DriverRepository()

	cutoff := time.Now().UTC().Add(-h.stalenessWindow)
	staleDrivers, err := driverRepo.GetAllStaleForUpdate(ctx, cutoff)
	if err != nil {
		return err
	}

	for _, staleDriver := range staleDrivers {
		if err = staleDriver.MarkOffline(); err != nil {
			return err
		}
		if err = driverRepo.Update(ctx, staleDriver); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
