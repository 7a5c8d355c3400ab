package commands

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// UpdateDriverLocationCommandHandler records a driver's GPS report.
//
// A driver-role requester may only update the driver record linked to their
// own account; operators and admins may update any driver. The fresh
// position is mirrored into the location cache best-effort after the commit.
type UpdateDriverLocationCommandHandler struct {
	uowFactory    DriverUoWFactory
	locationCache ports.DriverLocationCache
	logger        *slog.Logger
}

// NewUpdateDriverLocationCommandHandler creates a handler for driver
// location updates. The cache may be nil when no cache is configured.
func NewUpdateDriverLocationCommandHandler(uowFactory DriverUoWFactory,
	locationCache ports.DriverLocationCache, logger *slog.Logger,
) UpdateDriverLocationCommandHandler {
	return UpdateDriverLocationCommandHandler{
		uowFactory:    uowFactory,
		locationCache: locationCache,
		logger:        logger.With("component", "update_driver_location"),
	}
}

// Handle processes the location update command.
func (h UpdateDriverLocationCommandHandler) Handle(ctx context.Context, command UpdateDriverLocationCommand,
) (*driver.Driver, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	driverRepo := uow.DriverRepository()

	targetDriver, err := driverRepo.GetForUpdate(ctx, command.DriverID())
	if err != nil {
		return nil, err
	}

	requester := command.Requester()
	if requester.IsDriver() && !targetDriver.AccountID().IsEqual(requester.AccountID()) {
		return nil, errs.NewForbiddenError("driver may only update own location")
	}

	if err = targetDriver.UpdateLocation(command.Location(), time.Now().UTC()); err != nil {
		return nil, err
	}

	if err = driverRepo.Update(ctx, targetDriver); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	if h.locationCache != nil {
		if err = h.locationCache.SetDriverLocation(ctx, targetDriver.ID(), command.Location()); err != nil {
			h.logger.WarnContext(ctx, "location cache write failed",
				"driver_id", targetDriver.ID().String(),
				"error", err)
		}
	}

	return targetDriver, nil
}
