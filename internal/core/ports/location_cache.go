package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
)

// DriverLocationCache mirrors the latest driver positions into a short-lived
// cache so presence queries do not hit the primary store. Entries expire on
// their own; a driver that stops reporting simply disappears from the cache.
type DriverLocationCache interface {
	// SetDriverLocation stores the driver's latest position with the cache's
	// configured TTL.
	SetDriverLocation(ctx context.Context, driverID kernel.UUID, location kernel.GeoPoint) error
}
