package driver

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents a driver's availability for dispatch. The string values
// are the persisted tokens.
//
// Only the Assignment Coordinator moves a driver from available to reserved;
// the Status Transition Engine moves reserved/on_trip drivers back through
// on_trip and available as the assigned job advances. Offline drivers are
// never considered for assignment.
type Status string

const (
	// Offline means the driver is not accepting work.
	Offline Status = "offline"
	// Available means the driver can be assigned a job.
	Available Status = "available"
	// Reserved means the driver is bound to a job that has not started its trip.
	Reserved Status = "reserved"
	// OnTrip means the driver is transporting a passenger.
	OnTrip Status = "on_trip"
)

func validStatuses() map[Status]struct{} {
	return map[Status]struct{}{
		Offline:   {},
		Available: {},
		Reserved:  {},
		OnTrip:    {},
	}
}

// StatusFromString parses a persisted status token.
func StatusFromString(s string) (Status, error) {
	status := Status(s)
	if err := status.Validate(); err != nil {
		return "", err
	}
	return status, nil
}

// Validate checks if the Status value is one of the four known tokens.
func (s Status) Validate() error {
	if _, ok := validStatuses()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%q is not a valid driver status", string(s)))
	}
	return nil
}

// String returns the persisted token for the status.
func (s Status) String() string {
	return string(s)
}
