package job

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of a transportation job.
// It implements a forward-only state machine:
//
//	requested ──> accepted ──> arrived ──> on_trip ──> completed
//
// Each state has exactly one legal successor and completed is terminal.
// Any other requested transition, including staying in place or skipping a
// state, fails with an InvalidTransitionError carrying the attempted pair.
//
// The string values are the persisted tokens, so Status converts to and from
// storage without a mapping table.
type Status string

const (
	// Requested is the initial status when a job is first created.
	// Jobs in this status are waiting to be assigned to a driver.
	Requested Status = "requested"
	// Accepted indicates the assigned driver has accepted the job.
	Accepted Status = "accepted"
	// Arrived indicates the driver has arrived at the pickup point.
	Arrived Status = "arrived"
	// OnTrip indicates the passenger is on board and the trip is underway.
	OnTrip Status = "on_trip"
	// Completed indicates the trip has finished. This is a final state
	// with no further transitions allowed.
	Completed Status = "completed"
)

// nextStatus is the forward-only transition table. A status absent from the
// map (completed) has no legal successor.
func nextStatus() map[Status]Status {
	return map[Status]Status{
		Requested: Accepted,
		Accepted:  Arrived,
		Arrived:   OnTrip,
		OnTrip:    Completed,
	}
}

func validStatuses() map[Status]struct{} {
	return map[Status]struct{}{
		Requested: {},
		Accepted:  {},
		Arrived:   {},
		OnTrip:    {},
		Completed: {},
	}
}

// StatusFromString parses a persisted or request-supplied status token.
// Returns an error for anything outside the five known tokens.
func StatusFromString(s string) (Status, error) {
	status := Status(s)
	if err := status.Validate(); err != nil {
		return "", err
	}
	return status, nil
}

// Validate checks if the Status value is one of the five known tokens.
func (s Status) Validate() error {
	if _, ok := validStatuses()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%q is not a valid job status", string(s)))
	}
	return nil
}

// String returns the persisted token for the status.
func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether the status permits no further transitions.
func (s Status) IsTerminal() bool {
	return s == Completed
}

// TransitionTo validates the move to next and returns the new status.
//
// Valid transitions are exactly the adjacent pairs of the forward chain:
// requested->accepted, accepted->arrived, arrived->on_trip, on_trip->completed.
//
// Returns:
//   - (next, nil) on a valid transition
//   - ("", *errs.InvalidTransitionError) otherwise, including self-transitions,
//     skipped states, backward moves, and any transition out of completed
func (s Status) TransitionTo(next Status) (Status, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}
	if err := next.Validate(); err != nil {
		return "", err
	}

	if successor, ok := nextStatus()[s]; !ok || successor != next {
		return "", errs.NewInvalidTransitionError(s.String(), next.String())
	}

	return next, nil
}
