package services

import (
	"errors"
	"math"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// ErrDriverNotFound is returned when no suitable driver is available for job
// dispatch. This occurs when either no drivers are provided or none of the
// provided drivers can be considered because they have no known coordinates.
var ErrDriverNotFound = errors.New("driver not found")

// JobDispatcher is a domain service responsible for selecting the nearest
// driver for a job and executing the assignment workflow.
//
// Business rules:
//   - The job must have pickup coordinates; proximity is undefined without them
//   - Only drivers with known coordinates are considered
//   - Selection minimizes great-circle distance to the pickup point
//   - Ties keep the first candidate encountered
//   - Reservation and assignment happen together or not at all
type JobDispatcher struct{}

// NewJobDispatcher creates a new JobDispatcher instance.
func NewJobDispatcher() JobDispatcher {
	return JobDispatcher{}
}

// Dispatch selects the nearest driver for the given job, reserves the driver
// and assigns the job to it.
//
// Returns ErrDriverNotFound when no driver can be considered, an invalid
// state error when the job carries no pickup coordinates, and the underlying
// reservation or assignment error otherwise.
func (d JobDispatcher) Dispatch(targetJob *job.Job, drivers []*driver.Driver) (*driver.Driver, error) {
	if err := targetJob.Validate(); err != nil {
		return nil, err
	}
	if targetJob.AssignedDriver() != nil {
		return nil, errs.NewConflictError("job already assigned")
	}
	if targetJob.Pickup() == nil {
		return nil, errs.NewInvalidStateError("job has no pickup coordinates")
	}

	nearest, err := d.findNearestDriver(*targetJob.Pickup(), drivers)
	if err != nil {
		return nil, err
	}

	if err = nearest.Reserve(); err != nil {
		return nil, err
	}
	if err = targetJob.Assign(nearest.ID()); err != nil {
		return nil, err
	}

	return nearest, nil
}

// findNearestDriver scans the candidates and keeps the one closest to the
// pickup point. A strictly smaller distance is required to displace the
// current best, so the first candidate wins ties.
func (d JobDispatcher) findNearestDriver(pickup kernel.GeoPoint, drivers []*driver.Driver) (*driver.Driver, error) {
	var nearest *driver.Driver
	bestDistance := math.MaxFloat64

	for _, candidate := range drivers {
		if err := candidate.Validate(); err != nil {
			return nil, err
		}
		if !candidate.HasCoordinates() {
			continue
		}

		distance := candidate.Location().DistanceTo(pickup)
		if distance < bestDistance {
			bestDistance = distance
			nearest = candidate
		}
	}

	if nearest == nil {
		return nil, ErrDriverNotFound
	}
	return nearest, nil
}
