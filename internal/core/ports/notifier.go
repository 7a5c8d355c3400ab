package ports

import (
	"context"

	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"
)

// DispatchNotifier pushes job lifecycle events to interested parties:
// the operator pool and, when a driver is involved, that driver's private
// channel. Delivery is best effort; handlers call the notifier only after
// the owning transaction commits and never fail the operation on a
// notification error.
type DispatchNotifier interface {
	// NotifyJobCreated announces a freshly created job to operators.
	NotifyJobCreated(ctx context.Context, aggregate *job.Job)

	// NotifyJobAssigned announces an assignment to operators and to the
	// assigned driver.
	NotifyJobAssigned(ctx context.Context, aggregate *job.Job, driverID kernel.UUID)

	// NotifyJobStatusChanged announces a status change to operators and,
	// when the job has an assigned driver, to that driver.
	NotifyJobStatusChanged(ctx context.Context, aggregate *job.Job)
}
