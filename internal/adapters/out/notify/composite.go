// Package notify combines independent dispatch notifiers into one.
package notify

import (
	"context"

	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

// Composite fans each event out to every configured notifier. Notifiers
// are independent: one failing or lagging does not affect the others.
type Composite struct {
	notifiers []ports.DispatchNotifier
}

func NewComposite(notifiers ...ports.DispatchNotifier) *Composite {
	return &Composite{notifiers: notifiers}
}

func (c *Composite) NotifyJobCreated(ctx context.Context, aggregate *job.Job) {
	for _, notifier := range c.notifiers {
		notifier.NotifyJobCreated(ctx, aggregate)
	}
}

func (c *Composite) NotifyJobAssigned(ctx context.Context, aggregate *job.Job, driverID kernel.UUID) {
	for _, notifier := range c.notifiers {
		notifier.NotifyJobAssigned(ctx, aggregate, driverID)
	}
}

func (c *Composite) NotifyJobStatusChanged(ctx context.Context, aggregate *job.Job) {
	for _, notifier := range c.notifiers {
		notifier.NotifyJobStatusChanged(ctx, aggregate)
	}
}
