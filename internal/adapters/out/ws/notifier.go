package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"
)

const (
	EventJobCreated       = "job.created"
	EventJobAssigned      = "job.assigned"
	EventJobStatusChanged = "job.status_changed"
)

type geoPayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type jobPayload struct {
	ID               string      `json:"id"`
	CustomerID       string      `json:"customer_id"`
	PickupAddress    string      `json:"pickup_address"`
	DropoffAddress   string      `json:"dropoff_address"`
	Status           string      `json:"status"`
	Pickup           *geoPayload `json:"pickup,omitempty"`
	ScheduledFor     *time.Time  `json:"scheduled_for,omitempty"`
	AssignedDriverID *string     `json:"assigned_driver_id,omitempty"`
}

type envelope struct {
	Event string     `json:"event"`
	Job   jobPayload `json:"job"`
}

// Notifier pushes dispatch events through the hub. Delivery is best effort:
// marshalling failures are logged and subscribers that cannot keep up are
// dropped by the hub.
type Notifier struct {
	hub    *Hub
	logger *slog.Logger
}

func NewNotifier(hub *Hub, logger *slog.Logger) *Notifier {
	return &Notifier{
		hub:    hub,
		logger: logger.With("component", "ws_notifier"),
	}
}

func (n *Notifier) NotifyJobCreated(ctx context.Context, aggregate *job.Job) {
	message, ok := n.encode(ctx, EventJobCreated, aggregate)
	if !ok {
		return
	}
	n.hub.Broadcast(message)
}

func (n *Notifier) NotifyJobAssigned(ctx context.Context, aggregate *job.Job, driverID kernel.UUID) {
	message, ok := n.encode(ctx, EventJobAssigned, aggregate)
	if !ok {
		return
	}
	n.hub.Broadcast(message)
	n.hub.SendToDriver(driverID.String(), message)
}

func (n *Notifier) NotifyJobStatusChanged(ctx context.Context, aggregate *job.Job) {
	message, ok := n.encode(ctx, EventJobStatusChanged, aggregate)
	if !ok {
		return
	}
	n.hub.Broadcast(message)
	if driverID := aggregate.AssignedDriver(); driverID != nil {
		n.hub.SendToDriver(driverID.String(), message)
	}
}

func (n *Notifier) encode(ctx context.Context, event string, aggregate *job.Job) ([]byte, bool) {
	payload := jobPayload{
		ID:             aggregate.ID().String(),
		CustomerID:     aggregate.CustomerID().String(),
		PickupAddress:  aggregate.PickupAddress(),
		DropoffAddress: aggregate.DropoffAddress(),
		Status:         aggregate.Status().String(),
		ScheduledFor:   aggregate.ScheduledFor(),
	}
	if pickup := aggregate.Pickup(); pickup != nil {
		payload.Pickup = &geoPayload{
			Latitude:  pickup.Latitude(),
			Longitude: pickup.Longitude(),
		}
	}
	if driverID := aggregate.AssignedDriver(); driverID != nil {
		id := driverID.String()
		payload.AssignedDriverID = &id
	}

	message, err := json.Marshal(envelope{Event: event, Job: payload})
	if err != nil {
		n.logger.WarnContext(ctx, "failed to encode event", "event", event, "error", err)
		return nil, false
	}
	return message, true
}
