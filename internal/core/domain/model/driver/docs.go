// Package driver contains the Driver aggregate.
//
// A driver cycles through the offline, available, reserved and on_trip
// statuses. Reservation is guarded (only an available driver with reported
// coordinates can be reserved); the trip side effects StartTrip and Release
// follow the assigned job's lifecycle and are applied unconditionally.
package driver
