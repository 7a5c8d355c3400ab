package http

import "time"

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type geoPointBody struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type createJobRequest struct {
	CustomerID     string        `json:"customer_id"`
	PickupAddress  string        `json:"pickup_address"`
	DropoffAddress string        `json:"dropoff_address"`
	Pickup         *geoPointBody `json:"pickup,omitempty"`
	ScheduledFor   *time.Time    `json:"scheduled_for,omitempty"`
}

type assignJobRequest struct {
	DriverID *string `json:"driver_id,omitempty"`
}

type updateJobStatusRequest struct {
	Status string `json:"status"`
}

type updateDriverLocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type jobResponse struct {
	ID               string        `json:"id"`
	CustomerID       string        `json:"customer_id"`
	PickupAddress    string        `json:"pickup_address"`
	DropoffAddress   string        `json:"dropoff_address"`
	Status           string        `json:"status"`
	Pickup           *geoPointBody `json:"pickup,omitempty"`
	ScheduledFor     *time.Time    `json:"scheduled_for,omitempty"`
	AssignedDriverID *string       `json:"assigned_driver_id,omitempty"`
}

type driverResponse struct {
	ID        string        `json:"id"`
	FirstName string        `json:"first_name"`
	LastName  string        `json:"last_name"`
	Phone     string        `json:"phone"`
	Status    string        `json:"status"`
	Location  *geoPointBody `json:"location,omitempty"`
	LastGPSAt *time.Time    `json:"last_gps_at,omitempty"`
}
