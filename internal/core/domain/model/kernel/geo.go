package kernel

import (
	"errors"
	"fmt"
	"math"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	// MinLatitude is the southernmost valid latitude in decimal degrees.
	MinLatitude = -90.0
	// MaxLatitude is the northernmost valid latitude in decimal degrees.
	MaxLatitude = 90.0
	// MinLongitude is the westernmost valid longitude in decimal degrees.
	MinLongitude = -180.0
	// MaxLongitude is the easternmost valid longitude in decimal degrees.
	MaxLongitude = 180.0

	// earthRadiusKm is the mean Earth radius used by the haversine formula.
	earthRadiusKm = 6371.0
)

// ErrGeoPointIsNotConstructed is returned when attempting to use an improperly initialized GeoPoint.
// GeoPoints must be created using the NewGeoPoint constructor to ensure validity.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via NewGeoPoint constructor")

// GeoPoint represents a geographic position as a latitude/longitude pair in
// decimal degrees. It is an immutable value object that ensures coordinates
// are always within valid ranges. The zero value is invalid and fails
// validation - use the constructor to create instances.
//
// Example:
//
//	pickup, err := kernel.NewGeoPoint(51.5074, -0.1278)
//	if err != nil {
//	    // Handle validation error
//	}
//	km := pickup.DistanceTo(driverPos)
type GeoPoint struct { //nolint:recvcheck //using for validation
	latitude  float64
	longitude float64
	guard     guard.ConstructorGuard
}

// NewGeoPoint creates a new GeoPoint with the specified coordinates.
// Latitude must be within [-90, 90] and longitude within [-180, 180],
// and both must be finite. Returns an error otherwise.
func NewGeoPoint(latitude, longitude float64) (GeoPoint, error) {
	p := GeoPoint{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(p.setLatitude(latitude), p.setLongitude(longitude)); err != nil {
		return GeoPoint{}, err
	}

	return p, nil
}

// Latitude returns the latitude in decimal degrees.
func (p GeoPoint) Latitude() float64 {
	return p.latitude
}

// Longitude returns the longitude in decimal degrees.
func (p GeoPoint) Longitude() float64 {
	return p.longitude
}

// IsEqual compares two geo points by coordinates.
func (p GeoPoint) IsEqual(other GeoPoint) bool {
	return p.latitude == other.latitude && p.longitude == other.longitude
}

// Validate checks that the GeoPoint was created through its constructor.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// String returns a human-readable "(lat,lon)" representation.
func (p GeoPoint) String() string {
	return fmt.Sprintf("(%.7f,%.7f)", p.latitude, p.longitude)
}

// DistanceTo returns the great-circle distance to another point in
// kilometers, computed with the haversine formula over a mean Earth radius
// of 6371 km. It is a pure function with no failure modes for points that
// passed construction validation.
func (p GeoPoint) DistanceTo(other GeoPoint) float64 {
	dLat := toRadians(other.latitude - p.latitude)
	dLon := toRadians(other.longitude - p.longitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(p.latitude))*math.Cos(toRadians(other.latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

func (p *GeoPoint) setLatitude(latitude float64) error {
	if math.IsNaN(latitude) || math.IsInf(latitude, 0) {
		return errs.NewValueIsInvalidError("latitude")
	}
	if latitude < MinLatitude || latitude > MaxLatitude {
		return errs.NewValueIsOutOfRangeError("latitude", latitude, MinLatitude, MaxLatitude)
	}
	p.latitude = latitude
	return nil
}

func (p *GeoPoint) setLongitude(longitude float64) error {
	if math.IsNaN(longitude) || math.IsInf(longitude, 0) {
		return errs.NewValueIsInvalidError("longitude")
	}
	if longitude < MinLongitude || longitude > MaxLongitude {
		return errs.NewValueIsOutOfRangeError("longitude", longitude, MinLongitude, MaxLongitude)
	}
	p.longitude = longitude
	return nil
}
