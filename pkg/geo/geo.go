// Package geo provides great-circle distance between report coordinates.
package geo

import (
	"fmt"
	"math"

	errs "lostfound-matching/pkg/errors"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate rejects coordinates outside the valid degree ranges.
func Validate(p Point) error {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) {
		return errs.NewInvalidInput("geo.Validate", "coordinate is NaN", nil)
	}
	if p.Lat < -90 || p.Lat > 90 {
		return errs.NewInvalidInput("geo.Validate", fmt.Sprintf("latitude %v out of range [-90, 90]", p.Lat), nil)
	}
	if p.Lng < -180 || p.Lng > 180 {
		return errs.NewInvalidInput("geo.Validate", fmt.Sprintf("longitude %v out of range [-180, 180]", p.Lng), nil)
	}
	return nil
}

// DistanceKm returns the haversine distance between two points in
// kilometers. Coordinates are validated before any trigonometry runs.
// Symmetric; 0 for identical points.
func DistanceKm(p1, p2 Point) (float64, error) {
	if err := Validate(p1); err != nil {
		return 0, err
	}
	if err := Validate(p2); err != nil {
		return 0, err
	}
	return distance(p1, p2), nil
}

func distance(p1, p2 Point) float64 {
	dLat := radians(p2.Lat - p1.Lat)
	dLng := radians(p2.Lng - p1.Lng)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(p1.Lat))*math.Cos(radians(p2.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	// Rounding can push a marginally outside [0, 1]; clamp so the square
	// roots stay in domain for identical and antipodal points.
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
