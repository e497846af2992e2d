package models

import (
	"fmt"
	"math"
)

// GeoPoint represents a WGS84 coordinate in decimal degrees
type GeoPoint struct {
	Lat float64 `json:"lat" form:"lat"`
	Lon float64 `json:"lon" form:"lon"`
}

// Valid reports whether both coordinates are finite and inside the lat/lon ranges
func (p GeoPoint) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lon, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// Validate returns ErrInvalidInput when the point cannot take part in distance math
func (p GeoPoint) Validate() error {
	if !p.Valid() {
		return fmt.Errorf("%w: coordinate (%v, %v)", ErrInvalidInput, p.Lat, p.Lon)
	}
	return nil
}

func (p GeoPoint) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", p.Lat, p.Lon)
}
