package spatial

import (
	"math"

	"github.com/golang/geo/s2"

	"github.com/jengzang/kerbside-backend-go/internal/models"
)

// Constants
const (
	EarthRadiusMeters = 6371000.0 // Earth's mean radius in meters

	// MetersPerDegreeLat is a fixed mid-latitude approximation, not a geodesic inverse
	MetersPerDegreeLat = 111111.0

	// minCosLat bounds the longitude scale factor near the poles
	minCosLat = 1e-9
)

// HaversineDistance calculates the great-circle distance between two points in meters.
// s2 evaluates the haversine as atan2(sqrt(x), sqrt(max(0, 1-x))), which stays finite
// for coincident and near-antipodal points.
func HaversineDistance(p1, p2 models.GeoPoint) float64 {
	a := s2.LatLngFromDegrees(p1.Lat, p1.Lon)
	b := s2.LatLngFromDegrees(p2.Lat, p2.Lon)
	return a.Distance(b).Radians() * EarthRadiusMeters
}

// MetersToLatDegrees converts a north-south distance to degrees of latitude
func MetersToLatDegrees(m float64) float64 {
	return m / MetersPerDegreeLat
}

// MetersToLonDegrees converts an east-west distance to degrees of longitude at the given latitude.
// ok is false when cos(latitude) collapses towards zero and no finite width exists.
func MetersToLonDegrees(m, atLatDegrees float64) (deg float64, ok bool) {
	c := math.Cos(atLatDegrees * math.Pi / 180)
	if math.Abs(c) < minCosLat {
		return 0, false
	}
	deg = m / (MetersPerDegreeLat * c)
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return 0, false
	}
	return deg, true
}
