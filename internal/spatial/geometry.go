package spatial

import (
	"github.com/golang/geo/r1"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"

	"github.com/jengzang/kerbside-backend-go/internal/models"
)

// Box is a closed latitude/longitude box in decimal degrees.
// Both edges are inclusive, so a point on a shared edge belongs to both neighbours.
type Box struct {
	Min models.GeoPoint `json:"min"` // south-west corner
	Max models.GeoPoint `json:"max"` // north-east corner
}

// NewBox builds a box from two opposite corners given in any order
func NewBox(a, b models.GeoPoint) Box {
	return Box{
		Min: models.GeoPoint{Lat: min(a.Lat, b.Lat), Lon: min(a.Lon, b.Lon)},
		Max: models.GeoPoint{Lat: max(a.Lat, b.Lat), Lon: max(a.Lon, b.Lon)},
	}
}

// Contains reports whether p lies inside or on the edge of the box
func (b Box) Contains(p models.GeoPoint) bool {
	return p.Lat >= b.Min.Lat && p.Lat <= b.Max.Lat &&
		p.Lon >= b.Min.Lon && p.Lon <= b.Max.Lon
}

// Rect converts the box to an s2 rectangle
func (b Box) Rect() s2.Rect {
	lo := s2.LatLngFromDegrees(b.Min.Lat, b.Min.Lon)
	hi := s2.LatLngFromDegrees(b.Max.Lat, b.Max.Lon)
	return s2.Rect{
		Lat: r1.Interval{Lo: lo.Lat.Radians(), Hi: hi.Lat.Radians()},
		Lng: s1.IntervalFromEndpoints(lo.Lng.Radians(), hi.Lng.Radians()),
	}
}

// DistanceTo returns the minimum surface distance in meters from p to the box, zero when inside
func (b Box) DistanceTo(p models.GeoPoint) float64 {
	if b.Contains(p) {
		return 0
	}
	ll := s2.LatLngFromDegrees(p.Lat, p.Lon)
	return b.Rect().DistanceToLatLng(ll).Radians() * EarthRadiusMeters
}

// BoundingBox calculates the bounding box of a set of points, false for an empty set
func BoundingBox(points []models.GeoPoint) (Box, bool) {
	if len(points) == 0 {
		return Box{}, false
	}

	box := Box{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box.Min.Lat = min(box.Min.Lat, p.Lat)
		box.Min.Lon = min(box.Min.Lon, p.Lon)
		box.Max.Lat = max(box.Max.Lat, p.Lat)
		box.Max.Lon = max(box.Max.Lon, p.Lon)
	}

	return box, true
}
