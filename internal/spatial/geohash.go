package spatial

import (
	"github.com/mmcloughlin/geohash"

	"github.com/jengzang/kerbside-backend-go/internal/models"
)

// EncodeGeohash encodes a point into a geohash string
// precision: number of characters in the geohash (1-12)
func EncodeGeohash(p models.GeoPoint, precision int) string {
	return geohash.EncodeWithPrecision(p.Lat, p.Lon, uint(clampPrecision(precision)))
}

// GeohashBox returns the bounding box of a geohash cell
func GeohashBox(hash string) Box {
	b := geohash.BoundingBox(hash)
	return Box{
		Min: models.GeoPoint{Lat: b.MinLat, Lon: b.MinLng},
		Max: models.GeoPoint{Lat: b.MaxLat, Lon: b.MaxLng},
	}
}

func clampPrecision(precision int) int {
	if precision < 1 {
		return 1
	}
	if precision > 12 {
		return 12
	}
	return precision
}
