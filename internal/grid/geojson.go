package grid

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/jengzang/kerbside-backend-go/internal/models"
)

// LevelColor returns the fill color used for a level on the map
func LevelColor(level models.AvailabilityLevel) string {
	switch level {
	case models.LevelHigh:
		return "#3cb371"
	case models.LevelMid:
		return "#ffd166"
	case models.LevelLow:
		return "#ef476f"
	default:
		return "#cccccc"
	}
}

// FeatureCollection renders grid cells as GeoJSON polygons, in grid order.
// The destination and the nearest bay, when present, are appended as point features.
func FeatureCollection(cells []models.GridCell, dest *models.GeoPoint, nearest *models.NearestResult) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, c := range cells {
		bound := orb.Bound{
			Min: orb.Point{c.MinLon(), c.MinLat()},
			Max: orb.Point{c.MaxLon(), c.MaxLat()},
		}
		f := geojson.NewFeature(bound.ToPolygon())
		f.Properties["kind"] = "cell"
		f.Properties["gx"] = c.GX
		f.Properties["gy"] = c.GY
		f.Properties["free"] = c.FreeCount
		f.Properties["total"] = c.TotalCount
		if c.Ratio != nil {
			f.Properties["ratio"] = *c.Ratio
		} else {
			f.Properties["ratio"] = nil
		}
		f.Properties["level"] = string(c.Level)
		f.Properties["color"] = LevelColor(c.Level)
		fc.Append(f)
	}

	if dest != nil {
		f := geojson.NewFeature(orb.Point{dest.Lon, dest.Lat})
		f.Properties["kind"] = "destination"
		fc.Append(f)
	}

	if nearest != nil && nearest.Found && nearest.Bay != nil {
		bay := nearest.Bay
		f := geojson.NewFeature(orb.Point{bay.Position.Lon, bay.Position.Lat})
		f.Properties["kind"] = "nearest"
		f.Properties["id"] = bay.ID
		f.Properties["status"] = string(bay.Status)
		f.Properties["street"] = bay.StreetOn
		f.Properties["distance_meters"] = nearest.DistanceMeters
		fc.Append(f)
	}

	return fc
}
