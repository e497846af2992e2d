package models

// AvailabilityLevel is the discretized free/total ratio of a grid cell
type AvailabilityLevel string

const (
	LevelHigh   AvailabilityLevel = "high"
	LevelMid    AvailabilityLevel = "mid"
	LevelLow    AvailabilityLevel = "low"
	LevelNoData AvailabilityLevel = "na"
)

// GridCell represents one square cell of an availability grid.
// Cells are derived per query and never persisted.
type GridCell struct {
	// Grid offsets from the center cell, both in [-radius, radius]
	GX int `json:"gx"`
	GY int `json:"gy"`

	// Bounding box, south-west and north-east corners
	Bounds [2]GeoPoint `json:"bounds"`

	FreeCount  int               `json:"free_count"`
	TotalCount int               `json:"total_count"`
	Ratio      *float64          `json:"ratio"` // nil iff TotalCount == 0
	Level      AvailabilityLevel `json:"level"`
}

// MinLat returns the southern edge
func (c GridCell) MinLat() float64 { return c.Bounds[0].Lat }

// MaxLat returns the northern edge
func (c GridCell) MaxLat() float64 { return c.Bounds[1].Lat }

// MinLon returns the western edge
func (c GridCell) MinLon() float64 { return c.Bounds[0].Lon }

// MaxLon returns the eastern edge
func (c GridCell) MaxLon() float64 { return c.Bounds[1].Lon }
