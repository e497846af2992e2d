package models

import "strings"

// BayStatus is the normalized occupancy state of a bay
type BayStatus string

const (
	StatusOccupied  BayStatus = "occupied"
	StatusAvailable BayStatus = "available"
	StatusUnknown   BayStatus = "unknown"
)

// ParseBayStatus normalizes the free-text sensor status.
// "present" means a vehicle is over the sensor, "unoccupied" means the bay is free.
func ParseBayStatus(text string) BayStatus {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "present":
		return StatusOccupied
	case "unoccupied":
		return StatusAvailable
	default:
		return StatusUnknown
	}
}

// BayRecord represents one observed parking bay in a snapshot.
// Only records with a valid Position ever reach a Snapshot.
type BayRecord struct {
	ID         string    `json:"id,omitempty" db:"kerbside_id"` // empty when the sensor feed has no id
	Position   GeoPoint  `json:"position"`
	Status     BayStatus `json:"status"`
	StatusText string    `json:"status_text,omitempty" db:"status_description"`
	// StatusTime is the sensor's own timestamp, passed through as text
	StatusTime string    `json:"status_time,omitempty" db:"status_timestamp"`

	// Display-only metadata
	StreetOn   string `json:"street_on,omitempty" db:"on_street"`
	StreetFrom string `json:"street_from,omitempty" db:"street_from"`
	StreetTo   string `json:"street_to,omitempty" db:"street_to"`
	Zone       string `json:"zone,omitempty" db:"zone_number"`
	SegmentID  string `json:"segment_id,omitempty" db:"road_segment_id"`
}

// HasID reports whether the feed supplied an identifier
func (b BayRecord) HasID() bool {
	return b.ID != ""
}

// IsAvailable reports whether the bay is free
func (b BayRecord) IsAvailable() bool {
	return b.Status == StatusAvailable
}

// RawBay is an unvalidated row as delivered by a data source.
// Coordinates are kept as text so that parsing failures can be told apart from zero values.
type RawBay struct {
	ID         string
	Latitude   string
	Longitude  string
	Status     string
	StatusTime string
	StreetOn   string
	StreetFrom string
	StreetTo   string
	Zone       string
	SegmentID  string
}
