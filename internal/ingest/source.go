// Package ingest loads raw bay rows from a data source and turns them into snapshots.
package ingest

import (
	"context"

	"github.com/jengzang/kerbside-backend-go/internal/models"
)

// Source delivers the full set of bay rows on every poll
type Source interface {
	Fetch(ctx context.Context) (models.Batch, error)
}

// Column names used by the city sensor export
const (
	ColID         = "KerbsideID"
	ColStatus     = "Status_Description"
	ColStatusTime = "Status_Timestamp"
	ColStreetOn   = "OnStreet"
	ColStreetFrom = "StreetFrom"
	ColStreetTo   = "StreetTo"
	ColZone       = "Zone_Number"
	ColSegmentID  = "RoadSegmentID"
	ColLatitude   = "latitude"
	ColLongitude  = "longitude"
)
