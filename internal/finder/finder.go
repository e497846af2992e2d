// Package finder locates the available bay closest to a destination.
//
// Every Finder must give the same answer for the same snapshot and destination:
// the available record with the smallest haversine distance, with exact ties
// resolved to the record that comes first in snapshot order. Linear scans the
// snapshot; GeohashIndex buckets it by geohash cell and prunes by cell distance.
// Callers depend only on the Finder interface, so an index can be swapped in
// through configuration without touching them.
package finder

import (
	"fmt"
	"math"

	"github.com/jengzang/kerbside-backend-go/internal/models"
	"github.com/jengzang/kerbside-backend-go/internal/spatial"
)

// Finder kinds accepted by New
const (
	KindLinear  = "linear"
	KindGeohash = "geohash"
)

// Finder returns the nearest available bay, or a NotFound result when the snapshot has none.
// The only error is models.ErrInvalidInput for a destination that is not a finite coordinate.
type Finder interface {
	FindNearest(dest models.GeoPoint, snap *models.Snapshot) (models.NearestResult, error)
}

// New creates a finder by kind
func New(kind string) (Finder, error) {
	switch kind {
	case "", KindLinear:
		return NewLinear(), nil
	case KindGeohash:
		return NewGeohashIndex(DefaultGeohashPrecision), nil
	default:
		return nil, fmt.Errorf("unknown finder kind %q", kind)
	}
}

// Linear scans every record of the snapshot, O(n) per query
type Linear struct{}

// NewLinear creates a linear finder
func NewLinear() *Linear {
	return &Linear{}
}

// FindNearest implements Finder
func (f *Linear) FindNearest(dest models.GeoPoint, snap *models.Snapshot) (models.NearestResult, error) {
	if err := dest.Validate(); err != nil {
		return models.NotFound(), err
	}

	best := models.NotFound()
	bestDist := math.Inf(1)

	for i := 0; i < snap.Len(); i++ {
		rec := snap.At(i)
		if !rec.IsAvailable() {
			continue
		}
		// strict less keeps the first of equally distant records
		if d := spatial.HaversineDistance(dest, rec.Position); d < bestDist {
			bestDist = d
			best = found(rec, i, d)
		}
	}

	return best, nil
}

func found(rec models.BayRecord, index int, dist float64) models.NearestResult {
	return models.NearestResult{
		Found:          true,
		Bay:            &rec,
		DistanceMeters: dist,
		Index:          index,
	}
}
