// Package grid builds the local availability grid around a destination.
package grid

import (
	"fmt"
	"math"

	"github.com/jengzang/kerbside-backend-go/internal/models"
	"github.com/jengzang/kerbside-backend-go/internal/spatial"
)

// Grid geometry defaults
const (
	DefaultCellSizeMeters = 300.0
	DefaultRadiusCells    = 1

	// MaxRadiusCells caps the grid at 51 x 51 cells
	MaxRadiusCells = 25
)

// Level thresholds on the free/total ratio
const (
	highAbove = 0.5 // ratio > 0.5 is High, exactly 0.5 is Mid
	lowBelow  = 0.2 // ratio < 0.2 is Low, exactly 0.2 is Mid
)

// Options controls the grid geometry
type Options struct {
	CellSizeMeters float64
	RadiusCells    int
}

// DefaultOptions returns a 3x3 grid of 300 m cells
func DefaultOptions() Options {
	return Options{CellSizeMeters: DefaultCellSizeMeters, RadiusCells: DefaultRadiusCells}
}

// Validate checks the grid geometry
func (o Options) Validate() error {
	if math.IsNaN(o.CellSizeMeters) || math.IsInf(o.CellSizeMeters, 0) || o.CellSizeMeters <= 0 {
		return fmt.Errorf("%w: cell size %v m", models.ErrInvalidInput, o.CellSizeMeters)
	}
	if o.RadiusCells < 0 || o.RadiusCells > MaxRadiusCells {
		return fmt.Errorf("%w: grid radius %d cells", models.ErrInvalidInput, o.RadiusCells)
	}
	return nil
}

// CellCount returns the number of cells Build produces, (2r+1)²
func (o Options) CellCount() int {
	side := 2*o.RadiusCells + 1
	return side * side
}

// Classify maps a free/total ratio to an availability level.
// A nil ratio means the cell holds no bays.
func Classify(ratio *float64) models.AvailabilityLevel {
	switch {
	case ratio == nil:
		return models.LevelNoData
	case *ratio > highAbove:
		return models.LevelHigh
	case *ratio >= lowBelow:
		return models.LevelMid
	default:
		return models.LevelLow
	}
}

// Build partitions the neighbourhood of center into (2r+1)² square cells and
// counts the bays of snap inside each one.
//
// Cell (gx, gy) spans [center.Lat + gy*dLat, center.Lat + (gy+1)*dLat] by
// [center.Lon + gx*dLon, center.Lon + (gx+1)*dLon]. Cells are returned row-major,
// gy ascending then gx ascending.
//
// Cell boxes are closed, so a bay lying exactly on an edge shared by two cells
// is counted in both. This double counting is a known approximation.
//
// When the longitude scale collapses (cos(lat) near zero) no cell has a finite
// width; every cell is then returned with a zero-width longitude span and NoData.
//
// Build only reads snap and keeps no state between calls.
func Build(center models.GeoPoint, snap *models.Snapshot, opts Options) ([]models.GridCell, error) {
	if err := center.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	r := opts.RadiusCells
	dLat := spatial.MetersToLatDegrees(opts.CellSizeMeters)
	dLon, lonOK := spatial.MetersToLonDegrees(opts.CellSizeMeters, center.Lat)

	cells := make([]models.GridCell, 0, opts.CellCount())
	for gy := -r; gy <= r; gy++ {
		lat1 := center.Lat + float64(gy)*dLat
		lat2 := center.Lat + float64(gy+1)*dLat

		for gx := -r; gx <= r; gx++ {
			cell := models.GridCell{GX: gx, GY: gy, Level: models.LevelNoData}

			if !lonOK {
				box := spatial.NewBox(
					models.GeoPoint{Lat: lat1, Lon: center.Lon},
					models.GeoPoint{Lat: lat2, Lon: center.Lon},
				)
				cell.Bounds = [2]models.GeoPoint{box.Min, box.Max}
				cells = append(cells, cell)
				continue
			}

			box := spatial.NewBox(
				models.GeoPoint{Lat: lat1, Lon: center.Lon + float64(gx)*dLon},
				models.GeoPoint{Lat: lat2, Lon: center.Lon + float64(gx+1)*dLon},
			)
			cell.Bounds = [2]models.GeoPoint{box.Min, box.Max}

			for i := 0; i < snap.Len(); i++ {
				rec := snap.At(i)
				if !box.Contains(rec.Position) {
					continue
				}
				cell.TotalCount++
				if rec.IsAvailable() {
					cell.FreeCount++
				}
			}

			if cell.TotalCount > 0 {
				ratio := float64(cell.FreeCount) / float64(cell.TotalCount)
				cell.Ratio = &ratio
			}
			cell.Level = Classify(cell.Ratio)

			cells = append(cells, cell)
		}
	}

	return cells, nil
}
