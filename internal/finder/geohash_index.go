package finder

import (
	"math"
	"sort"
	"sync"

	"github.com/jengzang/kerbside-backend-go/internal/models"
	"github.com/jengzang/kerbside-backend-go/internal/spatial"
)

// DefaultGeohashPrecision gives cells of roughly 1.2 km x 0.6 km
const DefaultGeohashPrecision = 6

// pruneSlackMeters absorbs rounding differences between the cell lower bound and the haversine distance
const pruneSlackMeters = 1e-3

type bucket struct {
	box     spatial.Box
	members []int // snapshot indices of available bays, ascending
}

// GeohashIndex groups the available bays of a snapshot by geohash cell and
// visits cells in order of their distance to the destination, stopping once
// no remaining cell can hold a closer bay.
// The index is built lazily for the most recent snapshot it was asked about.
type GeohashIndex struct {
	precision int

	mu      sync.Mutex
	snap    *models.Snapshot
	buckets []*bucket
}

// NewGeohashIndex creates a geohash-bucketed finder
func NewGeohashIndex(precision int) *GeohashIndex {
	return &GeohashIndex{precision: precision}
}

// FindNearest implements Finder
func (g *GeohashIndex) FindNearest(dest models.GeoPoint, snap *models.Snapshot) (models.NearestResult, error) {
	if err := dest.Validate(); err != nil {
		return models.NotFound(), err
	}

	buckets := g.bucketsFor(snap)
	if len(buckets) == 0 {
		return models.NotFound(), nil
	}

	type candidate struct {
		b          *bucket
		lowerBound float64
	}
	cands := make([]candidate, len(buckets))
	for i, b := range buckets {
		cands[i] = candidate{b: b, lowerBound: b.box.DistanceTo(dest)}
	}
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].lowerBound < cands[j].lowerBound
	})

	best := models.NotFound()
	bestDist := math.Inf(1)

	for _, c := range cands {
		if c.lowerBound > bestDist+pruneSlackMeters {
			break
		}
		for _, i := range c.b.members {
			rec := snap.At(i)
			d := spatial.HaversineDistance(dest, rec.Position)
			if d < bestDist || (d == bestDist && i < best.Index) {
				bestDist = d
				best = found(rec, i, d)
			}
		}
	}

	return best, nil
}

func (g *GeohashIndex) bucketsFor(snap *models.Snapshot) []*bucket {
	g.mu.Lock()
	defer g.mu.Unlock()

	if snap == g.snap && g.buckets != nil {
		return g.buckets
	}

	byHash := make(map[string]*bucket)
	var ordered []*bucket
	for i := 0; i < snap.Len(); i++ {
		rec := snap.At(i)
		if !rec.IsAvailable() {
			continue
		}
		h := spatial.EncodeGeohash(rec.Position, g.precision)
		b, ok := byHash[h]
		if !ok {
			b = &bucket{box: spatial.GeohashBox(h)}
			byHash[h] = b
			ordered = append(ordered, b)
		}
		b.members = append(b.members, i)
	}
	if ordered == nil {
		ordered = []*bucket{}
	}

	g.snap = snap
	g.buckets = ordered
	return ordered
}
