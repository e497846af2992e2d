package finder

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/jengzang/kerbside-backend-go/internal/models"
	"github.com/jengzang/kerbside-backend-go/internal/spatial"
)

var melbourne = models.GeoPoint{Lat: -37.8136, Lon: 144.9631}

func bay(id string, lat, lon float64, status models.BayStatus) models.BayRecord {
	return models.BayRecord{ID: id, Position: models.GeoPoint{Lat: lat, Lon: lon}, Status: status}
}

func north(p models.GeoPoint, meters float64) models.GeoPoint {
	return models.GeoPoint{Lat: p.Lat + spatial.MetersToLatDegrees(meters), Lon: p.Lon}
}

func finders() map[string]Finder {
	return map[string]Finder{
		KindLinear:  NewLinear(),
		KindGeohash: NewGeohashIndex(DefaultGeohashPrecision),
	}
}

func TestFindNearestScenario(t *testing.T) {
	near := north(melbourne, 50)
	far := north(melbourne, 5000)
	occupied := north(melbourne, 10)

	snap := models.NewSnapshot([]models.BayRecord{
		bay("far", far.Lat, far.Lon, models.StatusAvailable),
		bay("occupied", occupied.Lat, occupied.Lon, models.StatusOccupied),
		bay("near", near.Lat, near.Lon, models.StatusAvailable),
	}, time.Now())

	for name, f := range finders() {
		t.Run(name, func(t *testing.T) {
			res, err := f.FindNearest(melbourne, snap)
			if err != nil {
				t.Fatalf("FindNearest() error = %v", err)
			}
			if !res.Found || res.Bay.ID != "near" {
				t.Fatalf("expected the 50 m bay, got %+v", res)
			}
			if math.Abs(res.DistanceMeters-50) > 0.5 {
				t.Errorf("distance = %v, want about 50", res.DistanceMeters)
			}
			if res.Index != 2 {
				t.Errorf("index = %d, want 2", res.Index)
			}
		})
	}
}

func TestFindNearestNotFound(t *testing.T) {
	allOccupied := models.NewSnapshot([]models.BayRecord{
		bay("a", -37.81, 144.96, models.StatusOccupied),
		bay("b", -37.82, 144.97, models.StatusUnknown),
	}, time.Now())

	snapshots := map[string]*models.Snapshot{
		"nil":          nil,
		"empty":        models.NewSnapshot(nil, time.Now()),
		"all occupied": allOccupied,
	}

	for name, f := range finders() {
		for snapName, snap := range snapshots {
			t.Run(name+"/"+snapName, func(t *testing.T) {
				res, err := f.FindNearest(melbourne, snap)
				if err != nil {
					t.Fatalf("FindNearest() error = %v", err)
				}
				if res.Found || res.Bay != nil || res.Index != -1 {
					t.Errorf("expected NotFound, got %+v", res)
				}
			})
		}
	}
}

func TestFindNearestTieBreaksBySnapshotOrder(t *testing.T) {
	p := north(melbourne, 100)
	snap := models.NewSnapshot([]models.BayRecord{
		bay("occupied-same-spot", p.Lat, p.Lon, models.StatusOccupied),
		bay("first", p.Lat, p.Lon, models.StatusAvailable),
		bay("second", p.Lat, p.Lon, models.StatusAvailable),
	}, time.Now())

	for name, f := range finders() {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 3; i++ {
				res, _ := f.FindNearest(melbourne, snap)
				if res.Bay == nil || res.Bay.ID != "first" {
					t.Fatalf("run %d: expected first, got %+v", i, res)
				}
			}
		})
	}
}

func TestFindNearestInvalidDestination(t *testing.T) {
	snap := models.NewSnapshot([]models.BayRecord{bay("a", -37.81, 144.96, models.StatusAvailable)}, time.Now())
	bad := []models.GeoPoint{
		{Lat: math.NaN(), Lon: 144.96},
		{Lat: -37.81, Lon: math.Inf(1)},
		{Lat: 91, Lon: 0},
	}

	for name, f := range finders() {
		for _, dest := range bad {
			_, err := f.FindNearest(dest, snap)
			if !errors.Is(err, models.ErrInvalidInput) {
				t.Errorf("%s: FindNearest(%v) error = %v, want ErrInvalidInput", name, dest, err)
			}
		}
	}
}

func TestGeohashIndexMatchesLinear(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	records := make([]models.BayRecord, 0, 2000)
	for i := 0; i < 2000; i++ {
		status := models.StatusOccupied
		if rng.Intn(4) == 0 {
			status = models.StatusAvailable
		}
		records = append(records, bay("", -37.83+rng.Float64()*0.05, 144.93+rng.Float64()*0.07, status))
	}
	snap := models.NewSnapshot(records, time.Now())

	linear := NewLinear()
	index := NewGeohashIndex(DefaultGeohashPrecision)

	for i := 0; i < 200; i++ {
		dest := models.GeoPoint{Lat: -37.86 + rng.Float64()*0.11, Lon: 144.90 + rng.Float64()*0.13}
		want, _ := linear.FindNearest(dest, snap)
		got, _ := index.FindNearest(dest, snap)
		if got.Index != want.Index {
			t.Fatalf("dest %v: index picked %d (%.3f m), linear picked %d (%.3f m)",
				dest, got.Index, got.DistanceMeters, want.Index, want.DistanceMeters)
		}
	}
}

func TestFindNearestIdempotent(t *testing.T) {
	snap := models.NewSnapshot([]models.BayRecord{
		bay("a", -37.8120, 144.9640, models.StatusAvailable),
		bay("b", -37.8150, 144.9610, models.StatusOccupied),
		bay("c", -37.8100, 144.9700, models.StatusAvailable),
	}, time.Now())

	sameResult := func(x, y models.NearestResult) bool {
		if x.Found != y.Found || x.Index != y.Index || x.DistanceMeters != y.DistanceMeters {
			return false
		}
		return (x.Bay == nil) == (y.Bay == nil) && (x.Bay == nil || *x.Bay == *y.Bay)
	}

	for name, f := range finders() {
		t.Run(name, func(t *testing.T) {
			first, err := f.FindNearest(melbourne, snap)
			if err != nil {
				t.Fatal(err)
			}
			for i := 0; i < 3; i++ {
				again, err := f.FindNearest(melbourne, snap)
				if err != nil {
					t.Fatal(err)
				}
				if !sameResult(first, again) {
					t.Fatalf("call %d: got %+v, first call gave %+v", i+2, again, first)
				}
			}
			if snap.Len() != 3 || snap.At(0).ID != "a" {
				t.Error("snapshot changed by FindNearest")
			}
		})
	}

	// second call runs against the already built buckets
	index := NewGeohashIndex(DefaultGeohashPrecision)
	first, _ := index.FindNearest(melbourne, snap)
	if index.snap != snap || index.buckets == nil {
		t.Fatal("index not cached after first call")
	}
	cached := index.buckets
	again, _ := index.FindNearest(melbourne, snap)
	if !sameResult(first, again) {
		t.Errorf("cached index: got %+v, want %+v", again, first)
	}
	if len(index.buckets) != len(cached) || &index.buckets[0] != &cached[0] {
		t.Error("buckets rebuilt for the same snapshot")
	}
}

func TestGeohashIndexFollowsSnapshotReplacement(t *testing.T) {
	index := NewGeohashIndex(DefaultGeohashPrecision)

	first := models.NewSnapshot([]models.BayRecord{bay("old", -37.81, 144.96, models.StatusAvailable)}, time.Now())
	second := models.NewSnapshot([]models.BayRecord{bay("new", -37.81, 144.96, models.StatusAvailable)}, time.Now())

	if res, _ := index.FindNearest(melbourne, first); res.Bay == nil || res.Bay.ID != "old" {
		t.Fatalf("first snapshot: got %+v", res)
	}
	if res, _ := index.FindNearest(melbourne, second); res.Bay == nil || res.Bay.ID != "new" {
		t.Fatalf("second snapshot: got %+v", res)
	}
}

func TestNew(t *testing.T) {
	for _, kind := range []string{"", KindLinear, KindGeohash} {
		if _, err := New(kind); err != nil {
			t.Errorf("New(%q) error = %v", kind, err)
		}
	}
	if _, err := New("kdtree"); err == nil {
		t.Error("New(kdtree) should fail")
	}
}
