package spatial

import (
	"testing"

	"github.com/jengzang/kerbside-backend-go/internal/models"
)

func TestBoxContainsEdges(t *testing.T) {
	box := NewBox(models.GeoPoint{Lat: -37.82, Lon: 144.97}, models.GeoPoint{Lat: -37.81, Lon: 144.96})

	tests := []struct {
		name string
		p    models.GeoPoint
		want bool
	}{
		{"interior", models.GeoPoint{Lat: -37.815, Lon: 144.965}, true},
		{"south edge", models.GeoPoint{Lat: -37.82, Lon: 144.965}, true},
		{"north edge", models.GeoPoint{Lat: -37.81, Lon: 144.965}, true},
		{"west edge", models.GeoPoint{Lat: -37.815, Lon: 144.96}, true},
		{"corner", models.GeoPoint{Lat: -37.81, Lon: 144.97}, true},
		{"outside north", models.GeoPoint{Lat: -37.80, Lon: 144.965}, false},
		{"outside east", models.GeoPoint{Lat: -37.815, Lon: 144.98}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := box.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestBoxDistanceTo(t *testing.T) {
	box := NewBox(models.GeoPoint{Lat: 0, Lon: 0}, models.GeoPoint{Lat: 1, Lon: 1})

	if d := box.DistanceTo(models.GeoPoint{Lat: 0.5, Lon: 0.5}); d != 0 {
		t.Errorf("inside point: got %v, want 0", d)
	}

	p := models.GeoPoint{Lat: 2, Lon: 0.5}
	want := HaversineDistance(p, models.GeoPoint{Lat: 1, Lon: 0.5})
	if d := box.DistanceTo(p); d > want+1e-6 || d < want-1 {
		t.Errorf("outside point: got %v, want about %v", d, want)
	}
}

func TestBoundingBox(t *testing.T) {
	if _, ok := BoundingBox(nil); ok {
		t.Fatal("empty set should report no box")
	}

	box, ok := BoundingBox([]models.GeoPoint{
		{Lat: -37.81, Lon: 144.97},
		{Lat: -37.83, Lon: 144.95},
		{Lat: -37.80, Lon: 144.96},
	})
	if !ok {
		t.Fatal("expected a box")
	}
	if box.Min != (models.GeoPoint{Lat: -37.83, Lon: 144.95}) || box.Max != (models.GeoPoint{Lat: -37.80, Lon: 144.97}) {
		t.Errorf("got %+v", box)
	}
}

func TestGeohash(t *testing.T) {
	p := models.GeoPoint{Lat: 57.64911, Lon: 10.40744}
	if got := EncodeGeohash(p, 11); got != "u4pruydqqvj" {
		t.Errorf("EncodeGeohash() = %q, want u4pruydqqvj", got)
	}

	for _, precision := range []int{4, 6, 8} {
		h := EncodeGeohash(p, precision)
		if len(h) != precision {
			t.Fatalf("precision %d: got %q", precision, h)
		}
		if !GeohashBox(h).Contains(p) {
			t.Errorf("precision %d: cell %q does not contain its point", precision, h)
		}
	}
}
