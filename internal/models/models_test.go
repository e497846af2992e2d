package models

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestParseBayStatus(t *testing.T) {
	tests := []struct {
		in   string
		want BayStatus
	}{
		{"Present", StatusOccupied},
		{"  present ", StatusOccupied},
		{"Unoccupied", StatusAvailable},
		{"UNOCCUPIED", StatusAvailable},
		{"", StatusUnknown},
		{"sensor fault", StatusUnknown},
	}

	for _, tt := range tests {
		if got := ParseBayStatus(tt.in); got != tt.want {
			t.Errorf("ParseBayStatus(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestGeoPointValidate(t *testing.T) {
	valid := []GeoPoint{{0, 0}, {-37.81, 144.96}, {90, 180}, {-90, -180}}
	for _, p := range valid {
		if err := p.Validate(); err != nil {
			t.Errorf("%v: unexpected error %v", p, err)
		}
	}

	invalid := []GeoPoint{
		{math.NaN(), 0},
		{0, math.Inf(1)},
		{90.0001, 0},
		{0, -180.5},
	}
	for _, p := range invalid {
		if err := p.Validate(); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%v: error = %v, want ErrInvalidInput", p, err)
		}
	}
}

func TestNewSnapshotDropsInvalidPositions(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	in := []BayRecord{
		{ID: "a", Position: GeoPoint{-37.81, 144.96}, Status: StatusAvailable},
		{ID: "b", Position: GeoPoint{math.NaN(), 144.96}, Status: StatusAvailable},
		{ID: "c", Position: GeoPoint{-37.82, 144.97}, Status: StatusOccupied},
		{ID: "d", Position: GeoPoint{-37.83, 200}, Status: StatusOccupied},
		{ID: "", Position: GeoPoint{-37.84, 144.98}, Status: StatusUnknown},
	}

	snap := NewSnapshot(in, at)
	if snap.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", snap.Len())
	}
	if snap.At(0).ID != "a" || snap.At(1).ID != "c" || snap.At(2).HasID() {
		t.Errorf("order not preserved: %+v", snap.Records())
	}
	if !snap.CapturedAt().Equal(at) {
		t.Errorf("CapturedAt() = %v", snap.CapturedAt())
	}

	want := SnapshotStats{Total: 3, Available: 1, Occupied: 1, Unknown: 1}
	if got := snap.Stats(); got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
}

func TestSnapshotIsolatedFromCaller(t *testing.T) {
	in := []BayRecord{{ID: "a", Position: GeoPoint{1, 1}, Status: StatusAvailable}}
	snap := NewSnapshot(in, time.Now())

	in[0].ID = "changed"
	out := snap.Records()
	out[0].Status = StatusOccupied

	if r := snap.At(0); r.ID != "a" || r.Status != StatusAvailable {
		t.Errorf("snapshot was modified through a shared slice: %+v", r)
	}
}

func TestNilSnapshot(t *testing.T) {
	var snap *Snapshot
	if snap.Len() != 0 || snap.Records() != nil || !snap.CapturedAt().IsZero() {
		t.Error("nil snapshot should behave as empty")
	}
	if st := snap.Stats(); st.Total != 0 {
		t.Errorf("Stats() = %+v", st)
	}
}

func TestNotFound(t *testing.T) {
	r := NotFound()
	if r.Found || r.Bay != nil || r.Index != -1 {
		t.Errorf("NotFound() = %+v", r)
	}
}
