package models

import "time"

// Batch is what a data source delivers on each poll
type Batch struct {
	Rows       []RawBay
	CapturedAt time.Time
}

// Snapshot is an immutable, ordered capture of all bay records at one point in time.
// It is replaced wholesale on refresh and never edited in place, so a reader
// holding a *Snapshot always sees a consistent set of records.
type Snapshot struct {
	records    []BayRecord
	capturedAt time.Time
}

// SnapshotStats summarizes a snapshot by status
type SnapshotStats struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Occupied  int `json:"occupied"`
	Unknown   int `json:"unknown"`
}

// NewSnapshot copies the records into a new snapshot, dropping any record
// without a valid position. Source order is preserved.
func NewSnapshot(records []BayRecord, capturedAt time.Time) *Snapshot {
	kept := make([]BayRecord, 0, len(records))
	for _, r := range records {
		if !r.Position.Valid() {
			continue
		}
		kept = append(kept, r)
	}
	return &Snapshot{records: kept, capturedAt: capturedAt}
}

// Len returns the number of records. A nil snapshot is empty.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.records)
}

// At returns a copy of the i-th record in snapshot order
func (s *Snapshot) At(i int) BayRecord {
	return s.records[i]
}

// Records returns a copy of all records in snapshot order
func (s *Snapshot) Records() []BayRecord {
	if s == nil {
		return nil
	}
	out := make([]BayRecord, len(s.records))
	copy(out, s.records)
	return out
}

// CapturedAt returns the capture timestamp
func (s *Snapshot) CapturedAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.capturedAt
}

// Stats counts records by status
func (s *Snapshot) Stats() SnapshotStats {
	var st SnapshotStats
	for i := 0; i < s.Len(); i++ {
		st.Total++
		switch s.records[i].Status {
		case StatusAvailable:
			st.Available++
		case StatusOccupied:
			st.Occupied++
		default:
			st.Unknown++
		}
	}
	return st
}
