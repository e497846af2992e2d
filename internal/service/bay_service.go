package service

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jengzang/kerbside-backend-go/internal/models"
	"github.com/jengzang/kerbside-backend-go/internal/spatial"
	"github.com/jengzang/kerbside-backend-go/internal/store"
)

// DefaultListLimit caps a bay listing when the caller gives no limit
const DefaultListLimit = 200

// BayList is one page of a filtered listing
type BayList struct {
	Total      int                `json:"total"`
	Count      int                `json:"count"`
	Bays       []models.BayRecord `json:"bays"`
	CapturedAt time.Time          `json:"captured_at"`
	Updated    string             `json:"updated"`
}

// SnapshotStatus describes the current snapshot
type SnapshotStatus struct {
	Loaded bool `json:"loaded"`
	models.SnapshotStats
	Version    uint64       `json:"version"`
	CapturedAt time.Time    `json:"captured_at,omitempty"`
	Updated    string       `json:"updated,omitempty"`
	Bounds     *spatial.Box `json:"bounds,omitempty"` // extent of all bays, nil when empty
}

// BayService lists and summarizes bays in the current snapshot
type BayService struct {
	store        *store.SnapshotStore
	defaultLimit int
	now          func() time.Time
}

// NewBayService creates a new bay service. limit <= 0 uses DefaultListLimit.
func NewBayService(st *store.SnapshotStore, limit int) *BayService {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return &BayService{store: st, defaultLimit: limit, now: time.Now}
}

// List filters bays by a case-insensitive substring of id, status text or street,
// optionally keeping only available ones. Total counts all matches; Bays holds at most the limit.
func (s *BayService) List(filter models.BayFilter) (*BayList, error) {
	snap := s.store.Current()
	if snap == nil {
		return nil, models.ErrNoSnapshot
	}

	limit := filter.Limit
	if limit <= 0 || limit > s.defaultLimit {
		limit = s.defaultLimit
	}
	term := strings.ToLower(strings.TrimSpace(filter.Query))

	out := &BayList{Bays: []models.BayRecord{}, CapturedAt: snap.CapturedAt(), Updated: s.relative(snap.CapturedAt())}
	for i := 0; i < snap.Len(); i++ {
		rec := snap.At(i)
		if filter.OnlyAvailable && !rec.IsAvailable() {
			continue
		}
		if term != "" && !matches(rec, term) {
			continue
		}
		out.Total++
		if len(out.Bays) < limit {
			out.Bays = append(out.Bays, rec)
		}
	}
	out.Count = len(out.Bays)
	return out, nil
}

// Status summarizes the current snapshot; Loaded is false before the first refresh
func (s *BayService) Status() SnapshotStatus {
	snap := s.store.Current()
	if snap == nil {
		return SnapshotStatus{Version: s.store.Version()}
	}
	status := SnapshotStatus{
		Loaded:        true,
		SnapshotStats: snap.Stats(),
		Version:       s.store.Version(),
		CapturedAt:    snap.CapturedAt(),
		Updated:       s.relative(snap.CapturedAt()),
	}

	points := make([]models.GeoPoint, snap.Len())
	for i := range points {
		points[i] = snap.At(i).Position
	}
	if box, ok := spatial.BoundingBox(points); ok {
		status.Bounds = &box
	}
	return status
}

func (s *BayService) relative(t time.Time) string {
	return humanize.RelTime(t, s.now(), "ago", "from now")
}

func matches(rec models.BayRecord, term string) bool {
	return strings.Contains(strings.ToLower(rec.ID), term) ||
		strings.Contains(strings.ToLower(rec.StatusText), term) ||
		strings.Contains(strings.ToLower(string(rec.Status)), term) ||
		strings.Contains(strings.ToLower(rec.StreetOn), term)
}
