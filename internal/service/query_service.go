package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jengzang/kerbside-backend-go/internal/finder"
	"github.com/jengzang/kerbside-backend-go/internal/geocoder"
	"github.com/jengzang/kerbside-backend-go/internal/grid"
	"github.com/jengzang/kerbside-backend-go/internal/models"
	"github.com/jengzang/kerbside-backend-go/internal/store"
)

// DestinationResult is everything the map needs for one destination
type DestinationResult struct {
	QueryID            string               `json:"query_id"`
	Query              string               `json:"query,omitempty"`
	Destination        models.GeoPoint      `json:"destination"`
	Nearest            models.NearestResult `json:"nearest"`
	Grid               []models.GridCell    `json:"grid"`
	SnapshotCapturedAt time.Time            `json:"snapshot_captured_at"`
}

// QueryService answers destination queries against the current snapshot
type QueryService struct {
	store    *store.SnapshotStore
	geocoder geocoder.Geocoder
	finder   finder.Finder
	gridOpts grid.Options
	log      *slog.Logger
}

// NewQueryService creates a new query service
func NewQueryService(st *store.SnapshotStore, gc geocoder.Geocoder, f finder.Finder, gridOpts grid.Options, l *slog.Logger) *QueryService {
	return &QueryService{store: st, geocoder: gc, finder: f, gridOpts: gridOpts, log: l}
}

// GridOptions returns the configured grid defaults
func (s *QueryService) GridOptions() grid.Options {
	return s.gridOpts
}

// QueryDestination geocodes text and evaluates nearest bay and grid around it.
// Geocoder failures and empty results both surface as ErrDestinationNotResolved.
func (s *QueryService) QueryDestination(ctx context.Context, text string) (*DestinationResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty destination", models.ErrInvalidInput)
	}
	if s.store.Current() == nil {
		return nil, models.ErrNoSnapshot
	}

	queryID := uuid.NewString()
	dest, ok, err := s.geocoder.Geocode(ctx, text)
	if err != nil {
		s.log.Warn("geocode_error", "query_id", queryID, "query", text, "err", err)
		return nil, fmt.Errorf("%w: %v", models.ErrDestinationNotResolved, err)
	}
	if !ok {
		s.log.Info("destination_not_resolved", "query_id", queryID, "query", text)
		return nil, models.ErrDestinationNotResolved
	}

	res, err := s.evaluate(queryID, dest, s.gridOpts)
	if err != nil {
		return nil, err
	}
	res.Query = text
	return res, nil
}

// QueryPoint evaluates a destination that is already a coordinate
func (s *QueryService) QueryPoint(dest models.GeoPoint) (*DestinationResult, error) {
	return s.evaluate(uuid.NewString(), dest, s.gridOpts)
}

// Nearest runs only the finder against the current snapshot
func (s *QueryService) Nearest(dest models.GeoPoint) (models.NearestResult, time.Time, error) {
	snap := s.store.Current()
	if snap == nil {
		return models.NotFound(), time.Time{}, models.ErrNoSnapshot
	}
	res, err := s.finder.FindNearest(dest, snap)
	return res, snap.CapturedAt(), err
}

// Evaluate runs the finder and the grid with opts against one captured snapshot
func (s *QueryService) Evaluate(dest models.GeoPoint, opts grid.Options) (*DestinationResult, error) {
	return s.evaluate(uuid.NewString(), dest, opts)
}

// Grid builds only the availability grid against the current snapshot
func (s *QueryService) Grid(center models.GeoPoint, opts grid.Options) ([]models.GridCell, time.Time, error) {
	snap := s.store.Current()
	if snap == nil {
		return nil, time.Time{}, models.ErrNoSnapshot
	}
	cells, err := grid.Build(center, snap, opts)
	return cells, snap.CapturedAt(), err
}

// evaluate captures the snapshot once so finder and grid see the same records
func (s *QueryService) evaluate(queryID string, dest models.GeoPoint, opts grid.Options) (*DestinationResult, error) {
	if err := dest.Validate(); err != nil {
		return nil, err
	}
	snap := s.store.Current()
	if snap == nil {
		return nil, models.ErrNoSnapshot
	}

	nearest, err := s.finder.FindNearest(dest, snap)
	if err != nil {
		return nil, err
	}
	cells, err := grid.Build(dest, snap, opts)
	if err != nil {
		return nil, err
	}

	s.log.Info("destination_evaluated",
		"query_id", queryID,
		"lat", dest.Lat,
		"lon", dest.Lon,
		"found", nearest.Found,
		"distance_m", nearest.DistanceMeters,
		"snapshot_bays", snap.Len(),
	)

	return &DestinationResult{
		QueryID:            queryID,
		Destination:        dest,
		Nearest:            nearest,
		Grid:               cells,
		SnapshotCapturedAt: snap.CapturedAt(),
	}, nil
}
