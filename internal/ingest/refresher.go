package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jengzang/kerbside-backend-go/internal/metrics"
	"github.com/jengzang/kerbside-backend-go/internal/models"
	"github.com/jengzang/kerbside-backend-go/internal/store"
)

// Refresher pulls one batch from a source and publishes it as the current snapshot
type Refresher struct {
	source Source
	store  *store.SnapshotStore
	log    *slog.Logger
}

// NewRefresher creates a new refresher
func NewRefresher(source Source, st *store.SnapshotStore, l *slog.Logger) *Refresher {
	return &Refresher{source: source, store: st, log: l}
}

// Refresh fetches, normalizes and swaps in a new snapshot.
// On error the current snapshot is left untouched.
func (r *Refresher) Refresh(ctx context.Context) (*models.Snapshot, error) {
	start := time.Now()

	batch, err := r.source.Fetch(ctx)
	if err != nil {
		metrics.RefreshTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to fetch bays: %w", err)
	}

	records := Normalize(batch.Rows)
	capturedAt := batch.CapturedAt
	if capturedAt.IsZero() {
		capturedAt = start
	}
	snap := models.NewSnapshot(records, capturedAt)
	version := r.store.Replace(snap)

	dropped := len(batch.Rows) - snap.Len()
	stats := snap.Stats()
	metrics.RefreshTotal.WithLabelValues("ok").Inc()
	metrics.RefreshDurationMs.Observe(float64(time.Since(start).Milliseconds()))
	metrics.SnapshotDroppedRows.Set(float64(dropped))
	metrics.SnapshotBays.WithLabelValues(string(models.StatusAvailable)).Set(float64(stats.Available))
	metrics.SnapshotBays.WithLabelValues(string(models.StatusOccupied)).Set(float64(stats.Occupied))
	metrics.SnapshotBays.WithLabelValues(string(models.StatusUnknown)).Set(float64(stats.Unknown))

	if dropped > 0 {
		r.log.Warn("rows_dropped", "dropped", dropped, "reason", "missing or invalid coordinates")
	}
	r.log.Info("snapshot_refreshed",
		"version", version,
		"bays", stats.Total,
		"available", stats.Available,
		"captured_at", capturedAt,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return snap, nil
}
