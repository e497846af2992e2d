package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jengzang/kerbside-backend-go/internal/database"
	"github.com/jengzang/kerbside-backend-go/internal/models"
)

const selectBays = `
	SELECT kerbside_id, latitude, longitude, status_description, status_timestamp,
	       on_street, street_from, street_to, zone_number, road_segment_id
	FROM bay_sensors
	ORDER BY rowid
`

// SQLiteSource reads the bay_sensors table
type SQLiteSource struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteSource creates a new SQLite source
func NewSQLiteSource(db *sql.DB) *SQLiteSource {
	return &SQLiteSource{db: db, now: time.Now}
}

// Fetch reads every row in insertion order
func (s *SQLiteSource) Fetch(ctx context.Context) (models.Batch, error) {
	capturedAt := s.now()

	rows, err := s.db.QueryContext(ctx, selectBays)
	if err != nil {
		return models.Batch{}, fmt.Errorf("failed to query bay_sensors: %w", err)
	}
	defer rows.Close()

	var out []models.RawBay
	for rows.Next() {
		var id, lat, lon, status, statusTime, on, from, to, zone, seg sql.NullString
		if err := rows.Scan(&id, &lat, &lon, &status, &statusTime, &on, &from, &to, &zone, &seg); err != nil {
			return models.Batch{}, fmt.Errorf("failed to scan bay row: %w", err)
		}
		out = append(out, models.RawBay{
			ID:         id.String,
			Latitude:   lat.String,
			Longitude:  lon.String,
			Status:     status.String,
			StatusTime: statusTime.String,
			StreetOn:   on.String,
			StreetFrom: from.String,
			StreetTo:   to.String,
			Zone:       zone.String,
			SegmentID:  seg.String,
		})
	}
	if err := rows.Err(); err != nil {
		return models.Batch{}, fmt.Errorf("failed to read bay rows: %w", err)
	}

	return models.Batch{Rows: out, CapturedAt: capturedAt}, nil
}

// ReplaceBays overwrites the bay_sensors table with rows in a single transaction.
// Coordinates that do not parse are stored as NULL.
func ReplaceBays(ctx context.Context, db *sql.DB, rows []models.RawBay) error {
	return database.Transaction(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM bay_sensors"); err != nil {
			return fmt.Errorf("failed to clear bay_sensors: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO bay_sensors (kerbside_id, latitude, longitude, status_description, status_timestamp,
			                         on_street, street_from, street_to, zone_number, road_segment_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for i, r := range rows {
			if _, err := stmt.ExecContext(ctx, r.ID, nullableFloat(r.Latitude), nullableFloat(r.Longitude), r.Status, nullableText(r.StatusTime),
				r.StreetOn, r.StreetFrom, r.StreetTo, r.Zone, r.SegmentID); err != nil {
				return fmt.Errorf("failed to insert row %d: %w", i, err)
			}
		}
		return nil
	})
}

func nullableText(s string) any {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return s
}

func nullableFloat(s string) any {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return v
}
