package ingest

import (
	"strconv"
	"strings"

	"github.com/jengzang/kerbside-backend-go/internal/models"
)

// Normalize converts raw rows into bay records, keeping source order.
// Rows whose coordinates are missing, unparseable, non-finite or out of range are excluded.
func Normalize(rows []models.RawBay) []models.BayRecord {
	out := make([]models.BayRecord, 0, len(rows))
	for _, row := range rows {
		pos, ok := parsePosition(row.Latitude, row.Longitude)
		if !ok {
			continue
		}
		out = append(out, models.BayRecord{
			ID:         strings.TrimSpace(row.ID),
			Position:   pos,
			Status:     models.ParseBayStatus(row.Status),
			StatusText: strings.TrimSpace(row.Status),
			StatusTime: strings.TrimSpace(row.StatusTime),
			StreetOn:   strings.TrimSpace(row.StreetOn),
			StreetFrom: strings.TrimSpace(row.StreetFrom),
			StreetTo:   strings.TrimSpace(row.StreetTo),
			Zone:       strings.TrimSpace(row.Zone),
			SegmentID:  strings.TrimSpace(row.SegmentID),
		})
	}
	return out
}

func parsePosition(lat, lon string) (models.GeoPoint, bool) {
	la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return models.GeoPoint{}, false
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err != nil {
		return models.GeoPoint{}, false
	}
	p := models.GeoPoint{Lat: la, Lon: lo}
	return p, p.Valid()
}
