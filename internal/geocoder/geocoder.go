// Package geocoder turns free-text destinations into coordinates.
package geocoder

import (
	"context"
	"strings"

	"github.com/jengzang/kerbside-backend-go/internal/models"
)

// Geocoder resolves a query to at most one point.
// ok is false when the upstream found nothing; err is reserved for transport or decoding failures.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (point models.GeoPoint, ok bool, err error)
}

// NormalizeQuery trims, lowercases and collapses whitespace so equivalent queries share a cache key
func NormalizeQuery(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}
