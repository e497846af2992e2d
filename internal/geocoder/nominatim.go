package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jengzang/kerbside-backend-go/internal/logger"
	"github.com/jengzang/kerbside-backend-go/internal/metrics"
	"github.com/jengzang/kerbside-backend-go/internal/models"
)

const DefaultNominatimURL = "https://nominatim.openstreetmap.org/search"

// NominatimConfig configures the Nominatim search client
type NominatimConfig struct {
	BaseURL   string
	UserAgent string
	// Suffix is appended to every query to keep results in the city
	Suffix       string
	CountryCodes string
	// Viewbox is "left,top,right,bottom"; results are bounded to it
	Viewbox string
	// RPS caps outgoing requests; the public instance allows one per second
	RPS     float64
	Timeout time.Duration
}

// Nominatim is a Geocoder backed by the OpenStreetMap Nominatim search API
type Nominatim struct {
	cfg     NominatimConfig
	client  *http.Client
	limiter *rate.Limiter
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// NewNominatim creates a Nominatim client. A nil client gets cfg.Timeout (5s if unset).
func NewNominatim(cfg NominatimConfig, client *http.Client) *Nominatim {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultNominatimURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	return &Nominatim{cfg: cfg, client: client, limiter: rate.NewLimiter(limit, 1)}
}

// Geocode returns the first search hit for query
func (n *Nominatim) Geocode(ctx context.Context, query string) (models.GeoPoint, bool, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return models.GeoPoint{}, false, nil
	}

	if err := n.limiter.Wait(ctx); err != nil {
		metrics.GeocodeRequestsTotal.WithLabelValues("error").Inc()
		return models.GeoPoint{}, false, fmt.Errorf("geocoder rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.searchURL(q), nil)
	if err != nil {
		return models.GeoPoint{}, false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept-Language", "en")
	if n.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", n.cfg.UserAgent)
	}

	t0 := time.Now()
	resp, err := n.client.Do(req)
	if err != nil {
		metrics.GeocodeRequestsTotal.WithLabelValues("error").Inc()
		logger.L().Error("geocode_http_error", "query", q, "err", err)
		return models.GeoPoint{}, false, fmt.Errorf("geocoding request: %w", err)
	}
	defer resp.Body.Close()
	metrics.GeocodeDurationMs.Observe(float64(time.Since(t0).Milliseconds()))

	if resp.StatusCode != http.StatusOK {
		metrics.GeocodeRequestsTotal.WithLabelValues("error").Inc()
		return models.GeoPoint{}, false, fmt.Errorf("geocoder returned HTTP %d", resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		metrics.GeocodeRequestsTotal.WithLabelValues("error").Inc()
		return models.GeoPoint{}, false, fmt.Errorf("decoding response: %w", err)
	}
	if len(places) == 0 {
		metrics.GeocodeRequestsTotal.WithLabelValues("miss").Inc()
		logger.L().Info("geocode_miss", "query", q)
		return models.GeoPoint{}, false, nil
	}

	p, err := parsePlace(places[0])
	if err != nil {
		metrics.GeocodeRequestsTotal.WithLabelValues("error").Inc()
		return models.GeoPoint{}, false, err
	}

	metrics.GeocodeRequestsTotal.WithLabelValues("hit").Inc()
	logger.L().Debug("geocode_hit", "query", q, "place", places[0].DisplayName, "lat", p.Lat, "lon", p.Lon, "duration_ms", time.Since(t0).Milliseconds())
	return p, true, nil
}

func (n *Nominatim) searchURL(q string) string {
	v := url.Values{}
	v.Set("format", "json")
	v.Set("limit", "1")
	v.Set("addressdetails", "0")
	if n.cfg.CountryCodes != "" {
		v.Set("countrycodes", n.cfg.CountryCodes)
	}
	if n.cfg.Viewbox != "" {
		v.Set("viewbox", n.cfg.Viewbox)
		v.Set("bounded", "1")
	}
	v.Set("q", q+n.cfg.Suffix)
	return n.cfg.BaseURL + "?" + v.Encode()
}

func parsePlace(p nominatimPlace) (models.GeoPoint, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return models.GeoPoint{}, fmt.Errorf("invalid latitude %q: %w", p.Lat, err)
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return models.GeoPoint{}, fmt.Errorf("invalid longitude %q: %w", p.Lon, err)
	}
	pt := models.GeoPoint{Lat: lat, Lon: lon}
	if err := pt.Validate(); err != nil {
		return models.GeoPoint{}, err
	}
	return pt, nil
}
