package ingest

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jengzang/kerbside-backend-go/internal/models"
)

var errMissingColumn = errors.New("missing required column")

// CSVSource reads the sensor export from a local file or an http(s) URL
type CSVSource struct {
	location string
	client   *http.Client
	now      func() time.Time
}

// NewCSVSource creates a CSV source. A nil client gets a 10s timeout.
func NewCSVSource(location string, client *http.Client) *CSVSource {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &CSVSource{location: location, client: client, now: time.Now}
}

// Fetch reads and parses the whole export
func (s *CSVSource) Fetch(ctx context.Context) (models.Batch, error) {
	capturedAt := s.now()

	body, err := s.open(ctx, capturedAt)
	if err != nil {
		return models.Batch{}, err
	}
	defer body.Close()

	rows, err := ParseCSV(body)
	if err != nil {
		return models.Batch{}, fmt.Errorf("failed to parse %s: %w", s.location, err)
	}
	return models.Batch{Rows: rows, CapturedAt: capturedAt}, nil
}

func (s *CSVSource) open(ctx context.Context, at time.Time) (io.ReadCloser, error) {
	if !isRemote(s.location) {
		f, err := os.Open(s.location)
		if err != nil {
			return nil, fmt.Errorf("failed to open csv: %w", err)
		}
		return f, nil
	}

	u, err := url.Parse(s.location)
	if err != nil {
		return nil, fmt.Errorf("invalid csv url: %w", err)
	}
	// cache buster so proxies never hand back a stale export
	q := u.Query()
	q.Set("t", strconv.FormatInt(at.UnixMilli(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download csv: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to download csv: status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

func isRemote(location string) bool {
	l := strings.ToLower(location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// ParseCSV reads rows keyed by header name. Headers match case-insensitively,
// a leading BOM is ignored and blank lines are skipped.
// Only the latitude and longitude columns are required.
func ParseCSV(r io.Reader) ([]models.RawBay, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", errMissingColumn)
	}
	if err != nil {
		return nil, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	col := map[string]int{}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := col[key]; !dup {
			col[key] = i
		}
	}
	for _, k := range []string{ColLatitude, ColLongitude} {
		if _, ok := col[strings.ToLower(k)]; !ok {
			return nil, fmt.Errorf("%w: %s", errMissingColumn, k)
		}
	}

	var out []models.RawBay
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if isBlank(rec) {
			continue
		}

		get := func(name string) string {
			i, ok := col[strings.ToLower(name)]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		out = append(out, models.RawBay{
			ID:         get(ColID),
			Latitude:   get(ColLatitude),
			Longitude:  get(ColLongitude),
			Status:     get(ColStatus),
			StatusTime: get(ColStatusTime),
			StreetOn:   get(ColStreetOn),
			StreetFrom: get(ColStreetFrom),
			StreetTo:   get(ColStreetTo),
			Zone:       get(ColZone),
			SegmentID:  get(ColSegmentID),
		})
	}
	return out, nil
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
