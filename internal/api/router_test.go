package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb/geojson"

	"github.com/jengzang/kerbside-backend-go/internal/finder"
	"github.com/jengzang/kerbside-backend-go/internal/grid"
	"github.com/jengzang/kerbside-backend-go/internal/middleware"
	"github.com/jengzang/kerbside-backend-go/internal/models"
	"github.com/jengzang/kerbside-backend-go/internal/service"
	"github.com/jengzang/kerbside-backend-go/internal/store"
)

var melbourne = models.GeoPoint{Lat: -37.8136, Lon: 144.9631}

type mockGeocoder struct {
	points map[string]models.GeoPoint
}

func (m mockGeocoder) Geocode(ctx context.Context, q string) (models.GeoPoint, bool, error) {
	p, ok := m.points[q]
	return p, ok, nil
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(t *testing.T, loaded bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.NewSnapshotStore()
	if loaded {
		st.Replace(models.NewSnapshot([]models.BayRecord{
			{ID: "1001", Position: models.GeoPoint{Lat: melbourne.Lat + 0.0003, Lon: melbourne.Lon}, Status: models.StatusAvailable, StatusText: "Unoccupied", StreetOn: "Swanston St"},
			{ID: "1002", Position: melbourne, Status: models.StatusOccupied, StatusText: "Present", StreetOn: "Collins St"},
		}, time.Now()))
	}

	l := slog.New(slog.NewTextHandler(io.Discard, nil))
	gc := mockGeocoder{points: map[string]models.GeoPoint{"town hall": melbourne}}
	svc := Services{
		Query: service.NewQueryService(st, gc, finder.NewLinear(), grid.DefaultOptions(), l),
		Bays:  service.NewBayService(st, 200),
	}
	return SetupRouter(svc, middleware.NewRateLimiter(100, 100, time.Minute), l)
}

func get(r http.Handler, url string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, into any) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad envelope %q: %v", w.Body.String(), err)
	}
	if into != nil {
		if err := json.Unmarshal(env.Data, into); err != nil {
			t.Fatalf("bad data %q: %v", env.Data, err)
		}
	}
	return env
}

func TestDestinationRoute(t *testing.T) {
	r := newTestRouter(t, true)

	w := get(r, "/api/v1/destination?q=town+hall")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var res service.DestinationResult
	decode(t, w, &res)
	if !res.Nearest.Found || res.Nearest.Bay.ID != "1001" || len(res.Grid) != 9 {
		t.Errorf("result = %+v", res)
	}

	w = get(r, "/api/v1/destination?q=atlantis")
	if w.Code != http.StatusNotFound {
		t.Errorf("unresolved status = %d", w.Code)
	}
	if env := decode(t, w, nil); env.Message != "destination not resolved" {
		t.Errorf("message = %q", env.Message)
	}

	if w := get(r, "/api/v1/destination"); w.Code != http.StatusBadRequest {
		t.Errorf("missing q status = %d", w.Code)
	}
}

func TestRoutesBeforeFirstSnapshot(t *testing.T) {
	r := newTestRouter(t, false)

	for _, url := range []string{
		"/health",
		"/api/v1/bays",
		"/api/v1/destination?q=town+hall",
		"/api/v1/nearest?lat=-37.81&lon=144.96",
		"/api/v1/grid?lat=-37.81&lon=144.96",
	} {
		if w := get(r, url); w.Code != http.StatusServiceUnavailable {
			t.Errorf("%s: status = %d, want 503", url, w.Code)
		}
	}

	w := get(r, "/api/v1/snapshot")
	var st service.SnapshotStatus
	decode(t, w, &st)
	if w.Code != http.StatusOK || st.Loaded {
		t.Errorf("snapshot status = %d %+v", w.Code, st)
	}
}

func TestNearestRoute(t *testing.T) {
	r := newTestRouter(t, true)

	w := get(r, "/api/v1/nearest?lat=-37.8136&lon=144.9631")
	var body struct {
		Nearest models.NearestResult `json:"nearest"`
	}
	decode(t, w, &body)
	if w.Code != http.StatusOK || !body.Nearest.Found || body.Nearest.Bay.ID != "1001" {
		t.Errorf("status %d nearest %+v", w.Code, body.Nearest)
	}

	// lat=0 is a real coordinate, not a missing one
	if w := get(r, "/api/v1/nearest?lat=0&lon=0"); w.Code != http.StatusOK {
		t.Errorf("lat=0 status = %d", w.Code)
	}
	for _, url := range []string{"/api/v1/nearest?lat=abc&lon=1", "/api/v1/nearest?lon=1", "/api/v1/nearest?lat=95&lon=1"} {
		if w := get(r, url); w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", url, w.Code)
		}
	}
}

func TestGridRoutes(t *testing.T) {
	r := newTestRouter(t, true)

	w := get(r, "/api/v1/grid?lat=-37.8136&lon=144.9631&radius=2&cellSize=100")
	var body struct {
		Cells []models.GridCell `json:"cells"`
		Count int               `json:"count"`
	}
	decode(t, w, &body)
	if w.Code != http.StatusOK || body.Count != 25 {
		t.Fatalf("status %d count %d", w.Code, body.Count)
	}

	for _, url := range []string{
		"/api/v1/grid?lat=-37.8&lon=144.9&cellSize=0",
		"/api/v1/grid?lat=-37.8&lon=144.9&radius=-1",
		"/api/v1/grid?lat=-37.8&lon=144.9&radius=99",
	} {
		if w := get(r, url); w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", url, w.Code)
		}
	}

	w = get(r, "/api/v1/grid.geojson?lat=-37.8136&lon=144.9631")
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "application/geo+json" {
		t.Fatalf("geojson status %d type %q", w.Code, w.Header().Get("Content-Type"))
	}
	fc, err := geojson.UnmarshalFeatureCollection(w.Body.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if len(fc.Features) != 11 {
		t.Errorf("got %d features, want 9 cells + destination + nearest", len(fc.Features))
	}
}

func TestGridGeoJSONUsesOneSnapshot(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// a has its only free bay in the center cell, b in the north-east cell
	a := models.NewSnapshot([]models.BayRecord{
		{ID: "a", Position: melbourne, Status: models.StatusAvailable},
	}, time.Now())
	b := models.NewSnapshot([]models.BayRecord{
		{ID: "b", Position: models.GeoPoint{Lat: melbourne.Lat + 0.0027, Lon: melbourne.Lon + 0.0034}, Status: models.StatusAvailable},
	}, time.Now())

	st := store.NewSnapshotStore()
	st.Replace(a)
	l := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := Services{
		Query: service.NewQueryService(st, mockGeocoder{}, finder.NewLinear(), grid.DefaultOptions(), l),
		Bays:  service.NewBayService(st, 200),
	}
	r := SetupRouter(svc, middleware.NewRateLimiter(100, 100, time.Minute), l)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-done:
				return
			default:
			}
			if i%2 == 0 {
				st.Replace(b)
			} else {
				st.Replace(a)
			}
		}
	}()
	defer func() {
		close(done)
		wg.Wait()
	}()

	for i := 0; i < 2000; i++ {
		w := get(r, "/api/v1/grid.geojson?lat=-37.8136&lon=144.9631")
		if w.Code != http.StatusOK {
			t.Fatalf("iteration %d: status %d", i, w.Code)
		}
		fc, err := geojson.UnmarshalFeatureCollection(w.Body.Bytes())
		if err != nil {
			t.Fatal(err)
		}

		var centerFree float64 = -1
		nearestID := ""
		for _, f := range fc.Features {
			switch f.Properties["kind"] {
			case "cell":
				if f.Properties["gx"] == 0.0 && f.Properties["gy"] == 0.0 {
					centerFree, _ = f.Properties["free"].(float64)
				}
			case "nearest":
				nearestID, _ = f.Properties["id"].(string)
			}
		}

		want := 0.0
		if nearestID == "a" {
			want = 1
		} else if nearestID != "b" {
			t.Fatalf("iteration %d: nearest id %q", i, nearestID)
		}
		if centerFree != want {
			t.Fatalf("iteration %d: center cell free=%v but nearest bay is %q", i, centerFree, nearestID)
		}
	}
}

func TestBaysRoute(t *testing.T) {
	r := newTestRouter(t, true)

	w := get(r, "/api/v1/bays?q=collins")
	var list service.BayList
	decode(t, w, &list)
	if w.Code != http.StatusOK || list.Total != 1 || list.Bays[0].ID != "1002" {
		t.Errorf("status %d list %+v", w.Code, list)
	}

	w = get(r, "/api/v1/bays?onlyAvailable=true")
	decode(t, w, &list)
	if list.Total != 1 || list.Bays[0].ID != "1001" {
		t.Errorf("only available = %+v", list)
	}

	if w := get(r, "/health"); w.Code != http.StatusOK {
		t.Errorf("health status = %d", w.Code)
	}
	if w := get(r, "/metrics"); w.Code != http.StatusOK {
		t.Errorf("metrics status = %d", w.Code)
	}
}
