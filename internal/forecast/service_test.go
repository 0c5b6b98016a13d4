package forecast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/data-tamer2410/sky-view/internal/model"
	"github.com/data-tamer2410/sky-view/internal/weatherapi"
)

// memoryCache is an in-memory HistoryCache for tests. It records every
// get/put so tests can assert on cache traffic.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	puts    []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (m *memoryCache) Get(_ context.Context, location, date string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	payload, ok := m.entries[location+"|"+date]
	return payload, ok, nil
}

func (m *memoryCache) Put(_ context.Context, location, date string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[location+"|"+date] = payload
	m.puts = append(m.puts, date)
	return nil
}

// historyJSON renders a full history.json payload for one date with all
// 24 hourly blocks. minTemp is varied per day by tests so feature-row
// ordering is observable at the predictor.
func historyJSON(date string, minTemp float64) string {
	var hours []string
	for h := 0; h < 24; h++ {
		hours = append(hours, fmt.Sprintf(
			`{"time":"%s %02d:00","temp_c":15.0,"wind_kph":10.0,"gust_kph":%d,
			  "pressure_mb":1015.0,"wind_dir":"SW","humidity":60,"cloud":30}`,
			date, h, 12+h))
	}
	return fmt.Sprintf(`{
		"forecast": {"forecastday": [{
			"date": "%s",
			"day": {"maxtemp_c": 22.0, "mintemp_c": %.1f, "totalprecip_mm": 0.5,
			        "condition": {"text": "Partly cloudy", "icon": "//cdn.example/pc.png"}},
			"hour": [%s]
		}]}
	}`, date, minTemp, strings.Join(hours, ","))
}

// weatherFixture is an httptest weather API serving a fixed Sydney
// location and per-date history payloads. minTemp for each date encodes
// the day-of-month so tests can verify row ordering.
type weatherFixture struct {
	srv          *httptest.Server
	mu           sync.Mutex
	historyDates []string
	country      string
}

func newWeatherFixture(t *testing.T) *weatherFixture {
	t.Helper()
	f := &weatherFixture{country: "Australia"}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/current.json":
			fmt.Fprintf(w, `{"location":{"name":"Sydney","country":"%s","tz_id":"Australia/Sydney"}}`, f.country)
		case "/history.json":
			date := r.URL.Query().Get("dt")
			f.mu.Lock()
			f.historyDates = append(f.historyDates, date)
			f.mu.Unlock()
			// Day-of-month as min temp makes each date's row identifiable.
			var day float64
			fmt.Sscanf(date[8:], "%f", &day)
			fmt.Fprint(w, historyJSON(date, day))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *weatherFixture) dates() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.historyDates...)
}

// predictorFixture is an httptest prediction API that records the posted
// matrix and answers with fixed values.
type predictorFixture struct {
	srv  *httptest.Server
	mu   sync.Mutex
	data [][]any
}

func newPredictorFixture(t *testing.T) *predictorFixture {
	t.Helper()
	f := &predictorFixture{}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Data [][]any `json:"data"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.data = req.Data
		f.mu.Unlock()
		fmt.Fprint(w, `{
			"MinTemp": 9.8, "MaxTemp": 20.1, "Rainfall": -0.05,
			"WindGustSpeed": 35.0, "WindSpeed9am": 11.0, "WindSpeed3pm": 14.0,
			"Pressure9am": 1020.0, "Pressure3pm": 1015.0,
			"Temp9am": 12.5, "Temp3pm": 19.0, "RainToday": 0.42
		}`)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *predictorFixture) matrix() [][]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data
}

// fixedClock pins "now" to 2026-08-29 02:00 UTC, which is midday
// 2026-08-29 in Sydney. The local feature window is therefore
// 2026-08-23 .. 2026-08-29.
func fixedClock() time.Time {
	return time.Date(2026, 8, 29, 2, 0, 0, 0, time.UTC)
}

func newTestService(t *testing.T, weather *weatherFixture, predictor *predictorFixture, cache HistoryCache) *Service {
	t.Helper()
	wc := weatherapi.NewClient(weather.srv.URL, "test-key", nil).WithClock(fixedClock)
	var p *Predictor
	if predictor != nil {
		p = NewPredictor(predictor.srv.URL, nil)
	}
	return NewService(wc, p, cache, nil)
}

// TestToday_BuildsObservedReport verifies the today path: one live
// history fetch for the local date, mapped into an observed report with
// the condition headline.
func TestToday_BuildsObservedReport(t *testing.T) {
	weather := newWeatherFixture(t)
	svc := newTestService(t, weather, nil, nil)

	report, err := svc.Today(context.Background(), "sydney")

	require.NoError(t, err)
	assert.Equal(t, "Sydney", report.Location)
	assert.Equal(t, "Australia", report.Country)
	assert.Equal(t, 29, report.Date.Day(), "report date is Sydney's local date")
	assert.Equal(t, "Partly cloudy", report.ConditionText)
	assert.Equal(t, 22.0, report.MaxTemp)
	assert.Equal(t, float64(12+23), report.WindGustSpeed, "gust maximum over 24 hours")
	assert.True(t, report.RainToday)

	assert.Equal(t, []string{"2026-08-29"}, weather.dates(), "exactly one history fetch for today")
}

// TestTomorrow_BuildsFeatureWindow verifies the tomorrow path: seven
// history days oldest-first, a 7×17 matrix at the predictor, and a
// prediction dated the next local day.
func TestTomorrow_BuildsFeatureWindow(t *testing.T) {
	weather := newWeatherFixture(t)
	predictor := newPredictorFixture(t)
	svc := newTestService(t, weather, predictor, nil)

	report, err := svc.Tomorrow(context.Background(), "sydney")

	require.NoError(t, err)

	// The seven local dates ending today, oldest first.
	wantDates := []string{
		"2026-08-23", "2026-08-24", "2026-08-25", "2026-08-26",
		"2026-08-27", "2026-08-28", "2026-08-29",
	}
	assert.Equal(t, wantDates, weather.dates())

	// The matrix is 7 rows × 17 features, oldest day first. Row position
	// 0 carries the min temp, which the fixture sets to the day-of-month.
	matrix := predictor.matrix()
	require.Len(t, matrix, model.HistoryDays)
	require.Len(t, matrix[0], model.FeatureCount)
	assert.Equal(t, float64(23), matrix[0][0], "first row is the oldest day")
	assert.Equal(t, float64(29), matrix[6][0], "last row is today")
	assert.Equal(t, "SW", matrix[0][10], "wind direction travels as a string")

	// The prediction is for tomorrow in Sydney.
	assert.Equal(t, 30, report.Date.Day())
	assert.Equal(t, 0.42, report.RainTodayProb)
	assert.Equal(t, 9.8, report.MinTemp)
}

// TestTomorrow_UsesCacheForPastDays verifies that a second run fetches
// only today live: the six fully elapsed days come from the cache, and
// today is never written to it.
func TestTomorrow_UsesCacheForPastDays(t *testing.T) {
	weather := newWeatherFixture(t)
	predictor := newPredictorFixture(t)
	cache := newMemoryCache()
	svc := newTestService(t, weather, predictor, cache)

	// First run fetches all seven days and caches the six past ones.
	_, err := svc.Tomorrow(context.Background(), "sydney")
	require.NoError(t, err)
	require.Len(t, weather.dates(), 7)
	assert.Len(t, cache.puts, 6, "today must not be cached")
	assert.NotContains(t, cache.puts, "2026-08-29")

	// Second run hits the cache for the past days.
	_, err = svc.Tomorrow(context.Background(), "sydney")
	require.NoError(t, err)
	assert.Equal(t, 8, len(weather.dates()), "only today is fetched live on the second run")
	assert.Equal(t, "2026-08-29", weather.dates()[7])
}

// TestResolve_CoverageGate verifies locations outside Australia are
// rejected as not found on both paths.
func TestResolve_CoverageGate(t *testing.T) {
	weather := newWeatherFixture(t)
	weather.country = "France"
	svc := newTestService(t, weather, nil, nil)

	_, err := svc.Today(context.Background(), "paris")

	require.Error(t, err)
	assert.True(t, errors.Is(err, weatherapi.ErrLocationNotFound))
	assert.Empty(t, weather.dates(), "no history is fetched for rejected locations")
}

// TestTomorrow_PredictorFailure verifies predictor errors surface instead
// of returning a partial report.
func TestTomorrow_PredictorFailure(t *testing.T) {
	weather := newWeatherFixture(t)
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	wc := weatherapi.NewClient(weather.srv.URL, "test-key", nil).WithClock(fixedClock)
	svc := NewService(wc, NewPredictor(broken.URL, nil), nil, nil)

	_, err := svc.Tomorrow(context.Background(), "sydney")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 500")
}

// TestPredict_RejectsShortWindow verifies the predictor client refuses
// to send anything but a full 7-day window.
func TestPredict_RejectsShortWindow(t *testing.T) {
	p := NewPredictor("http://unused.invalid", nil)

	_, err := p.Predict(context.Background(), make([]model.DayFeatures, 5), &model.Location{}, time.Now())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 7 feature rows")
}
