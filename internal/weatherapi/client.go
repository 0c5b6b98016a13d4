package weatherapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/data-tamer2410/sky-view/internal/model"
)

// ErrLocationNotFound is returned when the upstream cannot resolve the
// requested location, or when it resolves to somewhere outside the
// service's coverage. Callers detect it with errors.Is.
var ErrLocationNotFound = errors.New("location not found")

// defaultTimeout bounds every upstream request. The weather API normally
// answers well under a second; ten seconds covers cold upstream caches
// without letting a dashboard request hang indefinitely.
const defaultTimeout = 10 * time.Second

// dateLayout is the wire format for the history endpoint's dt parameter.
const dateLayout = "2006-01-02"

// Client talks to the weather API. Construct it with NewClient.
//
// The zero-value Client is not usable: the base URL and API key are
// required, and the HTTP client must be initialized.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client

	// now is injectable for tests so local-date computation is
	// deterministic. Defaults to time.Now.
	now func() time.Time
}

// NewClient creates a weather API client.
//
// baseURL is the API root (e.g., "http://api.weatherapi.com/v1") without a
// trailing slash. For testing, pass an httptest.Server URL. If httpc is
// nil, a client with a 10-second timeout is used.
func NewClient(baseURL, apiKey string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpc:   httpc,
		now:     time.Now,
	}
}

// WithClock replaces the client's time source. Only tests use this.
func (c *Client) WithClock(now func() time.Time) *Client {
	c.now = now
	return c
}

// currentResponse is the subset of the current.json payload the service
// reads. Everything else in the response is ignored.
type currentResponse struct {
	Location struct {
		Name    string `json:"name"`
		Country string `json:"country"`
		TZID    string `json:"tz_id"`
	} `json:"location"`
}

// historyResponse wraps the history.json payload. The endpoint always
// returns exactly one forecastday for a single-date query.
type historyResponse struct {
	Forecast struct {
		ForecastDay []HistoryDay `json:"forecastday"`
	} `json:"forecast"`
}

// HistoryDay is one day of weather history: the aggregate day block plus
// 24 hourly blocks.
type HistoryDay struct {
	Date string     `json:"date"`
	Day  DaySummary `json:"day"`
	Hour []Hour     `json:"hour"`
}

// DaySummary is the aggregate block of a history day.
type DaySummary struct {
	MaxTempC      float64   `json:"maxtemp_c"`
	MinTempC      float64   `json:"mintemp_c"`
	TotalPrecipMM float64   `json:"totalprecip_mm"`
	Condition     Condition `json:"condition"`
}

// Condition is the human-readable weather summary for a day.
type Condition struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
}

// Hour is one hourly observation within a history day. Time is local to
// the location, formatted "2006-01-02 15:04".
type Hour struct {
	Time       string  `json:"time"`
	TempC      float64 `json:"temp_c"`
	WindKPH    float64 `json:"wind_kph"`
	GustKPH    float64 `json:"gust_kph"`
	PressureMB float64 `json:"pressure_mb"`
	WindDir    string  `json:"wind_dir"`
	Humidity   float64 `json:"humidity"`
	Cloud      float64 `json:"cloud"`
}

// HourTimeLayout parses the Hour.Time field.
const HourTimeLayout = "2006-01-02 15:04"

// Current resolves a location query against the current-conditions
// endpoint and returns the canonical location together with its current
// local calendar date.
//
// The local date matters: "today" for a user asking about Perth is
// Perth's date, not the server's. The upstream supplies the location's
// IANA zone, which is resolved against the bundled tzdata.
func (c *Client) Current(ctx context.Context, query string) (*model.Location, error) {
	body, err := c.get(ctx, "current.json", url.Values{"q": []string{query}})
	if err != nil {
		return nil, err
	}

	var resp currentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("weatherapi: decode current response: %w", err)
	}

	zone, err := time.LoadLocation(resp.Location.TZID)
	if err != nil {
		return nil, fmt.Errorf("weatherapi: unknown timezone %q for location %q: %w",
			resp.Location.TZID, resp.Location.Name, err)
	}

	// Truncate to the calendar date in the location's zone. Keeping the
	// zone on the time value lets callers derive adjacent dates safely.
	localNow := c.now().In(zone)
	localDate := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, zone)

	return &model.Location{
		Query:     query,
		Name:      resp.Location.Name,
		Country:   resp.Location.Country,
		TimeZone:  resp.Location.TZID,
		LocalDate: localDate,
	}, nil
}

// HistoryRaw fetches one day of history and returns the raw JSON payload.
// The raw form exists so the history cache can persist exactly what the
// upstream sent; use DecodeHistoryDay to interpret it.
func (c *Client) HistoryRaw(ctx context.Context, query string, date time.Time) ([]byte, error) {
	return c.get(ctx, "history.json", url.Values{
		"q":  []string{query},
		"dt": []string{date.Format(dateLayout)},
	})
}

// History fetches and decodes one day of history for a location.
func (c *Client) History(ctx context.Context, query string, date time.Time) (*HistoryDay, error) {
	body, err := c.HistoryRaw(ctx, query, date)
	if err != nil {
		return nil, err
	}
	return DecodeHistoryDay(body)
}

// DecodeHistoryDay extracts the single forecast day from a raw
// history.json payload.
func DecodeHistoryDay(payload []byte) (*HistoryDay, error) {
	var resp historyResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, fmt.Errorf("weatherapi: decode history response: %w", err)
	}
	if len(resp.Forecast.ForecastDay) == 0 {
		return nil, fmt.Errorf("weatherapi: history response contains no forecast day")
	}
	return &resp.Forecast.ForecastDay[0], nil
}

// get performs an authenticated GET against one endpoint and applies the
// upstream's error convention: 400 is a failed location lookup, any other
// non-2xx status is an upstream failure.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	params.Set("key", c.apiKey)
	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("weatherapi: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weatherapi: request %s failed: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		// The upstream answers 400 for queries it cannot resolve to a
		// location (and for bad dates, which we never send).
		return nil, fmt.Errorf("weatherapi: %s for query: %w", endpoint, ErrLocationNotFound)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("weatherapi: %s returned status %d", endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("weatherapi: read %s response: %w", endpoint, err)
	}
	return body, nil
}
