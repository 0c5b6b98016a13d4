package forecast

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/data-tamer2410/sky-view/internal/model"
)

// predictorTimeout bounds prediction requests. The model host is a
// free-tier deployment that cold-starts; thirty seconds absorbs a spin-up
// without hanging the dashboard forever.
const predictorTimeout = 30 * time.Second

// Predictor calls the remote prediction API. The API accepts a 7×17
// feature matrix and returns the next day's forecast values.
type Predictor struct {
	url   string
	httpc *http.Client
}

// NewPredictor creates a predictor client for the given endpoint URL.
// If httpc is nil, a client with a 30-second timeout is used.
func NewPredictor(url string, httpc *http.Client) *Predictor {
	if httpc == nil {
		httpc = &http.Client{Timeout: predictorTimeout}
	}
	return &Predictor{url: url, httpc: httpc}
}

// predictRequest is the prediction API's request body: the raw feature
// matrix under a "data" key. Rows are mixed-type arrays (wind directions
// are strings), which is why the element type is []any.
type predictRequest struct {
	Data [][]any `json:"data"`
}

// predictResponse is the prediction API's response body. The field names
// are the model's output names and form the wire contract.
type predictResponse struct {
	MinTemp       float64 `json:"MinTemp"`
	MaxTemp       float64 `json:"MaxTemp"`
	Rainfall      float64 `json:"Rainfall"`
	WindGustSpeed float64 `json:"WindGustSpeed"`
	WindSpeed9am  float64 `json:"WindSpeed9am"`
	WindSpeed3pm  float64 `json:"WindSpeed3pm"`
	Pressure9am   float64 `json:"Pressure9am"`
	Pressure3pm   float64 `json:"Pressure3pm"`
	Temp9am       float64 `json:"Temp9am"`
	Temp3pm       float64 `json:"Temp3pm"`
	RainToday     float64 `json:"RainToday"`
}

// Predict posts the feature matrix for the past seven days (oldest first)
// and returns the predicted report for the day after the last row.
//
// loc and date describe the prediction target and are copied into the
// returned report; the API itself is stateless and location-agnostic.
func (p *Predictor) Predict(ctx context.Context, features []model.DayFeatures, loc *model.Location, date time.Time) (*model.PredictedReport, error) {
	if len(features) != model.HistoryDays {
		return nil, fmt.Errorf("predictor: expected %d feature rows, got %d", model.HistoryDays, len(features))
	}

	reqBody := predictRequest{Data: make([][]any, 0, len(features))}
	for i := range features {
		reqBody.Data = append(reqBody.Data, features[i].Row())
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("predictor: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("predictor: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("predictor: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("predictor: unexpected status %d", resp.StatusCode)
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("predictor: decode response: %w", err)
	}

	return &model.PredictedReport{
		Location:      loc.Name,
		Country:       loc.Country,
		Date:          date,
		MinTemp:       out.MinTemp,
		MaxTemp:       out.MaxTemp,
		Rainfall:      out.Rainfall,
		WindGustSpeed: out.WindGustSpeed,
		WindSpeed9am:  out.WindSpeed9am,
		WindSpeed3pm:  out.WindSpeed3pm,
		Pressure9am:   out.Pressure9am,
		Pressure3pm:   out.Pressure3pm,
		Temp9am:       out.Temp9am,
		Temp3pm:       out.Temp3pm,
		RainTodayProb: out.RainToday,
	}, nil
}
