package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/data-tamer2410/sky-view/internal/forecast"
	"github.com/data-tamer2410/sky-view/internal/model"
	"github.com/data-tamer2410/sky-view/internal/weatherapi"
)

// dateDisplayLayout renders report dates on the page and in JSON field
// lists (the JSON report body itself uses RFC 3339 via encoding/json).
const dateDisplayLayout = "2006-01-02"

// pageData feeds the dashboard template.
type pageData struct {
	// Locations fills the select box.
	Locations []string

	// Query state, echoed back into the form controls.
	Location string
	Day      model.Day

	// Report presence and headline. For observed reports the headline is
	// the condition summary with its icon; predictions have no headline.
	HasReport     bool
	Title         string
	ConditionText string
	ConditionIcon string
	Fields        []forecast.Field

	// Error banner text, empty when the request succeeded.
	Error string
}

// reportPayload is the JSON API response shape for /api/forecast.
type reportPayload struct {
	Day    model.Day        `json:"day"`
	Report any              `json:"report"`
	Fields []forecast.Field `json:"fields"`
}

// errorPayload is the JSON API error shape.
type errorPayload struct {
	Error string `json:"error"`
}

// handleIndex renders the dashboard. With no query parameters it shows
// the bare form; with location (and optionally day) it runs the forecast
// and renders the result or an error banner inline.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		Locations: s.locations,
		Day:       model.DayToday,
	}

	if dayParam := r.URL.Query().Get("day"); dayParam != "" {
		day, err := model.ParseDay(dayParam)
		if err != nil {
			data.Error = err.Error()
			s.render(w, &data)
			return
		}
		data.Day = day
	}

	location := strings.TrimSpace(r.URL.Query().Get("location"))
	data.Location = location
	if location == "Other" {
		// The "Other" catalog entry reveals a free-text field; the typed
		// value replaces the select box value for the lookup.
		location = strings.TrimSpace(r.URL.Query().Get("custom"))
	}
	if location == "" {
		if r.URL.Query().Has("location") {
			data.Error = "Please select a location."
		}
		s.render(w, &data)
		return
	}

	title, fields, condition, err := s.report(r, location, data.Day)
	if err != nil {
		data.Error = userMessage(err)
		s.logger.Warn("forecast failed", "location", location, "day", data.Day, "error", err)
		s.render(w, &data)
		return
	}

	data.HasReport = true
	data.Title = title
	data.Fields = fields
	data.ConditionText = condition.Text
	data.ConditionIcon = condition.Icon
	s.render(w, &data)
}

// handleLocations serves the catalog for API consumers.
func (s *Server) handleLocations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.locations)
}

// handleForecast serves a forecast report as JSON.
//
// Status mapping: 400 for bad parameters, 404 when the location cannot
// be resolved (or is outside coverage), 502 when an upstream fails.
func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	location := strings.TrimSpace(r.URL.Query().Get("location"))
	if location == "" {
		writeJSON(w, http.StatusBadRequest, errorPayload{Error: "location parameter is required"})
		return
	}

	day := model.DayToday
	if dayParam := r.URL.Query().Get("day"); dayParam != "" {
		parsed, err := model.ParseDay(dayParam)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorPayload{Error: err.Error()})
			return
		}
		day = parsed
	}

	payload := reportPayload{Day: day}
	switch day {
	case model.DayToday:
		report, err := s.forecaster.Today(r.Context(), location)
		if err != nil {
			s.writeForecastError(w, location, day, err)
			return
		}
		payload.Report = report
		payload.Fields = forecast.FormatObserved(report)
	case model.DayTomorrow:
		report, err := s.forecaster.Tomorrow(r.Context(), location)
		if err != nil {
			s.writeForecastError(w, location, day, err)
			return
		}
		payload.Report = report
		payload.Fields = forecast.FormatPredicted(report)
	}

	writeJSON(w, http.StatusOK, payload)
}

// report runs the forecast for the HTML page and flattens it into title,
// display fields, and the optional condition headline.
func (s *Server) report(r *http.Request, location string, day model.Day) (string, []forecast.Field, weatherapi.Condition, error) {
	switch day {
	case model.DayTomorrow:
		rep, err := s.forecaster.Tomorrow(r.Context(), location)
		if err != nil {
			return "", nil, weatherapi.Condition{}, err
		}
		return reportTitle(rep.Location, rep.Country, rep.Date),
			forecast.FormatPredicted(rep), weatherapi.Condition{}, nil
	default:
		rep, err := s.forecaster.Today(r.Context(), location)
		if err != nil {
			return "", nil, weatherapi.Condition{}, err
		}
		return reportTitle(rep.Location, rep.Country, rep.Date),
			forecast.FormatObserved(rep),
			weatherapi.Condition{Text: rep.ConditionText, Icon: rep.ConditionIcon}, nil
	}
}

// writeForecastError maps forecast errors onto API status codes.
func (s *Server) writeForecastError(w http.ResponseWriter, location string, day model.Day, err error) {
	s.logger.Warn("forecast failed", "location", location, "day", day, "error", err)
	status := http.StatusBadGateway
	if errors.Is(err, weatherapi.ErrLocationNotFound) {
		status = http.StatusNotFound
	}
	writeJSON(w, status, errorPayload{Error: userMessage(err)})
}

// userMessage translates internal errors into the messages shown to
// users. Upstream details stay in the logs; users get a stable, friendly
// line for each failure class.
func userMessage(err error) string {
	if errors.Is(err, weatherapi.ErrLocationNotFound) {
		return "Location not found. Please enter a valid location in Australia."
	}
	return "Sorry, the service is temporarily unavailable. Please try again later."
}

// reportTitle formats the "Sydney, Australia - 2026-08-29" headline.
func reportTitle(location, country string, date time.Time) string {
	return location + ", " + country + " - " + date.Format(dateDisplayLayout)
}

// render executes the dashboard template, falling back to a bare 500 if
// template execution fails (which indicates a programming error, not a
// user error).
func (s *Server) render(w http.ResponseWriter, data *pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, data); err != nil {
		s.logger.Error("template execution failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// writeJSON writes a JSON response body with the given status code.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
