package model

import (
	"fmt"
	"strings"
	"time"
)

// Day selects which report the user asked for.
// "today" returns observed conditions; "tomorrow" returns a model prediction
// built from the past seven days of history.
type Day string

const (
	// DayToday requests the observed report for the location's current
	// local date.
	DayToday Day = "today"

	// DayTomorrow requests the predicted report for the location's next
	// local date.
	DayTomorrow Day = "tomorrow"
)

// String returns the string representation of Day.
// This method satisfies the fmt.Stringer interface, enabling
// human-readable output in CLI commands and logging.
func (d Day) String() string {
	return string(d)
}

// IsValid checks whether the Day value is one of the predefined values.
func (d Day) IsValid() bool {
	switch d {
	case DayToday, DayTomorrow:
		return true
	default:
		return false
	}
}

// ParseDay converts a string to a Day.
// Returns an error if the string does not match any valid value.
func ParseDay(s string) (Day, error) {
	day := Day(strings.ToLower(s))
	if !day.IsValid() {
		return "", fmt.Errorf("invalid day: %q (valid: today, tomorrow)", s)
	}
	return day, nil
}

// Location describes a resolved weather location as returned by the
// upstream location lookup. The Query field preserves the user's raw
// input; Name and Country are the upstream's canonical spelling.
type Location struct {
	// Query is the raw location string the user entered.
	Query string `json:"query"`

	// Name is the resolved location name (e.g., "Sydney").
	Name string `json:"name"`

	// Country is the resolved country name. The service only serves
	// Australian locations; anything else is rejected upstream of this type.
	Country string `json:"country"`

	// TimeZone is the IANA timezone identifier for the location
	// (e.g., "Australia/Sydney"). Local dates are computed in this zone.
	TimeZone string `json:"timeZone"`

	// LocalDate is the location's current calendar date in its own
	// timezone at the moment of resolution. History lookups and the
	// prediction window anchor on this date, not on server time.
	LocalDate time.Time `json:"localDate"`
}

// ObservedReport holds the observed weather for one location and one
// local calendar date, as assembled from the day-history endpoint.
//
// The 9am/3pm split mirrors the upstream feature set: hourly values are
// sampled at 09:00 and 15:00 local time, which are the two observation
// times the prediction model was trained on.
type ObservedReport struct {
	Location string    `json:"location"`
	Country  string    `json:"country"`
	Date     time.Time `json:"date"`

	MinTemp       float64 `json:"minTemp"`
	MaxTemp       float64 `json:"maxTemp"`
	Rainfall      float64 `json:"rainfall"`
	WindGustSpeed float64 `json:"windGustSpeed"`
	WindSpeed9am  float64 `json:"windSpeed9am"`
	WindSpeed3pm  float64 `json:"windSpeed3pm"`
	Pressure9am   float64 `json:"pressure9am"`
	Pressure3pm   float64 `json:"pressure3pm"`
	Temp9am       float64 `json:"temp9am"`
	Temp3pm       float64 `json:"temp3pm"`

	// Wind directions are compass strings (e.g., "NNW"), not degrees.
	WindDir9am string `json:"windDir9am"`
	WindDir3pm string `json:"windDir3pm"`

	Humidity9am float64 `json:"humidity9am"`
	Humidity3pm float64 `json:"humidity3pm"`
	Cloud9am    float64 `json:"cloud9am"`
	Cloud3pm    float64 `json:"cloud3pm"`

	// RainToday is true when the day recorded any precipitation.
	RainToday bool `json:"rainToday"`

	// ConditionText is the upstream's human-readable condition summary
	// (e.g., "Partly cloudy"). ConditionIcon is a URL to the matching icon.
	ConditionText string `json:"conditionText"`
	ConditionIcon string `json:"conditionIcon"`
}

// PredictedReport holds the model's prediction for one location and the
// next local calendar date. It carries the same numeric fields as
// ObservedReport minus humidity, cloud, wind direction, and condition —
// the model does not predict those.
type PredictedReport struct {
	Location string    `json:"location"`
	Country  string    `json:"country"`
	Date     time.Time `json:"date"`

	MinTemp       float64 `json:"minTemp"`
	MaxTemp       float64 `json:"maxTemp"`
	Rainfall      float64 `json:"rainfall"`
	WindGustSpeed float64 `json:"windGustSpeed"`
	WindSpeed9am  float64 `json:"windSpeed9am"`
	WindSpeed3pm  float64 `json:"windSpeed3pm"`
	Pressure9am   float64 `json:"pressure9am"`
	Pressure3pm   float64 `json:"pressure3pm"`
	Temp9am       float64 `json:"temp9am"`
	Temp3pm       float64 `json:"temp3pm"`

	// RainTodayProb is the model's rain probability for the predicted
	// day, in the range 0..1.
	RainTodayProb float64 `json:"rainTodayProb"`
}

// FeatureCount is the number of values in one DayFeatures row.
// The prediction API expects exactly seven rows of this width.
const FeatureCount = 17

// HistoryDays is the number of past days the prediction model consumes.
const HistoryDays = 7

// DayFeatures is the feature vector extracted from one day of weather
// history. The prediction API consumes seven of these, oldest first.
//
// Wind directions are compass strings; everything else is numeric.
// RainToday is 0 or 1 (any precipitation recorded that day).
type DayFeatures struct {
	MinTemp       float64 `json:"minTemp"`
	MaxTemp       float64 `json:"maxTemp"`
	Rainfall      float64 `json:"rainfall"`
	WindGustSpeed float64 `json:"windGustSpeed"`
	WindSpeed9am  float64 `json:"windSpeed9am"`
	WindSpeed3pm  float64 `json:"windSpeed3pm"`
	Pressure9am   float64 `json:"pressure9am"`
	Pressure3pm   float64 `json:"pressure3pm"`
	Temp9am       float64 `json:"temp9am"`
	Temp3pm       float64 `json:"temp3pm"`
	WindDir9am    string  `json:"windDir9am"`
	WindDir3pm    string  `json:"windDir3pm"`
	Humidity9am   float64 `json:"humidity9am"`
	Humidity3pm   float64 `json:"humidity3pm"`
	Cloud9am      float64 `json:"cloud9am"`
	Cloud3pm      float64 `json:"cloud3pm"`
	RainToday     int     `json:"rainToday"`
}

// Row flattens the features into the mixed-type array the prediction API
// expects. The order is part of the wire contract with the model and must
// never change: min temp, max temp, rainfall, max gust, 9am/3pm wind,
// 9am/3pm pressure, 9am/3pm temp, 9am/3pm wind direction, 9am/3pm
// humidity, 9am/3pm cloud, rain flag.
func (f *DayFeatures) Row() []any {
	return []any{
		f.MinTemp,
		f.MaxTemp,
		f.Rainfall,
		f.WindGustSpeed,
		f.WindSpeed9am,
		f.WindSpeed3pm,
		f.Pressure9am,
		f.Pressure3pm,
		f.Temp9am,
		f.Temp3pm,
		f.WindDir9am,
		f.WindDir3pm,
		f.Humidity9am,
		f.Humidity3pm,
		f.Cloud9am,
		f.Cloud3pm,
		f.RainToday,
	}
}

// DeploymentInfo holds runtime information about a sky-view container
// managed by the deploy commands. This data is fetched from the Docker
// API, not persisted.
type DeploymentInfo struct {
	// ContainerID is the unique Docker container identifier.
	ContainerID string `json:"containerId"`

	// ContainerName is the human-readable Docker container name.
	ContainerName string `json:"containerName"`

	// Image is the image reference the container was created from.
	Image string `json:"image"`

	// Status is the Docker container status (e.g., "running", "exited").
	Status string `json:"status"`

	// HostPort is the host port the dashboard is published on.
	HostPort int `json:"hostPort"`

	// CreatedAt is the timestamp recorded when the deployment was created.
	CreatedAt time.Time `json:"createdAt"`
}
