package forecast

import (
	"fmt"
	"time"

	"github.com/data-tamer2410/sky-view/internal/model"
	"github.com/data-tamer2410/sky-view/internal/weatherapi"
)

// Observation sample times within a history day. The prediction model
// was trained on 9am and 3pm readings, so those two hourly blocks are
// the only ones sampled (besides the gust maximum, which scans all 24).
const (
	morningHour   = 9
	afternoonHour = 15
)

// ExtractFeatures maps one day of weather history onto the model's
// feature vector.
//
// Day-level values (min/max temp, precipitation) come from the day
// summary block. Hourly values are taken from the 09:00 and 15:00 blocks;
// the gust speed is the maximum across every hourly block of the day.
// The rain flag is set when the day recorded any precipitation at all.
//
// Returns an error if the day has no hourly data or is missing either
// sample hour — that indicates a malformed upstream payload, and feeding
// zero-filled features to the model would silently skew the prediction.
func ExtractFeatures(day *weatherapi.HistoryDay) (*model.DayFeatures, error) {
	if len(day.Hour) == 0 {
		return nil, fmt.Errorf("history day %s has no hourly data", day.Date)
	}

	f := &model.DayFeatures{
		MinTemp:  day.Day.MinTempC,
		MaxTemp:  day.Day.MaxTempC,
		Rainfall: day.Day.TotalPrecipMM,
	}
	if day.Day.TotalPrecipMM > 0 {
		f.RainToday = 1
	}

	var sawMorning, sawAfternoon bool
	for i := range day.Hour {
		hour := &day.Hour[i]

		if hour.GustKPH > f.WindGustSpeed {
			f.WindGustSpeed = hour.GustKPH
		}

		ts, err := time.Parse(weatherapi.HourTimeLayout, hour.Time)
		if err != nil {
			return nil, fmt.Errorf("history day %s: bad hour timestamp %q: %w", day.Date, hour.Time, err)
		}
		if ts.Minute() != 0 {
			continue
		}

		switch ts.Hour() {
		case morningHour:
			f.WindSpeed9am = hour.WindKPH
			f.Pressure9am = hour.PressureMB
			f.Temp9am = hour.TempC
			f.WindDir9am = hour.WindDir
			f.Humidity9am = hour.Humidity
			f.Cloud9am = hour.Cloud
			sawMorning = true
		case afternoonHour:
			f.WindSpeed3pm = hour.WindKPH
			f.Pressure3pm = hour.PressureMB
			f.Temp3pm = hour.TempC
			f.WindDir3pm = hour.WindDir
			f.Humidity3pm = hour.Humidity
			f.Cloud3pm = hour.Cloud
			sawAfternoon = true
		}
	}

	if !sawMorning || !sawAfternoon {
		return nil, fmt.Errorf("history day %s is missing the 09:00 or 15:00 observation", day.Date)
	}
	return f, nil
}

// buildObservedReport maps a history day and its resolved location onto
// the report shown for "today".
func buildObservedReport(loc *model.Location, day *weatherapi.HistoryDay, f *model.DayFeatures) *model.ObservedReport {
	return &model.ObservedReport{
		Location: loc.Name,
		Country:  loc.Country,
		Date:     loc.LocalDate,

		MinTemp:       f.MinTemp,
		MaxTemp:       f.MaxTemp,
		Rainfall:      f.Rainfall,
		WindGustSpeed: f.WindGustSpeed,
		WindSpeed9am:  f.WindSpeed9am,
		WindSpeed3pm:  f.WindSpeed3pm,
		Pressure9am:   f.Pressure9am,
		Pressure3pm:   f.Pressure3pm,
		Temp9am:       f.Temp9am,
		Temp3pm:       f.Temp3pm,
		WindDir9am:    f.WindDir9am,
		WindDir3pm:    f.WindDir3pm,
		Humidity9am:   f.Humidity9am,
		Humidity3pm:   f.Humidity3pm,
		Cloud9am:      f.Cloud9am,
		Cloud3pm:      f.Cloud3pm,
		RainToday:     f.RainToday == 1,

		ConditionText: day.Day.Condition.Text,
		ConditionIcon: day.Day.Condition.Icon,
	}
}
