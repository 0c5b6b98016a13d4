package forecast

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/data-tamer2410/sky-view/internal/model"
)

// fieldValue looks up a field value by label, failing the test when the
// label is absent.
func fieldValue(t *testing.T, fields []Field, label string) string {
	t.Helper()
	for _, f := range fields {
		if f.Label == label {
			return f.Value
		}
	}
	t.Fatalf("field %q not found", label)
	return ""
}

// TestFormatObserved verifies units, precision, and the yes/no rain flag
// on the observed report.
func TestFormatObserved(t *testing.T) {
	r := &model.ObservedReport{
		MinTemp:       9.16,
		MaxTemp:       21.04,
		Rainfall:      0.456,
		WindGustSpeed: 31.7,
		WindSpeed9am:  12.0,
		WindSpeed3pm:  15.55,
		Pressure9am:   1021.33,
		Pressure3pm:   1017.0,
		Temp9am:       13.0,
		Temp3pm:       20.5,
		WindDir9am:    "NNW",
		WindDir3pm:    "SE",
		Humidity9am:   71.6,
		Humidity3pm:   52.2,
		Cloud9am:      25,
		Cloud3pm:      75,
		RainToday:     true,
	}

	fields := FormatObserved(r)

	require.Len(t, fields, 17)
	assert.Equal(t, "9.2°C", fieldValue(t, fields, "MinTemp"))
	assert.Equal(t, "21.0°C", fieldValue(t, fields, "MaxTemp"))
	assert.Equal(t, "0.46mm", fieldValue(t, fields, "Rainfall"))
	assert.Equal(t, "31.7kph", fieldValue(t, fields, "WindGustSpeed"))
	assert.Equal(t, "15.6kph", fieldValue(t, fields, "WindSpeed3pm"))
	assert.Equal(t, "1021.3hPa", fieldValue(t, fields, "Pressure9am"))
	assert.Equal(t, "72%", fieldValue(t, fields, "Humidity9am"))
	assert.Equal(t, "75%", fieldValue(t, fields, "Cloud3pm"))
	assert.Equal(t, "NNW", fieldValue(t, fields, "WindDir9am"))
	assert.Equal(t, "Yes", fieldValue(t, fields, "RainToday"))
}

// TestFormatObserved_NoRain verifies the rain flag renders "No" when the
// day was dry.
func TestFormatObserved_NoRain(t *testing.T) {
	fields := FormatObserved(&model.ObservedReport{})
	assert.Equal(t, "No", fieldValue(t, fields, "RainToday"))
}

// TestFormatPredicted verifies the predicted report's field set and the
// rain probability percentage.
func TestFormatPredicted(t *testing.T) {
	r := &model.PredictedReport{
		MinTemp:       10.0,
		MaxTemp:       19.5,
		Rainfall:      2.345,
		WindGustSpeed: 40.0,
		WindSpeed9am:  11.1,
		WindSpeed3pm:  13.3,
		Pressure9am:   1019.9,
		Pressure3pm:   1014.4,
		Temp9am:       12.2,
		Temp3pm:       18.8,
		RainTodayProb: 0.734,
	}

	fields := FormatPredicted(r)

	// Predicted reports have no humidity, cloud, or wind direction.
	require.Len(t, fields, 11)
	assert.Equal(t, "73%", fieldValue(t, fields, "RainToday"))
	assert.Equal(t, "2.35mm", fieldValue(t, fields, "Rainfall"))
}

// TestFormatRainfall_ClampsNegative verifies negative model output is
// clamped to zero before display.
func TestFormatRainfall_ClampsNegative(t *testing.T) {
	fields := FormatPredicted(&model.PredictedReport{Rainfall: -0.13})
	assert.Equal(t, "0.00mm", fieldValue(t, fields, "Rainfall"))
}

// TestFormatFieldsAreSorted verifies both formatters return fields in
// alphabetical label order, keeping the dashboard layout stable.
func TestFormatFieldsAreSorted(t *testing.T) {
	for name, fields := range map[string][]Field{
		"observed":  FormatObserved(&model.ObservedReport{}),
		"predicted": FormatPredicted(&model.PredictedReport{}),
	} {
		sorted := sort.SliceIsSorted(fields, func(i, j int) bool {
			return fields[i].Label < fields[j].Label
		})
		assert.True(t, sorted, "%s fields should be sorted by label", name)
	}
}
