package forecast

import (
	"fmt"
	"sort"

	"github.com/data-tamer2410/sky-view/internal/model"
)

// Field is one labelled value in a formatted report, ready for display
// in the dashboard table or CLI output.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// FormatObserved renders an observed report as display fields with
// units attached, sorted by label. Condition text and icon are not
// included — they are rendered separately as the report headline.
func FormatObserved(r *model.ObservedReport) []Field {
	rainToday := "No"
	if r.RainToday {
		rainToday = "Yes"
	}

	fields := []Field{
		{"MinTemp", fmt.Sprintf("%.1f°C", r.MinTemp)},
		{"MaxTemp", fmt.Sprintf("%.1f°C", r.MaxTemp)},
		{"Rainfall", formatRainfall(r.Rainfall)},
		{"WindGustSpeed", fmt.Sprintf("%.1fkph", r.WindGustSpeed)},
		{"WindSpeed9am", fmt.Sprintf("%.1fkph", r.WindSpeed9am)},
		{"WindSpeed3pm", fmt.Sprintf("%.1fkph", r.WindSpeed3pm)},
		{"Pressure9am", fmt.Sprintf("%.1fhPa", r.Pressure9am)},
		{"Pressure3pm", fmt.Sprintf("%.1fhPa", r.Pressure3pm)},
		{"Temp9am", fmt.Sprintf("%.1f°C", r.Temp9am)},
		{"Temp3pm", fmt.Sprintf("%.1f°C", r.Temp3pm)},
		{"WindDir9am", r.WindDir9am},
		{"WindDir3pm", r.WindDir3pm},
		{"Humidity9am", fmt.Sprintf("%.0f%%", r.Humidity9am)},
		{"Humidity3pm", fmt.Sprintf("%.0f%%", r.Humidity3pm)},
		{"Cloud9am", fmt.Sprintf("%.0f%%", r.Cloud9am)},
		{"Cloud3pm", fmt.Sprintf("%.0f%%", r.Cloud3pm)},
		{"RainToday", rainToday},
	}
	sortFields(fields)
	return fields
}

// FormatPredicted renders a predicted report as display fields, sorted
// by label. The rain probability is shown as a whole percentage.
func FormatPredicted(r *model.PredictedReport) []Field {
	fields := []Field{
		{"MinTemp", fmt.Sprintf("%.1f°C", r.MinTemp)},
		{"MaxTemp", fmt.Sprintf("%.1f°C", r.MaxTemp)},
		{"Rainfall", formatRainfall(r.Rainfall)},
		{"WindGustSpeed", fmt.Sprintf("%.1fkph", r.WindGustSpeed)},
		{"WindSpeed9am", fmt.Sprintf("%.1fkph", r.WindSpeed9am)},
		{"WindSpeed3pm", fmt.Sprintf("%.1fkph", r.WindSpeed3pm)},
		{"Pressure9am", fmt.Sprintf("%.1fhPa", r.Pressure9am)},
		{"Pressure3pm", fmt.Sprintf("%.1fhPa", r.Pressure3pm)},
		{"Temp9am", fmt.Sprintf("%.1f°C", r.Temp9am)},
		{"Temp3pm", fmt.Sprintf("%.1f°C", r.Temp3pm)},
		{"RainToday", fmt.Sprintf("%.0f%%", r.RainTodayProb*100)},
	}
	sortFields(fields)
	return fields
}

// formatRainfall clamps negative rainfall to zero before formatting.
// The regression model can output small negative rainfall values, and
// "-0.13mm of rain" is nonsense to show a user.
func formatRainfall(mm float64) string {
	if mm < 0 {
		mm = 0
	}
	return fmt.Sprintf("%.2fmm", mm)
}

// sortFields orders fields alphabetically by label so the dashboard
// layout is stable across requests.
func sortFields(fields []Field) {
	sort.Slice(fields, func(i, j int) bool {
		return fields[i].Label < fields[j].Label
	})
}
