// Package cli — forecast.go implements the "skyview forecast" command.
//
// The forecast command is a one-shot lookup for scripting and quick
// checks: it resolves a location, fetches or predicts the requested
// day, and prints the report without starting the server.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/data-tamer2410/sky-view/internal/forecast"
	"github.com/data-tamer2410/sky-view/internal/history"
	"github.com/data-tamer2410/sky-view/internal/model"
	"github.com/data-tamer2410/sky-view/internal/weatherapi"
)

// forecastFlags holds the flag values for the forecast command.
type forecastFlags struct {
	// day selects the report: "today" (observed) or "tomorrow" (predicted).
	day string
}

// NewForecastCommand creates the "forecast" cobra command.
func NewForecastCommand() *cobra.Command {
	flags := &forecastFlags{}

	cmd := &cobra.Command{
		Use:   "forecast <location>",
		Short: "Print a weather report for an Australian location",
		Long: `Print today's observed conditions or tomorrow's predicted weather
for an Australian location, without starting the server.

Examples:
  skyview forecast Sydney
  skyview forecast "Coffs Harbour" --day tomorrow
  skyview forecast Melbourne --json`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runForecast(cmd.Context(), args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.day, "day", "today",
		"Which report to print: today, tomorrow (default: today)")

	return cmd
}

// runForecast resolves the location and prints the requested report.
func runForecast(ctx context.Context, location string, flags *forecastFlags) error {
	day, err := model.ParseDay(flags.day)
	if err != nil {
		return model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("invalid day %q: valid values are today, tomorrow", flags.day))
	}

	cfg, err := loadCLIConfig()
	if err != nil {
		return err
	}
	logger := newLogger()

	weather := weatherapi.NewClient(cfg.WeatherBaseURL, cfg.WeatherAPIKey, nil)
	predictor := forecast.NewPredictor(cfg.PredictorURL, nil)

	var cache forecast.HistoryCache
	if cfg.CachePath != "" {
		c, err := history.Open(cfg.CachePath)
		if err != nil {
			// One-shot lookups work without the cache; say so and move on.
			VerboseLog("history cache unavailable: %v", err)
		} else {
			defer c.Close()
			cache = c
		}
	}

	svc := forecast.NewService(weather, predictor, cache, logger)

	switch day {
	case model.DayTomorrow:
		report, err := svc.Tomorrow(ctx, location)
		if err != nil {
			return forecastError(location, err)
		}
		printReport(report.Location, report.Country, report.Date.Format("2006-01-02"),
			forecast.FormatPredicted(report), report)

	default:
		report, err := svc.Today(ctx, location)
		if err != nil {
			return forecastError(location, err)
		}
		printReport(report.Location, report.Country, report.Date.Format("2006-01-02"),
			forecast.FormatObserved(report), report)
	}

	return nil
}

// forecastError maps service failures to exit codes: unknown locations
// get ExitLocationNotFound, anything else ExitUpstreamUnavailable.
func forecastError(location string, err error) error {
	if errors.Is(err, weatherapi.ErrLocationNotFound) {
		return model.WrapCLIError(
			model.ExitLocationNotFound,
			fmt.Sprintf("location %q not found in Australia", location),
			err,
		)
	}
	return model.WrapCLIError(
		model.ExitUpstreamUnavailable,
		"weather service is unavailable",
		err,
	)
}

// printReport outputs a report either as indented JSON (--json) or as
// the same label/value rows the dashboard shows.
func printReport(name, country, date string, fields []forecast.Field, raw any) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(raw, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Printf("%s, %s - %s\n", name, country, date)

	// Align values on the longest label.
	width := 0
	for _, f := range fields {
		if len(f.Label) > width {
			width = len(f.Label)
		}
	}
	for _, f := range fields {
		fmt.Printf("  %-*s %s\n", width+1, f.Label+":", f.Value)
	}
}
