package forecast

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/data-tamer2410/sky-view/internal/model"
	"github.com/data-tamer2410/sky-view/internal/weatherapi"
)

// coverageCountry is the only country the service covers. The prediction
// model was trained exclusively on Australian weather stations, so
// queries resolving elsewhere are rejected as not found rather than
// answered with meaningless predictions.
const coverageCountry = "Australia"

// HistoryCache stores raw history.json payloads keyed by location query
// and wire date ("2006-01-02"). Implemented by the history package;
// a nil HistoryCache on the Service disables caching entirely.
type HistoryCache interface {
	// Get returns the cached payload and whether it was present.
	Get(ctx context.Context, location, date string) ([]byte, bool, error)

	// Put stores a payload. Implementations may assume the payload is
	// immutable: only fully elapsed days are ever written.
	Put(ctx context.Context, location, date string, payload []byte) error
}

// Service produces weather reports by combining the weather API, the
// prediction API, and the optional history cache.
type Service struct {
	weather   *weatherapi.Client
	predictor *Predictor
	cache     HistoryCache
	logger    *slog.Logger
}

// NewService constructs a forecast service. cache may be nil to disable
// history caching; logger may be nil to discard debug logging.
func NewService(weather *weatherapi.Client, predictor *Predictor, cache HistoryCache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		weather:   weather,
		predictor: predictor,
		cache:     cache,
		logger:    logger,
	}
}

// Today returns the observed report for the location's current local date.
func (s *Service) Today(ctx context.Context, location string) (*model.ObservedReport, error) {
	loc, err := s.resolve(ctx, location)
	if err != nil {
		return nil, err
	}

	// Today's day is still in progress, so it is always fetched live and
	// never written to the cache — cached partial days would poison
	// tomorrow's feature window.
	day, err := s.weather.History(ctx, location, loc.LocalDate)
	if err != nil {
		return nil, err
	}

	f, err := ExtractFeatures(day)
	if err != nil {
		return nil, err
	}
	return buildObservedReport(loc, day, f), nil
}

// Tomorrow returns the predicted report for the location's next local
// date. It assembles the 7-day feature window ending today (local),
// oldest day first, and forwards it to the prediction API.
func (s *Service) Tomorrow(ctx context.Context, location string) (*model.PredictedReport, error) {
	loc, err := s.resolve(ctx, location)
	if err != nil {
		return nil, err
	}

	features := make([]model.DayFeatures, 0, model.HistoryDays)
	for offset := model.HistoryDays - 1; offset >= 0; offset-- {
		date := loc.LocalDate.AddDate(0, 0, -offset)

		day, err := s.historyDay(ctx, location, date, offset > 0)
		if err != nil {
			return nil, err
		}

		f, err := ExtractFeatures(day)
		if err != nil {
			return nil, err
		}
		features = append(features, *f)
	}

	predictionDate := loc.LocalDate.AddDate(0, 0, 1)
	return s.predictor.Predict(ctx, features, loc, predictionDate)
}

// resolve looks up the location and applies the coverage gate.
func (s *Service) resolve(ctx context.Context, location string) (*model.Location, error) {
	loc, err := s.weather.Current(ctx, location)
	if err != nil {
		return nil, err
	}
	if loc.Country != coverageCountry {
		return nil, fmt.Errorf("location %q resolved to %s: %w",
			location, loc.Country, weatherapi.ErrLocationNotFound)
	}
	return loc, nil
}

// historyDay fetches one day of history, going through the cache when
// the day is cacheable (fully elapsed). Cache failures degrade to live
// fetches — a broken cache file must not take the forecast down.
func (s *Service) historyDay(ctx context.Context, location string, date time.Time, cacheable bool) (*weatherapi.HistoryDay, error) {
	wireDate := date.Format("2006-01-02")

	if s.cache != nil && cacheable {
		payload, ok, err := s.cache.Get(ctx, location, wireDate)
		if err != nil {
			s.logger.Warn("history cache read failed", "location", location, "date", wireDate, "error", err)
		} else if ok {
			day, err := weatherapi.DecodeHistoryDay(payload)
			if err == nil {
				s.logger.Debug("history cache hit", "location", location, "date", wireDate)
				return day, nil
			}
			// A corrupt cached payload falls through to a live fetch.
			s.logger.Warn("discarding corrupt cached history", "location", location, "date", wireDate, "error", err)
		}
	}

	payload, err := s.weather.HistoryRaw(ctx, location, date)
	if err != nil {
		return nil, err
	}
	day, err := weatherapi.DecodeHistoryDay(payload)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && cacheable {
		if err := s.cache.Put(ctx, location, wireDate, payload); err != nil {
			s.logger.Warn("history cache write failed", "location", location, "date", wireDate, "error", err)
		}
	}
	return day, nil
}
