package weather

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

const (
	// CandidateLimit is the number of places requested from the geocoder for each suggestion lookup.
	CandidateLimit = 50
)

var (
	// ErrInvalidQuery is returned if a blank city or query is supplied.
	ErrInvalidQuery = errors.New("invalid query supplied")
)

// Feed is a source of current conditions and place names.
type Feed interface {
	GetCurrentReport(ctx context.Context, city string) (*Report, error)
	FindPlaces(ctx context.Context, query string, limit int) ([]Place, error)
}

// API layers the lookup rules on top of a feed.
type API struct {
	logger *zap.Logger
	feed   Feed
}

// NewAPI creates a new weather API backed by the supplied feed.
func NewAPI(logger *zap.Logger, feed Feed) *API {
	return &API{
		logger: logger,
		feed:   feed,
	}
}

// GetCurrentReport gets the current conditions for the city. The city is passed to the feed as-is.
func (api *API) GetCurrentReport(ctx context.Context, city string) (*Report, error) {
	if strings.TrimSpace(city) == "" {
		return nil, ErrInvalidQuery
	}

	report, err := api.feed.GetCurrentReport(ctx, city)
	if err != nil {
		api.logger.Info("unable to get current report",
			zap.String("city", city),
			zap.Error(err),
		)
		return nil, err
	}

	return report, nil
}

// Suggest returns the places whose name starts with the query, sorted by name.
func (api *API) Suggest(ctx context.Context, query string) ([]Place, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrInvalidQuery
	}

	candidates, err := api.feed.FindPlaces(ctx, query, CandidateLimit)
	if err != nil {
		api.logger.Debug("unable to find places",
			zap.String("query", query),
			zap.Error(err),
		)
		return nil, err
	}

	matched := MatchPrefix(candidates, query)
	api.logger.Debug("suggestions",
		zap.String("query", query),
		zap.Int("candidates", len(candidates)),
		zap.Int("matched", len(matched)),
	)
	return matched, nil
}
