package country

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ErrUnavailable marks a catalog fetch failure. Callers abort the dependent
// operation and may retry later; nothing is cached on failure.
var ErrUnavailable = errors.New("country catalog unavailable")

// CatalogClient fetches the raw catalog (implemented by the REST Countries
// client in external/).
type CatalogClient interface {
	Fetch(ctx context.Context) ([]Country, error)
}

// CatalogCache stores a fetched catalog between sessions. Cache failures are
// never fatal; the service falls through to the client.
type CatalogCache interface {
	Get(ctx context.Context) ([]Country, error)
	Set(ctx context.Context, countries []Country) error
}

// Service resolves the country catalog: cache first, external fetch second.
type Service struct {
	client CatalogClient
	cache  CatalogCache
	logger zerolog.Logger
}

func NewService(client CatalogClient, cache CatalogCache, logger zerolog.Logger) *Service {
	return &Service{
		client: client,
		cache:  cache,
		logger: logger.With().Str("component", "catalog").Logger(),
	}
}

// Countries returns the mapped catalog. A fetch failure is surfaced as
// ErrUnavailable; a cache failure only produces a warning.
func (s *Service) Countries(ctx context.Context) ([]Country, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("catalog cache read failed")
		} else if len(cached) > 0 {
			return cached, nil
		}
	}

	countries, err := s.client.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, countries); err != nil {
			s.logger.Warn().Err(err).Msg("catalog cache write failed")
		}
	}
	return countries, nil
}
