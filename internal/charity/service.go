package charity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"charity-web/internal/cache"
	"charity-web/internal/config"
	"charity-web/internal/providers/catalog"
	"charity-web/internal/providers/charityapi"
	"charity-web/internal/types"
)

const (
	cacheKey       = "charities:list"
	msgUnavailable = "Charities are unavailable right now. Please try again later."
)

// Source is anything that can produce the full charity list
type Source interface {
	ListCharities(ctx context.Context) ([]types.Charity, error)
}

// Service lists charities for the donate page
type Service interface {
	ListCharities(ctx context.Context) ([]types.Charity, error)
}

type charityService struct {
	source Source
	cache  cache.RawCache
	ttl    time.Duration
	logger *slog.Logger
}

// NewCharityService picks the configured source: the charities API when a URL
// is set, a catalog file when one is named, the embedded catalog otherwise.
func NewCharityService(cfg *config.Config, c cache.RawCache, logger *slog.Logger) (Service, error) {
	var source Source
	switch {
	case cfg.Providers.CharitiesURL != "":
		httpClient := &http.Client{Timeout: cfg.Providers.Timeout}
		source = NewAPISource(charityapi.NewClient(cfg.Providers.CharitiesURL, httpClient, logger))
	case cfg.Providers.CharitiesFile != "":
		cat, err := catalog.LoadFile(cfg.Providers.CharitiesFile)
		if err != nil {
			return nil, err
		}
		source = cat
	default:
		cat, err := catalog.Default()
		if err != nil {
			return nil, fmt.Errorf("failed to load embedded catalog: %w", err)
		}
		source = cat
	}
	return NewCharityServiceWithSource(source, c, cfg.App.CharityCacheTTL, logger), nil
}

// NewCharityServiceWithSource creates a service over a custom source.
// A nil cache or a zero ttl disables caching.
func NewCharityServiceWithSource(source Source, c cache.RawCache, ttl time.Duration, logger *slog.Logger) Service {
	return &charityService{
		source: source,
		cache:  c,
		ttl:    ttl,
		logger: logger.With("component", "charity-service"),
	}
}

// ListCharities returns the cached list when present, otherwise asks the
// source. Failures are returned as *types.LookupError and never cached.
func (s *charityService) ListCharities(ctx context.Context) ([]types.Charity, error) {
	if cached, ok := s.readCache(ctx); ok {
		return cached, nil
	}

	charities, err := s.source.ListCharities(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.logger.Error("failed to list charities", "error", err)
		var lookupErr *types.LookupError
		if errors.As(err, &lookupErr) {
			return nil, lookupErr
		}
		return nil, types.NewLookupError(msgUnavailable, err)
	}
	if charities == nil {
		charities = []types.Charity{}
	}

	s.writeCache(ctx, charities)
	return charities, nil
}

func (s *charityService) readCache(ctx context.Context) ([]types.Charity, bool) {
	if s.cache == nil || s.ttl <= 0 {
		return nil, false
	}
	raw, ok, err := s.cache.Get(ctx, cacheKey)
	if err != nil {
		s.logger.Warn("charity cache read failed", "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var charities []types.Charity
	if err := json.Unmarshal(raw, &charities); err != nil {
		s.logger.Warn("discarding corrupt charity cache entry", "error", err)
		return nil, false
	}
	return charities, true
}

func (s *charityService) writeCache(ctx context.Context, charities []types.Charity) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(charities)
	if err != nil {
		s.logger.Warn("failed to encode charities for cache", "error", err)
		return
	}
	if err := s.cache.Set(ctx, cacheKey, raw, s.ttl); err != nil {
		s.logger.Warn("charity cache write failed", "error", err)
	}
}
