package location

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"charity-web/internal/config"
	"charity-web/internal/providers/ipapi"
	"charity-web/internal/providers/openstreetmap"
	"charity-web/internal/timezone"
	"charity-web/internal/types"
)

var (
	ErrInvalidLatitude  = errors.New("latitude must be between -90 and 90")
	ErrInvalidLongitude = errors.New("longitude must be between -180 and 180")
)

// Messages shown to visitors when a lookup fails
const (
	msgUnavailable = "Location service is unavailable"
	msgNotFound    = "We could not determine your location"
)

// Query describes what is known about the visitor before the lookup
type Query struct {
	IP       string
	Coords   *types.Coords // Set when the browser shared its position
	Language string        // Preferred language for place names
}

// Service resolves a visitor's approximate location
type Service interface {
	Locate(ctx context.Context, q Query) (*types.Location, error)
}

// IPLookupProvider defines the interface for IP geolocation providers
type IPLookupProvider interface {
	Lookup(ctx context.Context, ip string) (*ipapi.LookupAPIResponse, error)
}

// ReverseGeocodeProvider defines the interface for coordinate lookups
type ReverseGeocodeProvider interface {
	Lookup(ctx context.Context, latitude, longitude float64, lang string) (*openstreetmap.LookupAPIResponse, error)
}

// locationService implements the Service interface
type locationService struct {
	ipProvider      IPLookupProvider
	reverseProvider ReverseGeocodeProvider
	timezoneService timezone.Service
	logger          *slog.Logger
}

// NewLocationService creates a new location service with real provider clients
func NewLocationService(cfg *config.Config, logger *slog.Logger) (Service, error) {
	tzSvc, err := timezone.NewService()
	if err != nil {
		return nil, fmt.Errorf("failed to create timezone service: %w", err)
	}

	httpClient := &http.Client{Timeout: cfg.Providers.Timeout}
	return NewLocationServiceWithProviders(
		ipapi.NewClient(cfg.Providers.LocationURL, httpClient, logger),
		openstreetmap.NewClient(cfg.Providers.ReverseGeocodeURL, cfg.Providers.UserAgent, httpClient, logger),
		tzSvc,
		logger,
	), nil
}

// NewLocationServiceWithProviders creates a new location service with custom providers
// This is useful for testing with mock providers
func NewLocationServiceWithProviders(
	ipProvider IPLookupProvider,
	reverseProvider ReverseGeocodeProvider,
	timezoneService timezone.Service,
	logger *slog.Logger,
) Service {
	return &locationService{
		ipProvider:      ipProvider,
		reverseProvider: reverseProvider,
		timezoneService: timezoneService,
		logger:          logger.With("component", "location-service"),
	}
}

// ValidateCoords checks that c is a real WGS84 coordinate
func ValidateCoords(c types.Coords) error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return ErrInvalidLatitude
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return ErrInvalidLongitude
	}
	return nil
}

// Locate prefers browser-supplied coordinates and falls back to the client IP.
// Provider failures are returned as *types.LookupError; context errors are
// returned unchanged.
func (s *locationService) Locate(ctx context.Context, q Query) (*types.Location, error) {
	if q.Coords != nil {
		if err := ValidateCoords(*q.Coords); err != nil {
			return nil, err
		}
		return s.locateCoords(ctx, *q.Coords, q.Language)
	}
	return s.locateIP(ctx, q.IP)
}

func (s *locationService) locateCoords(ctx context.Context, c types.Coords, lang string) (*types.Location, error) {
	resp, err := s.reverseProvider.Lookup(ctx, c.Latitude, c.Longitude, lang)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.logger.Warn("reverse geocoding failed",
			"latitude", c.Latitude,
			"longitude", c.Longitude,
			"error", err,
		)
		return nil, types.NewLookupError(msgUnavailable, fmt.Errorf("failed to reverse geocode: %w", err))
	}

	loc := translateReverseLookup(c, resp)

	tz, err := s.timezoneService.GetTimezone(c.Latitude, c.Longitude)
	if err != nil {
		// Place names are still useful without a timezone
		s.logger.Debug("no timezone for coordinates", "error", err)
	}
	loc.Timezone = tz

	return loc, nil
}

func (s *locationService) locateIP(ctx context.Context, ip string) (*types.Location, error) {
	resp, err := s.ipProvider.Lookup(ctx, ip)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.logger.Warn("IP geolocation failed", "ip", ip, "error", err)
		return nil, types.NewLookupError(msgUnavailable, fmt.Errorf("failed to geolocate ip: %w", err))
	}

	if resp.Status != ipapi.StatusSuccess {
		s.logger.Info("IP geolocation rejected", "ip", ip, "message", resp.Message)
		reason := msgNotFound
		if resp.Message != "" {
			reason = fmt.Sprintf("%s (%s)", msgNotFound, resp.Message)
		}
		return nil, types.NewLookupError(reason, fmt.Errorf("ip lookup status %q: %s", resp.Status, resp.Message))
	}

	return translateIPLookup(resp), nil
}

// translateIPLookup converts an ip-api response to the domain Location type
func translateIPLookup(resp *ipapi.LookupAPIResponse) *types.Location {
	return &types.Location{
		Coordinates: types.NewCoords(resp.Lat, resp.Lon),
		Name:        resp.City,
		Region:      resp.RegionName,
		Country:     resp.Country,
		CountryCode: strings.ToUpper(resp.CountryCode),
		Timezone:    resp.Timezone,
		Source:      types.SourceIP,
	}
}

// translateReverseLookup converts a Nominatim response to the domain Location type
func translateReverseLookup(c types.Coords, resp *openstreetmap.LookupAPIResponse) *types.Location {
	name := resp.Address.Locality()
	if name == "" {
		name = resp.Name
	}
	return &types.Location{
		Coordinates: c,
		Name:        name,
		Region:      resp.Address.State,
		Country:     resp.Address.Country,
		CountryCode: strings.ToUpper(resp.Address.CountryCode),
		Source:      types.SourceCoords,
	}
}
