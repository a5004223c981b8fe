package location

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"charity-web/internal/providers/ipapi"
	"charity-web/internal/providers/openstreetmap"
	"charity-web/internal/types"
)

// Mock providers for testing

type mockIPProvider struct {
	response *ipapi.LookupAPIResponse
	err      error
	calls    int
	gotIP    string
}

func (m *mockIPProvider) Lookup(ctx context.Context, ip string) (*ipapi.LookupAPIResponse, error) {
	m.calls++
	m.gotIP = ip
	return m.response, m.err
}

type mockReverseProvider struct {
	response *openstreetmap.LookupAPIResponse
	err      error
	calls    int
	gotLang  string
}

func (m *mockReverseProvider) Lookup(ctx context.Context, latitude, longitude float64, lang string) (*openstreetmap.LookupAPIResponse, error) {
	m.calls++
	m.gotLang = lang
	return m.response, m.err
}

type mockTimezone struct {
	tz  string
	err error
}

func (m mockTimezone) GetTimezone(latitude, longitude float64) (string, error) {
	return m.tz, m.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLocationService_Locate(t *testing.T) {
	coords := types.NewCoords(31.9539, 35.9106)

	tests := []struct {
		name            string
		query           Query
		ipResponse      *ipapi.LookupAPIResponse
		ipErr           error
		reverseResponse *openstreetmap.LookupAPIResponse
		reverseErr      error
		tz              mockTimezone
		wantErr         error
		wantReason      string
		wantIPCalls     int
		wantRevCalls    int
		validate        func(*testing.T, *types.Location)
	}{
		{
			name:  "ip lookup success",
			query: Query{IP: "24.48.0.1"},
			ipResponse: &ipapi.LookupAPIResponse{
				Status: ipapi.StatusSuccess, City: "Montreal", RegionName: "Quebec",
				Country: "Canada", CountryCode: "ca", Lat: 45.5, Lon: -73.6, Timezone: "America/Toronto",
			},
			wantIPCalls: 1,
			validate: func(t *testing.T, l *types.Location) {
				if l.Label() != "Montreal, Quebec" {
					t.Errorf("Label() = %q", l.Label())
				}
				if l.CountryCode != "CA" {
					t.Errorf("CountryCode = %q, want CA", l.CountryCode)
				}
				if l.Source != types.SourceIP {
					t.Errorf("Source = %q, want ip", l.Source)
				}
				if l.Timezone != "America/Toronto" {
					t.Errorf("Timezone = %q", l.Timezone)
				}
			},
		},
		{
			name:        "ip lookup rejected",
			query:       Query{IP: "10.0.0.1"},
			ipResponse:  &ipapi.LookupAPIResponse{Status: ipapi.StatusFail, Message: "private range"},
			wantReason:  "We could not determine your location (private range)",
			wantIPCalls: 1,
		},
		{
			name:        "ip provider error",
			query:       Query{IP: "1.1.1.1"},
			ipErr:       errors.New("connection refused"),
			wantReason:  "Location service is unavailable",
			wantIPCalls: 1,
		},
		{
			name:  "coordinates use reverse geocoding",
			query: Query{IP: "1.1.1.1", Coords: &coords, Language: "ar"},
			reverseResponse: &openstreetmap.LookupAPIResponse{
				Name: "عمان",
				Address: openstreetmap.Address{
					City: "عمان", State: "محافظة العاصمة", Country: "الأردن", CountryCode: "jo",
				},
			},
			tz:           mockTimezone{tz: "Asia/Amman"},
			wantRevCalls: 1,
			validate: func(t *testing.T, l *types.Location) {
				if l.Coordinates != coords {
					t.Errorf("Coordinates = %+v", l.Coordinates)
				}
				if l.Timezone != "Asia/Amman" {
					t.Errorf("Timezone = %q", l.Timezone)
				}
				if l.Source != types.SourceCoords {
					t.Errorf("Source = %q, want coords", l.Source)
				}
				if l.CountryCode != "JO" {
					t.Errorf("CountryCode = %q", l.CountryCode)
				}
			},
		},
		{
			name:  "missing timezone is tolerated",
			query: Query{Coords: &coords},
			reverseResponse: &openstreetmap.LookupAPIResponse{
				Address: openstreetmap.Address{Town: "Salt"},
			},
			tz:           mockTimezone{err: errors.New("ocean")},
			wantRevCalls: 1,
			validate: func(t *testing.T, l *types.Location) {
				if l.Name != "Salt" || l.Timezone != "" {
					t.Errorf("Name/Timezone = %q/%q", l.Name, l.Timezone)
				}
			},
		},
		{
			name:         "reverse provider error",
			query:        Query{Coords: &coords},
			reverseErr:   errors.New("Unable to geocode"),
			wantReason:   "Location service is unavailable",
			wantRevCalls: 1,
		},
		{
			name:    "invalid latitude",
			query:   Query{Coords: &types.Coords{Latitude: 91, Longitude: 0}},
			wantErr: ErrInvalidLatitude,
		},
		{
			name:    "invalid longitude",
			query:   Query{Coords: &types.Coords{Latitude: 0, Longitude: -181}},
			wantErr: ErrInvalidLongitude,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ipProvider := &mockIPProvider{response: tt.ipResponse, err: tt.ipErr}
			reverseProvider := &mockReverseProvider{response: tt.reverseResponse, err: tt.reverseErr}

			service := NewLocationServiceWithProviders(ipProvider, reverseProvider, tt.tz, discardLogger())
			got, err := service.Locate(context.Background(), tt.query)

			if ipProvider.calls != tt.wantIPCalls {
				t.Errorf("ip provider calls = %d, want %d", ipProvider.calls, tt.wantIPCalls)
			}
			if reverseProvider.calls != tt.wantRevCalls {
				t.Errorf("reverse provider calls = %d, want %d", reverseProvider.calls, tt.wantRevCalls)
			}

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Locate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if tt.wantReason != "" {
				var lookupErr *types.LookupError
				if !errors.As(err, &lookupErr) {
					t.Fatalf("Locate() error = %v, want *types.LookupError", err)
				}
				if lookupErr.Reason != tt.wantReason {
					t.Errorf("Reason = %q, want %q", lookupErr.Reason, tt.wantReason)
				}
				return
			}
			if err != nil {
				t.Fatalf("Locate() unexpected error = %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, got)
			}
		})
	}
}

func TestLocationService_Locate_PassesLanguage(t *testing.T) {
	coords := types.NewCoords(1, 2)
	reverseProvider := &mockReverseProvider{response: &openstreetmap.LookupAPIResponse{}}
	service := NewLocationServiceWithProviders(&mockIPProvider{}, reverseProvider, mockTimezone{}, discardLogger())

	if _, err := service.Locate(context.Background(), Query{Coords: &coords, Language: "ar"}); err != nil {
		t.Fatalf("Locate() error = %v", err)
	}
	if reverseProvider.gotLang != "ar" {
		t.Errorf("language = %q, want ar", reverseProvider.gotLang)
	}
}

func TestLocationService_Locate_ContextErrorsPassThrough(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ipProvider := &mockIPProvider{err: errors.New("request canceled")}
	service := NewLocationServiceWithProviders(ipProvider, &mockReverseProvider{}, mockTimezone{}, discardLogger())

	_, err := service.Locate(ctx, Query{IP: "1.1.1.1"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Locate() error = %v, want context.Canceled", err)
	}
	var lookupErr *types.LookupError
	if errors.As(err, &lookupErr) {
		t.Error("context errors must not be reported as lookup failures")
	}
}

func TestValidateCoords(t *testing.T) {
	for _, c := range []types.Coords{
		{Latitude: -90, Longitude: -180},
		{Latitude: 90, Longitude: 180},
		{Latitude: 0, Longitude: 0},
	} {
		if err := ValidateCoords(c); err != nil {
			t.Errorf("ValidateCoords(%+v) error = %v", c, err)
		}
	}
	if err := ValidateCoords(types.Coords{Latitude: -90.1}); !strings.Contains(err.Error(), "latitude") {
		t.Errorf("ValidateCoords() error = %v", err)
	}
}
