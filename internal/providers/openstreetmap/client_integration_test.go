//go:build integration

package openstreetmap

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
)

func TestClient_Lookup_Integration(t *testing.T) {
	// Test coordinates: downtown Amman
	lat := 31.9539
	lon := 35.9106

	client := NewClient("", "charity-web-integration-test", nil, slog.New(slog.NewTextHandler(os.Stdout, nil)))

	t.Logf("Making API call to OpenStreetMap Nominatim API...")
	t.Logf("Coordinates: lat=%f, lon=%f", lat, lon)

	resp, err := client.Lookup(context.Background(), lat, lon, "en")
	if err != nil {
		t.Fatalf("Failed to get location data: %v", err)
	}

	rawJSON, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal response: %v", err)
	}
	t.Logf("Raw API Response:\n%s", string(rawJSON))

	if resp.DisplayName == "" {
		t.Error("DisplayName is empty")
	}
	if resp.Address.CountryCode != "jo" {
		t.Errorf("CountryCode = %q, want jo", resp.Address.CountryCode)
	}
}
