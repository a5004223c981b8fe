package types

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestLocation_Label(t *testing.T) {
	tests := []struct {
		name     string
		location Location
		want     string
	}{
		{"name and region", Location{Name: "Austin", Region: "Texas"}, "Austin, Texas"},
		{"region equals name", Location{Name: "Dubai", Region: "dubai"}, "Dubai"},
		{"region only", Location{Region: "Colorado"}, "Colorado"},
		{"country fallback", Location{Country: "Jordan"}, "Jordan"},
		{"empty", Location{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.location.Label(); got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCharityID_UnmarshalJSON(t *testing.T) {
	var charities []Charity
	data := `[{"id":1,"name":"Red Cross"},{"id":"uuid-2","name":"Red Crescent"}]`
	if err := json.Unmarshal([]byte(data), &charities); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if charities[0].ID != "1" {
		t.Errorf("charities[0].ID = %q, want 1", charities[0].ID)
	}
	if charities[1].ID != "uuid-2" {
		t.Errorf("charities[1].ID = %q, want uuid-2", charities[1].ID)
	}

	var bad Charity
	if err := json.Unmarshal([]byte(`{"id":{"x":1}}`), &bad); err == nil {
		t.Error("Unmarshal() expected error for object id")
	}
}

func TestLookupError(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	err := error(NewLookupError("Location service is unavailable", cause))

	if err.Error() != "Location service is unavailable" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is() should find the wrapped cause")
	}
	var lookupErr *LookupError
	if !errors.As(err, &lookupErr) {
		t.Error("errors.As() should find *LookupError")
	}
}
