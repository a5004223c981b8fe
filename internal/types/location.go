package types

import "strings"

// LocationSource records which lookup produced a Location
type LocationSource string

const (
	SourceIP     LocationSource = "ip"
	SourceCoords LocationSource = "coords"
)

// Location is the approximate position of a visitor
type Location struct {
	Coordinates Coords         `json:"coordinates"`
	Name        string         `json:"name,omitempty"`
	Region      string         `json:"region,omitempty"`
	Country     string         `json:"country,omitempty"`
	CountryCode string         `json:"countryCode,omitempty"`
	Timezone    string         `json:"timezone,omitempty"`
	Source      LocationSource `json:"source"`
}

// Label returns the short human-readable place name, e.g. "Austin, Texas".
func (l Location) Label() string {
	parts := make([]string, 0, 2)
	if l.Name != "" {
		parts = append(parts, l.Name)
	}
	if l.Region != "" && !strings.EqualFold(l.Region, l.Name) {
		parts = append(parts, l.Region)
	}
	if len(parts) == 0 && l.Country != "" {
		parts = append(parts, l.Country)
	}
	return strings.Join(parts, ", ")
}
