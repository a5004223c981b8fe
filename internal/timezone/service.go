// Package timezone fills in the IANA zone of a visitor who shared browser
// coordinates. IP lookups already carry one.
package timezone

import (
	"fmt"
	"sync"

	"github.com/ringsaturn/tzf"
)

// Service resolves the zone shown with a coordinate-based location
type Service interface {
	GetTimezone(latitude, longitude float64) (string, error)
}

// service answers from tzf's in-memory polygons, so lookups need no network
type service struct {
	finder tzf.F
}

var (
	instance *service
	initErr  error
	once     sync.Once
)

// NewService returns the process-wide service. The location service and its
// tests share one finder; a failed load is remembered and returned to every caller.
func NewService() (Service, error) {
	once.Do(func() {
		finder, err := tzf.NewDefaultFinder()
		if err != nil {
			initErr = fmt.Errorf("failed to initialize timezone finder: %w", err)
			return
		}
		instance = &service{finder: finder}
	})
	if initErr != nil {
		return nil, initErr
	}
	return instance, nil
}

// GetTimezone returns the zone for a visitor's position, e.g. "Asia/Amman".
// Coordinates with no zone polygon, such as open sea, are an error the
// location service treats as optional.
func (s *service) GetTimezone(latitude, longitude float64) (string, error) {
	timezone := s.finder.GetTimezoneName(longitude, latitude)
	if timezone == "" {
		return "", fmt.Errorf("no timezone at lat=%f, lon=%f", latitude, longitude)
	}

	return timezone, nil
}
