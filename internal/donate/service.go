package donate

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
)

// Service loads donate page states
type Service interface {
	// Load runs the location then charity sequence. Calls sharing a key
	// while a run is pending observe that run's final state. A caller whose
	// ctx ends first gets UnexpectedFailure without cancelling the run.
	Load(ctx context.Context, key string, location LocationProvider) State
}

type service struct {
	charities CharityProvider
	timeout   time.Duration
	logger    *slog.Logger
	group     singleflight.Group
}

// NewDonateService creates a Service backed by the given charity provider
func NewDonateService(charities CharityProvider, timeout time.Duration, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		charities: charities,
		timeout:   timeout,
		logger:    logger.With("component", "donate"),
	}
}

func (s *service) Load(ctx context.Context, key string, location LocationProvider) State {
	if key == "" {
		return NewMachine(location, s.charities, s.timeout, s.logger).Run(ctx)
	}

	// The shared run outlives any single caller; the load deadline still bounds it
	runCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (any, error) {
		return NewMachine(location, s.charities, s.timeout, s.logger.With("session", key)).Run(runCtx), nil
	})

	select {
	case res := <-ch:
		if res.Shared {
			s.logger.Debug("donate load shared with pending run", "session", key)
		}
		return res.Val.(State)
	case <-ctx.Done():
		s.logger.Info("donate load abandoned by caller", "session", key, "error", ctx.Err())
		abandoned, _ := Transition(Initial(), Unexpected{Message: UnexpectedMessage})
		return abandoned
	}
}
