package donate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"charity-web/internal/types"
)

// DefaultTimeout bounds a load when no timeout is configured
const DefaultTimeout = 10 * time.Second

// LocationProvider resolves the visitor's approximate location
type LocationProvider interface {
	Locate(ctx context.Context) (types.Location, error)
}

// CharityProvider lists the charities shown once a location is known
type CharityProvider interface {
	ListCharities(ctx context.Context) ([]types.Charity, error)
}

// LocationFunc adapts a function to LocationProvider
type LocationFunc func(ctx context.Context) (types.Location, error)

func (f LocationFunc) Locate(ctx context.Context) (types.Location, error) {
	return f(ctx)
}

// CharityFunc adapts a function to CharityProvider
type CharityFunc func(ctx context.Context) ([]types.Charity, error)

func (f CharityFunc) ListCharities(ctx context.Context) ([]types.Charity, error) {
	return f(ctx)
}

// Machine runs one donate page load: location first, then charities.
// A Machine is single use; later Run calls return the outcome of the first.
type Machine struct {
	location  LocationProvider
	charities CharityProvider
	timeout   time.Duration
	logger    *slog.Logger

	once  sync.Once
	mu    sync.Mutex
	state State
}

// NewMachine creates a Machine in the Init state
func NewMachine(location LocationProvider, charities CharityProvider, timeout time.Duration, logger *slog.Logger) *Machine {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{
		location:  location,
		charities: charities,
		timeout:   timeout,
		logger:    logger,
		state:     Initial(),
	}
}

// State returns the current state without blocking on a running load
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Run performs the load and returns the terminal state. Concurrent callers
// wait for the same run.
func (m *Machine) Run(ctx context.Context) State {
	m.once.Do(func() {
		m.run(ctx)
	})
	return m.State()
}

func (m *Machine) run(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		m.sequence(runCtx)
	}()

	select {
	case <-done:
	case <-runCtx.Done():
	}

	if m.State().Kind().Terminal() {
		return
	}

	if ctx.Err() != nil {
		m.logger.Info("donate load cancelled by caller", "error", ctx.Err())
		m.apply(Unexpected{Message: UnexpectedMessage})
		return
	}
	if runCtx.Err() != nil {
		m.logger.Warn("donate load deadline exceeded", "timeout", m.timeout)
		m.apply(DeadlineExceeded{})
		return
	}

	m.logger.Error("donate load finished without an outcome")
	m.apply(Unexpected{Message: UnexpectedMessage})
}

func (m *Machine) sequence(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("donate provider panicked", "panic", r)
			m.apply(Unexpected{Message: UnexpectedMessage})
		}
	}()

	loc, err := m.location.Locate(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		m.logger.Warn("location lookup failed", "error", err)
		m.apply(LocationFailed{Message: messageOf(err)})
		return
	}
	if !m.apply(LocationResolved{Location: loc}) {
		return
	}

	charities, err := m.charities.ListCharities(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		m.logger.Warn("charity lookup failed", "error", err)
		m.apply(CharitiesFailed{Message: messageOf(err)})
		return
	}
	m.apply(CharitiesResolved{Charities: charities})
}

// apply feeds an event to the state; late events after a terminal state are dropped
func (m *Machine) apply(e Event) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := Transition(m.state, e)
	if err != nil {
		m.logger.Debug("donate event ignored", "event", fmt.Sprintf("%T", e), "error", err)
		return false
	}
	m.state = next
	return true
}

func messageOf(err error) string {
	var lookupErr *types.LookupError
	if errors.As(err, &lookupErr) && lookupErr.Reason != "" {
		return lookupErr.Reason
	}
	return err.Error()
}
