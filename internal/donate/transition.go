package donate

import (
	"errors"
	"fmt"
	"slices"

	"charity-web/internal/types"
)

var (
	// ErrTerminal is returned when an event reaches a finished state
	ErrTerminal = errors.New("state is terminal")
	// ErrOutOfOrder is returned when charities arrive before the location
	ErrOutOfOrder = errors.New("charities resolved before location")
)

// DeadlineMessage is shown when a load does not finish in time
const DeadlineMessage = "Something went wrong. Please try again later."

// UnexpectedMessage is shown when a load fails for a reason no provider reported
const UnexpectedMessage = "Unexpected error occurred"

// Event is an outcome fed to Transition
type Event interface {
	event()
}

type LocationResolved struct{ Location types.Location }

type LocationFailed struct{ Message string }

type CharitiesResolved struct{ Charities []types.Charity }

type CharitiesFailed struct{ Message string }

// DeadlineExceeded fires when the load deadline elapses first
type DeadlineExceeded struct{}

type Unexpected struct{ Message string }

func (LocationResolved) event()  {}
func (LocationFailed) event()    {}
func (CharitiesResolved) event() {}
func (CharitiesFailed) event()   {}
func (DeadlineExceeded) event()  {}
func (Unexpected) event()        {}

// Transition is the pure reducer of the donate page. On error the input state
// is returned unchanged.
func Transition(s State, e Event) (State, error) {
	if s.kind.Terminal() {
		return s, fmt.Errorf("%w: %s cannot accept %T", ErrTerminal, s.kind, e)
	}

	switch ev := e.(type) {
	case LocationResolved:
		loc := ev.Location
		return State{kind: KindInit, location: &loc}, nil

	case LocationFailed:
		return failed(s, KindLocationFailed, ev.Message), nil

	case CharitiesResolved:
		if s.location == nil {
			return s, ErrOutOfOrder
		}
		return State{
			kind:      KindLoaded,
			location:  s.location,
			charities: slices.Clone(ev.Charities),
		}, nil

	case CharitiesFailed:
		return failed(s, KindCharitiesFailed, ev.Message), nil

	case DeadlineExceeded:
		return failed(s, KindCharitiesFailed, DeadlineMessage), nil

	case Unexpected:
		return failed(s, KindUnexpectedFailure, ev.Message), nil

	default:
		return s, fmt.Errorf("unknown event %T", e)
	}
}

func failed(s State, kind Kind, message string) State {
	if message == "" {
		message = UnexpectedMessage
	}
	return State{kind: kind, location: s.location, message: message}
}
