package donate

import (
	"encoding/json"
	"fmt"
	"slices"

	"charity-web/internal/types"
)

// Kind is the tag of a State
type Kind int

const (
	KindInit Kind = iota
	KindLoaded
	KindLocationFailed
	KindCharitiesFailed
	KindUnexpectedFailure
)

func (k Kind) String() string {
	switch k {
	case KindInit:
		return "init"
	case KindLoaded:
		return "loaded"
	case KindLocationFailed:
		return "location_failed"
	case KindCharitiesFailed:
		return "charities_failed"
	case KindUnexpectedFailure:
		return "unexpected_failure"
	default:
		return fmt.Sprintf("Unknown (%d)", int(k))
	}
}

// Terminal reports whether no further transition is accepted
func (k Kind) Terminal() bool {
	return k != KindInit
}

// ErrorKind classifies the failure recorded in a State
type ErrorKind string

const (
	ErrorKindNone       ErrorKind = "none"
	ErrorKindLocation   ErrorKind = "location"
	ErrorKindCharities  ErrorKind = "charities"
	ErrorKindUnexpected ErrorKind = "unexpected"
)

// State is the donate page view state. The zero value equals Initial().
// Fields are only reachable through accessors so the error message and the
// error kind are always derived from the same kind.
type State struct {
	kind      Kind
	location  *types.Location
	charities []types.Charity
	message   string
}

// Initial returns the state a page visit starts in
func Initial() State {
	return State{kind: KindInit}
}

func (s State) Kind() Kind {
	return s.kind
}

func (s State) Loading() bool {
	return s.kind == KindInit
}

// ErrorMessage is empty unless the state is a failure
func (s State) ErrorMessage() string {
	return s.message
}

func (s State) ErrorKind() ErrorKind {
	switch s.kind {
	case KindLocationFailed:
		return ErrorKindLocation
	case KindCharitiesFailed:
		return ErrorKindCharities
	case KindUnexpectedFailure:
		return ErrorKindUnexpected
	default:
		return ErrorKindNone
	}
}

// Charities returns a copy of the loaded charities; empty for every other kind
func (s State) Charities() []types.Charity {
	if len(s.charities) == 0 {
		return []types.Charity{}
	}
	return slices.Clone(s.charities)
}

// Location returns the resolved location, if the lookup has succeeded
func (s State) Location() (types.Location, bool) {
	if s.location == nil {
		return types.Location{}, false
	}
	return *s.location, true
}

type stateJSON struct {
	State     string          `json:"state"`
	Loading   bool            `json:"loading"`
	Error     *string         `json:"error"`
	ErrorKind ErrorKind       `json:"errorKind"`
	Charities []types.Charity `json:"charities"`
	Location  *types.Location `json:"location,omitempty"`
}

func (s State) MarshalJSON() ([]byte, error) {
	out := stateJSON{
		State:     s.kind.String(),
		Loading:   s.Loading(),
		ErrorKind: s.ErrorKind(),
		Charities: s.Charities(),
		Location:  s.location,
	}
	if s.message != "" {
		msg := s.message
		out.Error = &msg
	}
	return json.Marshal(out)
}
