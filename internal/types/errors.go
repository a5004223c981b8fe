package types

// LookupError is a provider failure whose Reason is safe to show to visitors.
type LookupError struct {
	Reason string
	Err    error
}

func NewLookupError(reason string, err error) *LookupError {
	return &LookupError{Reason: reason, Err: err}
}

func (e *LookupError) Error() string {
	return e.Reason
}

func (e *LookupError) Unwrap() error {
	return e.Err
}
