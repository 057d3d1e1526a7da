package weather

import (
	"errors"
	"fmt"
)

// Kind classifies a failed fetch.
type Kind int

const (
	InvalidURL Kind = iota + 1
	InvalidResponse
	InvalidData
)

func (k Kind) String() string {
	switch k {
	case InvalidURL:
		return "invalid_url"
	case InvalidResponse:
		return "invalid_response"
	case InvalidData:
		return "invalid_data"
	default:
		return "unknown"
	}
}

var (
	ErrInvalidURL      = errors.New("invalid url")
	ErrInvalidResponse = errors.New("invalid response")
	ErrInvalidData     = errors.New("invalid data")
)

// FetchError is one of the three classified pipeline failures.
type FetchError struct {
	Kind       Kind
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	msg := e.sentinel().Error()
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s: status %d", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrInvalidData) and friends match on kind.
func (e *FetchError) Is(target error) bool {
	return target == e.sentinel()
}

func (e *FetchError) sentinel() error {
	switch e.Kind {
	case InvalidURL:
		return ErrInvalidURL
	case InvalidResponse:
		return ErrInvalidResponse
	case InvalidData:
		return ErrInvalidData
	default:
		return errors.New(e.Kind.String())
	}
}

// TransportError is any failure the pipeline does not classify: DNS,
// refused connections, TLS, timeouts, cancellation, broken bodies.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("weather transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// KindOf returns the classified kind of err, or false when err is not a FetchError.
func KindOf(err error) (Kind, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return 0, false
}

// ErrorLabel names err for logs and metrics.
func ErrorLabel(err error) string {
	if kind, ok := KindOf(err); ok {
		return kind.String()
	}
	var te *TransportError
	if errors.As(err, &te) {
		return "transport"
	}
	return "unexpected"
}

func newFetchError(kind Kind, err error) *FetchError {
	return &FetchError{Kind: kind, Err: err}
}
