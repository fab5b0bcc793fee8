package service

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies why an analysis failed
type ErrorKind string

const (
	KindMissingCredential   ErrorKind = "missing_credential"
	KindEmptyResponse       ErrorKind = "empty_response"
	KindMalformedResponse   ErrorKind = "malformed_response"
	KindTransportFailure    ErrorKind = "transport_failure"
	KindUnavailableProvider ErrorKind = "unavailable_provider"
)

// Sentinels for errors.Is matching against an *AnalysisError kind
var (
	ErrMissingCredential   = errors.New("missing credential")
	ErrEmptyResponse       = errors.New("empty response")
	ErrMalformedResponse   = errors.New("malformed response")
	ErrTransportFailure    = errors.New("transport failure")
	ErrUnavailableProvider = errors.New("provider unavailable")
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrEntryNotFound   = errors.New("food entry not found")
	ErrDraftNotFound   = errors.New("analysis draft not found or expired")
	ErrInvalidInput    = errors.New("invalid input")
)

var kindSentinels = map[ErrorKind]error{
	KindMissingCredential:   ErrMissingCredential,
	KindEmptyResponse:       ErrEmptyResponse,
	KindMalformedResponse:   ErrMalformedResponse,
	KindTransportFailure:    ErrTransportFailure,
	KindUnavailableProvider: ErrUnavailableProvider,
}

// AnalysisError is returned by every analysis path
type AnalysisError struct {
	Kind     ErrorKind
	Provider Provider
	// Raw is the provider text that failed to decode, if any
	Raw string
	// Status is the provider's HTTP status, 0 when no response arrived
	Status int
	Err    error
}

func (e *AnalysisError) Error() string {
	name := e.Provider.DisplayName()
	var msg string
	switch e.Kind {
	case KindMissingCredential:
		msg = fmt.Sprintf("%s API key not configured", name)
	case KindEmptyResponse:
		msg = fmt.Sprintf("%s returned an empty response", name)
	case KindMalformedResponse:
		msg = fmt.Sprintf("%s returned a response that is not valid analysis JSON", name)
	case KindTransportFailure:
		msg = fmt.Sprintf("request to %s failed", name)
	case KindUnavailableProvider:
		msg = fmt.Sprintf("%s is not available on this device", name)
	default:
		msg = "analysis failed"
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the same kind
func (e *AnalysisError) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

// Retryable reports whether the user may simply try again
func (e *AnalysisError) Retryable() bool {
	switch e.Kind {
	case KindTransportFailure:
		// a rejected key fails the same way on every retry
		return e.Status != http.StatusUnauthorized && e.Status != http.StatusForbidden
	case KindEmptyResponse, KindMalformedResponse:
		return true
	default:
		return false
	}
}

func newAnalysisError(kind ErrorKind, p Provider, err error) *AnalysisError {
	return &AnalysisError{Kind: kind, Provider: p, Err: err}
}
