package keygen

import (
	"errors"
	"fmt"

	"github.com/wifibear/keybear/internal/match"
)

var (
	// ErrNoMatch reports that no vendor signature matched. It is an outcome,
	// never returned by Generate.
	ErrNoMatch = errors.New("no known default key scheme for this network")

	// ErrNoCandidates reports that every matched algorithm failed.
	ErrNoCandidates = errors.New("no candidates available")

	// ErrMalformedSSID means the SSID does not have the shape an algorithm needs.
	ErrMalformedSSID = errors.New("malformed SSID")

	// ErrMalformedBSSID means the BSSID is missing or not six octets.
	ErrMalformedBSSID = errors.New("malformed BSSID")

	// ErrMissingInput means a required field is absent, e.g. a hidden SSID.
	ErrMissingInput = errors.New("missing required input")

	// ErrAlgorithmInternal covers an algorithm violating its own preconditions.
	ErrAlgorithmInternal = errors.New("algorithm internal error")
)

// AlgorithmError is a failure recorded against a single algorithm run.
type AlgorithmError struct {
	Algorithm match.AlgorithmID
	Err       error
}

func (e *AlgorithmError) Error() string {
	return fmt.Sprintf("%s: %v", e.Algorithm, e.Err)
}

func (e *AlgorithmError) Unwrap() error {
	return e.Err
}

// InvalidIdentityError rejects input at the engine boundary, before any
// algorithm runs. It matches both ErrMalformedBSSID and the parse error.
type InvalidIdentityError struct {
	Value string
	Err   error
}

func (e *InvalidIdentityError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid network identity %q", e.Value)
	}
	return fmt.Sprintf("invalid network identity %q: %v", e.Value, e.Err)
}

func (e *InvalidIdentityError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedBSSID}
	}
	return []error{ErrMalformedBSSID, e.Err}
}

func malformedSSID(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedSSID, fmt.Sprintf(format, args...))
}
