package ahu

import (
	"errors"
	"fmt"
)

// Sentinel errors for each failure kind. Every *CalcError wraps exactly one of them.
var (
	ErrMissingInput    = errors.New("missing input")
	ErrInvalidNumeric  = errors.New("invalid numeric input")
	ErrInvalidAirState = errors.New("invalid air state")
	ErrConfiguration   = errors.New("configuration error")
)

// Stage names the pipeline stage that aborted
type Stage string

const (
	StageValidation Stage = "validation"
	StageOutside    Stage = "outside_air"
	StageTarget     Stage = "target"
	StageCost       Stage = "cost"
)

// CalcError is the discriminated error returned by every aborted computation.
type CalcError struct {
	Kind  error
	Stage Stage
	Field string
	Err   error
}

func (e *CalcError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Stage, e.Kind)
	if e.Field != "" {
		msg += fmt.Sprintf(" (%s)", e.Field)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is matches the error kind, so errors.Is(err, ErrMissingInput) works.
func (e *CalcError) Is(target error) bool {
	return e.Kind == target
}

func (e *CalcError) Unwrap() error {
	return e.Err
}

// KindName returns a short machine-readable name for the error kind
func (e *CalcError) KindName() string {
	switch e.Kind {
	case ErrMissingInput:
		return "missing_input"
	case ErrInvalidNumeric:
		return "invalid_numeric"
	case ErrInvalidAirState:
		return "invalid_air_state"
	case ErrConfiguration:
		return "configuration_error"
	}
	return "unknown"
}

func missing(field string) error {
	return &CalcError{Kind: ErrMissingInput, Stage: StageValidation, Field: field}
}

func invalid(field string, err error) error {
	return &CalcError{Kind: ErrInvalidNumeric, Stage: StageValidation, Field: field, Err: err}
}
