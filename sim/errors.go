package sim

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParameter is matched by every *ParameterError via errors.Is.
var ErrInvalidParameter = errors.New("invalid parameter")

// ParameterError reports an input that the calculator or simulator cannot use.
// Field uses the CLI-facing name so the caller can surface it verbatim.
type ParameterError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// Is lets errors.Is(err, ErrInvalidParameter) match any ParameterError.
func (e *ParameterError) Is(target error) bool {
	return target == ErrInvalidParameter
}

func positiveRate(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ParameterError{Field: field, Value: v, Reason: "must be finite"}
	}
	if v <= 0 {
		return &ParameterError{Field: field, Value: v, Reason: "must be positive"}
	}
	return nil
}

func positiveCount(field string, v int) error {
	if v < 1 {
		return &ParameterError{Field: field, Value: v, Reason: "must be at least 1"}
	}
	return nil
}

// validateRates checks the (lambda, mu, c) triple shared by both components.
func validateRates(lambda, mu float64, c int) error {
	if err := positiveRate("lambda", lambda); err != nil {
		return err
	}
	if err := positiveRate("mu", mu); err != nil {
		return err
	}
	return positiveCount("servers", c)
}
