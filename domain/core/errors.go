package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input errors
	ErrInvalidVariable  = errors.New("invalid variable")
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrInvalidMeasure   = errors.New("invalid association measure")
	ErrInvalidParameter = errors.New("invalid parameter")

	// Capability errors
	ErrUnsupportedArity   = errors.New("unsupported number of variables")
	ErrUnsupportedMeasure = errors.New("operation not supported for measure")

	// Access errors
	ErrFieldNotAvailable = errors.New("field not available")
	ErrNotFound          = errors.New("resource not found")
	ErrResultNotFound    = fmt.Errorf("%w: association result", ErrNotFound)
)

// Error constructors with context
func NewVariableError(name string, reason string) error {
	return fmt.Errorf("%w %q: %s", ErrInvalidVariable, name, reason)
}

func NewArityError(what string, want string, got int) error {
	return fmt.Errorf("%w: %s requires %s variables, got %d", ErrUnsupportedArity, what, want, got)
}

func NewParameterError(name string, reason string) error {
	return fmt.Errorf("%w %s: %s", ErrInvalidParameter, name, reason)
}

func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInputError reports errors caused by the data or arguments handed in.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidVariable) ||
		errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrInvalidMeasure) ||
		errors.Is(err, ErrInvalidParameter)
}

// IsCapabilityError reports requests that are well formed but not
// supported for the chosen measure or variable count.
func IsCapabilityError(err error) bool {
	return errors.Is(err, ErrUnsupportedArity) ||
		errors.Is(err, ErrUnsupportedMeasure) ||
		errors.Is(err, ErrFieldNotAvailable)
}
