package artifact

import (
	"errors"
	"fmt"
)

// ErrMissingArtifact is returned when a persisted unit is absent or malformed.
var ErrMissingArtifact = errors.New("missing artifact")

// Unit names one persisted artifact.
type Unit string

// The persisted units of a bundle.
const (
	UnitModel      Unit = "model"
	UnitInputMean  Unit = "input_mean"
	UnitInputStd   Unit = "input_std"
	UnitOutputMean Unit = "output_mean"
	UnitOutputStd  Unit = "output_std"
	UnitRecord     Unit = "record"
)

// Error reports which unit failed to load and where it was expected.
//
// errors.Is(err, ErrMissingArtifact) holds for every *Error, and the cause
// stays reachable through Unwrap.
type Error struct {
	Unit Unit
	Path string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s (%s): %v", ErrMissingArtifact, e.Unit, e.Path, e.Err)
}

// Is matches ErrMissingArtifact.
func (e *Error) Is(target error) bool {
	return target == ErrMissingArtifact
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}
