package trainer

import (
	"errors"
	"fmt"
)

// ErrNonFiniteLoss is returned when the training or validation loss becomes NaN or infinite.
var ErrNonFiniteLoss = errors.New("non-finite loss")

// DivergenceError reports the epoch at which training diverged.
type DivergenceError struct {
	Epoch          int
	TrainLoss      float64
	ValidationLoss float64 // NaN when validation is disabled or was not reached
}

// Error implements the error interface.
func (e *DivergenceError) Error() string {
	return fmt.Sprintf("%v at epoch %d: train=%v validation=%v", ErrNonFiniteLoss, e.Epoch, e.TrainLoss, e.ValidationLoss)
}

// Unwrap allows errors.Is(err, ErrNonFiniteLoss).
func (e *DivergenceError) Unwrap() error {
	return ErrNonFiniteLoss
}
