package trainer

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// EpochReport is the progress of one completed epoch.
type EpochReport struct {
	Epoch          int // 1-based
	Epochs         int
	TrainLoss      float64
	ValidationLoss float64
	HasValidation  bool
}

// String formats the report as "[Epoch e/E] [loss: x] [validation: y]".
func (r EpochReport) String() string {
	if !r.HasValidation {
		return fmt.Sprintf("[Epoch %d/%d] [loss: %f]", r.Epoch, r.Epochs, r.TrainLoss)
	}
	return fmt.Sprintf("[Epoch %d/%d] [loss: %f] [validation: %f]", r.Epoch, r.Epochs, r.TrainLoss, r.ValidationLoss)
}

// History is the per-epoch loss record of a run, in epoch order.
type History struct {
	Train      []float64 `json:"train_loss"`
	Validation []float64 `json:"validation_loss,omitempty"`
}

// Len returns the number of recorded epochs.
func (h History) Len() int {
	return len(h.Train)
}

// FinalTrain returns the last training loss, or NaN for an empty history.
func (h History) FinalTrain() float64 {
	if len(h.Train) == 0 {
		return math.NaN()
	}
	return h.Train[len(h.Train)-1]
}

// BestValidation returns the lowest validation loss and its 1-based epoch.
// The epoch is 0 when no validation was recorded.
func (h History) BestValidation() (float64, int) {
	if len(h.Validation) == 0 {
		return math.NaN(), 0
	}
	i := floats.MinIdx(h.Validation)
	return h.Validation[i], i + 1
}
