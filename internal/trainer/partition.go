package trainer

import (
	"fmt"
	"math"

	"github.com/born-ml/shapegen/internal/config"
)

// Range is a half-open sample range [Start, End).
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of samples in the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// String formats the range as [start, end).
func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}

// Split is the partition of N samples into a training pool and an optional
// validation pool.
type Split struct {
	Train      Range `json:"train"`
	Validation Range `json:"validation"` // empty when validation is disabled
}

// ValidationEnabled reports whether a validation pool was held out.
func (s Split) ValidationEnabled() bool {
	return s.Validation.Len() > 0
}

// Partition splits n samples at splitIndex = floor(n * (1 - validationSplit)).
//
// With config.TrainFirst the training pool is [0, splitIndex) and the
// validation pool is [splitIndex, n). With config.ValidationFirst the pools
// are swapped. A validationSplit of 0 puts every sample in the training pool.
func Partition(n int, validationSplit float64, order config.PoolOrder) (Split, error) {
	if n <= 0 {
		return Split{}, &config.FieldError{Field: "samples", Value: n, Reason: "need at least one sample"}
	}
	if !(validationSplit >= 0 && validationSplit < 1) {
		return Split{}, &config.FieldError{Field: "validation_split", Value: validationSplit, Reason: "must lie in [0, 1)"}
	}
	order, err := config.ParsePoolOrder(string(order))
	if err != nil {
		return Split{}, err
	}

	if validationSplit == 0 {
		return Split{Train: Range{0, n}}, nil
	}

	splitIndex := int(math.Floor(float64(n) * (1 - validationSplit)))
	head, tail := Range{0, splitIndex}, Range{splitIndex, n}

	split := Split{Train: head, Validation: tail}
	if order == config.ValidationFirst {
		split = Split{Train: tail, Validation: head}
	}

	if split.Train.Len() == 0 {
		return Split{}, &config.FieldError{
			Field:  "validation_split",
			Value:  validationSplit,
			Reason: fmt.Sprintf("leaves no training samples out of %d", n),
		}
	}
	if split.Validation.Len() == 0 {
		return Split{}, &config.FieldError{
			Field:  "validation_split",
			Value:  validationSplit,
			Reason: fmt.Sprintf("leaves no validation samples out of %d", n),
		}
	}
	return split, nil
}
