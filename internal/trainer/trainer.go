// Package trainer fits a shape regressor to paired, normalized feature matrices.
//
// Each epoch shuffles the training pool, runs one full-batch forward and
// backward pass, applies a single Adam step, then scores the optional
// validation pool with gradient recording off.
//
// Example:
//
//	t, err := trainer.New(cfg, trainer.WithProgress(func(r trainer.EpochReport) {
//	    fmt.Println(r)
//	}))
//	result, err := t.Fit(normalizedInputs, normalizedOutputs)
package trainer

import (
	"io"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/born-ml/shapegen/internal/autodiff"
	"github.com/born-ml/shapegen/internal/backend/cpu"
	"github.com/born-ml/shapegen/internal/config"
	"github.com/born-ml/shapegen/internal/model"
	"github.com/born-ml/shapegen/internal/nn"
	"github.com/born-ml/shapegen/internal/optim"
	"github.com/born-ml/shapegen/internal/tensor"
)

// ProgressFunc receives a report after every epoch.
type ProgressFunc func(EpochReport)

// Option configures a Trainer.
type Option func(*Trainer)

// WithLogger sets the logger for run-level events. The default discards.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(t *Trainer) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithProgress sets the per-epoch progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(t *Trainer) {
		t.progress = fn
	}
}

// WithBackend sets the compute backend wrapped for differentiation.
// The default is cpu.New().
func WithBackend(backend tensor.Backend) Option {
	return func(t *Trainer) {
		if backend != nil {
			t.inner = backend
		}
	}
}

// Trainer runs the epoch loop for one configuration.
type Trainer struct {
	cfg      config.Config
	logger   logrus.FieldLogger
	progress ProgressFunc
	inner    tensor.Backend
}

// Result is the output of a completed run.
type Result struct {
	// Model is the trained regressor, bound to the plain compute backend.
	Model   *model.Regressor
	History History
	Split   Split
}

// New validates cfg and returns a Trainer.
func New(cfg config.Config, opts ...Option) (*Trainer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	t := &Trainer{
		cfg:    cfg,
		logger: discard,
		inner:  cpu.New(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Config returns the configuration the trainer was built with.
func (t *Trainer) Config() config.Config {
	return t.cfg
}

// Fit trains a new regressor mapping inputs to outputs.
//
// Both matrices must already be normalized and have the same number of
// rows. A NaN or infinite loss stops training with a *DivergenceError.
func (t *Trainer) Fit(inputs, outputs *tensor.Tensor) (*Result, error) {
	if len(inputs.Shape()) != 2 {
		return nil, &tensor.ShapeError{Op: "trainer.Fit", Got: inputs.Shape().Clone(), Want: tensor.Shape{-1, -1}}
	}
	if err := tensor.CheckRows("trainer.Fit", inputs, outputs); err != nil {
		return nil, err
	}

	split, err := Partition(inputs.Rows(), t.cfg.ValidationSplit, t.cfg.PoolOrder)
	if err != nil {
		return nil, err
	}
	t.logger.WithFields(logrus.Fields{
		"train":      split.Train.String(),
		"validation": split.Validation.String(),
		"pool_order": t.cfg.PoolOrder,
	}).Info("partitioned samples")

	rng := rand.New(rand.NewSource(t.cfg.Seed))
	backend := autodiff.New(t.inner)
	tape := backend.Tape()

	regressor := model.New(inputs.Cols(), t.cfg.HiddenWidth, outputs.Cols(), backend, rng)
	optimizer := optim.NewAdam(regressor.Parameters(), optim.AdamConfig{LR: t.cfg.LearningRate})
	criterion := nn.NewMSELoss(backend)

	trainX := inputs.SliceRows(split.Train.Start, split.Train.End)
	trainY := outputs.SliceRows(split.Train.Start, split.Train.End)
	var valX, valY *tensor.Tensor
	if split.ValidationEnabled() {
		valX = inputs.SliceRows(split.Validation.Start, split.Validation.End)
		valY = outputs.SliceRows(split.Validation.Start, split.Validation.End)
	}

	history := History{Train: make([]float64, 0, t.cfg.Epochs)}
	if split.ValidationEnabled() {
		history.Validation = make([]float64, 0, t.cfg.Epochs)
	}

	for epoch := 1; epoch <= t.cfg.Epochs; epoch++ {
		perm := rng.Perm(split.Train.Len())
		batchX := trainX.SelectRows(perm)
		batchY := trainY.SelectRows(perm)

		tape.StartRecording()
		prediction, err := regressor.Forward(batchX)
		if err != nil {
			tape.StopRecording()
			tape.Clear()
			return nil, err
		}
		loss := criterion.Forward(prediction, batchY)
		trainLoss := loss.Item()
		if !finite(trainLoss) {
			tape.StopRecording()
			tape.Clear()
			return nil, t.diverged(epoch, trainLoss, math.NaN())
		}

		grads := autodiff.Backward(loss, backend)
		tape.StopRecording()
		optimizer.Step(grads)
		optimizer.ZeroGrad()
		tape.Clear()

		report := EpochReport{Epoch: epoch, Epochs: t.cfg.Epochs, TrainLoss: trainLoss}
		history.Train = append(history.Train, trainLoss)

		if split.ValidationEnabled() {
			valPrediction, err := regressor.Forward(valX)
			if err != nil {
				return nil, err
			}
			valLoss := criterion.Forward(valPrediction, valY).Item()
			if !finite(valLoss) {
				return nil, t.diverged(epoch, trainLoss, valLoss)
			}
			history.Validation = append(history.Validation, valLoss)
			report.ValidationLoss = valLoss
			report.HasValidation = true
		}

		if t.progress != nil {
			t.progress(report)
		}
	}

	fields := logrus.Fields{"epochs": history.Len(), "final_loss": history.FinalTrain()}
	if best, at := history.BestValidation(); at > 0 {
		fields["best_validation"] = best
		fields["best_validation_epoch"] = at
	}
	t.logger.WithFields(fields).Info("training finished")

	return &Result{
		Model:   regressor.WithBackend(t.inner),
		History: history,
		Split:   split,
	}, nil
}

func (t *Trainer) diverged(epoch int, trainLoss, valLoss float64) error {
	err := &DivergenceError{Epoch: epoch, TrainLoss: trainLoss, ValidationLoss: valLoss}
	t.logger.WithFields(logrus.Fields{
		"epoch":           epoch,
		"train_loss":      trainLoss,
		"validation_loss": valLoss,
	}).Error("training diverged")
	return err
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
