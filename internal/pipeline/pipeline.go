// Package pipeline wires matrix files, normalization, training, persistence
// and prediction into the two entry points used by the command line.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/born-ml/shapegen/internal/artifact"
	"github.com/born-ml/shapegen/internal/backend/cpu"
	"github.com/born-ml/shapegen/internal/config"
	"github.com/born-ml/shapegen/internal/matrixio"
	"github.com/born-ml/shapegen/internal/normalize"
	"github.com/born-ml/shapegen/internal/predict"
	"github.com/born-ml/shapegen/internal/tensor"
	"github.com/born-ml/shapegen/internal/trainer"
)

// TrainRequest describes one training run over files.
type TrainRequest struct {
	InputPath  string // neutral pose matrix
	OutputPath string // target pose matrix
	Config     config.Config
	Paths      artifact.Paths
	Logger     logrus.FieldLogger
	Progress   trainer.ProgressFunc
	Backend    tensor.Backend // defaults to cpu.New()
}

// TrainSummary is the outcome of a completed training run.
type TrainSummary struct {
	Record  *artifact.Record
	Elapsed time.Duration
}

// Train loads both matrices, fits the normalizers and the model, and saves
// the bundle to req.Paths.
func Train(ctx context.Context, req TrainRequest) (*TrainSummary, error) {
	start := time.Now()
	logger := loggerOrDiscard(req.Logger)

	if err := req.Config.Validate(); err != nil {
		return nil, err
	}
	if err := req.Paths.Validate(); err != nil {
		return nil, err
	}

	inputs, err := matrixio.ReadFile(req.InputPath)
	if err != nil {
		return nil, fmt.Errorf("read inputs: %w", err)
	}
	outputs, err := matrixio.ReadFile(req.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("read outputs: %w", err)
	}
	logger.WithField("shape", inputs.Shape()).Info("inputs data shape")
	logger.WithField("shape", outputs.Shape()).Info("outputs data shape")
	if err := tensor.CheckRows("pipeline.Train", inputs, outputs); err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"hidden_width":     req.Config.HiddenWidth,
		"learning_rate":    req.Config.LearningRate,
		"epochs":           req.Config.Epochs,
		"validation_split": req.Config.ValidationSplit,
		"seed":             req.Config.Seed,
		"pool_order":       req.Config.PoolOrder,
	}).Info("training configuration")

	opts := []trainer.Option{trainer.WithLogger(logger), trainer.WithBackend(req.Backend)}
	if req.Progress != nil {
		opts = append(opts, trainer.WithProgress(req.Progress))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bundle, err := Fit(inputs, outputs, req.Config, opts...)
	if err != nil {
		return nil, err
	}
	record := bundle.Record
	record.InputData = req.InputPath
	record.OutputData = req.OutputPath
	if err := artifact.Save(ctx, bundle, req.Paths); err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	logger.WithFields(logrus.Fields{
		"run_id": record.RunID,
		"model":  req.Paths.Model,
	}).Info("saved artifacts")
	logger.Infof("build_model - elapsed time: %s", FormatElapsed(elapsed))

	return &TrainSummary{Record: record, Elapsed: elapsed}, nil
}

// Fit standardizes both matrices, trains a regressor on them and returns
// the bundle with a fresh run record. inputs and outputs are raw feature
// matrices with the same number of rows; neither is modified.
func Fit(inputs, outputs *tensor.Tensor, cfg config.Config, opts ...trainer.Option) (*artifact.Bundle, error) {
	if err := tensor.CheckRows("pipeline.Fit", inputs, outputs); err != nil {
		return nil, err
	}
	tr, err := trainer.New(cfg, opts...)
	if err != nil {
		return nil, err
	}

	x, inStats, err := normalize.Fit(inputs)
	if err != nil {
		return nil, err
	}
	y, outStats, err := normalize.Fit(outputs)
	if err != nil {
		return nil, err
	}
	result, err := tr.Fit(x, y)
	if err != nil {
		return nil, err
	}

	return &artifact.Bundle{
		Model:  result.Model,
		Input:  inStats,
		Output: outStats,
		Record: artifact.NewRecord(cfg, result, inputs.Rows()),
	}, nil
}

// PredictRequest describes one inference run over files.
type PredictRequest struct {
	Paths      artifact.Paths
	InputPath  string // raw neutral pose matrix
	OutputPath string // where the predicted pose matrix is written
	Logger     logrus.FieldLogger
	Backend    tensor.Backend // defaults to cpu.New()
}

// PredictSummary is the outcome of an inference run.
type PredictSummary struct {
	Rows    int
	Elapsed time.Duration
}

// LoadPredictor loads the bundle at paths and builds a Predictor from it.
func LoadPredictor(ctx context.Context, paths artifact.Paths, backend tensor.Backend, logger logrus.FieldLogger) (*predict.Predictor, error) {
	if backend == nil {
		backend = cpu.New()
	}
	bundle, err := artifact.Load(ctx, paths, backend)
	if err != nil {
		return nil, err
	}
	fields := logrus.Fields{
		"model":        paths.Model,
		"input_width":  bundle.Model.InputWidth(),
		"hidden_width": bundle.Model.HiddenWidth(),
		"output_width": bundle.Model.OutputWidth(),
	}
	if bundle.Record != nil {
		fields["run_id"] = bundle.Record.RunID
	}
	loggerOrDiscard(logger).WithFields(fields).Info("loaded model")
	return predict.FromBundle(bundle)
}

// PredictFile runs p over the matrix at inputPath and writes the result to outputPath.
func PredictFile(p *predict.Predictor, inputPath, outputPath string) (int, error) {
	inputs, err := matrixio.ReadFile(inputPath)
	if err != nil {
		return 0, fmt.Errorf("read inputs: %w", err)
	}
	outputs, err := p.Predict(inputs)
	if err != nil {
		return 0, err
	}
	if err := matrixio.WriteFile(outputPath, outputs); err != nil {
		return 0, fmt.Errorf("write outputs: %w", err)
	}
	return outputs.Rows(), nil
}

// Predict loads the bundle, predicts the input matrix and writes the output matrix.
func Predict(ctx context.Context, req PredictRequest) (*PredictSummary, error) {
	start := time.Now()
	logger := loggerOrDiscard(req.Logger)

	if req.InputPath == "" || req.OutputPath == "" {
		return nil, errors.New("predict: input and output paths are required")
	}
	p, err := LoadPredictor(ctx, req.Paths, req.Backend, logger)
	if err != nil {
		return nil, err
	}
	rows, err := PredictFile(p, req.InputPath, req.OutputPath)
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	logger.WithFields(logrus.Fields{"rows": rows, "output": req.OutputPath}).Info("wrote prediction")
	logger.Infof("infer_model - elapsed time: %s", FormatElapsed(elapsed))
	return &PredictSummary{Rows: rows, Elapsed: elapsed}, nil
}

// FormatElapsed renders d as h:mm:ss.ss.
func FormatElapsed(d time.Duration) string {
	total := d.Seconds()
	h := int(total) / 3600
	m := (int(total) % 3600) / 60
	s := total - float64(h*3600+m*60)
	return fmt.Sprintf("%d:%02d:%0.2f", h, m, s)
}

func loggerOrDiscard(logger logrus.FieldLogger) logrus.FieldLogger {
	if logger != nil {
		return logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
