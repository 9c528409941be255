// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package shapegen predicts a deformed mesh layout (a pose) from a neutral
// layout with a feed-forward regression network.
//
// The package works on flat feature matrices only: rows are samples, and
// each column is one coordinate of one vertex. Mesh extraction belongs to
// the calling tool.
//
// # Training
//
//	cfg := shapegen.DefaultConfig()
//	cfg.Epochs = 200
//	bundle, err := shapegen.Fit(neutral, posed, cfg)
//	if err != nil {
//	    return err
//	}
//	err = shapegen.Save(ctx, bundle, shapegen.DefaultPaths("out"))
//
// # Prediction
//
//	bundle, err := shapegen.Load(ctx, shapegen.DefaultPaths("out"))
//	p, err := shapegen.NewPredictor(bundle)
//	pose, err := p.Predict(neutral)
//
// # Errors
//
// Every failure belongs to one of four classes, testable with errors.Is:
// ErrShapeMismatch, ErrMissingArtifact, ErrNonFiniteLoss and ErrInvalidConfig.
package shapegen

import (
	"context"

	"github.com/born-ml/shapegen/internal/artifact"
	"github.com/born-ml/shapegen/internal/backend/cpu"
	"github.com/born-ml/shapegen/internal/config"
	"github.com/born-ml/shapegen/internal/normalize"
	"github.com/born-ml/shapegen/internal/pipeline"
	"github.com/born-ml/shapegen/internal/predict"
	"github.com/born-ml/shapegen/internal/tensor"
	"github.com/born-ml/shapegen/internal/trainer"
)

// Configuration

// Config holds the hyperparameters of one training run.
type Config = config.Config

// PoolOrder selects which end of the samples is held out for validation.
type PoolOrder = config.PoolOrder

// Pool orders.
const (
	TrainFirst      PoolOrder = config.TrainFirst
	ValidationFirst PoolOrder = config.ValidationFirst
)

// DefaultConfig returns hidden width 512, learning rate 0.001, 150 epochs
// and a validation split of 0.3.
func DefaultConfig() Config {
	return config.Default()
}

// LoadConfig reads a YAML configuration file over the defaults.
func LoadConfig(path string) (Config, error) {
	return config.LoadFile(path)
}

// Normalization

// Stats holds per-column mean and standard deviation.
type Stats = normalize.Stats

// Normalize standardizes m column by column and returns the statistics used.
func Normalize(m *tensor.Tensor) (*tensor.Tensor, Stats, error) {
	return normalize.Fit(m)
}

// ApplyStats standardizes m with previously computed statistics.
func ApplyStats(m *tensor.Tensor, stats Stats) (*tensor.Tensor, error) {
	return normalize.Apply(m, stats)
}

// ReverseStats maps a standardized matrix back to raw feature space.
func ReverseStats(m *tensor.Tensor, stats Stats) (*tensor.Tensor, error) {
	return normalize.Reverse(m, stats)
}

// Training

// EpochReport is the progress of one completed epoch.
type EpochReport = trainer.EpochReport

// History is the per-epoch loss record of a run.
type History = trainer.History

// TrainOption configures training.
type TrainOption = trainer.Option

// WithProgress reports every epoch to fn.
func WithProgress(fn func(EpochReport)) TrainOption {
	return trainer.WithProgress(fn)
}

// Fit trains a regressor mapping raw inputs to raw outputs and returns the
// resulting bundle. Both matrices must have the same number of rows.
func Fit(inputs, outputs *tensor.Tensor, cfg Config, opts ...TrainOption) (*Bundle, error) {
	return pipeline.Fit(inputs, outputs, cfg, opts...)
}

// Persistence

// Bundle is a trained model with its normalization statistics.
type Bundle = artifact.Bundle

// Paths locates the persisted units of a bundle.
type Paths = artifact.Paths

// DefaultPaths places every unit in dir under its default file name.
func DefaultPaths(dir string) Paths {
	return artifact.DefaultPaths(dir)
}

// Save writes every unit of b to paths.
func Save(ctx context.Context, b *Bundle, paths Paths) error {
	return artifact.Save(ctx, b, paths)
}

// Load reads a bundle saved by Save. The model runs on the CPU backend.
func Load(ctx context.Context, paths Paths) (*Bundle, error) {
	return artifact.Load(ctx, paths, cpu.New())
}

// Prediction

// Predictor maps raw inputs to raw predicted outputs. It is safe for
// concurrent use.
type Predictor = predict.Predictor

// NewPredictor creates a Predictor from a trained or loaded bundle.
func NewPredictor(b *Bundle) (*Predictor, error) {
	return predict.FromBundle(b)
}

// Errors

var (
	// ErrShapeMismatch reports matrices whose rows or columns disagree.
	ErrShapeMismatch = tensor.ErrShapeMismatch
	// ErrMissingArtifact reports an absent or malformed persisted unit.
	ErrMissingArtifact = artifact.ErrMissingArtifact
	// ErrNonFiniteLoss reports a training run that diverged.
	ErrNonFiniteLoss = trainer.ErrNonFiniteLoss
	// ErrInvalidConfig reports an out-of-range configuration value.
	ErrInvalidConfig = config.ErrInvalidConfig
)
