// Package config defines the validated training configuration record.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a configuration value is out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

// FieldError reports which configuration field was rejected and why.
type FieldError struct {
	Field  string
	Value  any
	Reason string
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("%v: %s = %v: %s", ErrInvalidConfig, e.Field, e.Value, e.Reason)
}

// Unwrap allows errors.Is(err, ErrInvalidConfig).
func (e *FieldError) Unwrap() error {
	return ErrInvalidConfig
}

// PoolOrder selects which end of the sample range is held out for validation.
type PoolOrder string

const (
	// TrainFirst trains on [0, splitIndex) and validates on [splitIndex, N).
	TrainFirst PoolOrder = "train-first"
	// ValidationFirst validates on [0, splitIndex) and trains on [splitIndex, N).
	ValidationFirst PoolOrder = "validation-first"
)

// ParsePoolOrder converts a flag or file value to a PoolOrder.
// The empty string selects TrainFirst.
func ParsePoolOrder(s string) (PoolOrder, error) {
	switch PoolOrder(s) {
	case "", TrainFirst:
		return TrainFirst, nil
	case ValidationFirst:
		return ValidationFirst, nil
	default:
		return "", &FieldError{Field: "pool_order", Value: s, Reason: `must be "train-first" or "validation-first"`}
	}
}

// Config holds the hyperparameters of one training run.
type Config struct {
	HiddenWidth     int       `yaml:"hidden_width" json:"hidden_width"`
	LearningRate    float64   `yaml:"learning_rate" json:"learning_rate"`
	Epochs          int       `yaml:"epochs" json:"epochs"`
	ValidationSplit float64   `yaml:"validation_split" json:"validation_split"` // 0 disables validation
	Seed            int64     `yaml:"seed" json:"seed"`
	PoolOrder       PoolOrder `yaml:"pool_order" json:"pool_order"`
}

// Default returns the configuration the training tool uses when nothing is set.
func Default() Config {
	return Config{
		HiddenWidth:     512,
		LearningRate:    0.001,
		Epochs:          150,
		ValidationSplit: 0.3,
		Seed:            1,
		PoolOrder:       TrainFirst,
	}
}

// ValidationEnabled reports whether a validation pool is held out.
func (c Config) ValidationEnabled() bool {
	return c.ValidationSplit > 0
}

// Validate checks every field and returns the first violation as a *FieldError.
func (c Config) Validate() error {
	if c.HiddenWidth <= 0 {
		return &FieldError{Field: "hidden_width", Value: c.HiddenWidth, Reason: "must be positive"}
	}
	if !(c.LearningRate > 0) || math.IsInf(c.LearningRate, 0) {
		return &FieldError{Field: "learning_rate", Value: c.LearningRate, Reason: "must be a finite positive number"}
	}
	if c.Epochs <= 0 {
		return &FieldError{Field: "epochs", Value: c.Epochs, Reason: "must be at least 1"}
	}
	if !(c.ValidationSplit >= 0 && c.ValidationSplit < 1) {
		return &FieldError{Field: "validation_split", Value: c.ValidationSplit, Reason: "must lie in [0, 1)"}
	}
	if _, err := ParsePoolOrder(string(c.PoolOrder)); err != nil {
		return err
	}
	return nil
}

// LoadFile reads a YAML file over the defaults. Keys absent from the file
// keep their default values; unknown keys are rejected.
func LoadFile(path string) (Config, error) {
	//nolint:gosec // G304: File path comes from user input
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(raw)
}

// Parse decodes YAML bytes over the defaults.
func Parse(raw []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.PoolOrder == "" {
		cfg.PoolOrder = TrainFirst
	}
	return cfg, nil
}
