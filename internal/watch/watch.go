// Package watch regenerates a predicted pose matrix whenever the input
// matrix file changes.
//
// The modeling tool re-exports vertex positions by rewriting or replacing
// the input file, so the watcher follows the parent directory and matches
// events on the file name rather than watching the file itself.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/born-ml/shapegen/internal/pipeline"
	"github.com/born-ml/shapegen/internal/predict"
	"github.com/born-ml/shapegen/internal/tensor"
)

// DefaultDebounce is how long the input must stay quiet before a rerun.
const DefaultDebounce = 100 * time.Millisecond

// Options configures Run.
type Options struct {
	InputPath  string
	OutputPath string
	Debounce   time.Duration // DefaultDebounce when zero
	Logger     logrus.FieldLogger

	// OnPredict is called after every successful prediction with the
	// number of rows written.
	OnPredict func(rows int)
}

// Run predicts InputPath once, then again after every change to it, until
// ctx is cancelled.
//
// Unreadable or half-written inputs are logged and skipped; the next write
// triggers another attempt. An input whose width disagrees with the model
// stops the watcher with an error wrapping tensor.ErrShapeMismatch.
func Run(ctx context.Context, p *predict.Predictor, opts Options) error {
	if opts.InputPath == "" || opts.OutputPath == "" {
		return errors.New("watch: input and output paths are required")
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	logger = logger.WithFields(logrus.Fields{"input": opts.InputPath, "output": opts.OutputPath})

	target, err := filepath.Abs(opts.InputPath)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer func() {
		_ = w.Close()
	}()
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	run := func() error {
		rows, err := pipeline.PredictFile(p, opts.InputPath, opts.OutputPath)
		switch {
		case err == nil:
			logger.WithField("rows", rows).Info("wrote prediction")
			if opts.OnPredict != nil {
				opts.OnPredict(rows)
			}
			return nil
		case errors.Is(err, tensor.ErrShapeMismatch):
			logger.WithError(err).Error("input does not match the model")
			return err
		default:
			logger.WithError(err).Warn("skipping input")
			return nil
		}
	}

	if err := run(); err != nil {
		return err
	}
	logger.Info("watching for changes")

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("watch stopped")
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(ev, target) {
				continue
			}
			logger.WithField("op", ev.Op.String()).Debug("input changed")
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.WithError(err).Warn("watcher error")
		case <-timer.C:
			if err := run(); err != nil {
				return err
			}
		}
	}
}

func relevant(ev fsnotify.Event, target string) bool {
	name, err := filepath.Abs(ev.Name)
	if err != nil || name != target {
		return false
	}
	return ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}
