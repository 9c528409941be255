// Package artifact persists a trained bundle as independent units: the
// model weights, four normalization vectors and an optional JSON run record.
//
// Every unit is written to a temporary file in its target directory and
// renamed into place after all of them are written, so a reader never sees
// a half-written unit and a failed save never mixes two runs.
package artifact

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/born-ml/shapegen/internal/matrixio"
	"github.com/born-ml/shapegen/internal/model"
	"github.com/born-ml/shapegen/internal/normalize"
	"github.com/born-ml/shapegen/internal/tensor"
)

// Bundle is everything needed to reproduce predictions.
type Bundle struct {
	Model  *model.Regressor
	Input  normalize.Stats
	Output normalize.Stats
	Record *Record // nil when no run record exists
}

// Validate checks the stats and that their widths agree with the model.
func (b *Bundle) Validate() error {
	if b.Model == nil {
		return &Error{Unit: UnitModel, Err: errors.New("no model")}
	}
	checks := []struct {
		unit  Unit
		stats normalize.Stats
		width int
	}{
		{UnitInputMean, b.Input, b.Model.InputWidth()},
		{UnitOutputMean, b.Output, b.Model.OutputWidth()},
	}
	for _, c := range checks {
		if err := c.stats.Validate(); err != nil {
			return &Error{Unit: c.unit, Err: err}
		}
		if c.stats.Width() != c.width {
			return &Error{Unit: c.unit, Err: &tensor.ShapeError{
				Op:   "artifact.Bundle",
				Got:  tensor.Shape{1, c.stats.Width()},
				Want: tensor.Shape{1, c.width},
				Msg:  "stats width does not match the model",
			}}
		}
	}
	return nil
}

// Save writes every unit of b to the locations in paths.
//
// All units are first written to temporary files; they are renamed into
// place only once every write has succeeded, so a failed save leaves the
// previous bundle at paths untouched. The record is written only when both
// b.Record and paths.Record are set; its Paths field is updated to paths.
func Save(ctx context.Context, b *Bundle, paths Paths) error {
	if err := paths.Validate(); err != nil {
		return err
	}
	if err := b.Validate(); err != nil {
		return err
	}

	type staged struct {
		unit      Unit
		path, tmp string
	}
	var units []*staged
	g, gctx := errgroup.WithContext(ctx)
	save := func(unit Unit, path string, write func(f *os.File) error) {
		s := &staged{unit: unit, path: path}
		units = append(units, s)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tmp, err := writeTemp(path, write)
			if err != nil {
				return fmt.Errorf("save %s to %s: %w", unit, path, err)
			}
			s.tmp = tmp
			return nil
		})
	}
	defer func() {
		for _, s := range units {
			if s.tmp != "" {
				_ = os.Remove(s.tmp)
			}
		}
	}()

	save(UnitModel, paths.Model, func(f *os.File) error {
		return model.Write(f, b.Model)
	})
	for _, vec := range []struct {
		unit Unit
		path string
		v    []float64
	}{
		{UnitInputMean, paths.InputMean, b.Input.Mean},
		{UnitInputStd, paths.InputStd, b.Input.Std},
		{UnitOutputMean, paths.OutputMean, b.Output.Mean},
		{UnitOutputStd, paths.OutputStd, b.Output.Std},
	} {
		vec := vec
		save(vec.unit, vec.path, func(f *os.File) error {
			return matrixio.WriteVector(f, vec.v)
		})
	}
	if b.Record != nil && paths.Record != "" {
		b.Record.Paths = paths
		record := *b.Record
		save(UnitRecord, paths.Record, func(f *os.File) error {
			return writeRecord(f, &record)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, s := range units {
		if err := os.Rename(s.tmp, s.path); err != nil {
			return fmt.Errorf("save %s to %s: %w", s.unit, s.path, err)
		}
		s.tmp = ""
	}
	return nil
}

// Load reads a bundle, binding the model to backend.
//
// Any absent or malformed unit yields an *Error matching ErrMissingArtifact.
// The record is read only when paths.Record names an existing file.
func Load(ctx context.Context, paths Paths, backend tensor.Backend) (*Bundle, error) {
	if err := paths.Validate(); err != nil {
		return nil, err
	}

	var (
		b               Bundle
		inMean, inStd   []float64
		outMean, outStd []float64
	)
	g, gctx := errgroup.WithContext(ctx)
	load := func(unit Unit, path string, read func() error) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := read(); err != nil {
				return &Error{Unit: unit, Path: path, Err: err}
			}
			return nil
		})
	}

	load(UnitModel, paths.Model, func() (err error) {
		b.Model, err = model.Load(paths.Model, backend)
		return err
	})
	load(UnitInputMean, paths.InputMean, readVector(paths.InputMean, &inMean))
	load(UnitInputStd, paths.InputStd, readVector(paths.InputStd, &inStd))
	load(UnitOutputMean, paths.OutputMean, readVector(paths.OutputMean, &outMean))
	load(UnitOutputStd, paths.OutputStd, readVector(paths.OutputStd, &outStd))
	if paths.Record != "" {
		load(UnitRecord, paths.Record, func() (err error) {
			if _, statErr := os.Stat(paths.Record); errors.Is(statErr, fs.ErrNotExist) {
				return nil
			}
			b.Record, err = readRecord(paths.Record)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	b.Input = normalize.Stats{Mean: inMean, Std: inStd}
	b.Output = normalize.Stats{Mean: outMean, Std: outStd}
	if err := b.Validate(); err != nil {
		var ae *Error
		if errors.As(err, &ae) {
			ae.Path = pathOf(paths, ae.Unit)
		}
		return nil, err
	}
	return &b, nil
}

func readVector(path string, dst *[]float64) func() error {
	return func() error {
		//nolint:gosec // G304: File path comes from user input
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		v, err := matrixio.ReadVector(bytes.NewReader(raw))
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

func pathOf(p Paths, unit Unit) string {
	if path, ok := p.required()[unit]; ok {
		return path
	}
	return p.Record
}

// writeTemp writes through a new temporary file in path's directory and
// returns its name. The caller renames or removes it.
func writeTemp(path string, write func(f *os.File) error) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", err
	}
	name := tmp.Name()
	fail := func(err error) (string, error) {
		_ = tmp.Close()
		_ = os.Remove(name)
		return "", err
	}

	if err := tmp.Chmod(0o644); err != nil {
		return fail(err)
	}
	if err := write(tmp); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return "", err
	}
	return name, nil
}
