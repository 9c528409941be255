package model

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strconv"

	"github.com/Masterminds/semver/v3"

	"github.com/born-ml/shapegen/internal/serialization"
	"github.com/born-ml/shapegen/internal/tensor"
)

// FormatVersion is written into every saved model.
const FormatVersion = "1.0.0"

// compatibleFormats lists the format versions Load accepts.
const compatibleFormats = "^1"

// Metadata keys stored in the SafeTensors header.
const (
	MetaFormatVersion = "format_version"
	MetaInputWidth    = "input_width"
	MetaHiddenWidth   = "hidden_width"
	MetaOutputWidth   = "output_width"
	MetaActivation    = "activation"
)

// ErrIncompatibleFormat is returned when a model file was written by an
// unsupported format version.
var ErrIncompatibleFormat = errors.New("incompatible model format")

// Metadata describes the saved model so it can be rebuilt without the
// training data.
func (r *Regressor) Metadata() map[string]string {
	return map[string]string{
		MetaFormatVersion: FormatVersion,
		MetaInputWidth:    strconv.Itoa(r.InputWidth()),
		MetaHiddenWidth:   strconv.Itoa(r.HiddenWidth()),
		MetaOutputWidth:   strconv.Itoa(r.OutputWidth()),
		MetaActivation:    "tanh",
	}
}

// Save writes the model weights and metadata to a SafeTensors file.
func Save(path string, r *Regressor) error {
	return serialization.WriteSafeTensorsFile(path, r.StateDict(), r.Metadata())
}

// Write encodes the model as SafeTensors to w.
func Write(w io.Writer, r *Regressor) error {
	return serialization.WriteSafeTensors(w, r.StateDict(), r.Metadata())
}

// Load reads a model saved by Save and binds it to backend.
func Load(path string, backend tensor.Backend) (*Regressor, error) {
	file, err := serialization.ReadSafeTensorsFile(path)
	if err != nil {
		return nil, err
	}
	return fromFile(file, backend)
}

// Read decodes a model written by Write and binds it to backend.
func Read(r io.Reader, backend tensor.Backend) (*Regressor, error) {
	file, err := serialization.ReadSafeTensors(r)
	if err != nil {
		return nil, err
	}
	return fromFile(file, backend)
}

func fromFile(file *serialization.File, backend tensor.Backend) (*Regressor, error) {
	if err := checkFormat(file.Metadata[MetaFormatVersion]); err != nil {
		return nil, err
	}
	if act := file.Metadata[MetaActivation]; act != "tanh" {
		return nil, fmt.Errorf("unsupported activation %q", act)
	}

	widths, err := storedWidths(file)
	if err != nil {
		return nil, err
	}

	// Initial weights are overwritten by the state dict.
	r := New(widths[0], widths[1], widths[2], backend, rand.New(rand.NewSource(0)))
	if err := r.LoadStateDict(file.Tensors); err != nil {
		return nil, fmt.Errorf("failed to load weights: %w", err)
	}
	return r, nil
}

// storedWidths reads the layer widths from the weight shapes and requires
// the metadata to agree. Only shapes backed by tensor data are trusted.
func storedWidths(file *serialization.File) ([3]int, error) {
	var shapes [3]tensor.Shape
	for i, key := range []string{"0.weight", "2.weight", "4.weight"} {
		t, ok := file.Tensors[key]
		if !ok {
			return [3]int{}, fmt.Errorf("missing %s in model file", key)
		}
		if len(t.Shape()) != 2 {
			return [3]int{}, fmt.Errorf("%s has shape %v, want a matrix", key, t.Shape())
		}
		shapes[i] = t.Shape()
	}
	hidden := shapes[0][0]
	if shapes[1][0] != hidden || shapes[1][1] != hidden || shapes[2][1] != hidden {
		return [3]int{}, fmt.Errorf("inconsistent hidden widths in weights %v, %v, %v", shapes[0], shapes[1], shapes[2])
	}
	widths := [3]int{shapes[0][1], hidden, shapes[2][0]}

	for i, key := range []string{MetaInputWidth, MetaHiddenWidth, MetaOutputWidth} {
		w, err := strconv.Atoi(file.Metadata[key])
		if err != nil || w != widths[i] {
			return [3]int{}, fmt.Errorf("%s %q in model metadata disagrees with stored weights (%d)", key, file.Metadata[key], widths[i])
		}
	}
	return widths, nil
}

func checkFormat(version string) error {
	if version == "" {
		return fmt.Errorf("%w: missing %s", ErrIncompatibleFormat, MetaFormatVersion)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrIncompatibleFormat, version, err)
	}
	constraint, err := semver.NewConstraint(compatibleFormats)
	if err != nil {
		return err
	}
	if !constraint.Check(v) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrIncompatibleFormat, version, compatibleFormats)
	}
	return nil
}
