package artifact

import (
	"errors"
	"path/filepath"
)

// Default file names used by DefaultPaths.
const (
	ModelFile      = "model.safetensors"
	InputMeanFile  = "inputs_mean.txt"
	InputStdFile   = "inputs_std.txt"
	OutputMeanFile = "outputs_mean.txt"
	OutputStdFile  = "outputs_std.txt"
	RecordFile     = "make_model_params.json"
)

// Paths locates the units of a bundle. Record is optional.
type Paths struct {
	Model      string `json:"model"`
	InputMean  string `json:"inputs_mean"`
	InputStd   string `json:"inputs_std"`
	OutputMean string `json:"outputs_mean"`
	OutputStd  string `json:"outputs_std"`
	Record     string `json:"record,omitempty"`
}

// DefaultPaths places every unit in dir under its default file name.
func DefaultPaths(dir string) Paths {
	return Paths{
		Model:      filepath.Join(dir, ModelFile),
		InputMean:  filepath.Join(dir, InputMeanFile),
		InputStd:   filepath.Join(dir, InputStdFile),
		OutputMean: filepath.Join(dir, OutputMeanFile),
		OutputStd:  filepath.Join(dir, OutputStdFile),
		Record:     filepath.Join(dir, RecordFile),
	}
}

// Validate reports an error if any of the five required locations is empty.
func (p Paths) Validate() error {
	for unit, path := range p.required() {
		if path == "" {
			return &Error{Unit: unit, Err: errors.New("no location given")}
		}
	}
	return nil
}

func (p Paths) required() map[Unit]string {
	return map[Unit]string{
		UnitModel:      p.Model,
		UnitInputMean:  p.InputMean,
		UnitInputStd:   p.InputStd,
		UnitOutputMean: p.OutputMean,
		UnitOutputStd:  p.OutputStd,
	}
}
