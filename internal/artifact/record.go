package artifact

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/born-ml/shapegen/internal/config"
	"github.com/born-ml/shapegen/internal/model"
	"github.com/born-ml/shapegen/internal/trainer"
)

// Record describes the run that produced a bundle.
type Record struct {
	RunID         string          `json:"run_id"`
	CreatedAt     time.Time       `json:"created_at"`
	FormatVersion string          `json:"format_version"`
	Config        config.Config   `json:"config"`
	Samples       int             `json:"samples"`
	InputWidth    int             `json:"input_width"`
	OutputWidth   int             `json:"output_width"`
	Split         trainer.Split   `json:"split"`
	History       trainer.History `json:"history"`
	InputData     string          `json:"model_input,omitempty"`
	OutputData    string          `json:"model_output,omitempty"`
	Paths         Paths           `json:"paths"`
}

// NewRecord starts a record for a training run with a fresh run id.
func NewRecord(cfg config.Config, result *trainer.Result, samples int) *Record {
	return &Record{
		RunID:         uuid.NewString(),
		CreatedAt:     time.Now().UTC(),
		FormatVersion: model.FormatVersion,
		Config:        cfg,
		Samples:       samples,
		InputWidth:    result.Model.InputWidth(),
		OutputWidth:   result.Model.OutputWidth(),
		Split:         result.Split,
		History:       result.History,
	}
}

func writeRecord(w io.Writer, r *Record) error {
	raw, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	_, err = w.Write(append(raw, '\n'))
	return err
}

func readRecord(path string) (*Record, error) {
	//nolint:gosec // G304: File path comes from user input
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Record
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(r.RunID); err != nil {
		return nil, fmt.Errorf("invalid run id: %w", err)
	}
	return &r, nil
}
