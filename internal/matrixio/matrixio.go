// Package matrixio reads and writes the plain-text numeric matrix format
// exchanged with the vertex-extraction tooling.
//
// One sample per line, columns separated by whitespace. Blank lines and
// lines starting with '#' are ignored when reading. Values are written in
// scientific notation with 18 fractional digits, so a written matrix reads
// back bit-for-bit.
package matrixio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/born-ml/shapegen/internal/tensor"
)

// ErrEmpty is returned when a matrix file contains no data rows.
var ErrEmpty = errors.New("matrix has no rows")

// ParseError reports the position of an unparsable value or a ragged row.
type ParseError struct {
	Line int
	Msg  string
	Err  error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("line %d: %s: %v", e.Line, e.Msg, e.Err)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Read parses a matrix from r.
func Read(r io.Reader) (*tensor.Tensor, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	var data []float64
	rows, cols, line := 0, 0, 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		if rows == 0 {
			cols = len(fields)
		} else if len(fields) != cols {
			return nil, &ParseError{Line: line, Msg: fmt.Sprintf("expected %d columns, found %d", cols, len(fields))}
		}
		for _, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, &ParseError{Line: line, Msg: fmt.Sprintf("invalid value %q", field), Err: err}
			}
			data = append(data, v)
		}
		rows++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrEmpty
	}
	return tensor.New(data, tensor.Shape{rows, cols}), nil
}

// ReadFile parses the matrix stored at path.
func ReadFile(path string) (*tensor.Tensor, error) {
	//nolint:gosec // G304: File path comes from user input
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	m, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ReadVector parses a matrix that must consist of exactly one row.
func ReadVector(r io.Reader) ([]float64, error) {
	m, err := Read(r)
	if err != nil {
		return nil, err
	}
	if m.Rows() != 1 {
		return nil, fmt.Errorf("expected a single row, found %d", m.Rows())
	}
	return m.Data(), nil
}

// Write formats a 2-D tensor to w, one row per line.
func Write(w io.Writer, m *tensor.Tensor) error {
	if len(m.Shape()) != 2 {
		return &tensor.ShapeError{Op: "matrixio.Write", Got: m.Shape().Clone(), Want: tensor.Shape{-1, -1}}
	}

	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 32)
	for i, n_ := 0, m.Rows(); i < n_; i++ {
		for j, v := range m.Row(i) {
			if j > 0 {
				buf = append(buf, ' ')
			}
			buf = strconv.AppendFloat(buf, v, 'e', 18, 64)
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
		buf = buf[:0]
	}
	return bw.Flush()
}

// WriteVector formats v as a single row.
func WriteVector(w io.Writer, v []float64) error {
	return Write(w, tensor.New(v, tensor.Shape{1, len(v)}))
}

// WriteFile writes m to path, replacing any existing file.
func WriteFile(path string, m *tensor.Tensor) error {
	//nolint:gosec // G304: File path comes from user input
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, m); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
