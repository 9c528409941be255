package matrixio

import (
	"bytes"
	"errors"
	"math"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/shapegen/internal/tensor"
)

func TestRead(t *testing.T) {
	input := `# neutral pose
1 2.5 -3

4e-1   5.000000000000000000e+00	6
`
	m, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 3}, m.Shape())
	assert.Equal(t, [][]float64{{1, 2.5, -3}, {0.4, 5, 6}}, m.ToRows())
}

func TestRead_Errors(t *testing.T) {
	_, err := Read(strings.NewReader("1 2\n3\n"))
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 2, perr.Line)

	_, err = Read(strings.NewReader("1 x\n"))
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 1, perr.Line)

	_, err = Read(strings.NewReader("# only a comment\n\n"))
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestWriteRead_Exact(t *testing.T) {
	m := tensor.Uniform(tensor.Shape{7, 6}, -1e3, 1e3, rand.New(rand.NewSource(1)))
	m.Set(math.SmallestNonzeroFloat64, 0, 0)
	m.Set(-0.1, 0, 1)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, m))
	assert.Equal(t, 7, strings.Count(buf.String(), "\n"))

	back, err := Read(&buf)
	require.NoError(t, err)
	assert.True(t, m.Equal(back))
}

func TestWrite_Format(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteVector(&buf, []float64{1, -0.5}))
	assert.Equal(t, "1.000000000000000000e+00 -5.000000000000000000e-01\n", buf.String())

	assert.ErrorIs(t, Write(&buf, tensor.Zeros(tensor.Shape{3})), tensor.ErrShapeMismatch)
}

func TestReadVector(t *testing.T) {
	v, err := ReadVector(strings.NewReader("1 2 3\n"))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, v)

	_, err = ReadVector(strings.NewReader("1 2\n3 4\n"))
	assert.Error(t, err)
}

func TestFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pose.txt")
	m, _ := tensor.FromRows([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, WriteFile(path, m))

	back, err := ReadFile(path)
	require.NoError(t, err)
	assert.True(t, m.Equal(back))

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
