// Package cpu implements the CPU backend with gonum-backed matrix products.
package cpu

import (
	"fmt"

	"github.com/born-ml/shapegen/internal/parallel"
	"github.com/born-ml/shapegen/internal/tensor"
)

// CPUBackend implements tensor operations on CPU.
//
// The backend is stateless apart from its parallel configuration, so a
// single instance may be shared by concurrent callers.
type CPUBackend struct {
	parallel parallel.Config
}

// New creates a new CPU backend using parallel.DefaultConfig.
func New() *CPUBackend {
	return &CPUBackend{parallel: parallel.DefaultConfig()}
}

// NewWithConfig creates a CPU backend with an explicit parallel configuration.
func NewWithConfig(cfg parallel.Config) *CPUBackend {
	return &CPUBackend{parallel: cfg}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Add performs element-wise addition with row broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.Tensor) *tensor.Tensor {
	return cpu.binary("add", a, b, func(x, y float64) float64 { return x + y })
}

// Sub performs element-wise subtraction with row broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.Tensor) *tensor.Tensor {
	return cpu.binary("sub", a, b, func(x, y float64) float64 { return x - y })
}

// Mul performs element-wise multiplication with row broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.Tensor) *tensor.Tensor {
	return cpu.binary("mul", a, b, func(x, y float64) float64 { return x * y })
}

// MulScalar multiplies every element of x by s.
func (cpu *CPUBackend) MulScalar(x *tensor.Tensor, s float64) *tensor.Tensor {
	return cpu.unary(x, func(v float64) float64 { return v * s })
}

// binary applies f element-wise. b must either match a's shape or be a row
// vector broadcast along a's rows.
func (cpu *CPUBackend) binary(op string, a, b *tensor.Tensor, f func(x, y float64) float64) *tensor.Tensor {
	ad, bd := a.Data(), b.Data()
	out := make([]float64, len(ad))

	switch {
	case a.Shape().Equal(b.Shape()):
		parallel.ForRange(len(ad), func(start, end int) {
			for i := start; i < end; i++ {
				out[i] = f(ad[i], bd[i])
			}
		}, cpu.parallel)
	case tensor.RowBroadcast(a.Shape(), b.Shape()):
		cols := a.Cols()
		parallel.ForRange(a.Rows(), func(start, end int) {
			for r := start; r < end; r++ {
				base := r * cols
				for c := 0; c < cols; c++ {
					out[base+c] = f(ad[base+c], bd[c])
				}
			}
		}, cpu.rowConfig(cols))
	default:
		panic(fmt.Sprintf("%s: shapes not compatible: %v vs %v", op, a.Shape(), b.Shape()))
	}

	return tensor.New(out, a.Shape())
}

func (cpu *CPUBackend) unary(x *tensor.Tensor, f func(v float64) float64) *tensor.Tensor {
	xd := x.Data()
	out := make([]float64, len(xd))
	parallel.ForRange(len(xd), func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = f(xd[i])
		}
	}, cpu.parallel)
	return tensor.New(out, x.Shape())
}

// rowConfig scales the minimum chunk size from elements to rows.
func (cpu *CPUBackend) rowConfig(cols int) parallel.Config {
	cfg := cpu.parallel
	cfg.MinChunkSize = max(cfg.MinChunkSize/max(cols, 1), 1)
	return cfg
}
