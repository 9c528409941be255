package tensor

// Backend defines the interface that compute backends must implement.
// Backends handle the actual computation for tensor operations and never
// modify their inputs.
//
// Implementations:
//   - cpu.CPUBackend: pure Go with gonum for matrix products
//   - autodiff.AutodiffBackend: decorator that records operations for backprop
type Backend interface {
	// Element-wise binary operations. b may also be a row vector ([C] or
	// [1, C]) that is repeated along the rows of a 2-D a.
	Add(a, b *Tensor) *Tensor
	Sub(a, b *Tensor) *Tensor
	Mul(a, b *Tensor) *Tensor

	// MulScalar multiplies every element by s.
	MulScalar(x *Tensor, s float64) *Tensor

	// Matrix operations
	MatMul(a, b *Tensor) *Tensor // [M, K] @ [K, N] -> [M, N]
	Transpose(x *Tensor) *Tensor // [M, N] -> [N, M]

	// Activation functions
	Tanh(x *Tensor) *Tensor

	// Reduction operations
	Mean(x *Tensor) *Tensor    // mean of all elements (scalar result)
	SumRows(x *Tensor) *Tensor // [N, C] -> [C]

	// Metadata
	Name() string
}
