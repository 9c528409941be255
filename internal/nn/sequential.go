package nn

import (
	"fmt"
	"strings"

	"github.com/born-ml/shapegen/internal/tensor"
)

// Sequential is a container module that chains multiple modules together.
//
// Each module's output becomes the next module's input.
//
// Example:
//
//	model := nn.NewSequential(
//	    nn.NewLinear(6, 32, backend, rng),
//	    nn.NewTanh(backend),
//	    nn.NewLinear(32, 6, backend, rng),
//	)
//
//	output := model.Forward(input)
type Sequential struct {
	modules []Module
}

// NewSequential creates a new Sequential container.
func NewSequential(modules ...Module) *Sequential {
	return &Sequential{modules: modules}
}

// Forward applies all modules in sequence.
func (s *Sequential) Forward(input *tensor.Tensor) *tensor.Tensor {
	output := input
	for _, module := range s.modules {
		output = module.Forward(output)
	}
	return output
}

// Parameters returns all trainable parameters from all modules, in order.
func (s *Sequential) Parameters() []*Parameter {
	var params []*Parameter
	for _, module := range s.modules {
		params = append(params, module.Parameters()...)
	}
	return params
}

// Len returns the number of modules in the sequence.
func (s *Sequential) Len() int {
	return len(s.modules)
}

// Module returns the module at the given index.
//
// Panics if index is out of bounds.
func (s *Sequential) Module(index int) Module {
	if index < 0 || index >= len(s.modules) {
		panic("Sequential.Module: index out of bounds")
	}
	return s.modules[index]
}

// StateDict returns a map of parameter names to tensors.
//
// Parameters are prefixed with their module index (e.g., "0.weight",
// "0.bias", "2.weight") to avoid name collisions.
func (s *Sequential) StateDict() map[string]*tensor.Tensor {
	stateDict := make(map[string]*tensor.Tensor)
	for i, module := range s.modules {
		for name, t := range module.StateDict() {
			stateDict[fmt.Sprintf("%d.%s", i, name)] = t
		}
	}
	return stateDict
}

// LoadStateDict loads parameters from a state dictionary.
//
// Every parameterized module must find all of its entries; keys that do
// not belong to any module are rejected.
func (s *Sequential) LoadStateDict(stateDict map[string]*tensor.Tensor) error {
	used := 0
	for i, module := range s.modules {
		prefix := fmt.Sprintf("%d.", i)
		moduleStateDict := make(map[string]*tensor.Tensor)
		for key, t := range stateDict {
			if name, ok := strings.CutPrefix(key, prefix); ok {
				moduleStateDict[name] = t
			}
		}

		if len(module.Parameters()) == 0 {
			continue
		}
		if err := module.LoadStateDict(moduleStateDict); err != nil {
			return fmt.Errorf("failed to load module %d: %w", i, err)
		}
		used += len(moduleStateDict)
	}

	if used != len(stateDict) {
		return fmt.Errorf("state dict has %d entries, model uses %d", len(stateDict), used)
	}
	return nil
}
