// Package serialization reads and writes model weights in the SafeTensors format.
//
//	Format Structure:
//	  [8 bytes: Header Size (uint64 LE)]
//	  [Header: JSON, tensor name -> {dtype, shape, data_offsets}, plus __metadata__]
//	  [Tensor data: raw little-endian bytes, tensors in alphabetical order]
//
// Only F64 tensors are produced and accepted, so weights round-trip exactly.
// The writer stores a SHA-256 of the data section under the "sha256"
// metadata key and the reader verifies it when present.
//
// Example usage:
//
//	// Save a state dict
//	if err := serialization.WriteSafeTensorsFile("model.safetensors", model.StateDict(), meta); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Load it back
//	file, err := serialization.ReadSafeTensorsFile("model.safetensors")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	model.LoadStateDict(file.Tensors)
package serialization
