package serialization

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/born-ml/shapegen/internal/tensor"
)

const (
	metadataKey = "__metadata__"
	checksumKey = "sha256"
	dtypeF64    = "F64"
	f64Size     = 8
)

// SafeTensorHeader represents a tensor in the SafeTensors header.
type SafeTensorHeader struct {
	DType       string   `json:"dtype"`
	Shape       []int64  `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"`
}

// File is a decoded SafeTensors file.
type File struct {
	Tensors  map[string]*tensor.Tensor
	Metadata map[string]string
}

// WriteSafeTensors encodes tensors to w.
//
// Format:
// [8 bytes: header_size (uint64 LE)]
// [header_size bytes: JSON header]
// [tensor data: raw bytes]
//
// Tensors are written in alphabetical order by name.
func WriteSafeTensors(w io.Writer, tensors map[string]*tensor.Tensor, metadata map[string]string) error {
	names := make([]string, 0, len(tensors))
	for name := range tensors {
		if err := ValidateTensorName(name); err != nil {
			return err
		}
		names = append(names, name)
	}
	sort.Strings(names)

	header := make(map[string]interface{}, len(names)+1)
	var data bytes.Buffer
	var offset int64
	buf := make([]byte, f64Size)
	for _, name := range names {
		t := tensors[name]
		shape := t.Shape()
		shapeInt64 := make([]int64, len(shape))
		for i, dim := range shape {
			shapeInt64[i] = int64(dim)
		}

		for _, v := range t.Data() {
			binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
			data.Write(buf)
		}

		size := int64(t.NumElements() * f64Size)
		header[name] = SafeTensorHeader{
			DType:       dtypeF64,
			Shape:       shapeInt64,
			DataOffsets: [2]int64{offset, offset + size},
		}
		offset += size
	}

	meta := make(map[string]string, len(metadata)+1)
	for k, v := range metadata {
		meta[k] = v
	}
	sum := sha256.Sum256(data.Bytes())
	meta[checksumKey] = hex.EncodeToString(sum[:])
	header[metadataKey] = meta

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return fmt.Errorf("failed to write header size: %w", err)
	}
	if _, err := bw.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := bw.Write(data.Bytes()); err != nil {
		return fmt.Errorf("failed to write tensor data: %w", err)
	}
	return bw.Flush()
}

// WriteSafeTensorsFile writes tensors to a SafeTensors file at path.
func WriteSafeTensorsFile(path string, tensors map[string]*tensor.Tensor, metadata map[string]string) error {
	//nolint:gosec // G304: File path comes from user input, which is expected for model saving
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := WriteSafeTensors(file, tensors, metadata); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// ReadSafeTensors decodes a SafeTensors stream.
//
// Every tensor must be F64, offsets must tile the data section without
// overlap, and the stored checksum must match when present.
func ReadSafeTensors(r io.Reader) (*File, error) {
	var headerSize uint64
	if err := binary.Read(r, binary.LittleEndian, &headerSize); err != nil {
		return nil, fmt.Errorf("failed to read header size: %w", err)
	}
	if headerSize > MaxHeaderSize {
		return nil, &ValidationError{Kind: ErrHeaderTooLarge, Details: fmt.Sprintf("%d bytes", headerSize)}
	}

	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerBytes); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var rawMap map[string]json.RawMessage
	if err := json.Unmarshal(headerBytes, &rawMap); err != nil {
		return nil, fmt.Errorf("failed to parse header JSON: %w", err)
	}

	file := &File{
		Tensors:  make(map[string]*tensor.Tensor, len(rawMap)),
		Metadata: map[string]string{},
	}
	if raw, ok := rawMap[metadataKey]; ok {
		if err := json.Unmarshal(raw, &file.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
		delete(rawMap, metadataKey)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read tensor data: %w", err)
	}

	infos := make(map[string]SafeTensorHeader, len(rawMap))
	metas := make([]TensorMeta, 0, len(rawMap))
	for name, raw := range rawMap {
		if err := ValidateTensorName(name); err != nil {
			return nil, err
		}
		var info SafeTensorHeader
		if err := json.Unmarshal(raw, &info); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tensor %s: %w", name, err)
		}
		if info.DType != dtypeF64 {
			return nil, &ValidationError{Kind: ErrUnsupportedDType, Tensor: name, Details: info.DType}
		}
		infos[name] = info
		metas = append(metas, TensorMeta{
			Name:   name,
			Offset: info.DataOffsets[0],
			Size:   info.DataOffsets[1] - info.DataOffsets[0],
		})
	}
	if err := ValidateTensorOffsets(metas, int64(len(data))); err != nil {
		return nil, err
	}

	if want, ok := file.Metadata[checksumKey]; ok {
		sum := sha256.Sum256(data)
		if hex.EncodeToString(sum[:]) != want {
			return nil, ErrChecksumMismatch
		}
	}

	for name, info := range infos {
		t, err := decodeTensor(name, info, data)
		if err != nil {
			return nil, err
		}
		file.Tensors[name] = t
	}
	return file, nil
}

// ReadSafeTensorsFile reads a SafeTensors file from path.
func ReadSafeTensorsFile(path string) (*File, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	return ReadSafeTensors(bufio.NewReader(f))
}

func decodeTensor(name string, info SafeTensorHeader, data []byte) (*tensor.Tensor, error) {
	shape := make(tensor.Shape, len(info.Shape))
	for i, dim := range info.Shape {
		if dim < 0 {
			return nil, &ValidationError{Kind: ErrOutOfBounds, Tensor: name, Details: fmt.Sprintf("negative dimension %d", dim)}
		}
		shape[i] = int(dim)
	}

	n := shape.NumElements()
	size := info.DataOffsets[1] - info.DataOffsets[0]
	if size != int64(n*f64Size) {
		return nil, &ValidationError{
			Kind:    ErrOutOfBounds,
			Tensor:  name,
			Details: fmt.Sprintf("shape %v needs %d bytes, offsets span %d", shape, n*f64Size, size),
		}
	}

	values := make([]float64, n)
	raw := data[info.DataOffsets[0]:info.DataOffsets[1]]
	for i := range values {
		values[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*f64Size:]))
	}
	return tensor.New(values, shape), nil
}
