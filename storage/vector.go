package storage

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Embedding vectors are persisted as packed little-endian IEEE 754 float32
// values, 4 bytes per component. The byte form carries no length header of
// its own; the corpus dimension fixes the expected size, and DecodeVector
// rejects anything that disagrees.

// EncodeVector packs a vector into its persisted byte form.
func EncodeVector(vector []float32) []byte {
	buf := make([]byte, len(vector)*4)
	for i, val := range vector {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(val))
	}
	return buf
}

// DecodeVector unpacks a persisted embedding into a fresh vector of length
// dim. Returns ErrMalformedRecord if the byte length does not equal 4*dim.
func DecodeVector(data []byte, dim int) ([]float32, error) {
	if len(data) != dim*4 {
		return nil, fmt.Errorf("%w: embedding is %d bytes, want %d for dimension %d",
			ErrMalformedRecord, len(data), dim*4, dim)
	}
	vector := make([]float32, dim)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vector, nil
}
