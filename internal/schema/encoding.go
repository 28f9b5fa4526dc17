package schema

import (
	"encoding/binary"
	"math"
)

// The spec calls for "native-endian" encoding (the Rust source uses
// to_ne_bytes). This module fixes little-endian as its concrete
// native-endian choice so table files are portable across the
// little-endian hosts this engine targets; see DESIGN.md.

func nativeUint64(b []byte) uint64 { return binary.LittleEndian.Uint64(b) }

func putNativeUint64(b []byte, v uint64) { binary.LittleEndian.PutUint64(b, v) }

func nativeFloat64(b []byte) float64 { return math.Float64frombits(binary.LittleEndian.Uint64(b)) }

func putNativeFloat64(b []byte, v float64) {
	binary.LittleEndian.PutUint64(b, math.Float64bits(v))
}
