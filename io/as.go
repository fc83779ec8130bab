package io

import (
	"encoding/binary"
	"iter"
)

// WORD_BYTES is the size of a memory word.
const WORD_BYTES = 4

// AppendWord appends value to data as a little-endian 32-bit word.
func AppendWord(data []byte, value int32) []byte {
	return binary.LittleEndian.AppendUint32(data, uint32(value))
}

// Words returns an iterator that yields the little-endian 32-bit words of
// data. A trailing partial word is zero extended.
func Words(data []byte) iter.Seq[int32] {
	return func(yield func(value int32) bool) {
		for len(data) >= WORD_BYTES {
			if !yield(int32(binary.LittleEndian.Uint32(data))) {
				return
			}
			data = data[WORD_BYTES:]
		}
		if len(data) != 0 {
			var tail [WORD_BYTES]byte
			copy(tail[:], data)
			yield(int32(binary.LittleEndian.Uint32(tail[:])))
		}
	}
}
