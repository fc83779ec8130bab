package cpu

import (
	"encoding/binary"
)

const (
	MEMORY_SIZE_DEFAULT = 64 * 1024 // Default memory size, in bytes.
	MEMORY_SIZE_MAX     = 1 << 32   // Largest memory addressable by a 32-bit register.
	WORD_BYTES          = 4         // Bytes in a word.
)

// Memory is a fixed size, byte addressable, little-endian memory.
// Every access is bounds checked; no alignment is enforced.
type Memory struct {
	data []byte
}

// NewMemory allocates a zero filled memory of size bytes.
func NewMemory(size uint) (mem *Memory, err error) {
	if size == 0 || uint64(size) > MEMORY_SIZE_MAX {
		err = ErrAllocation(size)
		return
	}

	mem = &Memory{
		data: make([]byte, size),
	}

	return
}

// Size of the memory in bytes.
func (mem *Memory) Size() int {
	return len(mem.data)
}

// Reset zero fills the memory.
func (mem *Memory) Reset() {
	clear(mem.data)
}

// release drops the backing store. All further accesses are out of bounds.
func (mem *Memory) release() {
	mem.data = nil
}

// CheckBounds verifies that width bytes at addr are inside the memory.
func (mem *Memory) CheckBounds(addr uint64, width int) (err error) {
	if addr+uint64(width) > uint64(len(mem.data)) {
		err = ErrOutOfBounds{Addr: addr, Width: width, Size: len(mem.data)}
	}
	return
}

// ReadWord reads the little-endian signed word at addr.
func (mem *Memory) ReadWord(addr uint32) (value int32, err error) {
	return mem.readWord(uint64(addr))
}

// WriteWord writes value as a little-endian signed word at addr.
func (mem *Memory) WriteWord(addr uint32, value int32) (err error) {
	return mem.writeWord(uint64(addr), value)
}

func (mem *Memory) readWord(addr uint64) (value int32, err error) {
	err = mem.CheckBounds(addr, WORD_BYTES)
	if err != nil {
		return
	}

	value = int32(binary.LittleEndian.Uint32(mem.data[addr:]))
	return
}

func (mem *Memory) writeWord(addr uint64, value int32) (err error) {
	err = mem.CheckBounds(addr, WORD_BYTES)
	if err != nil {
		return
	}

	binary.LittleEndian.PutUint32(mem.data[addr:], uint32(value))
	return
}

// Read copies len(data) bytes starting at addr into data.
func (mem *Memory) Read(addr uint32, data []byte) (err error) {
	err = mem.CheckBounds(uint64(addr), len(data))
	if err != nil {
		return
	}

	copy(data, mem.data[addr:])
	return
}

// Write copies data into the memory starting at addr.
func (mem *Memory) Write(addr uint32, data []byte) (err error) {
	err = mem.CheckBounds(uint64(addr), len(data))
	if err != nil {
		return
	}

	copy(mem.data[addr:], data)
	return
}
