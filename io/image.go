// Package io provides memory images for the matrix core.
//
// An image is a set of segments, each a run of raw bytes at a base address.
// On disk every segment is one file named XXXXXXXX.bin after its 8 hex digit
// base address, holding the raw little-endian memory bytes. A 2x2 matrix
// segment is therefore a 16 byte file of four row-major words.
package io

import (
	"fmt"
	"io/fs"
	"iter"
	"maps"
	"path"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// SEGMENT_EXT is the file extension of a segment file.
const SEGMENT_EXT = ".bin"

var segmentName = regexp.MustCompile(`(?i)^[0-9a-f]{8}\.bin$`)

// Memory is the byte access an image needs to load and capture segments.
type Memory interface {
	Read(addr uint32, data []byte) error
	Write(addr uint32, data []byte) error
}

// Image is a sparse memory image.
type Image struct {
	Segments map[uint32][]byte
}

// Set replaces the segment at addr.
func (img *Image) Set(addr uint32, data []byte) {
	if img.Segments == nil {
		img.Segments = make(map[uint32][]byte)
	}
	img.Segments[addr] = data
}

// Get returns the segment at addr.
func (img *Image) Get(addr uint32) (data []byte, ok bool) {
	data, ok = img.Segments[addr]
	return
}

// All returns an iterator over the segments in address order.
func (img *Image) All() iter.Seq2[uint32, []byte] {
	return func(yield func(addr uint32, data []byte) bool) {
		for _, addr := range slices.Sorted(maps.Keys(img.Segments)) {
			if !yield(addr, img.Segments[addr]) {
				return
			}
		}
	}
}

// Unmarshal loads every XXXXXXXX.bin file in the root of filesys.
// Other files and directories are ignored.
func (img *Image) Unmarshal(filesys fs.FS) (err error) {
	return fs.WalkDir(filesys, ".", func(name string, d fs.DirEntry, err_in error) (err error) {
		if err_in != nil {
			return err_in
		}
		if d.IsDir() {
			if name != "." {
				err = fs.SkipDir
			}
			return
		}
		base := path.Base(name)
		if !segmentName.MatchString(base) {
			return
		}
		addr, err := strconv.ParseUint(strings.TrimSuffix(base, path.Ext(base)), 16, 32)
		if err != nil {
			return
		}
		data, err := fs.ReadFile(filesys, name)
		if err != nil {
			return
		}
		if len(data) == 0 {
			err = &ErrSegment{Addr: uint32(addr), Err: ErrSegmentEmpty}
			return
		}

		img.Set(uint32(addr), data)

		return
	})
}

// Marshal writes every segment to filesys as XXXXXXXX.bin.
func (img *Image) Marshal(filesys CreateFS) (err error) {
	for addr, data := range img.All() {
		name := fmt.Sprintf("%08x%v", addr, SEGMENT_EXT)
		file, err := filesys.Create(name)
		if err != nil {
			return err
		}
		_, err = file.Write(data)
		if err != nil {
			file.Close()
			return &ErrSegment{Addr: addr, Err: err}
		}
		err = file.Close()
		if err != nil {
			return err
		}
	}

	return
}

// Load writes every segment into mem, in address order.
func (img *Image) Load(mem Memory) (err error) {
	for addr, data := range img.All() {
		err = mem.Write(addr, data)
		if err != nil {
			err = &ErrSegment{Addr: addr, Err: err}
			return
		}
	}

	return
}

// Capture reads size bytes at addr from mem into a new segment.
func (img *Image) Capture(mem Memory, addr uint32, size int) (err error) {
	if size <= 0 {
		err = &ErrSegment{Addr: addr, Err: ErrSegmentEmpty}
		return
	}

	data := make([]byte, size)
	err = mem.Read(addr, data)
	if err != nil {
		err = &ErrSegment{Addr: addr, Err: err}
		return
	}

	img.Set(addr, data)

	return
}
