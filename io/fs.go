package io

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// CreateFS defines a file system interface that supports creating files.
// It extends basic file system operations with write capabilities for
// marshaling memory images.
type CreateFS interface {
	// Create creates a new file for writing.
	Create(name string) (file io.WriteCloser, err error)
}

// DirFS is a directory of the host file system.
// It is readable as an fs.FS, and writable as a CreateFS.
type DirFS string

var _ fs.FS = DirFS("")
var _ CreateFS = DirFS("")

// Open opens the named file for reading.
func (dir DirFS) Open(name string) (fs.File, error) {
	return os.DirFS(string(dir)).Open(name)
}

// Create creates the named file, and any missing parent directory.
func (dir DirFS) Create(name string) (file io.WriteCloser, err error) {
	if !fs.ValidPath(name) {
		err = &fs.PathError{Op: "create", Path: name, Err: fs.ErrInvalid}
		return
	}

	err = os.MkdirAll(string(dir), 0755)
	if err != nil {
		return
	}

	file, err = os.Create(filepath.Join(string(dir), filepath.FromSlash(name)))
	return
}
