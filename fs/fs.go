package fs

import (
	"io"
)

// ReadFile is a handle to a file opened for reading.
type ReadFile interface {
	Size() int
	io.ReadCloser
}

// Filesys is a storage-specific API for accessing the file system.
//
// Note that an instance of this interface only exposes a single directory
// (there are no directory names in these methods).
//
// Callers are expected to follow some rules when calling this API:
//   - Open: fname should exist
//   - Delete: fname should exist
//
// AtomicCreateWith writes a temporary file and renames it into place, so a
// crash leaves either the old contents or the new contents, never a mix.
type Filesys interface {
	Open(fname string) ReadFile
	List() []string
	Delete(fname string)
	AtomicCreateWith(fname string, data []byte)
}

// ReadAll reads the entire contents of fname.
func ReadAll(fs Filesys, fname string) []byte {
	f := fs.Open(fname)
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		panic(err)
	}
	return data
}

// DeleteAll removes every file in the file system.
func DeleteAll(fs Filesys) {
	for _, fname := range fs.List() {
		fs.Delete(fname)
	}
}
