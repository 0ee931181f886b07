package fs

import (
	"fmt"
	"path"

	"github.com/spf13/afero"
)

// Stats tracks read/write activity against a file system.
type Stats struct {
	ReadOps    int
	ReadBytes  int
	WriteOps   int
	WriteBytes int
}

func (s *Stats) readOp(bytes int) {
	s.ReadOps++
	s.ReadBytes += bytes
}

func (s *Stats) writeOp(bytes int) {
	s.WriteOps++
	s.WriteBytes += bytes
}

type aferoFs struct {
	fs afero.Afero
	*Stats
}

type readFile struct {
	afero.File
	*Stats
}

func (f readFile) Size() int {
	st, err := f.Stat()
	if err != nil {
		panic(err)
	}
	return int(st.Size())
}

func (f readFile) Read(buf []byte) (int, error) {
	defer f.readOp(len(buf))
	return f.File.Read(buf)
}

func abs(fname string) string {
	return fmt.Sprintf("/%s", fname)
}

func (fs aferoFs) Open(fname string) ReadFile {
	f, err := fs.fs.Open(abs(fname))
	if err != nil {
		panic(err)
	}
	return readFile{f, fs.Stats}
}

func (fs aferoFs) List() []string {
	paths, err := afero.Glob(fs.fs, abs("*"))
	if err != nil {
		panic(err)
	}
	var names []string
	for _, p := range paths {
		names = append(names, path.Base(p))
	}
	return names
}

func (fs aferoFs) Delete(fname string) {
	err := fs.fs.Remove(abs(fname))
	if err != nil {
		panic(err)
	}
}

func (fs aferoFs) AtomicCreateWith(fname string, data []byte) {
	tmpFile := abs(fmt.Sprintf("%s.tmp", fname))
	err := fs.fs.WriteFile(tmpFile, data, 0644)
	if err != nil {
		panic(err)
	}
	f, _ := fs.fs.Open(tmpFile)
	f.Sync()
	f.Close()
	err = fs.fs.Rename(tmpFile, abs(fname))
	if err != nil {
		panic(err)
	}
	fs.writeOp(len(data))
}

// GetStats returns a copy of the accumulated file-system statistics.
func (fs aferoFs) GetStats() Stats {
	return *fs.Stats
}

func deleteTmpFiles(fs afero.Fs) {
	tmpFiles, err := afero.Glob(fs, abs("*.tmp"))
	if err != nil {
		panic(err)
	}
	for _, n := range tmpFiles {
		err = fs.Remove(n)
		if err != nil {
			panic(err)
		}
	}
}

// FromAfero creates an fs.Filesys from any Afero file system.
//
// This implementation will use absolute filenames for the stored files; use
// an afero.BasePathFs to make sure all files are created within a particular
// directory.
//
// Deletes all files named *.tmp, as a file-system recovery for
// AtomicCreateWith.
func FromAfero(fs afero.Fs) Filesys {
	deleteTmpFiles(fs)
	return aferoFs{fs: afero.Afero{Fs: fs}, Stats: new(Stats)}
}

// MemFs creates an in-memory Filesys.
func MemFs() Filesys {
	fs := afero.NewMemMapFs()
	return FromAfero(fs)
}

// DirFs creates a Filesys backed by the OS, using basedir.
//
// Creates basedir if it does not exist.
func DirFs(basedir string) Filesys {
	fs := afero.NewOsFs()
	ok, err := afero.Exists(fs, basedir)
	if err != nil {
		panic(err)
	}
	if !ok {
		err = fs.Mkdir(basedir, 0755)
		if err != nil {
			panic(err)
		}
	}
	baseFs := afero.NewBasePathFs(fs, basedir)
	return FromAfero(baseFs)
}
