package filesystem

import (
	"io/fs"
	"os"

	"github.com/spf13/afero"
)

// FS is an afero filesystem that can also create and inspect links.
type FS interface {
	afero.Fs

	// Lstat describes name without following a final symbolic link.
	Lstat(name string) (fs.FileInfo, error)
	Symlink(oldname, newname string) error
	// Link creates newname as a hard link to oldname.
	Link(oldname, newname string) error
	Readlink(name string) (string, error)
}

// osFS implements FS on top of the operating system.
type osFS struct {
	*afero.OsFs
}

// NewOS returns the operating system filesystem.
func NewOS() FS {
	return &osFS{OsFs: &afero.OsFs{}}
}

func (o *osFS) Lstat(name string) (fs.FileInfo, error) {
	return os.Lstat(name)
}

func (o *osFS) Symlink(oldname, newname string) error {
	return os.Symlink(oldname, newname)
}

func (o *osFS) Link(oldname, newname string) error {
	return os.Link(oldname, newname)
}

func (o *osFS) Readlink(name string) (string, error) {
	return os.Readlink(name)
}
