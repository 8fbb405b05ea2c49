package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// memFS implements FS on an afero.MemMapFs. MemMapFs has no links, so a
// symlink is stored as a file whose content is the target and is remembered
// in links; Lstat reports it with os.ModeSymlink. Stat does not follow it.
// A hard link is stored as a copy.
type memFS struct {
	afero.Fs
	links map[string]string
}

// NewMem returns an empty in-memory filesystem.
func NewMem() FS {
	return NewAfero(afero.NewMemMapFs())
}

// NewAfero wraps an existing afero filesystem with simulated links.
func NewAfero(base afero.Fs) FS {
	return &memFS{Fs: base, links: make(map[string]string)}
}

type linkInfo struct {
	fs.FileInfo
}

func (l linkInfo) Mode() fs.FileMode { return l.FileInfo.Mode().Perm() | fs.ModeSymlink }

func (l linkInfo) IsDir() bool { return false }

func (m *memFS) Lstat(name string) (fs.FileInfo, error) {
	info, err := m.Fs.Stat(name)
	if err != nil {
		return nil, err
	}
	if _, ok := m.links[filepath.Clean(name)]; ok {
		return linkInfo{FileInfo: info}, nil
	}
	return info, nil
}

func (m *memFS) Symlink(oldname, newname string) error {
	if _, err := m.Fs.Stat(newname); err == nil {
		return &os.LinkError{Op: "symlink", Old: oldname, New: newname, Err: fs.ErrExist}
	}
	if err := afero.WriteFile(m.Fs, newname, []byte(oldname), 0777); err != nil {
		return err
	}
	m.links[filepath.Clean(newname)] = oldname
	return nil
}

func (m *memFS) Link(oldname, newname string) error {
	if _, err := m.Fs.Stat(newname); err == nil {
		return &os.LinkError{Op: "link", Old: oldname, New: newname, Err: fs.ErrExist}
	}
	info, err := m.Fs.Stat(oldname)
	if err != nil {
		return &os.LinkError{Op: "link", Old: oldname, New: newname, Err: err}
	}
	data, err := afero.ReadFile(m.Fs, oldname)
	if err != nil {
		return &os.LinkError{Op: "link", Old: oldname, New: newname, Err: err}
	}
	return afero.WriteFile(m.Fs, newname, data, info.Mode().Perm())
}

func (m *memFS) Readlink(name string) (string, error) {
	target, ok := m.links[filepath.Clean(name)]
	if !ok {
		return "", &fs.PathError{Op: "readlink", Path: name, Err: fs.ErrInvalid}
	}
	return target, nil
}

func (m *memFS) Remove(name string) error {
	if err := m.Fs.Remove(name); err != nil {
		return err
	}
	delete(m.links, filepath.Clean(name))
	return nil
}

func (m *memFS) RemoveAll(path string) error {
	if err := m.Fs.RemoveAll(path); err != nil {
		return err
	}
	clean := filepath.Clean(path)
	for name := range m.links {
		if name == clean || strings.HasPrefix(name, clean+string(filepath.Separator)) {
			delete(m.links, name)
		}
	}
	return nil
}
