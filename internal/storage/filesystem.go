package storage

import (
	"os"

	"github.com/spf13/afero"
)

// FileSystem is the subset of filesystem operations the store needs
type FileSystem interface {
	MkdirAll(path string, perm os.FileMode) error
	Stat(name string) (os.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
	ReadDir(name string) ([]os.DirEntry, error)
	Rename(oldname, newname string) error
	Remove(name string) error
	RemoveAll(path string) error
}

// aferoFileSystem adapts an afero.Fs to FileSystem
type aferoFileSystem struct {
	fs afero.Fs
}

func (a *aferoFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return a.fs.MkdirAll(path, perm)
}

func (a *aferoFileSystem) Stat(name string) (os.FileInfo, error) {
	return a.fs.Stat(name)
}

func (a *aferoFileSystem) ReadFile(name string) ([]byte, error) {
	return afero.ReadFile(a.fs, name)
}

func (a *aferoFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return afero.WriteFile(a.fs, name, data, perm)
}

func (a *aferoFileSystem) ReadDir(name string) ([]os.DirEntry, error) {
	infos, err := afero.ReadDir(a.fs, name)
	if err != nil {
		return nil, err
	}
	entries := make([]os.DirEntry, len(infos))
	for i, info := range infos {
		entries[i] = dirEntry{info: info}
	}
	return entries, nil
}

func (a *aferoFileSystem) Rename(oldname, newname string) error {
	return a.fs.Rename(oldname, newname)
}

func (a *aferoFileSystem) Remove(name string) error {
	return a.fs.Remove(name)
}

func (a *aferoFileSystem) RemoveAll(path string) error {
	return a.fs.RemoveAll(path)
}

type dirEntry struct {
	info os.FileInfo
}

func (e dirEntry) Name() string               { return e.info.Name() }
func (e dirEntry) IsDir() bool                { return e.info.IsDir() }
func (e dirEntry) Type() os.FileMode          { return e.info.Mode().Type() }
func (e dirEntry) Info() (os.FileInfo, error) { return e.info, nil }

// NewOSFileSystem returns a FileSystem on the real disk
func NewOSFileSystem() FileSystem {
	return &aferoFileSystem{fs: afero.NewOsFs()}
}

// NewMemMapFileSystem returns an in-memory FileSystem
func NewMemMapFileSystem() FileSystem {
	return &aferoFileSystem{fs: afero.NewMemMapFs()}
}

// NewAferoFileSystem wraps any afero.Fs
func NewAferoFileSystem(fs afero.Fs) FileSystem {
	return &aferoFileSystem{fs: fs}
}
