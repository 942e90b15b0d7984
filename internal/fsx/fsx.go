package fsx

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// FileSystem is the narrow surface the engines depend on. Implementations
// other than the OS one can be substituted in tests.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
	Rename(oldpath, newpath string) error
	Remove(path string) error
	RemoveAll(path string) error
	MkdirAll(path string, perm os.FileMode) error
	Symlink(target, link string) error
	Readlink(link string) (string, error)
	Stat(path string) (os.FileInfo, error)
	Lstat(path string) (os.FileInfo, error)
	Chmod(path string, mode os.FileMode) error
	Chtimes(path string, atime, mtime time.Time) error
	ReadDir(path string) ([]os.DirEntry, error)
	WalkDir(root string, fn fs.WalkDirFunc) error

	// Canonicalize resolves symlinks and returns a clean absolute path.
	Canonicalize(path string) (string, error)
}

// OS is the production FileSystem backed by the host filesystem.
type OS struct{}

func (OS) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

func (OS) WriteFile(path string, data []byte, perm os.FileMode) error {
	return os.WriteFile(path, data, perm)
}

func (OS) Rename(oldpath, newpath string) error { return os.Rename(oldpath, newpath) }

func (OS) Remove(path string) error { return os.Remove(path) }

func (OS) RemoveAll(path string) error { return os.RemoveAll(path) }

func (OS) MkdirAll(path string, perm os.FileMode) error { return os.MkdirAll(path, perm) }

func (OS) Symlink(target, link string) error { return os.Symlink(target, link) }

func (OS) Readlink(link string) (string, error) { return os.Readlink(link) }

func (OS) Stat(path string) (os.FileInfo, error) { return os.Stat(path) }

func (OS) Lstat(path string) (os.FileInfo, error) { return os.Lstat(path) }

func (OS) Chmod(path string, mode os.FileMode) error { return os.Chmod(path, mode) }

func (OS) Chtimes(path string, atime, mtime time.Time) error {
	return os.Chtimes(path, atime, mtime)
}

func (OS) ReadDir(path string) ([]os.DirEntry, error) { return os.ReadDir(path) }

func (OS) WalkDir(root string, fn fs.WalkDirFunc) error { return filepath.WalkDir(root, fn) }

func (OS) Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
