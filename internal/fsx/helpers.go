package fsx

import (
	"fmt"
	"os"
	"path/filepath"
)

// Exists reports whether path exists (following symlinks).
func Exists(fs FileSystem, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}

// LExists reports whether path exists without following a final symlink,
// so a dangling symlink still counts as present.
func LExists(fs FileSystem, path string) bool {
	_, err := fs.Lstat(path)
	return err == nil
}

// IsSymlink reports whether path is a symbolic link.
func IsSymlink(fs FileSystem, path string) bool {
	info, err := fs.Lstat(path)
	return err == nil && info.Mode()&os.ModeSymlink != 0
}

// IsDir reports whether path is a directory (following symlinks).
func IsDir(fs FileSystem, path string) bool {
	info, err := fs.Stat(path)
	return err == nil && info.IsDir()
}

// IsRegular reports whether path is a regular file and not a symlink.
func IsRegular(fs FileSystem, path string) bool {
	info, err := fs.Lstat(path)
	return err == nil && info.Mode().IsRegular()
}

// EnsureParent creates the parent directory of path if it does not exist.
func EnsureParent(fs FileSystem, path string) error {
	return fs.MkdirAll(filepath.Dir(path), 0o755)
}

// CopyFile copies src to dst, preserving mode bits and mtime.
func CopyFile(fs FileSystem, src, dst string) error {
	info, err := fs.Stat(src)
	if err != nil {
		return err
	}
	data, err := fs.ReadFile(src)
	if err != nil {
		return err
	}
	if err := fs.WriteFile(dst, data, info.Mode().Perm()); err != nil {
		return err
	}
	if err := fs.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}
	return fs.Chtimes(dst, info.ModTime(), info.ModTime())
}

// Move relocates a file. It prefers a same-filesystem rename and falls
// back to copy-then-delete (preserving mode bits and mtime) when the
// rename fails, e.g. across devices.
func Move(fs FileSystem, src, dst string) error {
	if err := fs.Rename(src, dst); err == nil {
		return nil
	}
	if err := CopyFile(fs, src, dst); err != nil {
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	return fs.Remove(src)
}

// SymlinkRelative creates link pointing at target via a path relative to
// the link's directory.
func SymlinkRelative(fs FileSystem, target, link string) error {
	rel, err := filepath.Rel(filepath.Dir(link), target)
	if err != nil {
		return err
	}
	return fs.Symlink(rel, link)
}

// ResolveLink resolves the target of the symlink at link to an absolute
// path, interpreting a relative target against the link's directory.
func ResolveLink(fs FileSystem, link string) (string, error) {
	target, err := fs.Readlink(link)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(link), target)
	}
	return fs.Canonicalize(target)
}
