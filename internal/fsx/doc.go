// Package fsx abstracts the filesystem operations the rsenv engines
// perform: read, write, rename, symlink, readlink, stat, walk. The
// engines depend only on the FileSystem interface, so tests can
// substitute another implementation without touching business logic.
package fsx
