package guard

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	rserrors "github.com/sysid/rsenv/internal/errors"
	"github.com/sysid/rsenv/internal/fsx"
	logger "github.com/sysid/rsenv/internal/logging"
	"github.com/sysid/rsenv/internal/vault"
)

// Record describes one guarded file: a project symlink resolving to a
// relocated file under the vault's guarded tree.
type Record struct {
	// Rel is the project-relative path of the symlink.
	Rel string
	// ProjectPath is the absolute symlink location.
	ProjectPath string
	// VaultPath is the absolute relocated file, dotfile-neutralised.
	VaultPath string
}

// Engine relocates files between project and vault.
type Engine struct {
	FS  fsx.FileSystem
	Log logger.Logger
}

func NewEngine(fs fsx.FileSystem, log logger.Logger) *Engine {
	return &Engine{FS: fs, Log: log}
}

// Rel normalises a user-supplied path (absolute or project-relative)
// into a clean project-relative path, refusing escapes.
func (e *Engine) Rel(binding *vault.Binding, path string) (string, error) {
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(binding.ProjectDir, path)
	}
	abs = filepath.Clean(abs)
	rel, err := filepath.Rel(binding.ProjectDir, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: %w", path, rserrors.ErrOutsideProject)
	}
	return rel, nil
}

// Add relocates <project>/rel into the vault's guarded tree and leaves a
// symlink behind. Any partial failure is rolled back.
func (e *Engine) Add(binding *vault.Binding, rel string, style vault.LinkStyle) (*Record, error) {
	projectPath := filepath.Join(binding.ProjectDir, rel)

	if fsx.IsSymlink(e.FS, projectPath) {
		return nil, fmt.Errorf("%s: %w", rel, rserrors.ErrAlreadyGuarded)
	}
	if !fsx.IsRegular(e.FS, projectPath) {
		return nil, fmt.Errorf("%s: not a regular file", projectPath)
	}

	// A file physically inside the vault must never be guarded; the move
	// would fold the vault into itself.
	canonical, err := e.FS.Canonicalize(projectPath)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", projectPath, err)
	}
	if strings.HasPrefix(canonical, binding.Vault.Path+string(filepath.Separator)) {
		return nil, fmt.Errorf("%s resolves into the vault: %w", rel, rserrors.ErrOutsideProject)
	}

	vaultPath := filepath.Join(binding.Vault.GuardedDir(), vault.NeutralizePath(rel))
	if fsx.LExists(e.FS, vaultPath) {
		return nil, fmt.Errorf("%s: vault already holds %s", rel, vaultPath)
	}

	if err := fsx.EnsureParent(e.FS, vaultPath); err != nil {
		return nil, fmt.Errorf("create guarded directory for %s: %w", rel, err)
	}

	e.Log.Debugf("guard: moving %s to %s", projectPath, vaultPath)
	if err := fsx.Move(e.FS, projectPath, vaultPath); err != nil {
		return nil, fmt.Errorf("move %s into vault: %w", rel, err)
	}

	if err := e.symlink(vaultPath, projectPath, style); err != nil {
		// Roll back the move so the project is untouched.
		if rbErr := fsx.Move(e.FS, vaultPath, projectPath); rbErr != nil {
			e.Log.WarnfAlways("rollback failed, file left at %s: %v", vaultPath, rbErr)
		}
		return nil, fmt.Errorf("create guard symlink for %s: %w", rel, err)
	}

	return &Record{Rel: rel, ProjectPath: projectPath, VaultPath: vaultPath}, nil
}

// Restore moves the vault file back to the project, replacing the
// symlink, and undoes the dotfile rename.
func (e *Engine) Restore(binding *vault.Binding, rel string) error {
	projectPath := filepath.Join(binding.ProjectDir, rel)
	vaultPath := filepath.Join(binding.Vault.GuardedDir(), vault.NeutralizePath(rel))

	if !fsx.IsSymlink(e.FS, projectPath) {
		return fmt.Errorf("%s: %w", rel, rserrors.ErrNotGuarded)
	}
	resolved, err := fsx.ResolveLink(e.FS, projectPath)
	if err != nil {
		return fmt.Errorf("%s: dangling guard symlink: %w", rel, err)
	}
	expected, err := e.FS.Canonicalize(vaultPath)
	if err != nil {
		return fmt.Errorf("%s: vault file missing: %w", rel, err)
	}
	if resolved != expected {
		return fmt.Errorf("%s: symlink resolves to %s, expected %s: %w",
			rel, resolved, expected, rserrors.ErrNotGuarded)
	}

	if err := e.FS.Remove(projectPath); err != nil {
		return fmt.Errorf("remove guard symlink %s: %w", rel, err)
	}
	if err := fsx.Move(e.FS, vaultPath, projectPath); err != nil {
		// Re-create the symlink so the record stays intact.
		if rbErr := fsx.SymlinkRelative(e.FS, vaultPath, projectPath); rbErr != nil {
			e.Log.WarnfAlways("rollback failed, symlink lost at %s: %v", projectPath, rbErr)
		}
		return fmt.Errorf("restore %s from vault: %w", rel, err)
	}
	return nil
}

// List walks the project tree and reports every symlink that resolves
// into the vault's guarded tree.
func (e *Engine) List(binding *vault.Binding) ([]Record, error) {
	guardedPrefix := binding.Vault.GuardedDir() + string(filepath.Separator)
	var records []Record

	err := e.FS.WalkDir(binding.ProjectDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Type()&fs.ModeSymlink == 0 {
			return nil
		}
		target, err := fsx.ResolveLink(e.FS, path)
		if err != nil || !strings.HasPrefix(target, guardedPrefix) {
			return nil
		}
		rel, err := filepath.Rel(binding.ProjectDir, path)
		if err != nil {
			return nil
		}
		records = append(records, Record{Rel: rel, ProjectPath: path, VaultPath: target})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// RestoreAll restores every guard record, reporting per-file failures
// without stopping. Returns the number restored.
func (e *Engine) RestoreAll(binding *vault.Binding) (int, []error) {
	records, err := e.List(binding)
	if err != nil {
		return 0, []error{err}
	}

	restored := 0
	var failures []error
	for _, rec := range records {
		if err := e.Restore(binding, rec.Rel); err != nil {
			failures = append(failures, err)
			continue
		}
		restored++
	}
	return restored, failures
}

func (e *Engine) symlink(target, link string, style vault.LinkStyle) error {
	if style == vault.LinkRelative {
		return fsx.SymlinkRelative(e.FS, target, link)
	}
	return e.FS.Symlink(target, link)
}
