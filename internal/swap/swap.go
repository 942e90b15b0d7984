package swap

import (
	"fmt"
	"path/filepath"
	"strings"

	rserrors "github.com/sysid/rsenv/internal/errors"
	"github.com/sysid/rsenv/internal/fsx"
	logger "github.com/sysid/rsenv/internal/logging"
	"github.com/sysid/rsenv/internal/utils"
	"github.com/sysid/rsenv/internal/vault"
)

// State of one swap-managed file.
type State int

const (
	// StateOut: the project holds its own file, the vault holds the
	// alternate version.
	StateOut State = iota
	// StateIn: the alternate version overlays the project file; a
	// sentinel names the host that swapped it in.
	StateIn
)

// Status reports the state of one swap record.
type Status struct {
	Rel   string
	State State
	// Host holding the swap-in; empty when OUT.
	Host string
}

// Engine drives the per-file, per-host swap state machine.
type Engine struct {
	FS  fsx.FileSystem
	Log logger.Logger
	// Host is the short hostname used in sentinels.
	Host string
}

func NewEngine(fs fsx.FileSystem, log logger.Logger) *Engine {
	return &Engine{FS: fs, Log: log, Host: utils.Hostname()}
}

// rel normalises a user-supplied path into a project-relative path.
func (e *Engine) rel(binding *vault.Binding, path string) (string, error) {
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

func backupPath(swapDir, rel string) string {
	return filepath.Join(swapDir, rel) + backupSuffix
}

// swapSource returns the vault file holding the alternate version of
// rel, accounting for the neutralized form of .gitignore files.
func (e *Engine) swapSource(swapDir, rel string) (string, bool) {
	vaultFile := filepath.Join(swapDir, rel)
	if fsx.LExists(e.FS, vaultFile) {
		return vaultFile, true
	}
	if filepath.Base(rel) == ".gitignore" {
		disabled := vaultFile + disabledSuffix
		if fsx.LExists(e.FS, disabled) {
			return disabled, true
		}
	}
	return vaultFile, false
}

// Init seeds swap management for a file: the current project content (if
// any) moves into the vault as the alternate version to edit. Refuses if
// the vault already holds a swap version.
func (e *Engine) Init(binding *vault.Binding, path string) error {
	rel, err := e.rel(binding, path)
	if err != nil {
		return err
	}
	swapDir := binding.Vault.SwapDir()

	if _, ok := e.swapSource(swapDir, rel); ok {
		return fmt.Errorf("%s: %w", rel, rserrors.ErrSwapExists)
	}

	vaultFile := filepath.Join(swapDir, rel)
	if err := fsx.EnsureParent(e.FS, vaultFile); err != nil {
		return fmt.Errorf("create swap directory for %s: %w", rel, err)
	}

	projectFile := filepath.Join(binding.ProjectDir, rel)
	if fsx.LExists(e.FS, projectFile) {
		e.Log.Debugf("swap init: moving %s to %s", projectFile, vaultFile)
		if err := fsx.Move(e.FS, projectFile, vaultFile); err != nil {
			return fmt.Errorf("move %s into vault: %w", rel, err)
		}
		// A bare .gitignore must not take effect on the vault tree.
		if filepath.Base(rel) == ".gitignore" {
			if err := e.FS.Rename(vaultFile, vaultFile+disabledSuffix); err != nil {
				return fmt.Errorf("neutralize %s: %w", rel, err)
			}
		}
	}
	return nil
}

// In overlays the vault's alternate version onto the project file.
// Ordered for crash-safety; partial failures roll back. A sentinel from
// another host blocks the swap unless force is set.
func (e *Engine) In(binding *vault.Binding, path string, force bool) error {
	rel, err := e.rel(binding, path)
	if err != nil {
		return err
	}
	swapDir := binding.Vault.SwapDir()
	if err := e.upgradeSentinel(swapDir, rel); err != nil {
		return fmt.Errorf("upgrade sentinel for %s: %w", rel, err)
	}

	if sentinelPath, host, ok := e.findSentinel(swapDir, rel); ok {
		if host == e.Host {
			e.Log.Infof("%s already swapped in on this host", rel)
			return nil
		}
		if !force {
			return fmt.Errorf("%s is swapped in by host %q: %w", rel, host, rserrors.ErrSwapConflict)
		}
		e.Log.WarnfAlways("forcing swap in of %s, overriding host %q", rel, host)
		if err := e.FS.Remove(sentinelPath); err != nil {
			return fmt.Errorf("remove sentinel of host %q: %w", host, err)
		}
	}

	source, ok := e.swapSource(swapDir, rel)
	if !ok {
		return fmt.Errorf("%s: %w", rel, rserrors.ErrSwapMissing)
	}

	projectFile := filepath.Join(binding.ProjectDir, rel)
	backup := backupPath(swapDir, rel)
	gitignore := filepath.Base(rel) == ".gitignore"
	bare := filepath.Join(swapDir, rel)

	// A bare .gitignore in the vault swap directory is neutralized for
	// the duration of the copy, then restored by the inverse rename.
	neutralized := false
	if gitignore && fsx.LExists(e.FS, bare) {
		if err := e.FS.Rename(bare, bare+disabledSuffix); err != nil {
			return fmt.Errorf("neutralize %s: %w", rel, err)
		}
		source = bare + disabledSuffix
		neutralized = true
	}
	restoreGitignore := func() {
		if neutralized && fsx.LExists(e.FS, bare+disabledSuffix) {
			if err := e.FS.Rename(bare+disabledSuffix, bare); err != nil {
				e.Log.WarnfAlways("restore vault .gitignore name: %v", err)
			}
		}
	}

	// 1. Move the current project file aside as the original backup.
	hadProject := fsx.LExists(e.FS, projectFile)
	if hadProject {
		if err := fsx.Move(e.FS, projectFile, backup); err != nil {
			restoreGitignore()
			return fmt.Errorf("back up %s: %w", rel, err)
		}
	}

	// 2. Copy the alternate version into the project.
	if err := fsx.CopyFile(e.FS, source, projectFile); err != nil {
		if hadProject {
			_ = fsx.Move(e.FS, backup, projectFile)
		}
		restoreGitignore()
		return fmt.Errorf("copy swap version of %s: %w", rel, err)
	}

	// 3. Create the sentinel naming this host.
	sentinel := filepath.Join(filepath.Dir(filepath.Join(swapDir, rel)),
		sentinelName(filepath.Base(rel), e.Host))
	if err := e.FS.WriteFile(sentinel, nil, 0o644); err != nil {
		_ = e.FS.Remove(projectFile)
		if hadProject {
			_ = fsx.Move(e.FS, backup, projectFile)
		}
		restoreGitignore()
		return fmt.Errorf("create sentinel for %s: %w", rel, err)
	}

	// 4. Inverse rename of the neutralized .gitignore.
	restoreGitignore()

	// 5. Mark the environment as swapped.
	return e.setSwappedMarker(binding, true)
}

// Out restores the project original and captures session edits back into
// the vault. Only the host holding the swap-in may swap out.
func (e *Engine) Out(binding *vault.Binding, path string) error {
	rel, err := e.rel(binding, path)
	if err != nil {
		return err
	}
	swapDir := binding.Vault.SwapDir()
	if err := e.upgradeSentinel(swapDir, rel); err != nil {
		return fmt.Errorf("upgrade sentinel for %s: %w", rel, err)
	}

	sentinelPath, host, ok := e.findSentinel(swapDir, rel)
	if !ok {
		return fmt.Errorf("%s is not swapped in: %w", rel, rserrors.ErrSwapMissing)
	}
	if host != e.Host {
		return fmt.Errorf("%s is swapped in by host %q: %w", rel, host, rserrors.ErrSwapConflict)
	}

	projectFile := filepath.Join(binding.ProjectDir, rel)
	vaultFile := filepath.Join(swapDir, rel)
	backup := backupPath(swapDir, rel)
	gitignore := filepath.Base(rel) == ".gitignore"

	// 1. Preserve edits made while IN by copying the project file back
	// into the vault as the alternate version.
	if fsx.LExists(e.FS, projectFile) {
		if gitignore && fsx.LExists(e.FS, vaultFile+disabledSuffix) {
			if err := e.FS.Remove(vaultFile + disabledSuffix); err != nil {
				return fmt.Errorf("drop stale swap version of %s: %w", rel, err)
			}
		}
		if err := fsx.CopyFile(e.FS, projectFile, vaultFile); err != nil {
			return fmt.Errorf("capture edits of %s: %w", rel, err)
		}
		if gitignore {
			if err := e.FS.Rename(vaultFile, vaultFile+disabledSuffix); err != nil {
				return fmt.Errorf("neutralize %s: %w", rel, err)
			}
		}
	}

	// 2. Restore the original. No backup means the project had no file
	// before the swap-in.
	if fsx.LExists(e.FS, backup) {
		if err := fsx.Move(e.FS, backup, projectFile); err != nil {
			return fmt.Errorf("restore original %s: %w", rel, err)
		}
	} else if fsx.LExists(e.FS, projectFile) {
		if err := e.FS.Remove(projectFile); err != nil {
			return fmt.Errorf("remove overlay %s: %w", rel, err)
		}
	}

	// 3. Drop the sentinel.
	if err := e.FS.Remove(sentinelPath); err != nil {
		return fmt.Errorf("remove sentinel for %s: %w", rel, err)
	}

	// 4. Clear the marker once nothing is swapped in anywhere.
	if !e.anySentinels(swapDir) {
		return e.setSwappedMarker(binding, false)
	}
	return nil
}

// Delete removes files from swap management. Validation is all-or-
// nothing: when any path is swapped in anywhere, no file is touched.
func (e *Engine) Delete(binding *vault.Binding, paths []string) error {
	swapDir := binding.Vault.SwapDir()

	rels := make([]string, 0, len(paths))
	for _, path := range paths {
		rel, err := e.rel(binding, path)
		if err != nil {
			return err
		}
		if _, host, ok := e.findSentinel(swapDir, rel); ok {
			return fmt.Errorf("cannot delete %s: swapped in by host %q: %w",
				rel, host, rserrors.ErrSwapActive)
		}
		rels = append(rels, rel)
	}

	for _, rel := range rels {
		for _, victim := range []string{
			filepath.Join(swapDir, rel),
			filepath.Join(swapDir, rel) + disabledSuffix,
			backupPath(swapDir, rel),
		} {
			if !fsx.LExists(e.FS, victim) {
				continue
			}
			e.Log.Debugf("swap delete: removing %s", victim)
			if err := e.FS.Remove(victim); err != nil {
				return fmt.Errorf("remove %s: %w", victim, err)
			}
		}
	}
	return nil
}

// setSwappedMarker keeps the RSENV_SWAPPED invariant: the marker lives
// in dot.envrc's managed section iff any sentinel exists in the vault.
func (e *Engine) setSwappedMarker(binding *vault.Binding, on bool) error {
	dotEnvrc := binding.Vault.DotEnvrc()
	sec, err := vault.ReadSection(e.FS, dotEnvrc)
	if err != nil {
		return err
	}
	if on {
		sec.EnsureSwappedMarker()
	} else {
		sec.RemoveSwappedMarker()
	}
	return vault.WriteSection(e.FS, dotEnvrc, sec)
}
