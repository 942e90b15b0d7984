package workflows

import (
	"context"
	"fmt"

	"github.com/sysid/rsenv/internal/configs"
	rserrors "github.com/sysid/rsenv/internal/errors"
	"github.com/sysid/rsenv/internal/fsx"
	"github.com/sysid/rsenv/internal/guard"
	logger "github.com/sysid/rsenv/internal/logging"
	"github.com/sysid/rsenv/internal/swap"
	"github.com/sysid/rsenv/internal/vault"
)

// ResetOptions configures the reset workflow.
type ResetOptions struct {
	ProjectDir string
}

// ResetResult contains the outcome of a reset operation.
type ResetResult struct {
	// VaultPath is the vault left behind for manual removal.
	VaultPath string

	// RestoredGuards counts guard records moved back into the project.
	RestoredGuards int

	// Warnings lists guard records that could not be restored.
	Warnings []string
}

// Reset dissolves the binding: every guard record is restored, the
// managed section is stripped from dot.envrc, and dot.envrc moves back
// to <project>/.envrc in place of the symlink. The vault directory is
// not deleted.
//
// Refuses while any swap record is IN on any host.
func Reset(ctx context.Context, fs fsx.FileSystem, log logger.Logger, opts ResetOptions) (*ResetResult, error) {
	binding, err := discover(fs, log, opts.ProjectDir)
	if err != nil {
		return nil, err
	}

	swapEngine := swap.NewEngine(fs, log)
	active, err := swapEngine.ActiveSentinels(binding)
	if err != nil {
		return nil, fmt.Errorf("checking swap records: %w", err)
	}
	if len(active) > 0 {
		return nil, fmt.Errorf("%s: %w on host %q",
			active[0].Rel, rserrors.ErrSwapActive, active[0].Host)
	}

	guardEngine := guard.NewEngine(fs, log)
	restored, failures := guardEngine.RestoreAll(binding)

	result := &ResetResult{
		VaultPath:      binding.Vault.Path,
		RestoredGuards: restored,
	}
	for _, f := range failures {
		result.Warnings = append(result.Warnings, f.Error())
	}
	if len(failures) > 0 {
		return result, fmt.Errorf("restore guarded files: %d of %d failed",
			len(failures), restored+len(failures))
	}

	binder := binderFor(fs, log, binding)
	if err := binder.Unbind(binding); err != nil {
		return result, err
	}
	return result, nil
}

// discover loads config and verifies the binding for a project.
func discover(fs fsx.FileSystem, log logger.Logger, projectDir string) (*vault.Binding, error) {
	cfg, err := configs.Load("")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return vault.NewBinder(fs, cfg, log).Discover(projectDir)
}

// binderFor rebuilds a binder with the vault-local config layered in.
func binderFor(fs fsx.FileSystem, log logger.Logger, binding *vault.Binding) *vault.Binder {
	cfg, err := configs.Load(binding.Vault.Path)
	if err != nil {
		cfg = configs.Default()
	}
	return vault.NewBinder(fs, cfg, log)
}
