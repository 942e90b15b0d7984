package workflows

import (
	"context"
	"fmt"

	"github.com/sysid/rsenv/internal/configs"
	"github.com/sysid/rsenv/internal/fsx"
	logger "github.com/sysid/rsenv/internal/logging"
	"github.com/sysid/rsenv/internal/vault"
)

// InitOptions configures the init workflow.
type InitOptions struct {
	// ProjectDir is the project root to bind.
	ProjectDir string

	// Absolute selects absolute symlinks into the vault instead of the
	// default relative ones.
	Absolute bool
}

// InitResult contains the outcome of an init operation.
type InitResult struct {
	// VaultPath is the created vault root.
	VaultPath string

	// Sentinel is the vault's 8-hex identity token.
	Sentinel string
}

// Init creates a vault for the project and establishes the binding:
// the .envrc symlink, the managed section inside dot.envrc, and the
// sentinel embedded in both the section and the vault directory name.
//
// Returns ErrAlreadyBound when the project already has a live binding
// and ErrBindingViolation when partial binding state is found; partial
// state is reported, never repaired.
func Init(ctx context.Context, fs fsx.FileSystem, log logger.Logger, opts InitOptions) (*InitResult, error) {
	cfg, err := configs.Load("")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	style := vault.LinkRelative
	if opts.Absolute {
		style = vault.LinkAbsolute
	}

	binder := vault.NewBinder(fs, cfg, log)
	binding, err := binder.Init(opts.ProjectDir, style)
	if err != nil {
		return nil, err
	}

	return &InitResult{
		VaultPath: binding.Vault.Path,
		Sentinel:  binding.Vault.Sentinel,
	}, nil
}
