package workflows

import (
	"context"
	"fmt"

	"github.com/sysid/rsenv/internal/configs"
	"github.com/sysid/rsenv/internal/fsx"
	logger "github.com/sysid/rsenv/internal/logging"
	"github.com/sysid/rsenv/internal/vault"
)

// ReconnectOptions configures the reconnect workflow.
type ReconnectOptions struct {
	ProjectDir string

	// DotEnvrc is the vault's dot.envrc the project should link to.
	DotEnvrc string
}

// ReconnectResult contains the outcome of a reconnect operation.
type ReconnectResult struct {
	VaultPath string
	Sentinel  string
}

// Reconnect re-creates the project's .envrc symlink for a vault that
// still exists, refreshing state.sourceDir in dot.envrc when the project
// has moved. The target is verified to be a well-formed dot.envrc before
// any symlink is written.
func Reconnect(ctx context.Context, fs fsx.FileSystem, log logger.Logger, opts ReconnectOptions) (*ReconnectResult, error) {
	cfg, err := configs.Load("")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	binder := vault.NewBinder(fs, cfg, log)
	binding, err := binder.Reconnect(opts.ProjectDir, opts.DotEnvrc)
	if err != nil {
		return nil, err
	}

	return &ReconnectResult{
		VaultPath: binding.Vault.Path,
		Sentinel:  binding.Vault.Sentinel,
	}, nil
}
