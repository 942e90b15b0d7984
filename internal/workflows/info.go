package workflows

import (
	"context"

	"github.com/sysid/rsenv/internal/fsx"
	"github.com/sysid/rsenv/internal/guard"
	logger "github.com/sysid/rsenv/internal/logging"
	"github.com/sysid/rsenv/internal/swap"
)

// InfoOptions configures the info workflow.
type InfoOptions struct {
	ProjectDir string
}

// InfoResult is the structured binding status for a project.
type InfoResult struct {
	Bound     bool
	VaultPath string
	Sentinel  string
	Timestamp string
	SourceDir string

	// GuardedFiles counts guard records.
	GuardedFiles int

	// SwapRecords reports every swap record with its state.
	SwapRecords []swap.Status

	// Violation describes a detected binding invariant violation
	// (dangling symlink, missing or mismatched sentinel, missing
	// managed section). Empty when unbound or fully bound.
	Violation string
}

// Info inspects the binding and summarizes vault contents. Invariant
// violations are reported, never repaired.
func Info(ctx context.Context, fs fsx.FileSystem, log logger.Logger, opts InfoOptions) (*InfoResult, error) {
	binding, err := discover(fs, log, opts.ProjectDir)
	if err != nil {
		if isNotBound(err) {
			return &InfoResult{}, nil
		}
		// Partial state: report the violation.
		return &InfoResult{Violation: err.Error()}, nil
	}

	result := &InfoResult{
		Bound:     true,
		VaultPath: binding.Vault.Path,
		Sentinel:  binding.Vault.Sentinel,
		Timestamp: binding.Meta.Timestamp,
		SourceDir: binding.Meta.SourceDir,
	}

	guardEngine := guard.NewEngine(fs, log)
	if records, err := guardEngine.List(binding); err == nil {
		result.GuardedFiles = len(records)
	}

	swapEngine := swap.NewEngine(fs, log)
	if statuses, err := swapEngine.StatusAll(binding); err == nil {
		result.SwapRecords = statuses
	}

	return result, nil
}
