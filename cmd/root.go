package cmd

import (
	"errors"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/sysid/rsenv/internal/configs"
	rserrors "github.com/sysid/rsenv/internal/errors"
	"github.com/sysid/rsenv/internal/fsx"
	logger "github.com/sysid/rsenv/internal/logging"
	"github.com/sysid/rsenv/internal/vault"
)

// Exit codes (BSD sysexits.h compatible).
const (
	ExitOK      = 0
	ExitError   = 1
	ExitUsage   = 2
	ExitUsage64 = 64
	ExitData    = 65
	ExitNoInput = 66
	ExitIO      = 74
	ExitConfig  = 78
)

var (
	verbose     bool
	debug       bool
	projectRoot string

	Logger logger.Logger
	FS     fsx.FileSystem = fsx.OS{}
)

// SetupGlobalFlags registers the persistent flags shared by every
// command group and wires the logger.
func SetupGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	root.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	root.PersistentFlags().StringVarP(&projectRoot, "directory", "C", "", "project root (default: current directory)")

	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		Logger = logger.Logger{Verbose: verbose, Debug: debug}
	}
}

// ProjectDir returns the project root: -C when given, else the working
// directory.
func ProjectDir() (string, error) {
	if projectRoot != "" {
		return projectRoot, nil
	}
	return os.Getwd()
}

// discoverBinding verifies the binding for the current project.
func discoverBinding() (*vault.Binding, error) {
	dir, err := ProjectDir()
	if err != nil {
		return nil, err
	}
	cfg, err := configs.Load("")
	if err != nil {
		return nil, err
	}
	return vault.NewBinder(FS, cfg, Logger).Discover(dir)
}

// defaultBinder builds a binder from the global config layers only.
func defaultBinder() (*vault.Binder, error) {
	cfg, err := configs.Load("")
	if err != nil {
		return nil, err
	}
	return vault.NewBinder(FS, cfg, Logger), nil
}

// loadVaultConfig layers the vault-local config on top of the globals.
func loadVaultConfig(binding *vault.Binding) (*configs.Config, error) {
	return configs.Load(binding.Vault.Path)
}

// ExitCode maps an error onto the stable exit code taxonomy.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, rserrors.ErrInvalidConfig),
		errors.Is(err, rserrors.ErrNoEncryptionKey):
		return ExitConfig
	case errors.Is(err, rserrors.ErrCycleDetected),
		errors.Is(err, rserrors.ErrMalformedEnvLine),
		errors.Is(err, rserrors.ErrMalformedSection):
		return ExitData
	case errors.Is(err, rserrors.ErrParentNotFound),
		errors.Is(err, fs.ErrNotExist):
		return ExitNoInput
	case errors.Is(err, fs.ErrPermission):
		return ExitIO
	default:
		return ExitError
	}
}
