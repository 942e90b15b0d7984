package errors

import "errors"

// Binding errors indicate issues with the project-vault association.
var (
	// ErrNotBound indicates the project has no live vault binding.
	ErrNotBound = errors.New("project is not bound to a vault")

	// ErrAlreadyBound indicates the project already has a live vault binding.
	ErrAlreadyBound = errors.New("project is already bound to a vault")

	// ErrBindingViolation indicates the binding tuple is partially present.
	ErrBindingViolation = errors.New("vault binding is inconsistent")

	// ErrMalformedSection indicates the managed section of dot.envrc is missing,
	// duplicated, or cannot be parsed.
	ErrMalformedSection = errors.New("malformed rsenv section")
)

// Env graph errors indicate issues in the hierarchical env resolution.
var (
	// ErrCycleDetected indicates the parent graph contains a cycle.
	ErrCycleDetected = errors.New("cycle in env hierarchy")

	// ErrParentNotFound indicates a parent named by a directive does not exist.
	ErrParentNotFound = errors.New("parent env file not found")

	// ErrMalformedEnvLine indicates an export line that does not parse.
	ErrMalformedEnvLine = errors.New("malformed export line")

	// ErrUnmanagedTarget indicates the target .envrc carries no managed section.
	ErrUnmanagedTarget = errors.New("target .envrc is not rsenv-managed")
)

// Guard errors indicate issues relocating files between project and vault.
var (
	// ErrAlreadyGuarded indicates the file is already a guard symlink.
	ErrAlreadyGuarded = errors.New("file is already guarded")

	// ErrNotGuarded indicates the path is not a guard symlink into the vault.
	ErrNotGuarded = errors.New("file is not guarded")

	// ErrOutsideProject indicates the path escapes the project root.
	ErrOutsideProject = errors.New("file is not within the project")
)

// Swap errors indicate issues with the per-file swap state machine.
var (
	// ErrSwapConflict indicates another host currently holds the swap-in.
	ErrSwapConflict = errors.New("file is swapped in by another host")

	// ErrSwapActive indicates an operation is blocked by an active swap-in.
	ErrSwapActive = errors.New("swap currently active")

	// ErrSwapExists indicates the vault already holds a swap version.
	ErrSwapExists = errors.New("swap version already exists in vault")

	// ErrSwapMissing indicates no swap version exists for the file.
	ErrSwapMissing = errors.New("no swap version in vault")
)

// Config errors indicate issues with the layered configuration.
var (
	// ErrInvalidConfig indicates a config file is malformed.
	ErrInvalidConfig = errors.New("configuration is invalid")

	// ErrNoEncryptionKey indicates neither a GPG nor an Age key is configured.
	ErrNoEncryptionKey = errors.New("no encryption key configured")
)
