package vault

import (
	"encoding/binary"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sysid/rsenv/internal/configs"
	rserrors "github.com/sysid/rsenv/internal/errors"
	"github.com/sysid/rsenv/internal/fsx"
	logger "github.com/sysid/rsenv/internal/logging"
	"github.com/sysid/rsenv/internal/utils"
)

// LinkStyle selects how symlinks into the vault are written.
type LinkStyle int

const (
	LinkRelative LinkStyle = iota
	LinkAbsolute
)

// Vault is a project's companion directory outside the project.
type Vault struct {
	// Path is the canonical vault root.
	Path string
	// Sentinel is the 8-hex token that ties the vault directory name to
	// the managed section.
	Sentinel string
}

// DotEnvrc returns the path of the real .envrc inside the vault.
func (v Vault) DotEnvrc() string { return filepath.Join(v.Path, "dot.envrc") }

// EnvsDir returns the env-file tree root.
func (v Vault) EnvsDir() string { return filepath.Join(v.Path, "envs") }

// GuardedDir returns the root of relocated project files.
func (v Vault) GuardedDir() string { return filepath.Join(v.Path, "guarded") }

// SwapDir returns the root of swap-managed alternate versions.
func (v Vault) SwapDir() string { return filepath.Join(v.Path, "swap") }

// Binding is the verified project-vault association.
type Binding struct {
	// ProjectDir is the canonical project root.
	ProjectDir string
	Vault      Vault
	Meta       *Metadata
}

// Binder creates, inspects, and dissolves bindings.
type Binder struct {
	FS     fsx.FileSystem
	Config *configs.Config
	Log    logger.Logger
}

func NewBinder(fs fsx.FileSystem, cfg *configs.Config, log logger.Logger) *Binder {
	return &Binder{FS: fs, Config: cfg, Log: log}
}

// Discover verifies the full binding invariant for a project and returns
// the binding. It returns ErrNotBound when no trace of a binding exists,
// and ErrBindingViolation when the binding is partially present. Partial
// state is reported, never repaired.
func (b *Binder) Discover(projectDir string) (*Binding, error) {
	projectDir, err := b.FS.Canonicalize(projectDir)
	if err != nil {
		return nil, fmt.Errorf("resolve project dir %s: %w", projectDir, err)
	}

	envrcLink := filepath.Join(projectDir, ".envrc")
	if !fsx.LExists(b.FS, envrcLink) {
		return nil, fmt.Errorf("%s: %w", projectDir, rserrors.ErrNotBound)
	}
	if !fsx.IsSymlink(b.FS, envrcLink) {
		return nil, fmt.Errorf("%s: .envrc is a regular file: %w", projectDir, rserrors.ErrNotBound)
	}

	dotEnvrc, err := fsx.ResolveLink(b.FS, envrcLink)
	if err != nil {
		return nil, fmt.Errorf("%w: .envrc symlink is dangling: %v", rserrors.ErrBindingViolation, err)
	}
	if filepath.Base(dotEnvrc) != "dot.envrc" {
		return nil, fmt.Errorf("%w: .envrc resolves to %s, not a vault dot.envrc",
			rserrors.ErrBindingViolation, dotEnvrc)
	}

	vaultPath := filepath.Dir(dotEnvrc)
	if !fsx.IsDir(b.FS, vaultPath) {
		return nil, fmt.Errorf("%w: vault root %s is not a directory", rserrors.ErrBindingViolation, vaultPath)
	}

	sec, err := ReadSection(b.FS, dotEnvrc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", rserrors.ErrBindingViolation, err)
	}
	meta, err := sec.Metadata()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", rserrors.ErrBindingViolation, err)
	}

	sentinel := sentinelFromVaultName(filepath.Base(vaultPath))
	if sentinel == "" || sentinel != meta.Sentinel {
		return nil, fmt.Errorf("%w: sentinel mismatch: vault name carries %q, managed section carries %q",
			rserrors.ErrBindingViolation, sentinel, meta.Sentinel)
	}

	return &Binding{
		ProjectDir: projectDir,
		Vault:      Vault{Path: vaultPath, Sentinel: sentinel},
		Meta:       meta,
	}, nil
}

// Init creates a vault for the project and binds it. All filesystem
// mutations are rolled back when a later step fails.
func (b *Binder) Init(projectDir string, style LinkStyle) (*Binding, error) {
	projectDir, err := b.FS.Canonicalize(projectDir)
	if err != nil {
		return nil, fmt.Errorf("resolve project dir %s: %w", projectDir, err)
	}

	// Refuse when any binding state exists, live or partial.
	if _, err := b.Discover(projectDir); err == nil {
		return nil, fmt.Errorf("%s: %w", projectDir, rserrors.ErrAlreadyBound)
	} else if !isNotBound(err) {
		return nil, err
	}

	sentinel := newSentinel()
	vaultName := filepath.Base(projectDir) + "-" + sentinel
	vaultPath := filepath.Join(b.Config.VaultBaseDir, vaultName)
	b.Log.Debugf("init: creating vault %s", vaultPath)

	var undo []func()
	rollback := func() {
		for i := len(undo) - 1; i >= 0; i-- {
			undo[i]()
		}
	}

	if err := b.FS.MkdirAll(vaultPath, 0o755); err != nil {
		return nil, fmt.Errorf("create vault %s: %w", vaultPath, err)
	}
	undo = append(undo, func() { _ = b.FS.RemoveAll(vaultPath) })

	// Keep the recorded path consistent with what Discover resolves.
	if canonical, err := b.FS.Canonicalize(vaultPath); err == nil {
		vaultPath = canonical
	}

	for _, sub := range []string{"envs", "guarded", "swap"} {
		if err := b.FS.MkdirAll(filepath.Join(vaultPath, sub), 0o755); err != nil {
			rollback()
			return nil, fmt.Errorf("create vault subdirectory %s: %w", sub, err)
		}
	}

	vault := Vault{Path: vaultPath, Sentinel: sentinel}
	envrcLink := filepath.Join(projectDir, ".envrc")
	dotEnvrc := vault.DotEnvrc()

	if fsx.IsRegular(b.FS, envrcLink) {
		// Preserve the user's existing .envrc as the vault's dot.envrc.
		if err := fsx.Move(b.FS, envrcLink, dotEnvrc); err != nil {
			rollback()
			return nil, fmt.Errorf("move existing .envrc into vault: %w", err)
		}
		undo = append(undo, func() { _ = fsx.Move(b.FS, dotEnvrc, envrcLink) })
	} else {
		if err := b.FS.WriteFile(dotEnvrc, nil, 0o644); err != nil {
			rollback()
			return nil, fmt.Errorf("create dot.envrc: %w", err)
		}
	}

	if err := b.seedEnvs(vault); err != nil {
		rollback()
		return nil, err
	}

	meta := &Metadata{
		Relative:  style == LinkRelative,
		Version:   2,
		Sentinel:  sentinel,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		SourceDir: utils.ContractHome(projectDir),
	}
	original, err := b.FS.ReadFile(dotEnvrc)
	if err != nil {
		rollback()
		return nil, fmt.Errorf("read dot.envrc: %w", err)
	}
	if err := InjectSection(b.FS, dotEnvrc, RenderBody(meta, utils.ContractHome(vaultPath))); err != nil {
		rollback()
		return nil, fmt.Errorf("inject managed section: %w", err)
	}
	undo = append(undo, func() { _ = b.FS.WriteFile(dotEnvrc, original, 0o644) })

	if err := b.link(dotEnvrc, envrcLink, style); err != nil {
		rollback()
		return nil, fmt.Errorf("create .envrc symlink: %w", err)
	}

	return &Binding{ProjectDir: projectDir, Vault: vault, Meta: meta}, nil
}

// Reconnect re-creates the project's .envrc symlink for an existing
// vault. It verifies dotEnvrcPath is a well-formed dot.envrc first, is
// idempotent when the link already resolves there, and refreshes
// state.sourceDir when the project has moved.
func (b *Binder) Reconnect(projectDir, dotEnvrcPath string) (*Binding, error) {
	projectDir, err := b.FS.Canonicalize(projectDir)
	if err != nil {
		return nil, fmt.Errorf("resolve project dir %s: %w", projectDir, err)
	}
	dotEnvrcPath, err = b.FS.Canonicalize(dotEnvrcPath)
	if err != nil {
		return nil, fmt.Errorf("resolve dot.envrc %s: %w", dotEnvrcPath, err)
	}
	if filepath.Base(dotEnvrcPath) != "dot.envrc" {
		return nil, fmt.Errorf("%s: not a vault dot.envrc: %w", dotEnvrcPath, rserrors.ErrMalformedSection)
	}

	sec, err := ReadSection(b.FS, dotEnvrcPath)
	if err != nil {
		return nil, err
	}
	meta, err := sec.Metadata()
	if err != nil {
		return nil, err
	}

	vaultPath := filepath.Dir(dotEnvrcPath)
	sentinel := sentinelFromVaultName(filepath.Base(vaultPath))
	if sentinel != meta.Sentinel {
		return nil, fmt.Errorf("%w: sentinel mismatch between vault name and managed section",
			rserrors.ErrBindingViolation)
	}
	vault := Vault{Path: vaultPath, Sentinel: sentinel}

	envrcLink := filepath.Join(projectDir, ".envrc")
	if fsx.LExists(b.FS, envrcLink) {
		if !fsx.IsSymlink(b.FS, envrcLink) {
			return nil, fmt.Errorf("%s: refusing to overwrite regular .envrc: %w",
				envrcLink, rserrors.ErrBindingViolation)
		}
		resolved, err := fsx.ResolveLink(b.FS, envrcLink)
		if err == nil && resolved == dotEnvrcPath {
			return &Binding{ProjectDir: projectDir, Vault: vault, Meta: meta}, nil
		}
		return nil, fmt.Errorf("%s: .envrc symlink points elsewhere: %w",
			envrcLink, rserrors.ErrBindingViolation)
	}

	if sourceDir := utils.ContractHome(projectDir); meta.SourceDir != sourceDir {
		meta.SourceDir = sourceDir
		sec.setMetaValue("state.sourceDir", fmt.Sprintf("'%s'", sourceDir))
		if err := WriteSection(b.FS, dotEnvrcPath, sec); err != nil {
			return nil, err
		}
	}

	style := LinkAbsolute
	if meta.Relative {
		style = LinkRelative
	}
	if err := b.link(dotEnvrcPath, envrcLink, style); err != nil {
		return nil, fmt.Errorf("create .envrc symlink: %w", err)
	}

	return &Binding{ProjectDir: projectDir, Vault: vault, Meta: meta}, nil
}

// Unbind removes the managed section from dot.envrc and moves it back to
// the project as a regular .envrc, overwriting the symlink. The vault
// directory itself is kept.
func (b *Binder) Unbind(binding *Binding) error {
	dotEnvrc := binding.Vault.DotEnvrc()
	data, err := b.FS.ReadFile(dotEnvrc)
	if err != nil {
		return fmt.Errorf("read %s: %w", dotEnvrc, err)
	}
	stripped, err := StripSection(string(data))
	if err != nil {
		return fmt.Errorf("%s: %w", dotEnvrc, err)
	}
	if err := b.FS.WriteFile(dotEnvrc, []byte(stripped), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dotEnvrc, err)
	}

	envrcLink := filepath.Join(binding.ProjectDir, ".envrc")
	if fsx.IsSymlink(b.FS, envrcLink) {
		if err := b.FS.Remove(envrcLink); err != nil {
			return fmt.Errorf("remove .envrc symlink: %w", err)
		}
	}
	if err := fsx.Move(b.FS, dotEnvrc, envrcLink); err != nil {
		return fmt.Errorf("restore .envrc: %w", err)
	}
	return nil
}

// setMetaValue rewrites a single `# key = value` line in the body.
func (s *Section) setMetaValue(key, rendered string) {
	for i, line := range s.Body {
		if k, _, ok := parseMetaLine(line); ok && k == key {
			s.Body[i] = fmt.Sprintf("# %s = %s", key, rendered)
			return
		}
	}
	s.Body = append(s.Body, fmt.Sprintf("# %s = %s", key, rendered))
}

// seedEnvs writes the default env stubs, skipping ones that exist.
func (b *Binder) seedEnvs(vault Vault) error {
	for _, name := range []string{"local", "test", "int", "prod"} {
		path := filepath.Join(vault.EnvsDir(), name+".env")
		if fsx.LExists(b.FS, path) {
			continue
		}
		content := fmt.Sprintf("export RUN_ENV=%q\n", name)
		if err := b.FS.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("seed %s: %w", path, err)
		}
	}
	return nil
}

func (b *Binder) link(target, link string, style LinkStyle) error {
	if style == LinkRelative {
		return fsx.SymlinkRelative(b.FS, target, link)
	}
	return b.FS.Symlink(target, link)
}

// newSentinel derives the 8-hex vault identity from randomness and time.
func newSentinel() string {
	id := uuid.New()
	r := binary.BigEndian.Uint32(id[:4])
	t := uint32(time.Now().UnixNano())
	return fmt.Sprintf("%08x", r^t)
}

// sentinelFromVaultName extracts the token after the final dash.
func sentinelFromVaultName(name string) string {
	i := strings.LastIndex(name, "-")
	if i < 0 || i == len(name)-1 {
		return ""
	}
	return name[i+1:]
}

func isNotBound(err error) bool {
	return errors.Is(err, rserrors.ErrNotBound)
}
