package vault

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysid/rsenv/internal/configs"
	rserrors "github.com/sysid/rsenv/internal/errors"
	"github.com/sysid/rsenv/internal/fsx"
	logger "github.com/sysid/rsenv/internal/logging"
)

func testBinder(t *testing.T) (*Binder, string) {
	t.Helper()
	base := t.TempDir()
	projectDir := filepath.Join(base, "myproj")
	require.NoError(t, os.MkdirAll(projectDir, 0o755))

	cfg := configs.Default()
	cfg.VaultBaseDir = filepath.Join(base, "vaults")

	return NewBinder(fsx.OS{}, cfg, logger.Logger{}), projectDir
}

func TestInit_BindingInvariantHolds(t *testing.T) {
	binder, projectDir := testBinder(t)

	binding, err := binder.Init(projectDir, LinkRelative)
	require.NoError(t, err)

	// Sentinel is 8 hex chars and suffixes the vault directory name.
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{8}$`), binding.Vault.Sentinel)
	assert.Equal(t, "myproj-"+binding.Vault.Sentinel, filepath.Base(binding.Vault.Path))

	// .envrc is a symlink resolving to the vault's dot.envrc.
	envrc := filepath.Join(projectDir, ".envrc")
	require.True(t, fsx.IsSymlink(fsx.OS{}, envrc))
	resolved, err := fsx.ResolveLink(fsx.OS{}, envrc)
	require.NoError(t, err)
	expected, err := (fsx.OS{}).Canonicalize(binding.Vault.DotEnvrc())
	require.NoError(t, err)
	assert.Equal(t, expected, resolved)

	// Subdirectories and env stubs.
	for _, sub := range []string{"envs", "guarded", "swap"} {
		assert.DirExists(t, filepath.Join(binding.Vault.Path, sub))
	}
	for _, stub := range []string{"local", "test", "int", "prod"} {
		data, err := os.ReadFile(filepath.Join(binding.Vault.EnvsDir(), stub+".env"))
		require.NoError(t, err)
		assert.Equal(t, "export RUN_ENV=\""+stub+"\"\n", string(data))
	}

	// Discover re-verifies the full invariant.
	again, err := binder.Discover(projectDir)
	require.NoError(t, err)
	assert.Equal(t, binding.Vault, again.Vault)
}

func TestInit_RefusesWhenBound(t *testing.T) {
	binder, projectDir := testBinder(t)

	_, err := binder.Init(projectDir, LinkRelative)
	require.NoError(t, err)

	_, err = binder.Init(projectDir, LinkRelative)
	assert.ErrorIs(t, err, rserrors.ErrAlreadyBound)
}

func TestInit_PreservesExistingEnvrc(t *testing.T) {
	binder, projectDir := testBinder(t)
	userContent := "export MY_VAR=precious\n"
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, ".envrc"), []byte(userContent), 0o644))

	binding, err := binder.Init(projectDir, LinkRelative)
	require.NoError(t, err)

	data, err := os.ReadFile(binding.Vault.DotEnvrc())
	require.NoError(t, err)
	assert.Contains(t, string(data), userContent)
	assert.Contains(t, string(data), StartFence)
}

func TestInit_SkipsExistingEnvStubs(t *testing.T) {
	binder, projectDir := testBinder(t)

	binding, err := binder.Init(projectDir, LinkRelative)
	require.NoError(t, err)

	custom := filepath.Join(binding.Vault.EnvsDir(), "local.env")
	require.NoError(t, os.WriteFile(custom, []byte("export RUN_ENV=\"custom\"\n"), 0o644))

	// Seeding never overwrites existing stubs.
	require.NoError(t, binder.seedEnvs(binding.Vault))
	data, err := os.ReadFile(custom)
	require.NoError(t, err)
	assert.Equal(t, "export RUN_ENV=\"custom\"\n", string(data))
}

func TestDiscover_Unbound(t *testing.T) {
	binder, projectDir := testBinder(t)
	_, err := binder.Discover(projectDir)
	assert.ErrorIs(t, err, rserrors.ErrNotBound)
}

func TestDiscover_DanglingSymlinkIsViolation(t *testing.T) {
	binder, projectDir := testBinder(t)
	require.NoError(t, os.Symlink("nowhere/dot.envrc", filepath.Join(projectDir, ".envrc")))

	_, err := binder.Discover(projectDir)
	assert.ErrorIs(t, err, rserrors.ErrBindingViolation)
}

func TestDiscover_SentinelMismatchIsViolation(t *testing.T) {
	binder, projectDir := testBinder(t)

	binding, err := binder.Init(projectDir, LinkRelative)
	require.NoError(t, err)

	// Corrupt the sentinel inside the managed section.
	sec, err := ReadSection(fsx.OS{}, binding.Vault.DotEnvrc())
	require.NoError(t, err)
	sec.setMetaValue("state.sentinel", "'00000000'")
	require.NoError(t, WriteSection(fsx.OS{}, binding.Vault.DotEnvrc(), sec))

	_, err = binder.Discover(projectDir)
	assert.ErrorIs(t, err, rserrors.ErrBindingViolation)
}

func TestUnbind_RestoresEnvrc(t *testing.T) {
	binder, projectDir := testBinder(t)
	userContent := "export MY_VAR=precious\n"
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, ".envrc"), []byte(userContent), 0o644))

	binding, err := binder.Init(projectDir, LinkRelative)
	require.NoError(t, err)

	require.NoError(t, binder.Unbind(binding))

	envrc := filepath.Join(projectDir, ".envrc")
	info, err := os.Lstat(envrc)
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular(), ".envrc must be a regular file after reset")

	data, err := os.ReadFile(envrc)
	require.NoError(t, err)
	assert.Equal(t, userContent, string(data), "pre-init content preserved modulo the managed fence")

	assert.NoFileExists(t, binding.Vault.DotEnvrc())
	assert.DirExists(t, binding.Vault.Path, "the vault directory is kept")
}

func TestReconnect_RecreatesSymlink(t *testing.T) {
	binder, projectDir := testBinder(t)

	binding, err := binder.Init(projectDir, LinkRelative)
	require.NoError(t, err)

	envrc := filepath.Join(projectDir, ".envrc")
	require.NoError(t, os.Remove(envrc))

	reconnected, err := binder.Reconnect(projectDir, binding.Vault.DotEnvrc())
	require.NoError(t, err)
	assert.Equal(t, binding.Vault.Sentinel, reconnected.Vault.Sentinel)

	require.True(t, fsx.IsSymlink(fsx.OS{}, envrc))
	_, err = binder.Discover(projectDir)
	assert.NoError(t, err)
}

func TestReconnect_Idempotent(t *testing.T) {
	binder, projectDir := testBinder(t)

	binding, err := binder.Init(projectDir, LinkRelative)
	require.NoError(t, err)

	_, err = binder.Reconnect(projectDir, binding.Vault.DotEnvrc())
	assert.NoError(t, err, "reconnect on an intact binding is idempotent")
}

func TestReconnect_RefusesRegularEnvrc(t *testing.T) {
	binder, projectDir := testBinder(t)

	binding, err := binder.Init(projectDir, LinkRelative)
	require.NoError(t, err)

	envrc := filepath.Join(projectDir, ".envrc")
	require.NoError(t, os.Remove(envrc))
	require.NoError(t, os.WriteFile(envrc, []byte("user file\n"), 0o644))

	_, err = binder.Reconnect(projectDir, binding.Vault.DotEnvrc())
	assert.Error(t, err)

	data, _ := os.ReadFile(envrc)
	assert.Equal(t, "user file\n", string(data), "refusal must not touch the file")
}

func TestReconnect_RejectsNonDotEnvrc(t *testing.T) {
	binder, projectDir := testBinder(t)
	other := filepath.Join(projectDir, "random.txt")
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))

	_, err := binder.Reconnect(projectDir, other)
	assert.Error(t, err)
}
