package swap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysid/rsenv/internal/configs"
	rserrors "github.com/sysid/rsenv/internal/errors"
	"github.com/sysid/rsenv/internal/fsx"
	logger "github.com/sysid/rsenv/internal/logging"
	"github.com/sysid/rsenv/internal/vault"
)

func testSetup(t *testing.T) (*Engine, *vault.Binding) {
	t.Helper()
	base := t.TempDir()
	projectDir := filepath.Join(base, "proj")
	require.NoError(t, os.MkdirAll(projectDir, 0o755))

	cfg := configs.Default()
	cfg.VaultBaseDir = filepath.Join(base, "vaults")

	binder := vault.NewBinder(fsx.OS{}, cfg, logger.Logger{})
	binding, err := binder.Init(projectDir, vault.LinkRelative)
	require.NoError(t, err)

	engine := NewEngine(fsx.OS{}, logger.Logger{})
	engine.Host = "hosta"
	return engine, binding
}

func writeProject(t *testing.T, binding *vault.Binding, rel, content string) string {
	t.Helper()
	path := filepath.Join(binding.ProjectDir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func dotEnvrcHasMarker(t *testing.T, binding *vault.Binding) bool {
	t.Helper()
	sec, err := vault.ReadSection(fsx.OS{}, binding.Vault.DotEnvrc())
	require.NoError(t, err)
	return sec.HasSwappedMarker()
}

func TestSwap_InitInOut_RoundTrip(t *testing.T) {
	engine, binding := testSetup(t)
	original := "original content\n"
	projectFile := writeProject(t, binding, "app.yml", original)

	// init: project content seeds the alternate version.
	require.NoError(t, engine.Init(binding, "app.yml"))
	assert.NoFileExists(t, projectFile, "init moves the project file into the vault")

	vaultFile := filepath.Join(binding.Vault.SwapDir(), "app.yml")
	data, err := os.ReadFile(vaultFile)
	require.NoError(t, err)
	assert.Equal(t, original, string(data))

	// The user edits the alternate, then recreates a project original.
	require.NoError(t, os.WriteFile(vaultFile, []byte("alternate\n"), 0o644))
	writeProject(t, binding, "app.yml", original)

	// in: overlay the alternate.
	require.NoError(t, engine.In(binding, "app.yml", false))
	data, err = os.ReadFile(projectFile)
	require.NoError(t, err)
	assert.Equal(t, "alternate\n", string(data))
	assert.FileExists(t, vaultFile+".rsenv_original")
	assert.True(t, dotEnvrcHasMarker(t, binding))

	// Sentinel uses the @@ form.
	sentinel := filepath.Join(binding.Vault.SwapDir(), "app.yml@@hosta@@rsenv_active")
	assert.FileExists(t, sentinel)

	// The user edits the overlay during the session.
	require.NoError(t, os.WriteFile(projectFile, []byte("alternate edited\n"), 0o644))

	// out: the original returns byte-for-byte; edits land in the vault.
	require.NoError(t, engine.Out(binding, "app.yml"))
	data, err = os.ReadFile(projectFile)
	require.NoError(t, err)
	assert.Equal(t, original, string(data))

	data, err = os.ReadFile(vaultFile)
	require.NoError(t, err)
	assert.Equal(t, "alternate edited\n", string(data))

	assert.NoFileExists(t, sentinel)
	assert.NoFileExists(t, vaultFile+".rsenv_original")
	assert.False(t, dotEnvrcHasMarker(t, binding))
}

func TestSwapInit_RefusesExistingVaultVersion(t *testing.T) {
	engine, binding := testSetup(t)
	writeProject(t, binding, "app.yml", "one\n")
	require.NoError(t, engine.Init(binding, "app.yml"))

	writeProject(t, binding, "app.yml", "two\n")
	err := engine.Init(binding, "app.yml")
	assert.ErrorIs(t, err, rserrors.ErrSwapExists)
}

func TestSwapIn_MultiHostRefusal(t *testing.T) {
	engine, binding := testSetup(t)
	writeProject(t, binding, "app.yml", "original\n")
	require.NoError(t, engine.Init(binding, "app.yml"))
	writeProject(t, binding, "app.yml", "original\n")

	// hostx swapped in first.
	hostx := NewEngine(fsx.OS{}, logger.Logger{})
	hostx.Host = "hostx"
	require.NoError(t, hostx.In(binding, "app.yml", false))

	// hosty without --force: refuse, filesystem unchanged.
	hosty := NewEngine(fsx.OS{}, logger.Logger{})
	hosty.Host = "hosty"
	err := hosty.In(binding, "app.yml", false)
	assert.ErrorIs(t, err, rserrors.ErrSwapConflict)
	assert.FileExists(t, filepath.Join(binding.Vault.SwapDir(), "app.yml@@hostx@@rsenv_active"))

	// With --force: proceeds, sentinel now names hosty.
	require.NoError(t, hosty.In(binding, "app.yml", true))
	assert.NoFileExists(t, filepath.Join(binding.Vault.SwapDir(), "app.yml@@hostx@@rsenv_active"))
	assert.FileExists(t, filepath.Join(binding.Vault.SwapDir(), "app.yml@@hosty@@rsenv_active"))
}

func TestSwapOut_RefusesOtherHost(t *testing.T) {
	engine, binding := testSetup(t)
	writeProject(t, binding, "app.yml", "original\n")
	require.NoError(t, engine.Init(binding, "app.yml"))
	writeProject(t, binding, "app.yml", "original\n")
	require.NoError(t, engine.In(binding, "app.yml", false))

	other := NewEngine(fsx.OS{}, logger.Logger{})
	other.Host = "hostb"
	err := other.Out(binding, "app.yml")
	assert.ErrorIs(t, err, rserrors.ErrSwapConflict)
}

func TestSwap_LegacySentinelAccepted(t *testing.T) {
	engine, binding := testSetup(t)
	writeProject(t, binding, "app.yml", "original\n")
	require.NoError(t, engine.Init(binding, "app.yml"))
	writeProject(t, binding, "app.yml", "original\n")
	require.NoError(t, engine.In(binding, "app.yml", false))

	// Downgrade the sentinel to the legacy dot form.
	swapDir := binding.Vault.SwapDir()
	require.NoError(t, os.Rename(
		filepath.Join(swapDir, "app.yml@@hosta@@rsenv_active"),
		filepath.Join(swapDir, "app.yml.hosta.rsenv_active")))

	statuses, err := engine.StatusAll(binding)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, StateIn, statuses[0].State)
	assert.Equal(t, "hosta", statuses[0].Host)

	// The next transition reads the legacy form and clears it.
	require.NoError(t, engine.Out(binding, "app.yml"))
	assert.NoFileExists(t, filepath.Join(swapDir, "app.yml.hosta.rsenv_active"))
	entries, err := os.ReadDir(swapDir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), "rsenv_active")
	}
}

func TestSwapDelete_AllOrNothing(t *testing.T) {
	engine, binding := testSetup(t)
	writeProject(t, binding, "a.yml", "a\n")
	writeProject(t, binding, "b.yml", "b\n")
	require.NoError(t, engine.Init(binding, "a.yml"))
	require.NoError(t, engine.Init(binding, "b.yml"))

	writeProject(t, binding, "b.yml", "b\n")
	require.NoError(t, engine.In(binding, "b.yml", false))

	// b is IN, so the whole batch must refuse and touch nothing.
	err := engine.Delete(binding, []string{"a.yml", "b.yml"})
	assert.ErrorIs(t, err, rserrors.ErrSwapActive)
	assert.FileExists(t, filepath.Join(binding.Vault.SwapDir(), "a.yml"))

	require.NoError(t, engine.Out(binding, "b.yml"))
	require.NoError(t, engine.Delete(binding, []string{"a.yml", "b.yml"}))
	assert.NoFileExists(t, filepath.Join(binding.Vault.SwapDir(), "a.yml"))
	assert.NoFileExists(t, filepath.Join(binding.Vault.SwapDir(), "b.yml"))
}

func TestSwapStatus_States(t *testing.T) {
	engine, binding := testSetup(t)
	writeProject(t, binding, "out.yml", "o\n")
	writeProject(t, binding, "in.yml", "i\n")
	require.NoError(t, engine.Init(binding, "out.yml"))
	require.NoError(t, engine.Init(binding, "in.yml"))
	writeProject(t, binding, "in.yml", "i\n")
	require.NoError(t, engine.In(binding, "in.yml", false))

	statuses, err := engine.StatusAll(binding)
	require.NoError(t, err)
	require.Len(t, statuses, 2)

	byRel := map[string]Status{}
	for _, s := range statuses {
		byRel[s.Rel] = s
	}
	assert.Equal(t, StateIn, byRel["in.yml"].State)
	assert.Equal(t, "hosta", byRel["in.yml"].Host)
	assert.Equal(t, StateOut, byRel["out.yml"].State)
}

func TestSwapIn_MissingProjectFile(t *testing.T) {
	engine, binding := testSetup(t)
	writeProject(t, binding, "app.yml", "seed\n")
	require.NoError(t, engine.Init(binding, "app.yml"))

	// No project file: swap in overlays anyway, swap out removes it again.
	require.NoError(t, engine.In(binding, "app.yml", false))
	assert.FileExists(t, filepath.Join(binding.ProjectDir, "app.yml"))

	require.NoError(t, engine.Out(binding, "app.yml"))
	assert.NoFileExists(t, filepath.Join(binding.ProjectDir, "app.yml"))
}

func TestSwapIn_GitignoreNeutralization(t *testing.T) {
	engine, binding := testSetup(t)
	writeProject(t, binding, ".gitignore", "*.log\n")
	require.NoError(t, engine.Init(binding, ".gitignore"))

	// Init keeps the vault copy neutralized.
	swapDir := binding.Vault.SwapDir()
	assert.NoFileExists(t, filepath.Join(swapDir, ".gitignore"))
	assert.FileExists(t, filepath.Join(swapDir, ".gitignore.rsenv-disabled"))

	writeProject(t, binding, ".gitignore", "*.tmp\n")
	require.NoError(t, engine.In(binding, ".gitignore", false))

	data, err := os.ReadFile(filepath.Join(binding.ProjectDir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, "*.log\n", string(data))

	require.NoError(t, engine.Out(binding, ".gitignore"))
	data, err = os.ReadFile(filepath.Join(binding.ProjectDir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, "*.tmp\n", string(data))
	assert.FileExists(t, filepath.Join(swapDir, ".gitignore.rsenv-disabled"))
}

func TestMarkerInvariant_MultipleFiles(t *testing.T) {
	engine, binding := testSetup(t)
	for _, rel := range []string{"a.yml", "b.yml"} {
		writeProject(t, binding, rel, rel+"\n")
		require.NoError(t, engine.Init(binding, rel))
		writeProject(t, binding, rel, rel+"\n")
		require.NoError(t, engine.In(binding, rel, false))
	}
	assert.True(t, dotEnvrcHasMarker(t, binding))

	require.NoError(t, engine.Out(binding, "a.yml"))
	assert.True(t, dotEnvrcHasMarker(t, binding), "marker stays while any sentinel exists")

	require.NoError(t, engine.Out(binding, "b.yml"))
	assert.False(t, dotEnvrcHasMarker(t, binding))
}

func TestParseSentinel(t *testing.T) {
	cases := []struct {
		name, base, host string
		ok               bool
	}{
		{"app.yml@@hostx@@rsenv_active", "app.yml", "hostx", true},
		{"app.yml.hostx.rsenv_active", "app.yml", "hostx", true},
		{"app.yml", "", "", false},
		{"app.yml.rsenv_original", "", "", false},
	}
	for _, c := range cases {
		base, host, ok := parseSentinel(c.name)
		if ok != c.ok || base != c.base || host != c.host {
			t.Errorf("parseSentinel(%q) = (%q, %q, %v), want (%q, %q, %v)",
				c.name, base, host, ok, c.base, c.host, c.ok)
		}
	}
}
