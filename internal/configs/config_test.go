package configs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	t.Setenv("RSENV_EDITOR", "")
	t.Setenv("EDITOR", "nano")

	cfg := Default()
	if cfg.Editor != "nano" {
		t.Errorf("Expected EDITOR fallback, got %q", cfg.Editor)
	}
	if len(cfg.Sops.FileExtensionsEnc) == 0 {
		t.Error("Defaults must carry encryption extensions")
	}
	if len(cfg.Sops.FileExtensionsDec) != 1 || cfg.Sops.FileExtensionsDec[0] != "enc" {
		t.Errorf("Default decrypt extensions = %v", cfg.Sops.FileExtensionsDec)
	}
}

func TestLoad_GlobalFileOverridesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	clearRsenvEnv(t)

	configDir := filepath.Join(tmpDir, "rsenv")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := "vault_base_dir = \"/custom/vaults\"\neditor = \"emacs\"\n\n[sops]\nage_key = \"age1xyz\"\n"
	if err := os.WriteFile(filepath.Join(configDir, "rsenv.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.VaultBaseDir != "/custom/vaults" {
		t.Errorf("VaultBaseDir = %q", cfg.VaultBaseDir)
	}
	if cfg.Editor != "emacs" {
		t.Errorf("Editor = %q", cfg.Editor)
	}
	if cfg.Sops.AgeKey != "age1xyz" {
		t.Errorf("AgeKey = %q", cfg.Sops.AgeKey)
	}
}

func TestLoad_VaultLocalOverridesGlobal(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	clearRsenvEnv(t)

	configDir := filepath.Join(tmpDir, "rsenv")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatal(err)
	}
	global := "editor = \"emacs\"\n"
	if err := os.WriteFile(filepath.Join(configDir, "rsenv.toml"), []byte(global), 0o644); err != nil {
		t.Fatal(err)
	}

	vaultDir := filepath.Join(tmpDir, "vault")
	if err := os.MkdirAll(vaultDir, 0o755); err != nil {
		t.Fatal(err)
	}
	local := "editor = \"vi\"\n"
	if err := os.WriteFile(VaultConfigPath(vaultDir), []byte(local), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(vaultDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Editor != "vi" {
		t.Errorf("Vault-local config must win, got %q", cfg.Editor)
	}
}

func TestLoad_EnvOverridesFiles(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	clearRsenvEnv(t)

	configDir := filepath.Join(tmpDir, "rsenv")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatal(err)
	}
	global := "vault_base_dir = \"/from/file\"\n"
	if err := os.WriteFile(filepath.Join(configDir, "rsenv.toml"), []byte(global), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("RSENV_VAULT_BASE_DIR", "/from/env")
	t.Setenv("RSENV_SOPS_FILE_EXTENSIONS_ENC", "env, secret")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.VaultBaseDir != "/from/env" {
		t.Errorf("Environment must have highest precedence, got %q", cfg.VaultBaseDir)
	}
	if len(cfg.Sops.FileExtensionsEnc) != 2 || cfg.Sops.FileExtensionsEnc[1] != "secret" {
		t.Errorf("List env parsing failed: %v", cfg.Sops.FileExtensionsEnc)
	}
}

func TestLoad_TildeExpansion(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Setenv("HOME", tmpDir)
	clearRsenvEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := filepath.Join(tmpDir, ".rsenv", "vaults")
	if cfg.VaultBaseDir != want {
		t.Errorf("VaultBaseDir = %q, want %q", cfg.VaultBaseDir, want)
	}
}

func TestSaveLoadTOML_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "sub", "rsenv.toml")

	in := Default()
	in.Editor = "helix"
	in.Sops.GpgKey = "ABCDEF"

	if err := SaveTOML(path, in); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	out := &Config{}
	if err := LoadTOML(path, out); err != nil {
		t.Fatalf("LoadTOML failed: %v", err)
	}
	if out.Editor != "helix" || out.Sops.GpgKey != "ABCDEF" {
		t.Errorf("Round trip lost data: %+v", out)
	}
}

func clearRsenvEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"RSENV_VAULT_BASE_DIR", "RSENV_EDITOR",
		"RSENV_SOPS_GPG_KEY", "RSENV_SOPS_AGE_KEY",
		"RSENV_SOPS_FILE_EXTENSIONS_ENC", "RSENV_SOPS_FILE_NAMES_ENC",
	} {
		t.Setenv(key, "")
	}
}
