package configs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	rserrors "github.com/sysid/rsenv/internal/errors"
	"github.com/sysid/rsenv/internal/utils"
)

// SopsConfig configures the external SOPS wrapper.
type SopsConfig struct {
	GpgKey            string   `toml:"gpg_key,omitempty"`
	AgeKey            string   `toml:"age_key,omitempty"`
	FileExtensionsEnc []string `toml:"file_extensions_enc"`
	FileNamesEnc      []string `toml:"file_names_enc"`
	FileExtensionsDec []string `toml:"file_extensions_dec"`
	FileNamesDec      []string `toml:"file_names_dec"`
}

// Config is the effective rsenv configuration after layering.
type Config struct {
	VaultBaseDir string     `toml:"vault_base_dir"`
	Editor       string     `toml:"editor"`
	Sops         SopsConfig `toml:"sops"`
}

// Default returns the compiled-in defaults, the lowest precedence layer.
func Default() *Config {
	editor := os.Getenv("RSENV_EDITOR")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vim"
	}
	return &Config{
		VaultBaseDir: filepath.Join("~", ".rsenv", "vaults"),
		Editor:       editor,
		Sops: SopsConfig{
			FileExtensionsEnc: []string{"env", "envrc"},
			FileNamesEnc:      []string{},
			FileExtensionsDec: []string{"enc"},
			FileNamesDec:      []string{},
		},
	}
}

// GlobalConfigPath returns the path of the user-level config file,
// honoring XDG_CONFIG_HOME.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "rsenv", "rsenv.toml")
}

// VaultConfigPath returns the path of the vault-local config file.
func VaultConfigPath(vaultDir string) string {
	return filepath.Join(vaultDir, ".rsenv.toml")
}

// Load builds the effective configuration with precedence (low to high):
// compiled defaults, the global config file, the vault-local config file,
// environment variables. vaultDir may be empty when no vault is known yet.
func Load(vaultDir string) (*Config, error) {
	cfg := Default()

	if path := GlobalConfigPath(); path != "" {
		if err := overlayFile(cfg, path); err != nil {
			return nil, err
		}
	}
	if vaultDir != "" {
		if err := overlayFile(cfg, VaultConfigPath(vaultDir)); err != nil {
			return nil, err
		}
	}
	overlayEnv(cfg)

	expanded, err := utils.ExpandPath(cfg.VaultBaseDir)
	if err != nil {
		return nil, fmt.Errorf("%w: vault_base_dir: %v", rserrors.ErrInvalidConfig, err)
	}
	cfg.VaultBaseDir = expanded

	return cfg, nil
}

// overlayFile merges a TOML file into cfg if the file exists.
func overlayFile(cfg *Config, path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := LoadTOML(path, cfg); err != nil {
		return fmt.Errorf("%w: %s: %v", rserrors.ErrInvalidConfig, path, err)
	}
	return nil
}

// overlayEnv applies RSENV_* environment variables, the highest
// precedence layer. List values are comma-separated.
func overlayEnv(cfg *Config) {
	if v := os.Getenv("RSENV_VAULT_BASE_DIR"); v != "" {
		cfg.VaultBaseDir = v
	}
	if v := os.Getenv("RSENV_EDITOR"); v != "" {
		cfg.Editor = v
	}
	if v := os.Getenv("RSENV_SOPS_GPG_KEY"); v != "" {
		cfg.Sops.GpgKey = v
	}
	if v := os.Getenv("RSENV_SOPS_AGE_KEY"); v != "" {
		cfg.Sops.AgeKey = v
	}
	if v := os.Getenv("RSENV_SOPS_FILE_EXTENSIONS_ENC"); v != "" {
		cfg.Sops.FileExtensionsEnc = splitList(v)
	}
	if v := os.Getenv("RSENV_SOPS_FILE_NAMES_ENC"); v != "" {
		cfg.Sops.FileNamesEnc = splitList(v)
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
