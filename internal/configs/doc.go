// Package configs implements rsenv's layered configuration.
//
// Precedence (lowest to highest):
//
//  1. Compiled defaults
//  2. Global config: ~/.config/rsenv/rsenv.toml (XDG_CONFIG_HOME honored)
//  3. Vault-local config: <vault>/.rsenv.toml
//  4. Environment variables: RSENV_* prefix
//
// The config file is TOML with top-level keys vault_base_dir and editor
// plus a [sops] table. vault_base_dir supports ~ and $VAR expansion.
package configs
