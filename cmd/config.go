package cmd

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sysid/rsenv/internal/configs"
	"github.com/sysid/rsenv/internal/ui"
)

var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and initialize the layered configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration after layering",
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultDir := ""
		if binding, err := discoverBinding(); err == nil {
			vaultDir = binding.Vault.Path
		}
		cfg, err := configs.Load(vaultDir)
		if err != nil {
			return Logger.ErrorfAndReturn("loading config failed: %v", err)
		}
		return toml.NewEncoder(os.Stdout).Encode(cfg)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default global config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configs.GlobalConfigPath()
		if path == "" {
			return Logger.ErrorfAndReturn("cannot determine config directory")
		}
		if _, err := os.Stat(path); err == nil {
			return Logger.ErrorfAndReturn("config already exists at %s", path)
		}
		if err := configs.SaveTOML(path, configs.Default()); err != nil {
			return Logger.ErrorfAndReturn("writing config failed: %v", err)
		}
		fmt.Println(color.GreenString("✓") + " Wrote " + ui.Path.Sprint(path))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file locations by precedence",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(configs.GlobalConfigPath())
		if binding, err := discoverBinding(); err == nil {
			fmt.Println(configs.VaultConfigPath(binding.Vault.Path))
		}
		return nil
	},
}

func init() {
	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configPathCmd)
}
