package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sysid/rsenv/internal/configs"
	"github.com/sysid/rsenv/internal/sops"
)

var SopsCmd = &cobra.Command{
	Use:   "sops",
	Short: "Encrypt and decrypt vault files via the external sops tool",
}

// sopsTarget resolves the directory a sops command operates on: the
// explicit argument, or the bound vault root. isVaultRoot reports
// whether dir is the vault root, which gates the .gitignore block.
func sopsTarget(args []string) (wrapper *sops.Wrapper, dir string, isVaultRoot bool, err error) {
	binding, bindErr := discoverBinding()

	if len(args) > 0 {
		dir = args[0]
		if binding != nil {
			if canonical, cErr := FS.Canonicalize(dir); cErr == nil {
				isVaultRoot = canonical == binding.Vault.Path
			}
		}
	} else {
		if bindErr != nil {
			return nil, "", false, bindErr
		}
		dir = binding.Vault.Path
		isVaultRoot = true
	}

	var cfg *configs.Config
	if binding != nil {
		cfg, err = loadVaultConfig(binding)
	} else {
		cfg, err = configs.Load("")
	}
	if err != nil {
		return nil, "", false, err
	}

	return sops.NewWrapper(FS, sops.ExecRunner{}, cfg, Logger), dir, isVaultRoot, nil
}

func init() {
	SopsCmd.AddCommand(sopsEncryptCmd)
	SopsCmd.AddCommand(sopsDecryptCmd)
	SopsCmd.AddCommand(sopsCleanCmd)
	SopsCmd.AddCommand(sopsStatusCmd)
}
