package envgraph

import (
	"errors"
	"fmt"

	rserrors "github.com/sysid/rsenv/internal/errors"
	"github.com/sysid/rsenv/internal/vault"
)

// WriteEnvrc merges the hierarchy rooted at leaf and rewrites the vars
// block inside the managed section of the target .envrc. The target must
// be rsenv-managed; anything else is an error. Idempotent: two calls
// with the same leaf produce byte-identical output.
func (r *Resolver) WriteEnvrc(leaf, envrcPath string) error {
	bindings, err := r.Build(leaf)
	if err != nil {
		return err
	}

	sec, err := vault.ReadSection(r.FS, envrcPath)
	if err != nil {
		if errors.Is(err, rserrors.ErrMalformedSection) {
			return fmt.Errorf("%s: %w", envrcPath, rserrors.ErrUnmanagedTarget)
		}
		return err
	}

	vars := make([]string, 0, len(bindings))
	for _, b := range bindings {
		vars = append(vars, b.Render())
	}
	sec.SetVarsBlock(vars)

	return vault.WriteSection(r.FS, envrcPath, sec)
}
