package workflows

import (
	"errors"

	rserrors "github.com/sysid/rsenv/internal/errors"
)

func isNotBound(err error) bool {
	return errors.Is(err, rserrors.ErrNotBound)
}
