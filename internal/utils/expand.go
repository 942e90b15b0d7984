package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands $VAR, ${VAR} and a leading ~ in a path token.
// A leading ~user (another user's home directory) is rejected: resolving
// other users' homes is not supported.
func ExpandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		rest := path[1:]
		if rest != "" && rest[0] != '/' && rest[0] != '\\' {
			return "", fmt.Errorf("cannot expand %q: ~user syntax is not supported", path)
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot expand %q: %w", path, err)
		}
		path = filepath.Join(home, rest)
	}
	return os.ExpandEnv(path), nil
}

// ContractHome substitutes the user's home directory prefix of path with
// the literal $HOME, keeping persisted metadata portable across mounts.
func ContractHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == home {
		return "$HOME"
	}
	if strings.HasPrefix(path, home+string(filepath.Separator)) {
		return "$HOME" + path[len(home):]
	}
	return path
}
