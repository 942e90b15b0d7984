package vault

import (
	"path/filepath"
	"strings"
)

const dotPrefix = "dot."

// NeutralizeName renames a dot-file basename so it has no effect inside
// the vault: ".gitignore" becomes "dot.gitignore". Regular names, "." and
// "..", and already-neutralized names are unchanged.
func NeutralizeName(name string) string {
	if name == "." || name == ".." {
		return name
	}
	if strings.HasPrefix(name, dotPrefix) {
		return name
	}
	if strings.HasPrefix(name, ".") && len(name) > 1 {
		return "dot" + name
	}
	return name
}

// RestoreName inverts NeutralizeName: "dot.gitignore" becomes ".gitignore".
func RestoreName(name string) string {
	if strings.HasPrefix(name, dotPrefix) && len(name) > len(dotPrefix) {
		return "." + name[len(dotPrefix):]
	}
	return name
}

// NeutralizePath applies the dotfile rule to the final component of a
// relative path. Directory components keep their names.
func NeutralizePath(rel string) string {
	dir, base := filepath.Split(rel)
	return dir + NeutralizeName(base)
}

// RestorePath inverts NeutralizePath.
func RestorePath(rel string) string {
	dir, base := filepath.Split(rel)
	return dir + RestoreName(base)
}
