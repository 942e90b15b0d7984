package swap

import (
	"io/fs"
	"path/filepath"
	"strings"
)

const (
	activeSuffix   = "rsenv_active"
	hostSeparator  = "@@"
	backupSuffix   = ".rsenv_original"
	disabledSuffix = ".rsenv-disabled"
)

// sentinelName renders the current on-disk sentinel form:
// <basename>@@<host>@@rsenv_active.
func sentinelName(base, host string) string {
	return base + hostSeparator + host + hostSeparator + activeSuffix
}

// parseSentinel extracts (basename, host) from a sentinel file name.
// Both the current `@@` form and the legacy `.<host>.rsenv_active` form
// are accepted; only the `@@` form is ever written.
func parseSentinel(name string) (base, host string, ok bool) {
	// Current form: base@@host@@rsenv_active
	if strings.HasSuffix(name, hostSeparator+activeSuffix) {
		rest := strings.TrimSuffix(name, hostSeparator+activeSuffix)
		if i := strings.LastIndex(rest, hostSeparator); i > 0 {
			return rest[:i], rest[i+len(hostSeparator):], true
		}
		return "", "", false
	}
	// Legacy form: base.host.rsenv_active
	if strings.HasSuffix(name, "."+activeSuffix) {
		rest := strings.TrimSuffix(name, "."+activeSuffix)
		if i := strings.LastIndex(rest, "."); i > 0 {
			return rest[:i], rest[i+1:], true
		}
	}
	return "", "", false
}

// findSentinel scans the directory holding the swap version of rel for a
// sentinel naming that file. At most one sentinel exists per file.
func (e *Engine) findSentinel(swapDir, rel string) (path, host string, ok bool) {
	dir := filepath.Dir(filepath.Join(swapDir, rel))
	base := filepath.Base(rel)

	entries, err := e.FS.ReadDir(dir)
	if err != nil {
		return "", "", false
	}
	for _, entry := range entries {
		b, h, isSentinel := parseSentinel(entry.Name())
		if isSentinel && b == base {
			return filepath.Join(dir, entry.Name()), h, true
		}
	}
	return "", "", false
}

// upgradeSentinel rewrites a legacy-form sentinel for rel to the `@@`
// form. Newer deployments only ever write the `@@` form, so this is the
// rename utility that migrates older vaults on first touch.
func (e *Engine) upgradeSentinel(swapDir, rel string) error {
	path, host, ok := e.findSentinel(swapDir, rel)
	if !ok {
		return nil
	}
	want := filepath.Join(filepath.Dir(path), sentinelName(filepath.Base(rel), host))
	if path == want {
		return nil
	}
	e.Log.Debugf("swap: upgrading legacy sentinel %s", path)
	return e.FS.Rename(path, want)
}

// anySentinels reports whether any rsenv_active sentinel remains
// anywhere under the vault swap tree.
func (e *Engine) anySentinels(swapDir string) bool {
	found := false
	_ = e.FS.WalkDir(swapDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if _, _, ok := parseSentinel(d.Name()); ok {
			found = true
			return fs.SkipAll
		}
		return nil
	})
	return found
}
