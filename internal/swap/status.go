package swap

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sysid/rsenv/internal/fsx"
	"github.com/sysid/rsenv/internal/vault"
)

// StatusAll enumerates every swap record reachable from the vault and
// reports OUT, or IN with the hostname from the sentinel.
func (e *Engine) StatusAll(binding *vault.Binding) ([]Status, error) {
	swapDir := binding.Vault.SwapDir()
	if !fsx.IsDir(e.FS, swapDir) {
		return nil, nil
	}

	seen := map[string]Status{}

	err := e.FS.WalkDir(swapDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		name := d.Name()
		dir := filepath.Dir(path)

		if base, host, ok := parseSentinel(name); ok {
			rel := relOf(swapDir, filepath.Join(dir, base))
			seen[rel] = Status{Rel: rel, State: StateIn, Host: host}
			return nil
		}
		if strings.HasSuffix(name, backupSuffix) {
			// The backup implies a record; state comes from the sentinel.
			rel := relOf(swapDir, filepath.Join(dir, strings.TrimSuffix(name, backupSuffix)))
			if _, ok := seen[rel]; !ok {
				seen[rel] = Status{Rel: rel, State: StateOut}
			}
			return nil
		}
		if strings.HasSuffix(name, disabledSuffix) {
			name = strings.TrimSuffix(name, disabledSuffix)
		}
		rel := relOf(swapDir, filepath.Join(dir, name))
		if _, ok := seen[rel]; !ok {
			seen[rel] = Status{Rel: rel, State: StateOut}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]Status, 0, len(seen))
	for _, s := range seen {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rel < out[j].Rel })
	return out, nil
}

func relOf(swapDir, path string) string {
	rel, err := filepath.Rel(swapDir, path)
	if err != nil {
		return path
	}
	return rel
}

// AllOutReport summarizes one project processed by AllOut.
type AllOutReport struct {
	ProjectDir string
	SwappedOut []string
	Err        error
}

// AllOut walks base for bound projects and swaps out every file
// currently IN on this host. Per-project failures are reported but do
// not stop the traversal.
func (e *Engine) AllOut(binder *vault.Binder, base string) ([]AllOutReport, error) {
	baseDir, err := e.FS.Canonicalize(base)
	if err != nil {
		return nil, fmt.Errorf("directory not found: %s: %w", base, err)
	}

	var reports []AllOutReport
	err = e.FS.WalkDir(baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Name() != ".envrc" || d.Type()&fs.ModeSymlink == 0 {
			return nil
		}
		projectDir := filepath.Dir(path)

		binding, err := binder.Discover(projectDir)
		if err != nil {
			reports = append(reports, AllOutReport{ProjectDir: projectDir, Err: err})
			return nil
		}

		statuses, err := e.StatusAll(binding)
		if err != nil {
			reports = append(reports, AllOutReport{ProjectDir: projectDir, Err: err})
			return nil
		}

		report := AllOutReport{ProjectDir: projectDir}
		for _, s := range statuses {
			if s.State != StateIn || s.Host != e.Host {
				continue
			}
			if err := e.Out(binding, s.Rel); err != nil {
				report.Err = err
				break
			}
			report.SwappedOut = append(report.SwappedOut, s.Rel)
		}
		if len(report.SwappedOut) > 0 || report.Err != nil {
			reports = append(reports, report)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reports, nil
}

// ActiveSentinels lists records currently IN, on any host.
func (e *Engine) ActiveSentinels(binding *vault.Binding) ([]Status, error) {
	statuses, err := e.StatusAll(binding)
	if err != nil {
		return nil, err
	}
	var active []Status
	for _, s := range statuses {
		if s.State == StateIn {
			active = append(active, s)
		}
	}
	return active, nil
}
