package sops

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sysid/rsenv/internal/fsx"
)

// Fences delimiting the managed block inside the vault's .gitignore.
const (
	GitignoreStartFence = "# ---- rsenv-sops-start ----"
	GitignoreEndFence   = "# ---- rsenv-sops-end ----"
)

// SyncGitignore rewrites the managed block of <dir>/.gitignore with one
// pattern per configured extension and filename, so plaintext candidates
// never reach version control. The block is removed when no candidates
// remain in dir. Idempotent.
func (w *Wrapper) SyncGitignore(dir string) error {
	plain, _, err := w.collect(dir)
	if err != nil {
		return err
	}

	var patterns []string
	if len(plain) > 0 {
		set := map[string]bool{}
		for _, ext := range w.Config.Sops.FileExtensionsEnc {
			set["*."+ext] = true
		}
		for _, name := range w.Config.Sops.FileNamesEnc {
			set[name] = true
		}
		for p := range set {
			patterns = append(patterns, p)
		}
		sort.Strings(patterns)
	}

	gitignorePath := filepath.Join(dir, ".gitignore")

	var existing string
	if data, err := w.FS.ReadFile(gitignorePath); err == nil {
		existing = string(data)
	}

	updated := replaceGitignoreBlock(existing, patterns)
	if updated == existing {
		return nil
	}
	if updated == "" {
		if fsx.LExists(w.FS, gitignorePath) {
			return w.FS.Remove(gitignorePath)
		}
		return nil
	}
	if err := w.FS.WriteFile(gitignorePath, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", gitignorePath, err)
	}
	return nil
}

// replaceGitignoreBlock splices the managed block into content. An empty
// pattern list removes the block.
func replaceGitignoreBlock(content string, patterns []string) string {
	var before, after []string
	inBlock := false
	sawBlock := false

	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	if content == "" {
		lines = nil
	}
	for _, line := range lines {
		switch {
		case line == GitignoreStartFence:
			inBlock = true
			sawBlock = true
		case line == GitignoreEndFence:
			inBlock = false
		case !inBlock && !sawBlock:
			before = append(before, line)
		case !inBlock:
			after = append(after, line)
		}
	}

	var out []string
	out = append(out, before...)
	if len(patterns) > 0 {
		out = append(out, GitignoreStartFence)
		out = append(out, patterns...)
		out = append(out, GitignoreEndFence)
	}
	out = append(out, after...)

	// Drop stray blank lines left at the edges by block removal.
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return ""
	}
	return strings.Join(out, "\n") + "\n"
}
