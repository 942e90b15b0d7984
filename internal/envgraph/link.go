package envgraph

import (
	"fmt"
	"path/filepath"
	"strings"

	rserrors "github.com/sysid/rsenv/internal/errors"
)

// Link chains files so each one names its predecessor as parent:
// files[1] gets a directive for files[0], files[2] for files[1], and so
// on. A directive is appended only when the child does not already name
// that parent. Refuses chains that would introduce a cycle.
func (r *Resolver) Link(files []string) error {
	if len(files) < 2 {
		return fmt.Errorf("link needs at least two files")
	}

	canonical := make([]string, len(files))
	for i, f := range files {
		c, err := r.FS.Canonicalize(f)
		if err != nil {
			return fmt.Errorf("env file not found: %s: %w", f, err)
		}
		canonical[i] = c
	}

	for i := 1; i < len(canonical); i++ {
		if err := r.linkOne(canonical[i-1], canonical[i]); err != nil {
			return err
		}
	}
	return nil
}

// linkOne appends a parent directive for parent to child.
func (r *Resolver) linkOne(parent, child string) error {
	if parent == child {
		return fmt.Errorf("%w: %s -> %s", rserrors.ErrCycleDetected,
			filepath.Base(child), filepath.Base(parent))
	}

	// Refuse when the child is already an ancestor of the parent.
	g := NewGraph(r.FS)
	if _, err := g.Load(parent); err != nil {
		return err
	}
	if g.Ancestors(parent)[child] {
		return fmt.Errorf("%w: %s -> %s", rserrors.ErrCycleDetected,
			filepath.Base(child), filepath.Base(parent))
	}

	data, err := r.FS.ReadFile(child)
	if err != nil {
		return fmt.Errorf("read %s: %w", child, err)
	}
	node, err := ParseFile(r.FS, child, string(data))
	if err != nil {
		return err
	}
	for _, p := range node.Parents {
		if p == parent {
			return nil // already linked
		}
	}

	rel, err := filepath.Rel(filepath.Dir(child), parent)
	if err != nil {
		rel = parent
	}

	content := string(data)
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += fmt.Sprintf("# rsenv: %s\n", rel)

	if err := r.FS.WriteFile(child, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", child, err)
	}
	return nil
}

// Unlink removes every rsenv directive line from a file.
func (r *Resolver) Unlink(file string) error {
	canonical, err := r.FS.Canonicalize(file)
	if err != nil {
		return fmt.Errorf("env file not found: %s: %w", file, err)
	}
	data, err := r.FS.ReadFile(canonical)
	if err != nil {
		return fmt.Errorf("read %s: %w", canonical, err)
	}

	lines := strings.Split(string(data), "\n")
	kept := lines[:0]
	removed := false
	for _, line := range lines {
		if _, ok := IsDirective(line); ok {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	if !removed {
		return nil
	}

	return r.FS.WriteFile(canonical, []byte(strings.Join(kept, "\n")), 0o644)
}
