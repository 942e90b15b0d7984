package envgraph

import (
	"sort"
	"strings"

	"github.com/sysid/rsenv/internal/fsx"
)

// Resolver builds merged environments from hierarchical env files.
type Resolver struct {
	FS fsx.FileSystem
}

func NewResolver(fs fsx.FileSystem) *Resolver {
	return &Resolver{FS: fs}
}

// Build merges the hierarchy rooted at leaf. Bindings are applied in
// linearisation order, so the final value of a variable is the one from
// the last node that defines it. The result is sorted by variable name.
func (r *Resolver) Build(leaf string) ([]Binding, error) {
	g := NewGraph(r.FS)
	canonical, err := g.Load(leaf)
	if err != nil {
		return nil, err
	}
	order, err := g.Linearize(canonical)
	if err != nil {
		return nil, err
	}

	merged := map[string]Binding{}
	for _, path := range order {
		for _, b := range g.Node(path).Bindings {
			merged[b.Name] = b
		}
	}

	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Binding, 0, len(names))
	for _, name := range names {
		out = append(out, merged[name])
	}
	return out, nil
}

// Render emits bindings as `export NAME=VALUE` lines, one per line.
func Render(bindings []Binding) string {
	var b strings.Builder
	for _, binding := range bindings {
		b.WriteString(binding.Render())
		b.WriteString("\n")
	}
	return b.String()
}

// Files returns the linearisation of the hierarchy rooted at leaf as
// canonical paths, in merge order.
func (r *Resolver) Files(leaf string) ([]string, error) {
	g := NewGraph(r.FS)
	canonical, err := g.Load(leaf)
	if err != nil {
		return nil, err
	}
	return g.Linearize(canonical)
}
