package envgraph

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Forest is the set of env nodes reachable under a directory, with the
// parent edges inverted into child lists for rendering.
type Forest struct {
	// Dir is the canonical scanned directory.
	Dir string
	// Nodes keyed by canonical path.
	Nodes map[string]*File
	// Children maps a parent to its children, each sorted by path.
	Children map[string][]string
	// Roots are nodes whose parents are absent or outside the scan.
	Roots []string
	// Problems collects unreadable or unparsable files; the traversal
	// continues past them.
	Problems []string
}

// Scan walks dir for .env files and builds the forest.
func (r *Resolver) Scan(dir string) (*Forest, error) {
	canonicalDir, err := r.FS.Canonicalize(dir)
	if err != nil {
		return nil, fmt.Errorf("directory not found: %s: %w", dir, err)
	}

	forest := &Forest{
		Dir:      canonicalDir,
		Nodes:    map[string]*File{},
		Children: map[string][]string{},
	}

	err = r.FS.WalkDir(canonicalDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			forest.Problems = append(forest.Problems, fmt.Sprintf("%s: %v", path, err))
			return nil
		}
		if d.IsDir() || filepath.Ext(path) != ".env" {
			return nil
		}
		canonical, err := r.FS.Canonicalize(path)
		if err != nil {
			forest.Problems = append(forest.Problems, fmt.Sprintf("%s: %v", path, err))
			return nil
		}
		if _, ok := forest.Nodes[canonical]; ok {
			return nil
		}
		data, err := r.FS.ReadFile(canonical)
		if err != nil {
			forest.Problems = append(forest.Problems, fmt.Sprintf("%s: %v", canonical, err))
			return nil
		}
		node, err := ParseFile(r.FS, canonical, string(data))
		if err != nil {
			forest.Problems = append(forest.Problems, err.Error())
			return nil
		}
		forest.Nodes[canonical] = node
		return nil
	})
	if err != nil {
		return nil, err
	}

	for path, node := range forest.Nodes {
		for _, parent := range node.Parents {
			forest.Children[parent] = append(forest.Children[parent], path)
		}
	}
	for parent := range forest.Children {
		sort.Strings(forest.Children[parent])
	}

	for path, node := range forest.Nodes {
		isRoot := true
		for _, parent := range node.Parents {
			if _, ok := forest.Nodes[parent]; ok {
				isRoot = false
				break
			}
		}
		if isRoot {
			forest.Roots = append(forest.Roots, path)
		}
	}
	sort.Strings(forest.Roots)

	return forest, nil
}

// rel renders a node path relative to the scanned directory.
func (f *Forest) rel(path string) string {
	rel, err := filepath.Rel(f.Dir, path)
	if err != nil {
		return path
	}
	return rel
}

// Tree renders the forest as an ASCII tree, one block per root.
func (f *Forest) Tree() string {
	var b strings.Builder
	for _, root := range f.Roots {
		b.WriteString(f.rel(root))
		b.WriteString("\n")
		f.renderChildren(&b, root, "", map[string]bool{root: true})
	}
	return b.String()
}

func (f *Forest) renderChildren(b *strings.Builder, parent, prefix string, onPath map[string]bool) {
	children := f.Children[parent]
	for i, child := range children {
		connector, childPrefix := "├── ", prefix+"│   "
		if i == len(children)-1 {
			connector, childPrefix = "└── ", prefix+"    "
		}
		b.WriteString(prefix + connector + f.rel(child))
		if onPath[child] {
			// A cycle would recurse forever; mark and stop this branch.
			b.WriteString(" (cycle)\n")
			continue
		}
		b.WriteString("\n")
		onPath[child] = true
		f.renderChildren(b, child, childPrefix, onPath)
		delete(onPath, child)
	}
}

// Branches enumerates every root-to-leaf path, rendered root first.
func (f *Forest) Branches() []string {
	var out []string
	for _, root := range f.Roots {
		f.walkBranch(root, []string{f.rel(root)}, map[string]bool{root: true}, &out)
	}
	return out
}

func (f *Forest) walkBranch(node string, path []string, onPath map[string]bool, out *[]string) {
	children := f.Children[node]
	if len(children) == 0 {
		*out = append(*out, strings.Join(path, " <- "))
		return
	}
	for _, child := range children {
		if onPath[child] {
			continue
		}
		onPath[child] = true
		f.walkBranch(child, append(path, f.rel(child)), onPath, out)
		delete(onPath, child)
	}
}

// Leaves lists files reachable in the scan that no other scanned file
// names as a parent.
func (f *Forest) Leaves() []string {
	var leaves []string
	for path := range f.Nodes {
		if len(f.Children[path]) == 0 {
			leaves = append(leaves, f.rel(path))
		}
	}
	sort.Strings(leaves)
	return leaves
}
