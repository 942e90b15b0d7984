package envgraph

import (
	"fmt"
	"path/filepath"

	rserrors "github.com/sysid/rsenv/internal/errors"
	"github.com/sysid/rsenv/internal/fsx"
)

// Graph is a DAG over env nodes keyed by canonical path. Edges point
// from child to parent.
type Graph struct {
	fs    fsx.FileSystem
	nodes map[string]*File
}

// NewGraph returns an empty graph over the given filesystem.
func NewGraph(fs fsx.FileSystem) *Graph {
	return &Graph{fs: fs, nodes: make(map[string]*File)}
}

// Node returns the loaded node for a canonical path, if present.
func (g *Graph) Node(path string) *File { return g.nodes[path] }

// Load reads the file at path (and, transitively, every parent it
// names) into the graph and returns its canonical path. Files already
// loaded are not re-read.
func (g *Graph) Load(path string) (string, error) {
	canonical, err := g.fs.Canonicalize(path)
	if err != nil {
		return "", fmt.Errorf("env file not found: %s: %w", path, err)
	}

	queue := []string{canonical}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if _, ok := g.nodes[current]; ok {
			continue
		}

		data, err := g.fs.ReadFile(current)
		if err != nil {
			return "", fmt.Errorf("read env file %s: %w", current, err)
		}
		node, err := ParseFile(g.fs, current, string(data))
		if err != nil {
			return "", err
		}
		g.nodes[current] = node
		queue = append(queue, node.Parents...)
	}

	return canonical, nil
}

// Linearize computes the deterministic merge order for the DAG rooted at
// leaf: a post-order traversal emitting each node's parents (in directive
// order) before the node itself, deduplicated by keeping the last
// occurrence of each node. A cycle is rejected with the offending edge.
func (g *Graph) Linearize(leaf string) ([]string, error) {
	var sequence []string
	onStack := map[string]bool{}

	var visit func(path string) error
	visit = func(path string) error {
		node, ok := g.nodes[path]
		if !ok {
			return fmt.Errorf("%w: %s", rserrors.ErrParentNotFound, path)
		}
		onStack[path] = true
		for _, parent := range node.Parents {
			if onStack[parent] {
				return fmt.Errorf("%w: %s -> %s", rserrors.ErrCycleDetected,
					filepath.Base(path), filepath.Base(parent))
			}
			if err := visit(parent); err != nil {
				return err
			}
		}
		onStack[path] = false
		sequence = append(sequence, path)
		return nil
	}

	if err := visit(leaf); err != nil {
		return nil, err
	}

	// Keep the last occurrence of each node.
	last := map[string]int{}
	for i, p := range sequence {
		last[p] = i
	}
	order := make([]string, 0, len(last))
	for i, p := range sequence {
		if last[p] == i {
			order = append(order, p)
		}
	}
	return order, nil
}

// Ancestors returns the set of nodes reachable from path via parent
// edges, excluding path itself. Used to refuse link operations that
// would introduce a cycle.
func (g *Graph) Ancestors(path string) map[string]bool {
	seen := map[string]bool{}
	queue := []string{path}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		node, ok := g.nodes[current]
		if !ok {
			continue
		}
		for _, parent := range node.Parents {
			if !seen[parent] {
				seen[parent] = true
				queue = append(queue, parent)
			}
		}
	}
	delete(seen, path)
	return seen
}
