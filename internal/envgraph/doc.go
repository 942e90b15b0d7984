// Package envgraph resolves hierarchical env files.
//
// An env file may name parent files with `# rsenv:` directive lines; the
// parents form a directed acyclic graph, multi-parent allowed. Building
// an environment linearises the DAG rooted at a leaf (post-order,
// parents in directive order, last occurrence of each node kept) and
// applies `export NAME=VALUE` bindings in that order, so the last writer
// wins in a precisely defined way.
//
// Nodes are plain records keyed by canonical path in a map, with parent
// lists holding canonical paths; no cyclic ownership.
package envgraph
