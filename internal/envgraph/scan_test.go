package envgraph

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/sysid/rsenv/internal/fsx"
)

func scanForest(t *testing.T) (*Forest, string) {
	t.Helper()
	tmpDir := t.TempDir()
	writeTestFile(t, filepath.Join(tmpDir, "root.env"), "export A=1\n")
	writeTestFile(t, filepath.Join(tmpDir, "mid.env"), "# rsenv: root.env\n")
	writeTestFile(t, filepath.Join(tmpDir, "leaf.env"), "# rsenv: mid.env\n")
	writeTestFile(t, filepath.Join(tmpDir, "standalone.env"), "export S=1\n")

	resolver := NewResolver(fsx.OS{})
	forest, err := resolver.Scan(tmpDir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	return forest, tmpDir
}

func TestScan_RootsAndLeaves(t *testing.T) {
	forest, _ := scanForest(t)

	var roots []string
	for _, r := range forest.Roots {
		roots = append(roots, filepath.Base(r))
	}
	if strings.Join(roots, " ") != "root.env standalone.env" {
		t.Errorf("Roots = %v", roots)
	}

	leaves := forest.Leaves()
	if strings.Join(leaves, " ") != "leaf.env standalone.env" {
		t.Errorf("Leaves = %v", leaves)
	}
}

func TestScan_Tree(t *testing.T) {
	forest, _ := scanForest(t)
	tree := forest.Tree()

	for _, want := range []string{"root.env", "└── mid.env", "    └── leaf.env", "standalone.env"} {
		if !strings.Contains(tree, want) {
			t.Errorf("Tree missing %q:\n%s", want, tree)
		}
	}
}

func TestScan_Branches(t *testing.T) {
	forest, _ := scanForest(t)
	branches := forest.Branches()

	if len(branches) != 2 {
		t.Fatalf("Expected 2 branches, got %v", branches)
	}
	found := false
	for _, b := range branches {
		if b == "root.env <- mid.env <- leaf.env" {
			found = true
		}
	}
	if !found {
		t.Errorf("Missing root-to-leaf chain: %v", branches)
	}
}

func TestScan_UnreadableFileReportedInline(t *testing.T) {
	tmpDir := t.TempDir()
	writeTestFile(t, filepath.Join(tmpDir, "good.env"), "export A=1\n")
	// Malformed file: reported, but the traversal continues.
	writeTestFile(t, filepath.Join(tmpDir, "bad.env"), "export A=\"unterminated\n")

	resolver := NewResolver(fsx.OS{})
	forest, err := resolver.Scan(tmpDir)
	if err != nil {
		t.Fatalf("Scan must survive bad files: %v", err)
	}
	if len(forest.Problems) != 1 {
		t.Errorf("Expected 1 problem, got %v", forest.Problems)
	}
	if len(forest.Nodes) != 1 {
		t.Errorf("Good file still scanned, got %d nodes", len(forest.Nodes))
	}
}
