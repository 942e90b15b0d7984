package envgraph

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	rserrors "github.com/sysid/rsenv/internal/errors"
	"github.com/sysid/rsenv/internal/fsx"
	"github.com/sysid/rsenv/internal/vault"
)

func managedEnvrc(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "dot.envrc")
	meta := &vault.Metadata{
		Relative: true, Version: 2, Sentinel: "cafe0123",
		Timestamp: "2024-01-01T00:00:00Z", SourceDir: dir,
	}
	writeTestFile(t, path, "# user content\n")
	if err := vault.InjectSection(fsx.OS{}, path, vault.RenderBody(meta, dir)); err != nil {
		t.Fatalf("InjectSection failed: %v", err)
	}
	return path
}

func TestWriteEnvrc_WritesVarsBlock(t *testing.T) {
	tmpDir := t.TempDir()
	leaf := filepath.Join(tmpDir, "leaf.env")
	writeTestFile(t, leaf, "export A=1\nexport B='two'\n")
	envrc := managedEnvrc(t, tmpDir)

	resolver := NewResolver(fsx.OS{})
	if err := resolver.WriteEnvrc(leaf, envrc); err != nil {
		t.Fatalf("WriteEnvrc failed: %v", err)
	}

	content := readFile(t, envrc)
	if !strings.Contains(content, "export A=1\nexport B='two'") {
		t.Errorf("Vars block missing:\n%s", content)
	}
	if !strings.Contains(content, "# user content") {
		t.Errorf("User content must survive:\n%s", content)
	}
}

func TestWriteEnvrc_Idempotent(t *testing.T) {
	tmpDir := t.TempDir()
	leaf := filepath.Join(tmpDir, "leaf.env")
	writeTestFile(t, leaf, "export A=1\n")
	envrc := managedEnvrc(t, tmpDir)

	resolver := NewResolver(fsx.OS{})
	if err := resolver.WriteEnvrc(leaf, envrc); err != nil {
		t.Fatalf("First WriteEnvrc failed: %v", err)
	}
	first := readFile(t, envrc)

	if err := resolver.WriteEnvrc(leaf, envrc); err != nil {
		t.Fatalf("Second WriteEnvrc failed: %v", err)
	}
	if second := readFile(t, envrc); second != first {
		t.Errorf("Two calls must be byte-identical:\n--- first\n%s\n--- second\n%s", first, second)
	}
}

func TestWriteEnvrc_ReplacesPriorBlock(t *testing.T) {
	tmpDir := t.TempDir()
	leafA := filepath.Join(tmpDir, "a.env")
	leafB := filepath.Join(tmpDir, "b.env")
	writeTestFile(t, leafA, "export FROM=a\n")
	writeTestFile(t, leafB, "export FROM=b\n")
	envrc := managedEnvrc(t, tmpDir)

	resolver := NewResolver(fsx.OS{})
	if err := resolver.WriteEnvrc(leafA, envrc); err != nil {
		t.Fatalf("WriteEnvrc a failed: %v", err)
	}
	if err := resolver.WriteEnvrc(leafB, envrc); err != nil {
		t.Fatalf("WriteEnvrc b failed: %v", err)
	}

	content := readFile(t, envrc)
	if strings.Contains(content, "export FROM=a") {
		t.Errorf("Prior block must be replaced:\n%s", content)
	}
	if !strings.Contains(content, "export FROM=b") {
		t.Errorf("New block missing:\n%s", content)
	}
}

func TestWriteEnvrc_UnmanagedTarget(t *testing.T) {
	tmpDir := t.TempDir()
	leaf := filepath.Join(tmpDir, "leaf.env")
	writeTestFile(t, leaf, "export A=1\n")
	plain := filepath.Join(tmpDir, ".envrc")
	writeTestFile(t, plain, "export PLAIN=1\n")

	resolver := NewResolver(fsx.OS{})
	err := resolver.WriteEnvrc(leaf, plain)
	if !errors.Is(err, rserrors.ErrUnmanagedTarget) {
		t.Errorf("Expected ErrUnmanagedTarget, got %v", err)
	}
	if readFile(t, plain) != "export PLAIN=1\n" {
		t.Errorf("Unmanaged target must not be touched")
	}
}
