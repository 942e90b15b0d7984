package fsx

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCopyFile_PreservesModeAndMtime(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "src.txt")
	dst := filepath.Join(tmpDir, "dst.txt")

	if err := os.WriteFile(src, []byte("payload"), 0o600); err != nil {
		t.Fatal(err)
	}
	srcInfo, err := os.Stat(src)
	if err != nil {
		t.Fatal(err)
	}

	if err := CopyFile(OS{}, src, dst); err != nil {
		t.Fatalf("CopyFile failed: %v", err)
	}

	dstInfo, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if dstInfo.Mode().Perm() != 0o600 {
		t.Errorf("Mode = %v, want 0600", dstInfo.Mode().Perm())
	}
	if !dstInfo.ModTime().Equal(srcInfo.ModTime()) {
		t.Errorf("ModTime not preserved: %v vs %v", dstInfo.ModTime(), srcInfo.ModTime())
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "payload" {
		t.Errorf("Content = %q", data)
	}
}

func TestMove_RenamesWithinFilesystem(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "a.txt")
	dst := filepath.Join(tmpDir, "b.txt")

	if err := os.WriteFile(src, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Move(OS{}, src, dst); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if _, err := os.Lstat(src); !os.IsNotExist(err) {
		t.Error("Source must be gone after move")
	}
	if _, err := os.Stat(dst); err != nil {
		t.Error("Destination must exist after move")
	}
}

func TestSymlinkRelative_ResolvesBack(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "deep", "target.txt")
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target, []byte("t"), 0o644); err != nil {
		t.Fatal(err)
	}

	link := filepath.Join(tmpDir, "link.txt")
	if err := SymlinkRelative(OS{}, target, link); err != nil {
		t.Fatalf("SymlinkRelative failed: %v", err)
	}

	// The stored target is relative.
	raw, err := os.Readlink(link)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.IsAbs(raw) {
		t.Errorf("Stored target should be relative, got %q", raw)
	}

	resolved, err := ResolveLink(OS{}, link)
	if err != nil {
		t.Fatalf("ResolveLink failed: %v", err)
	}
	expected, err := (OS{}).Canonicalize(target)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != expected {
		t.Errorf("ResolveLink = %q, want %q", resolved, expected)
	}
}

func TestExistsVariants(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "f.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	dangling := filepath.Join(tmpDir, "dangling")
	if err := os.Symlink(filepath.Join(tmpDir, "gone"), dangling); err != nil {
		t.Fatal(err)
	}

	if !Exists(OS{}, file) || !IsRegular(OS{}, file) {
		t.Error("Regular file checks failed")
	}
	if Exists(OS{}, dangling) {
		t.Error("Exists follows symlinks; dangling must not exist")
	}
	if !LExists(OS{}, dangling) {
		t.Error("LExists must see the dangling symlink")
	}
	if !IsSymlink(OS{}, dangling) {
		t.Error("IsSymlink failed")
	}
	if !IsDir(OS{}, tmpDir) {
		t.Error("IsDir failed")
	}
}
