package utils

import (
	"path/filepath"
	"testing"
)

func TestExpandPath_Tilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/projects/x")
	if err != nil {
		t.Fatalf("ExpandPath failed: %v", err)
	}
	if got != filepath.Join(home, "projects", "x") {
		t.Errorf("ExpandPath = %q", got)
	}
}

func TestExpandPath_EnvVars(t *testing.T) {
	t.Setenv("RSENV_TEST_BASE", "/base")

	for _, in := range []string{"$RSENV_TEST_BASE/x", "${RSENV_TEST_BASE}/x"} {
		got, err := ExpandPath(in)
		if err != nil {
			t.Fatalf("ExpandPath(%q) failed: %v", in, err)
		}
		if got != "/base/x" {
			t.Errorf("ExpandPath(%q) = %q", in, got)
		}
	}
}

func TestExpandPath_TildeUserRejected(t *testing.T) {
	if _, err := ExpandPath("~root/x"); err == nil {
		t.Error("~user expansion must be rejected")
	}
}

func TestContractHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if got := ContractHome(filepath.Join(home, "dev", "proj")); got != "$HOME/dev/proj" {
		t.Errorf("ContractHome = %q", got)
	}
	if got := ContractHome("/opt/proj"); got != "/opt/proj" {
		t.Errorf("Paths outside home are unchanged, got %q", got)
	}
	if got := ContractHome(home); got != "$HOME" {
		t.Errorf("The home dir itself contracts, got %q", got)
	}
}

func TestHostname_NotEmpty(t *testing.T) {
	if Hostname() == "" {
		t.Error("Hostname must never be empty")
	}
}
