package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRepoName(t *testing.T) {
	cases := map[string]string{
		"https://github.com/acme/widgets":            "widgets",
		"https://github.com/acme/widgets.git":        "widgets",
		"git@gitea.local:tools/docgen.git":           "docgen",
		"https://example.com/group/sub/project.git/": "project",
		"": "repository",
	}
	for url, want := range cases {
		if got := RepoName(url); got != want {
			t.Errorf("RepoName(%q) = %q, want %q", url, got, want)
		}
	}
}

func TestAllocateRelease(t *testing.T) {
	mgr := NewManager(t.TempDir())

	dir, err := mgr.Allocate("https://github.com/acme/widgets.git")
	if err != nil {
		t.Fatalf("Allocate() failed: %v", err)
	}
	if !strings.Contains(filepath.Base(dir), "widgets-") {
		t.Errorf("expected repo-derived directory name, got: %s", dir)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("workspace directory missing: %v", err)
	}

	mgr.Release(dir)
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("workspace still exists after Release: %s", dir)
	}
}

func TestAllocateTwiceNeverCollides(t *testing.T) {
	mgr := NewManager(t.TempDir())

	first, err := mgr.Allocate("https://github.com/acme/widgets")
	if err != nil {
		t.Fatalf("first Allocate() failed: %v", err)
	}
	second, err := mgr.Allocate("https://github.com/acme/widgets")
	if err != nil {
		t.Fatalf("second Allocate() failed: %v", err)
	}
	if first == second {
		t.Fatalf("two allocations yielded the same path: %s", first)
	}

	// Each workspace is independent: content in one is untouched by the other.
	marker := filepath.Join(first, "marker.txt")
	if err := os.WriteFile(marker, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	mgr.Release(second)
	if _, err := os.Stat(marker); err != nil {
		t.Errorf("releasing one workspace disturbed the other: %v", err)
	}

	mgr.Release(first)
	for _, dir := range []string{first, second} {
		if _, err := os.Stat(dir); !os.IsNotExist(err) {
			t.Errorf("workspace still exists after Release: %s", dir)
		}
	}
}

func TestReleaseIgnoresForeignPaths(t *testing.T) {
	mgr := NewManager(t.TempDir())

	outside := t.TempDir()
	victim := filepath.Join(outside, "keep.txt")
	if err := os.WriteFile(victim, []byte("keep"), 0o600); err != nil {
		t.Fatal(err)
	}

	mgr.Release(outside)
	if _, err := os.Stat(victim); err != nil {
		t.Errorf("Release removed a path outside its base dir: %v", err)
	}

	// Empty path is a no-op, not a panic.
	mgr.Release("")
}

func TestSweepRemovesOnlyStaleDirs(t *testing.T) {
	base := t.TempDir()
	mgr := NewManager(base)

	stale := filepath.Join(base, "old-20200101-000000.000000000")
	fresh := filepath.Join(base, "new-20300101-000000.000000000")
	for _, d := range []string{stale, fresh} {
		if err := os.Mkdir(d, 0o750); err != nil {
			t.Fatal(err)
		}
	}
	past := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(stale, past, past); err != nil {
		t.Fatal(err)
	}

	if err := mgr.Sweep(time.Hour); err != nil {
		t.Fatalf("Sweep() failed: %v", err)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale workspace survived sweep")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Error("fresh workspace was swept away")
	}
}

func TestSweepMissingBaseDir(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "never-created"))
	if err := mgr.Sweep(time.Hour); err != nil {
		t.Fatalf("Sweep() on missing base dir should be a no-op: %v", err)
	}
}
