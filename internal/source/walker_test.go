package source

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func writeFile(t *testing.T, path string, content []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}
}

func paths(files []File) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Path)
	}
	sort.Strings(out)
	return out
}

func TestWalkSkipsIgnoredDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.go"), []byte("package main\n"))
	writeFile(t, filepath.Join(root, "lib", "util.go"), []byte("package lib\n"))
	writeFile(t, filepath.Join(root, ".git", "HEAD"), []byte("ref: refs/heads/main\n"))
	writeFile(t, filepath.Join(root, "node_modules", "left-pad", "index.js"), []byte("x"))
	writeFile(t, filepath.Join(root, "lib", "node_modules", "dep.js"), []byte("x"))

	files, err := NewWalker(nil, 0).Walk(root)
	if err != nil {
		t.Fatalf("Walk() failed: %v", err)
	}

	got := paths(files)
	want := []string{"lib/util.go", "main.go"}
	if len(got) != len(want) {
		t.Fatalf("unexpected files: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("file %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestWalkCustomIgnoreReplacesDefaults(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "generated", "api.go"), []byte("package gen\n"))
	writeFile(t, filepath.Join(root, "src", "app.go"), []byte("package app\n"))

	files, err := NewWalker([]string{"generated"}, 0).Walk(root)
	if err != nil {
		t.Fatalf("Walk() failed: %v", err)
	}
	got := paths(files)
	if len(got) != 1 || got[0] != "src/app.go" {
		t.Fatalf("unexpected files: %v", got)
	}
}

func TestWalkSkipsBinaryAndOversizedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "logo.png"), []byte{0x89, 'P', 'N', 'G', 0x00, 0x01})
	writeFile(t, filepath.Join(root, "notes.txt"), []byte("plain text"))
	writeFile(t, filepath.Join(root, "huge.txt"), bytes.Repeat([]byte("a"), 100))

	files, err := NewWalker(nil, 50).Walk(root)
	if err != nil {
		t.Fatalf("Walk() failed: %v", err)
	}
	got := paths(files)
	if len(got) != 1 || got[0] != "notes.txt" {
		t.Fatalf("unexpected files: %v", got)
	}
}

func TestWalkEmptyFileIsIncludedWithEmptyContent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "empty.go"), nil)

	files, err := NewWalker(nil, 0).Walk(root)
	if err != nil {
		t.Fatalf("Walk() failed: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected the empty file to be present, got %v", files)
	}
	if files[0].Content != "" {
		t.Errorf("expected empty content, got %q", files[0].Content)
	}
}

func TestWalkSkipsDanglingSymlink(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "real.go"), []byte("package real\n"))
	if err := os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "broken")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	files, err := NewWalker(nil, 0).Walk(root)
	if err != nil {
		t.Fatalf("one broken symlink must not abort the walk: %v", err)
	}
	got := paths(files)
	if len(got) != 1 || got[0] != "real.go" {
		t.Fatalf("unexpected files: %v", got)
	}
}

func TestWalkMissingRoot(t *testing.T) {
	_, err := NewWalker(nil, 0).Walk(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("expected error for missing root")
	}
}
