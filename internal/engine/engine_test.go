package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dejo1307/objc2swift/internal/config"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	eng, err := New(config.Default())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return eng
}

func TestWalkRepoFindsObjcSources(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"A.h":            "@interface A @end",
		"A.m":            "@implementation A @end",
		"Sub/B.m":        "@implementation B @end",
		"README.md":      "docs",
		"Pods/Dep/C.m":   "@implementation C @end",
		"Sub/BTests.m":   "@implementation BTests @end",
	}
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	eng := newTestEngine(t)
	found, err := eng.walkRepo(dir)
	if err != nil {
		t.Fatalf("walkRepo: %v", err)
	}

	want := map[string]bool{"A.h": true, "A.m": true, filepath.FromSlash("Sub/B.m"): true}
	if len(found) != len(want) {
		t.Fatalf("found %v, want %d files", found, len(want))
	}
	for _, f := range found {
		if !want[f] {
			t.Errorf("unexpected file %q (Pods and *Tests.m are ignored)", f)
		}
	}
}

func TestIsIgnored(t *testing.T) {
	eng := newTestEngine(t)
	tests := []struct {
		path string
		want bool
	}{
		{"Pods/Thing/T.m", true},
		{".git/config", true},
		{"App/ViewTests.m", true},
		{"App/View.m", false},
		{"DerivedData/x", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := eng.isIgnored(tt.path, false); got != tt.want {
				t.Errorf("isIgnored(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestGetArtifactWithoutRun(t *testing.T) {
	eng := newTestEngine(t)
	if _, err := eng.GetArtifact("diagnostics.json"); err == nil {
		t.Fatal("artifact access before any translation should error")
	}
}

func TestWriteOutputsWithoutRun(t *testing.T) {
	eng := newTestEngine(t)
	if err := eng.WriteOutputs(t.TempDir()); err == nil {
		t.Fatal("writing before any translation should error")
	}
}
