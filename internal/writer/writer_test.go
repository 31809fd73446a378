package writer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/clasp-sub000/internal/types"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name        string
		writes      []types.LocalFileWrite
		concurrency int
	}{
		{
			name: "flat files",
			writes: []types.LocalFileWrite{
				{Path: "Code.js", Source: "function f() {}"},
				{Path: "appsscript.json", Source: "{}"},
			},
			concurrency: 4,
		},
		{
			name: "nested directories created",
			writes: []types.LocalFileWrite{
				{Path: filepath.Join("src", "util", "lib.js"), Source: "lib"},
				{Path: filepath.Join("src", "Code.js"), Source: "code"},
			},
			concurrency: 4,
		},
		{
			name: "concurrency below one treated as one",
			writes: []types.LocalFileWrite{
				{Path: "a.js", Source: "a"},
				{Path: "b.js", Source: "b"},
			},
			concurrency: 0,
		},
		{
			name:        "empty plan is a no-op",
			writes:      nil,
			concurrency: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()

			if err := Apply(context.Background(), dir, tt.writes, tt.concurrency); err != nil {
				t.Fatalf("Apply failed: %v", err)
			}

			for _, w := range tt.writes {
				data, err := os.ReadFile(filepath.Join(dir, w.Path))
				if err != nil {
					t.Errorf("reading %s: %v", w.Path, err)
					continue
				}
				if string(data) != w.Source {
					t.Errorf("%s content = %q, want %q", w.Path, data, w.Source)
				}
			}
		})
	}
}

func TestApplyOverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Code.js")
	if err := os.WriteFile(path, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	writes := []types.LocalFileWrite{{Path: "Code.js", Source: "new"}}
	if err := Apply(context.Background(), dir, writes, 2); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "new" {
		t.Errorf("content = %q, want %q", data, "new")
	}
}

func TestApplyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	writes := []types.LocalFileWrite{{Path: "Code.js", Source: "x"}}
	if err := Apply(ctx, t.TempDir(), writes, 1); err == nil {
		t.Error("expected error from cancelled context, got nil")
	}
}

func TestApplyReportsWriteFailure(t *testing.T) {
	dir := t.TempDir()

	// A directory standing where a file should go forces a write error.
	if err := os.MkdirAll(filepath.Join(dir, "Code.js"), 0755); err != nil {
		t.Fatal(err)
	}

	writes := []types.LocalFileWrite{{Path: "Code.js", Source: "x"}}
	if err := Apply(context.Background(), dir, writes, 2); err == nil {
		t.Error("expected write failure, got nil")
	}
}
