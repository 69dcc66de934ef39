package io

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/loader"
)

func TestIOFileLoader(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "plans"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "plans", "a.txt"), []byte("flood plan"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewIOFileLoader(root)
	ctx := context.Background()

	got, err := l.GetFileText(ctx, loader.SourceFile{DocumentID: 1, Key: "plans/a.txt"})
	if err != nil || string(got) != "flood plan" {
		t.Fatalf("GetFileText() = %q, %v", got, err)
	}

	got, err = l.GetFileText(ctx, loader.SourceFile{DocumentID: 2, Key: "../../plans/a.txt"})
	if err != nil || string(got) != "flood plan" {
		t.Errorf("parent segments must stay inside root, got %q, %v", got, err)
	}

	if _, err := l.GetFileText(ctx, loader.SourceFile{DocumentID: 3, Key: "missing.txt"}); err == nil {
		t.Error("expected error for missing file")
	}
}
