// ABOUTME: Tests for artifact export: hash-embedded filenames and parseable output.
// ABOUTME: Covers idempotent re-export landing at the same path.
package graph

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestExportWritesHashNamedFile(t *testing.T) {
	doc := parseSample(t)
	dir := t.TempDir()

	path, hash, err := Export(doc, dir, "IMG_to_VIDEO")
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	wantName := fmt.Sprintf("IMG_to_VIDEO_%s.json", hash)
	if filepath.Base(path) != wantName {
		t.Errorf("exported file is %q, want %q", filepath.Base(path), wantName)
	}

	exported, err := ParseFile(path)
	if err != nil {
		t.Fatalf("exported file does not parse: %v", err)
	}
	h2, err := VersionHash(exported)
	if err != nil {
		t.Fatalf("VersionHash failed: %v", err)
	}
	if h2 != hash {
		t.Errorf("exported file hashes %q, filename says %q", h2, hash)
	}
}

func TestExportIdempotentPath(t *testing.T) {
	doc := parseSample(t)
	dir := t.TempDir()

	p1, _, err := Export(doc, dir, "base")
	if err != nil {
		t.Fatalf("first Export failed: %v", err)
	}
	p2, _, err := Export(doc, dir, "base")
	if err != nil {
		t.Fatalf("second Export failed: %v", err)
	}

	if p1 != p2 {
		t.Errorf("same document exported to %q then %q", p1, p2)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("export dir has %d files, want 1", len(entries))
	}
}

func TestExportCreatesDir(t *testing.T) {
	doc := parseSample(t)
	dir := filepath.Join(t.TempDir(), "outputs", "workflows")

	if _, _, err := Export(doc, dir, "base"); err != nil {
		t.Fatalf("Export into missing dir failed: %v", err)
	}
}
