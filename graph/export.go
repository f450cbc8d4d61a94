// ABOUTME: Artifact export for patched workflow documents.
// ABOUTME: Writes the canonical serialization to <baseName>_<hash>.json and returns the path and hash.
package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Export writes the document to dir as "<baseName>_<hash>.json", creating
// dir if needed. The embedded hash makes re-generation idempotent: the same
// document always lands at the same path. Returns the written path and the
// version hash.
func Export(d *Document, dir, baseName string) (string, string, error) {
	hash, err := VersionHash(d)
	if err != nil {
		return "", "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create export dir: %w", err)
	}

	data, err := json.Marshal(d)
	if err != nil {
		return "", "", fmt.Errorf("serialize workflow: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_%s.json", baseName, hash))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", "", fmt.Errorf("write workflow: %w", err)
	}

	return path, hash, nil
}
