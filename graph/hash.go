// ABOUTME: Content-derived version hash for workflow documents, used for artifact naming and dedup.
// ABOUTME: Hashes the canonical serialization (sorted keys, nodes sorted by id) with SHA-256, truncated to 8 hex chars.
package graph

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
)

// VersionHashLen is the length of the hex version hash embedded in artifact names.
const VersionHashLen = 8

// VersionHash returns the first 8 hex characters of the SHA-256 hash of the
// document's canonical serialization. Node array order is not semantically
// meaningful, so nodes are sorted by id before hashing: two value-identical
// documents hash identically regardless of node ordering. The hash identifies
// output artifacts; it is not a security boundary.
func VersionHash(d *Document) (string, error) {
	canonical := &Document{Nodes: sortedByID(d.Nodes), Extra: d.Extra}

	data, err := json.Marshal(canonical)
	if err != nil {
		return "", fmt.Errorf("hash workflow: %w", err)
	}

	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:VersionHashLen], nil
}

func sortedByID(nodes []*Node) []*Node {
	sorted := make([]*Node, len(nodes))
	copy(sorted, nodes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	return sorted
}
