// ABOUTME: Data model for node-link workflow documents: Document, Node, and the execution Mode enum.
// ABOUTME: Provides lookup helpers and deep cloning so patch runs never mutate a caller's document.
package graph

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Mode is a node's execution mode. The integer values are fixed by the
// workflow wire format; unknown values round-trip untouched.
type Mode int

const (
	ModeEnabled  Mode = 0
	ModeBypassed Mode = 2
	ModeMuted    Mode = 4
)

// String returns a human-readable name for the mode.
func (m Mode) String() string {
	switch m {
	case ModeEnabled:
		return "enabled"
	case ModeBypassed:
		return "bypassed"
	case ModeMuted:
		return "muted"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Node is one addressable unit in a workflow document. Values holds the
// node's positional widget values: numbers (as json.Number), strings, bools,
// or nested objects for structured entries. Extra carries every other field
// of the source node (position, size, ports, flags) as raw JSON that is
// preserved but never interpreted.
type Node struct {
	ID     int
	Type   string
	Mode   Mode
	Values []any
	Extra  map[string]json.RawMessage
}

// Document is a workflow graph: an ordered node list plus an opaque payload
// of every top-level field other than "nodes" (links, groups, layout).
// Node order is preserved for output fidelity; lookup is by id.
type Document struct {
	Nodes []*Node
	Extra map[string]json.RawMessage
}

// FindNode returns the node with the given id, or nil if not found.
// Patch application builds its own id index; this is for one-off lookups.
func (d *Document) FindNode(id int) *Node {
	for _, n := range d.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// NodeIDs returns all node ids in sorted order for deterministic output.
func (d *Document) NodeIDs() []int {
	ids := make([]int, 0, len(d.Nodes))
	for _, n := range d.Nodes {
		ids = append(ids, n.ID)
	}
	sort.Ints(ids)
	return ids
}

// Clone returns a deep copy of the document's node table. Opaque payloads
// are shared between the original and the copy: no patch operation ever
// writes to them, so sharing is safe and keeps cloning cheap.
func (d *Document) Clone() *Document {
	nodes := make([]*Node, len(d.Nodes))
	for i, n := range d.Nodes {
		nodes[i] = n.clone()
	}
	return &Document{Nodes: nodes, Extra: d.Extra}
}

func (n *Node) clone() *Node {
	c := &Node{
		ID:    n.ID,
		Type:  n.Type,
		Mode:  n.Mode,
		Extra: n.Extra,
	}
	if n.Values != nil {
		c.Values = make([]any, len(n.Values))
		for i, v := range n.Values {
			c.Values[i] = copyValue(v)
		}
	}
	return c
}

// copyValue deep-copies a widget value. Scalars are immutable and pass
// through; maps and slices (structured entries) are copied element-wise.
func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = copyValue(e)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = copyValue(e)
		}
		return s
	default:
		return v
	}
}
