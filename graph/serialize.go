// ABOUTME: Canonical JSON serialization for workflow documents and nodes.
// ABOUTME: Emits compact output with sorted keys; preserved raw fields pass through byte-for-byte.
package graph

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON serializes the document with sorted keys at every object the
// model owns. Opaque fields pass through as their original bytes. Node
// order follows the document's node list.
func (d *Document) MarshalJSON() ([]byte, error) {
	top := make(map[string]json.RawMessage, len(d.Extra)+1)
	for k, v := range d.Extra {
		top[k] = v
	}

	nodes := make([]json.RawMessage, len(d.Nodes))
	for i, n := range d.Nodes {
		data, err := json.Marshal(n)
		if err != nil {
			return nil, fmt.Errorf("marshal node %d: %w", n.ID, err)
		}
		nodes[i] = data
	}
	nodesRaw, err := json.Marshal(nodes)
	if err != nil {
		return nil, err
	}
	top["nodes"] = nodesRaw

	// encoding/json sorts map keys, which gives the canonical ordering.
	return json.Marshal(top)
}

// MarshalJSON serializes the node with id, type, mode, widgets_values, and
// all preserved fields merged into one object with sorted keys.
func (n *Node) MarshalJSON() ([]byte, error) {
	fields := make(map[string]json.RawMessage, len(n.Extra)+4)
	for k, v := range n.Extra {
		fields[k] = v
	}

	idRaw, err := json.Marshal(n.ID)
	if err != nil {
		return nil, err
	}
	fields["id"] = idRaw

	typeRaw, err := json.Marshal(n.Type)
	if err != nil {
		return nil, err
	}
	fields["type"] = typeRaw

	modeRaw, err := json.Marshal(int(n.Mode))
	if err != nil {
		return nil, err
	}
	fields["mode"] = modeRaw

	if n.Values != nil {
		valuesRaw, err := json.Marshal(n.Values)
		if err != nil {
			return nil, fmt.Errorf("marshal widgets_values: %w", err)
		}
		fields["widgets_values"] = valuesRaw
	}

	return json.Marshal(fields)
}
