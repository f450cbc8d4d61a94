// ABOUTME: JSON parsing for workflow documents with opaque field preservation.
// ABOUTME: Recognized node fields are decoded into the model; everything else is kept as raw JSON.
package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Parse decodes a workflow document from JSON. Node fields id, type, mode,
// and widgets_values are decoded into the model; all other fields (of both
// the document and each node) are preserved as raw JSON and round-trip
// through serialization untouched. Numbers inside widget values decode as
// json.Number so their source text survives re-serialization.
func Parse(r io.Reader) (*Document, error) {
	var top map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&top); err != nil {
		return nil, fmt.Errorf("parse workflow: %w", err)
	}

	nodesRaw, ok := top["nodes"]
	if !ok {
		return nil, fmt.Errorf("parse workflow: missing \"nodes\" field")
	}

	var rawNodes []json.RawMessage
	if err := json.Unmarshal(nodesRaw, &rawNodes); err != nil {
		return nil, fmt.Errorf("parse workflow: \"nodes\" is not an array: %w", err)
	}

	doc := &Document{
		Nodes: make([]*Node, 0, len(rawNodes)),
		Extra: make(map[string]json.RawMessage, len(top)),
	}
	for k, v := range top {
		if k != "nodes" {
			doc.Extra[k] = v
		}
	}

	seen := make(map[int]bool, len(rawNodes))
	for i, raw := range rawNodes {
		node, err := parseNode(raw)
		if err != nil {
			return nil, fmt.Errorf("parse workflow: node %d: %w", i, err)
		}
		if seen[node.ID] {
			return nil, fmt.Errorf("parse workflow: duplicate node id %d", node.ID)
		}
		seen[node.ID] = true
		doc.Nodes = append(doc.Nodes, node)
	}

	return doc, nil
}

// ParseFile reads and parses a workflow document from a file.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open workflow: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func parseNode(raw json.RawMessage) (*Node, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("not an object: %w", err)
	}

	n := &Node{Extra: make(map[string]json.RawMessage, len(fields))}

	idRaw, ok := fields["id"]
	if !ok {
		return nil, fmt.Errorf("missing \"id\" field")
	}
	if err := json.Unmarshal(idRaw, &n.ID); err != nil {
		return nil, fmt.Errorf("\"id\" is not an integer: %w", err)
	}

	if typeRaw, ok := fields["type"]; ok {
		if err := json.Unmarshal(typeRaw, &n.Type); err != nil {
			return nil, fmt.Errorf("\"type\" is not a string: %w", err)
		}
	}

	if modeRaw, ok := fields["mode"]; ok {
		var mode int
		if err := json.Unmarshal(modeRaw, &mode); err != nil {
			return nil, fmt.Errorf("\"mode\" is not an integer: %w", err)
		}
		n.Mode = Mode(mode)
	}

	if valuesRaw, ok := fields["widgets_values"]; ok {
		vals, err := decodeValues(valuesRaw)
		if err != nil {
			return nil, fmt.Errorf("\"widgets_values\": %w", err)
		}
		n.Values = vals
	}

	for k, v := range fields {
		switch k {
		case "id", "type", "mode", "widgets_values":
		default:
			n.Extra[k] = v
		}
	}

	return n, nil
}

// decodeValues decodes a widget value array with UseNumber so numeric text
// is preserved exactly for round-trip serialization and hashing.
func decodeValues(raw json.RawMessage) ([]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var vals []any
	if err := dec.Decode(&vals); err != nil {
		return nil, fmt.Errorf("not an array: %w", err)
	}
	if vals == nil {
		vals = []any{}
	}
	return vals, nil
}
