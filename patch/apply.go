// ABOUTME: Action application: interprets an ordered action list against a copy of a workflow document.
// ABOUTME: Strictly sequential, copy-on-write, with per-action recoverable diagnostics instead of aborts.
package patch

import (
	"fmt"

	"github.com/2389-research/patchwork/graph"
)

// Apply interprets actions against a deep copy of doc and returns the
// mutated copy with any recoverable diagnostics. The input document is
// never mutated, so callers may re-apply against a pristine base. Actions
// run strictly in list order; they are not commutative in general (a mode
// toggle followed by an action that depends on the resulting state must
// observe that state). An action that cannot be applied safely is dropped
// wholesale; partial application never happens.
func Apply(doc *graph.Document, actions []Action) (*graph.Document, []Diagnostic) {
	out := doc.Clone()

	// Index built once so cost stays proportional to nodes + actions.
	index := make(map[int]*graph.Node, len(out.Nodes))
	for _, n := range out.Nodes {
		index[n.ID] = n
	}

	var diags []Diagnostic
	for _, action := range actions {
		switch a := action.(type) {
		case *ModifyWidget:
			diags = append(diags, applyModifyWidget(index, a)...)
		case *ModifyVector:
			diags = append(diags, applyModifyVector(index, a)...)
		case *ToggleMode:
			diags = append(diags, applyToggleMode(index, a)...)
		case *AddEntryPair:
			diags = append(diags, applyAddEntryPair(index, a)...)
		}
	}

	return out, diags
}

func applyModifyWidget(index map[int]*graph.Node, a *ModifyWidget) []Diagnostic {
	node, ok := index[a.NodeID]
	if !ok {
		return []Diagnostic{unresolved(a.Param, a.NodeID)}
	}

	// Validate every index before writing any, so a bad action leaves the
	// node untouched rather than half-written.
	for _, idx := range a.Indices {
		if idx >= len(node.Values) {
			return []Diagnostic{outOfRange(a.Param, a.NodeID, idx, len(node.Values))}
		}
	}
	for _, idx := range a.Indices {
		node.Values[idx] = a.Value
	}
	return nil
}

func applyModifyVector(index map[int]*graph.Node, a *ModifyVector) []Diagnostic {
	node, ok := index[a.NodeID]
	if !ok {
		return []Diagnostic{unresolved(a.Param, a.NodeID)}
	}

	for _, w := range a.Writes {
		for _, idx := range w.Indices {
			if idx >= len(node.Values) {
				return []Diagnostic{outOfRange(a.Param, a.NodeID, idx, len(node.Values))}
			}
		}
	}
	for _, w := range a.Writes {
		for _, idx := range w.Indices {
			node.Values[idx] = w.Value
		}
	}
	return nil
}

// applyToggleMode visits each listed node independently: a missing id is
// skipped with its own diagnostic while the rest of the group still toggles.
func applyToggleMode(index map[int]*graph.Node, a *ToggleMode) []Diagnostic {
	var diags []Diagnostic
	for _, id := range a.NodeIDs {
		node, ok := index[id]
		if !ok {
			diags = append(diags, unresolved(a.Param, id))
			continue
		}
		node.Mode = a.Mode
	}
	return diags
}

// applyAddEntryPair resolves both nodes before touching either, preserving
// the pairing invariant: the entry lands in both value arrays or neither.
func applyAddEntryPair(index map[int]*graph.Node, a *AddEntryPair) []Diagnostic {
	primary, ok := index[a.PrimaryID]
	if !ok {
		return []Diagnostic{unresolved(a.Param, a.PrimaryID)}
	}
	secondary, ok := index[a.SecondaryID]
	if !ok {
		return []Diagnostic{unresolved(a.Param, a.SecondaryID)}
	}

	primary.Values = insertValue(primary.Values, a.Index, a.PrimaryEntry)
	secondary.Values = insertValue(secondary.Values, a.Index, a.SecondaryEntry)
	return nil
}

// insertValue inserts v at idx, shifting later values right. An index past
// the end grows the array with nils first, per the structural-insertion
// contract.
func insertValue(values []any, idx int, v any) []any {
	for len(values) < idx {
		values = append(values, nil)
	}
	values = append(values, nil)
	copy(values[idx+1:], values[idx:])
	values[idx] = v
	return values
}

func unresolved(param string, nodeID int) Diagnostic {
	return Diagnostic{
		Kind:     KindUnresolvedNode,
		Severity: SeverityWarning,
		Message:  fmt.Sprintf("parameter %q: node %d not found in workflow, action skipped", param, nodeID),
		Param:    param,
		NodeID:   nodeID,
	}
}

func outOfRange(param string, nodeID, idx, length int) Diagnostic {
	return Diagnostic{
		Kind:     KindIndexOutOfRange,
		Severity: SeverityError,
		Message: fmt.Sprintf("parameter %q: index %d exceeds node %d's %d widget value(s), action skipped",
			param, idx, nodeID, length),
		Param:  param,
		NodeID: nodeID,
	}
}
