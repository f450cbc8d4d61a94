// ABOUTME: Fully-resolved change actions: the concrete instructions the applier interprets.
// ABOUTME: Four variants mirror the PatchSpec union, carrying actual values instead of specifications.
package patch

import (
	"fmt"

	"github.com/2389-research/patchwork/graph"
)

// Action is one fully-resolved change instruction. Actions are produced by
// Generate, consumed exactly once by Apply, and never persisted. The union
// is closed: the four variants below are the only implementations.
type Action interface {
	action()
	// Describe returns a one-line human-readable summary.
	Describe() string
}

// ModifyWidget writes Value to each listed index of one node's value array.
type ModifyWidget struct {
	Param   string
	NodeID  int
	Indices []int
	Value   any
}

// ComponentWrite is one component of a vector write: the same value
// duplicated across the component's index list.
type ComponentWrite struct {
	Component string
	Indices   []int
	Value     any
}

// ModifyVector writes component-keyed sub-values to one node. Writes is
// ordered by component name so generation stays deterministic.
type ModifyVector struct {
	Param  string
	NodeID int
	Writes []ComponentWrite
}

// ToggleMode broadcasts Mode to every listed node.
type ToggleMode struct {
	Param   string
	NodeIDs []int
	Mode    graph.Mode
}

// AddEntryPair inserts PrimaryEntry and SecondaryEntry at Index in the
// primary and secondary nodes' value arrays. The pair applies atomically:
// both nodes or neither.
type AddEntryPair struct {
	Param          string
	PrimaryID      int
	SecondaryID    int
	Index          int
	PrimaryEntry   map[string]any
	SecondaryEntry map[string]any
}

func (*ModifyWidget) action() {}
func (*ModifyVector) action() {}
func (*ToggleMode) action()   {}
func (*AddEntryPair) action() {}

func (a *ModifyWidget) Describe() string {
	return fmt.Sprintf("set %s on node %d indices %v to %v", a.Param, a.NodeID, a.Indices, a.Value)
}

func (a *ModifyVector) Describe() string {
	return fmt.Sprintf("set %s on node %d (%d component(s))", a.Param, a.NodeID, len(a.Writes))
}

func (a *ToggleMode) Describe() string {
	return fmt.Sprintf("set %s nodes %v to %s", a.Param, a.NodeIDs, a.Mode)
}

func (a *AddEntryPair) Describe() string {
	return fmt.Sprintf("insert %s entry at index %d into nodes %d/%d", a.Param, a.Index, a.PrimaryID, a.SecondaryID)
}
