// ABOUTME: Mapping configuration model: named parameters bound to PatchSpec variants.
// ABOUTME: The parameter list is ordered; declaration order is the contract that governs patch application order.
package mapping

import (
	"github.com/2389-research/patchwork/graph"
)

// Config is a loaded mapping configuration. Parameters preserves the
// declaration order from the source document; that order, not input
// iteration order, determines the order in which patches apply.
type Config struct {
	// Name is a human-readable label for the wrapped workflow.
	Name string
	// WorkflowFile is the base workflow the mapping was authored against.
	WorkflowFile string
	// BaseHash is the version hash of the unmodified base workflow.
	BaseHash string

	Parameters []Parameter

	byName map[string]int
}

// Parameter binds a semantic parameter name to its patch specification.
type Parameter struct {
	Name string
	Spec PatchSpec
}

// Find returns the PatchSpec declared for name, or nil if name is not declared.
func (c *Config) Find(name string) PatchSpec {
	i, ok := c.byName[name]
	if !ok {
		return nil
	}
	return c.Parameters[i].Spec
}

// Declares reports whether name is a declared parameter.
func (c *Config) Declares(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// PatchSpec describes where and how to mutate a workflow graph for one
// parameter. It is a closed union: the four variants below are the only
// implementations.
type PatchSpec interface {
	patchSpec()
}

// ModifyWidget writes the same scalar value to each listed widget index of
// one node. Captures the duplicated-value shape used by slider-like nodes.
type ModifyWidget struct {
	NodeID  int
	Indices []int
}

// ModifyVectorWidget writes component-keyed sub-values to one node, each
// component duplicated across its own index list (the 2D-slider shape).
type ModifyVectorWidget struct {
	NodeID     int
	Components map[string][]int
}

// ToggleNodeMode broadcasts one of two execution modes to every listed node,
// selected by a boolean input.
type ToggleNodeMode struct {
	NodeIDs      []int
	EnabledMode  graph.Mode
	DisabledMode graph.Mode
}

// AddEntryPair inserts one structured entry per input list element into two
// related nodes' value arrays, starting at InsertIndex. MaxEntries < 0 means
// unlimited; otherwise excess entries are dropped with a warning.
type AddEntryPair struct {
	PrimaryNodeID   int
	SecondaryNodeID int
	InsertIndex     int
	MaxEntries      int
}

func (*ModifyWidget) patchSpec()       {}
func (*ModifyVectorWidget) patchSpec() {}
func (*ToggleNodeMode) patchSpec()     {}
func (*AddEntryPair) patchSpec()       {}
