// ABOUTME: Advisory cross-validation of a mapping configuration against a workflow document.
// ABOUTME: Pluggable CheckRule interface with built-in rules for node references and widget index bounds.
package mapping

import (
	"fmt"

	"github.com/2389-research/patchwork/graph"
)

// Finding is an advisory result from checking a config against a document.
// All findings are warnings: apply-time handles each condition recoverably,
// so a finding never blocks a run.
type Finding struct {
	Rule    string
	Message string
	Param   string
	NodeID  int
	Fix     string // optional suggested fix
}

// CheckRule is the interface for config-against-document check rules.
type CheckRule interface {
	Name() string
	Apply(c *Config, d *graph.Document) []Finding
}

func builtinRules() []CheckRule {
	return []CheckRule{
		&nodeExistsRule{},
		&indexInRangeRule{},
	}
}

// Check runs all built-in rules plus any extra rules against the document.
func (c *Config) Check(d *graph.Document, extraRules ...CheckRule) []Finding {
	var findings []Finding

	rules := builtinRules()
	rules = append(rules, extraRules...)

	for _, rule := range rules {
		findings = append(findings, rule.Apply(c, d)...)
	}

	return findings
}

// specNodeIDs returns every node id a spec references.
func specNodeIDs(spec PatchSpec) []int {
	switch s := spec.(type) {
	case *ModifyWidget:
		return []int{s.NodeID}
	case *ModifyVectorWidget:
		return []int{s.NodeID}
	case *ToggleNodeMode:
		return s.NodeIDs
	case *AddEntryPair:
		return []int{s.PrimaryNodeID, s.SecondaryNodeID}
	default:
		return nil
	}
}

// nodeExistsRule checks that every referenced node id resolves in the document.
type nodeExistsRule struct{}

func (r *nodeExistsRule) Name() string { return "node_exists" }

func (r *nodeExistsRule) Apply(c *Config, d *graph.Document) []Finding {
	present := make(map[int]bool, len(d.Nodes))
	for _, n := range d.Nodes {
		present[n.ID] = true
	}

	var findings []Finding
	for _, p := range c.Parameters {
		for _, id := range specNodeIDs(p.Spec) {
			if !present[id] {
				findings = append(findings, Finding{
					Rule:    r.Name(),
					Message: fmt.Sprintf("parameter %q references node %d, which is not in the workflow", p.Name, id),
					Param:   p.Name,
					NodeID:  id,
					Fix:     "update the mapping or regenerate it against the current base workflow",
				})
			}
		}
	}
	return findings
}

// indexInRangeRule checks that declared widget indices fit the target node's
// current value array. Advisory only: widget arrays can legitimately grow
// before a given action applies.
type indexInRangeRule struct{}

func (r *indexInRangeRule) Name() string { return "index_in_range" }

func (r *indexInRangeRule) Apply(c *Config, d *graph.Document) []Finding {
	var findings []Finding
	for _, p := range c.Parameters {
		switch s := p.Spec.(type) {
		case *ModifyWidget:
			findings = append(findings, checkIndices(r.Name(), p.Name, d, s.NodeID, s.Indices)...)
		case *ModifyVectorWidget:
			for _, indices := range s.Components {
				findings = append(findings, checkIndices(r.Name(), p.Name, d, s.NodeID, indices)...)
			}
		}
	}
	return findings
}

func checkIndices(rule, param string, d *graph.Document, nodeID int, indices []int) []Finding {
	node := d.FindNode(nodeID)
	if node == nil {
		// node_exists already reports this
		return nil
	}

	var findings []Finding
	for _, idx := range indices {
		if idx >= len(node.Values) {
			findings = append(findings, Finding{
				Rule: rule,
				Message: fmt.Sprintf("parameter %q writes index %d of node %d, which has only %d widget value(s)",
					param, idx, nodeID, len(node.Values)),
				Param:  param,
				NodeID: nodeID,
				Fix:    "check the node's widget layout in the base workflow",
			})
		}
	}
	return findings
}
