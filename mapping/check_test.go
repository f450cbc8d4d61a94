// ABOUTME: Tests for config-against-document checks: node resolution and widget index bounds.
// ABOUTME: Covers the clean case, missing nodes for every variant, and index overflow findings.
package mapping

import (
	"strings"
	"testing"

	"github.com/2389-research/patchwork/graph"
)

func checkDoc() *graph.Document {
	return &graph.Document{Nodes: []*graph.Node{
		{ID: 426, Type: "mxSlider", Values: []any{nil, nil, nil}},
		{ID: 83, Type: "mxSlider2D", Values: []any{nil, nil, nil, nil, nil, nil}},
		{ID: 431}, {ID: 442}, {ID: 433},
		{ID: 416, Values: []any{nil, nil}},
		{ID: 471, Values: []any{nil, nil}},
	}}
}

func TestCheckCleanConfig(t *testing.T) {
	cfg := loadValid(t)

	findings := cfg.Check(checkDoc())
	if len(findings) != 0 {
		t.Errorf("Check returned %d findings for a clean config: %v", len(findings), findings)
	}
}

func TestCheckMissingNode(t *testing.T) {
	cfg, err := Load(strings.NewReader(`
parameters:
  - name: enable_x
    action: toggle_node_mode
    node_ids: [371, 372]
    enabled_mode: enabled
    disabled_mode: bypassed
`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	doc := &graph.Document{Nodes: []*graph.Node{{ID: 371}}}
	findings := cfg.Check(doc)

	if len(findings) != 1 {
		t.Fatalf("Check returned %d findings, want 1: %v", len(findings), findings)
	}
	f := findings[0]
	if f.Rule != "node_exists" || f.NodeID != 372 || f.Param != "enable_x" {
		t.Errorf("finding = %+v, want node_exists for node 372 on enable_x", f)
	}
}

func TestCheckIndexOverflow(t *testing.T) {
	cfg, err := Load(strings.NewReader(`
parameters:
  - name: duration
    action: modify_widget
    node_id: 426
    widget_indices: [0, 5]
`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	doc := &graph.Document{Nodes: []*graph.Node{
		{ID: 426, Values: []any{nil, nil, nil}},
	}}
	findings := cfg.Check(doc)

	if len(findings) != 1 {
		t.Fatalf("Check returned %d findings, want 1: %v", len(findings), findings)
	}
	if findings[0].Rule != "index_in_range" {
		t.Errorf("finding rule = %q, want index_in_range", findings[0].Rule)
	}
}

func TestCheckExtraRule(t *testing.T) {
	cfg := loadValid(t)

	rule := &recordingRule{}
	cfg.Check(checkDoc(), rule)
	if !rule.called {
		t.Error("extra rule was not applied")
	}
}

type recordingRule struct{ called bool }

func (r *recordingRule) Name() string { return "recording" }

func (r *recordingRule) Apply(c *Config, d *graph.Document) []Finding {
	r.called = true
	return nil
}
