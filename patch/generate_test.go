// ABOUTME: Tests for action generation: declaration-order emission, variant dispatch, and input coercion.
// ABOUTME: Covers entry-pair positions, the max-entries limit, type mismatches, and determinism.
package patch

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/2389-research/patchwork/graph"
	"github.com/2389-research/patchwork/mapping"
)

func TestGenerateFollowsDeclarationOrder(t *testing.T) {
	cfg := testConfig(t)

	// Flat maps iterate in random order; generation must not.
	flat := FlatInputs{
		"steps":                json.Number("30"),
		"duration":             json.Number("8.0"),
		"enable_interpolation": true,
	}

	for i := 0; i < 20; i++ {
		actions, diags := Generate(flat, cfg)
		if len(diags) != 0 {
			t.Fatalf("unexpected diagnostics: %v", diags)
		}
		if len(actions) != 3 {
			t.Fatalf("generated %d actions, want 3", len(actions))
		}

		wantParams := []string{"duration", "steps", "enable_interpolation"}
		gotParams := []string{
			actions[0].(*ModifyWidget).Param,
			actions[1].(*ModifyWidget).Param,
			actions[2].(*ToggleMode).Param,
		}
		if !reflect.DeepEqual(gotParams, wantParams) {
			t.Fatalf("action order = %v, want %v", gotParams, wantParams)
		}
	}
}

func TestGenerateModifyWidget(t *testing.T) {
	cfg := testConfig(t)

	actions, _ := Generate(FlatInputs{"duration": json.Number("8.0")}, cfg)
	if len(actions) != 1 {
		t.Fatalf("generated %d actions, want 1", len(actions))
	}

	mw := actions[0].(*ModifyWidget)
	if mw.NodeID != 426 || !reflect.DeepEqual(mw.Indices, []int{0, 1}) || mw.Value != json.Number("8.0") {
		t.Errorf("action = %+v, want node 426 indices [0 1] value 8.0", mw)
	}
}

func TestGenerateVector(t *testing.T) {
	cfg := testConfig(t)

	actions, diags := Generate(FlatInputs{
		"size": map[string]any{"x": json.Number("1234")},
	}, cfg)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(actions) != 1 {
		t.Fatalf("generated %d actions, want 1", len(actions))
	}

	mv := actions[0].(*ModifyVector)
	if mv.NodeID != 83 || len(mv.Writes) != 1 {
		t.Fatalf("action = %+v, want one write on node 83", mv)
	}
	w := mv.Writes[0]
	if w.Component != "x" || !reflect.DeepEqual(w.Indices, []int{0, 1}) || w.Value != json.Number("1234") {
		t.Errorf("write = %+v, want x at [0 1] = 1234", w)
	}
}

func TestGenerateVectorComponentOrder(t *testing.T) {
	cfg := testConfig(t)

	actions, _ := Generate(FlatInputs{
		"size": map[string]any{"y": json.Number("2"), "x": json.Number("1")},
	}, cfg)

	mv := actions[0].(*ModifyVector)
	if len(mv.Writes) != 2 || mv.Writes[0].Component != "x" || mv.Writes[1].Component != "y" {
		t.Errorf("writes = %+v, want x before y", mv.Writes)
	}
}

func TestGenerateToggle(t *testing.T) {
	cfg := testConfig(t)

	actions, _ := Generate(FlatInputs{"enable_interpolation": true}, cfg)
	tm := actions[0].(*ToggleMode)
	if tm.Mode != graph.ModeEnabled {
		t.Errorf("toggle(true) mode = %v, want enabled", tm.Mode)
	}

	actions, _ = Generate(FlatInputs{"enable_interpolation": false}, cfg)
	tm = actions[0].(*ToggleMode)
	if tm.Mode != graph.ModeBypassed {
		t.Errorf("toggle(false) mode = %v, want bypassed", tm.Mode)
	}
	if !reflect.DeepEqual(tm.NodeIDs, []int{431, 442, 433}) {
		t.Errorf("toggle node ids = %v, want [431 442 433]", tm.NodeIDs)
	}
}

func TestGenerateEntryPairs(t *testing.T) {
	cfg := testConfig(t)

	actions, diags := Generate(FlatInputs{
		"loras": []any{
			map[string]any{"high_path": "A-H.safetensors", "low_path": "A-L.safetensors", "strength": json.Number("0.8")},
			map[string]any{"high_path": "B-H.safetensors", "low_path": "B-L.safetensors"},
		},
	}, cfg)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(actions) != 2 {
		t.Fatalf("generated %d actions, want 2", len(actions))
	}

	first := actions[0].(*AddEntryPair)
	if first.PrimaryID != 416 || first.SecondaryID != 471 || first.Index != 2 {
		t.Errorf("first pair = %+v, want nodes 416/471 at index 2", first)
	}
	if first.PrimaryEntry["lora"] != "A-H.safetensors" || first.SecondaryEntry["lora"] != "A-L.safetensors" {
		t.Errorf("first pair payloads = %v / %v", first.PrimaryEntry, first.SecondaryEntry)
	}
	if first.PrimaryEntry["strength"] != json.Number("0.8") {
		t.Errorf("first pair strength = %v, want 0.8", first.PrimaryEntry["strength"])
	}
	if first.PrimaryEntry["on"] != true {
		t.Errorf("first pair on = %v, want default true", first.PrimaryEntry["on"])
	}
	if v, present := first.PrimaryEntry["strengthTwo"]; !present || v != nil {
		t.Errorf("first pair strengthTwo = %v, want explicit null", v)
	}

	// Successive entries append: index advances per emitted entry.
	second := actions[1].(*AddEntryPair)
	if second.Index != 3 {
		t.Errorf("second pair index = %d, want 3", second.Index)
	}
}

func TestGenerateEntryLimit(t *testing.T) {
	cfg, err := mapping.Load(strings.NewReader(`
parameters:
  - name: loras
    action: add_entry_pair
    primary_node_id: 416
    secondary_node_id: 471
    insert_index: 2
    max_entries: 1
`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	actions, diags := Generate(FlatInputs{
		"loras": []any{
			map[string]any{"high_path": "A-H", "low_path": "A-L"},
			map[string]any{"high_path": "B-H", "low_path": "B-L"},
			map[string]any{"high_path": "C-H", "low_path": "C-L"},
		},
	}, cfg)

	if len(actions) != 1 {
		t.Errorf("generated %d actions, want 1 (limit)", len(actions))
	}
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %v", len(diags), diags)
	}
	if diags[0].Kind != KindEntryLimit || diags[0].Severity != SeverityWarning {
		t.Errorf("diagnostic = %+v, want entry_limit warning", diags[0])
	}
}

func TestGenerateTypeMismatches(t *testing.T) {
	cfg := testConfig(t)

	cases := []struct {
		name string
		flat FlatInputs
	}{
		{"toggle non-bool", FlatInputs{"enable_interpolation": "yes"}},
		{"vector non-record", FlatInputs{"size": json.Number("1024")}},
		{"pair non-list", FlatInputs{"loras": "a.safetensors"}},
		{"pair entry missing path", FlatInputs{"loras": []any{map[string]any{"high_path": "A-H"}}}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			actions, diags := Generate(c.flat, cfg)
			if len(actions) != 0 {
				t.Errorf("generated %d actions, want 0", len(actions))
			}
			if len(diags) != 1 || diags[0].Kind != KindTypeMismatch {
				t.Errorf("diagnostics = %v, want one type_mismatch", diags)
			}
		})
	}
}

func TestGenerateSkipsAbsentParameters(t *testing.T) {
	cfg := testConfig(t)

	actions, diags := Generate(FlatInputs{}, cfg)
	if len(actions) != 0 || len(diags) != 0 {
		t.Errorf("empty inputs produced %d actions and %d diagnostics", len(actions), len(diags))
	}
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := testConfig(t)
	flat := FlatInputs{
		"duration": json.Number("8.0"),
		"size":     map[string]any{"x": json.Number("1"), "y": json.Number("2")},
		"loras": []any{
			map[string]any{"high_path": "A-H", "low_path": "A-L"},
		},
	}

	first, _ := Generate(flat, cfg)
	second, _ := Generate(flat, cfg)
	if !reflect.DeepEqual(first, second) {
		t.Error("two generations from identical inputs differ")
	}
}
