// ABOUTME: Action generation: cross-references flat inputs against the mapping config.
// ABOUTME: Emits actions in config declaration order; that order is the application contract.
package patch

import (
	"fmt"
	"sort"

	"github.com/2389-research/patchwork/mapping"
)

// Generate cross-references flat inputs against the mapping configuration
// and emits the ordered action list. Iteration follows the config's
// declaration order, never the input map's order. Parameters absent from
// flat produce no action. Inputs whose shape doesn't fit their parameter
// produce a warning diagnostic and no action. Pure and deterministic:
// identical inputs always yield the identical action sequence.
func Generate(flat FlatInputs, cfg *mapping.Config) ([]Action, []Diagnostic) {
	var actions []Action
	var diags []Diagnostic

	for _, p := range cfg.Parameters {
		value, ok := flat[p.Name]
		if !ok {
			continue
		}

		switch spec := p.Spec.(type) {
		case *mapping.ModifyWidget:
			actions = append(actions, &ModifyWidget{
				Param:   p.Name,
				NodeID:  spec.NodeID,
				Indices: spec.Indices,
				Value:   value,
			})

		case *mapping.ModifyVectorWidget:
			action, d := generateVector(p.Name, spec, value)
			diags = append(diags, d...)
			if action != nil {
				actions = append(actions, action)
			}

		case *mapping.ToggleNodeMode:
			on, ok := value.(bool)
			if !ok {
				diags = append(diags, mismatch(p.Name, fmt.Sprintf("expected a boolean, got %T", value)))
				continue
			}
			mode := spec.DisabledMode
			if on {
				mode = spec.EnabledMode
			}
			actions = append(actions, &ToggleMode{Param: p.Name, NodeIDs: spec.NodeIDs, Mode: mode})

		case *mapping.AddEntryPair:
			pairActions, d := generateEntryPairs(p.Name, spec, value)
			diags = append(diags, d...)
			actions = append(actions, pairActions...)
		}
	}

	return actions, diags
}

// generateVector builds a vector write from a record-valued input. Declared
// components missing from the record are skipped; components are ordered by
// name so output is deterministic. nil is returned when no declared
// component is present.
func generateVector(param string, spec *mapping.ModifyVectorWidget, value any) (*ModifyVector, []Diagnostic) {
	record, ok := value.(map[string]any)
	if !ok {
		return nil, []Diagnostic{mismatch(param, fmt.Sprintf("expected a component record, got %T", value))}
	}

	names := make([]string, 0, len(spec.Components))
	for name := range spec.Components {
		names = append(names, name)
	}
	sort.Strings(names)

	var writes []ComponentWrite
	for _, name := range names {
		v, present := record[name]
		if !present {
			continue
		}
		writes = append(writes, ComponentWrite{Component: name, Indices: spec.Components[name], Value: v})
	}

	if len(writes) == 0 {
		return nil, nil
	}
	return &ModifyVector{Param: param, NodeID: spec.NodeID, Writes: writes}, nil
}

// generateEntryPairs builds one pair action per input list element.
// Successive entries insert at InsertIndex + position so they append rather
// than overwrite. Entries beyond MaxEntries are dropped with a warning.
func generateEntryPairs(param string, spec *mapping.AddEntryPair, value any) ([]Action, []Diagnostic) {
	list, ok := value.([]any)
	if !ok {
		return nil, []Diagnostic{mismatch(param, fmt.Sprintf("expected a list of entries, got %T", value))}
	}

	var actions []Action
	var diags []Diagnostic

	for i, raw := range list {
		if spec.MaxEntries >= 0 && i >= spec.MaxEntries {
			diags = append(diags, Diagnostic{
				Kind:     KindEntryLimit,
				Severity: SeverityWarning,
				Message: fmt.Sprintf("parameter %q: dropping %d entr(ies) beyond the limit of %d",
					param, len(list)-i, spec.MaxEntries),
				Param: param,
			})
			break
		}

		entry, ok := raw.(map[string]any)
		if !ok {
			diags = append(diags, mismatch(param, fmt.Sprintf("entry %d: expected an object, got %T", i, raw)))
			continue
		}

		primary, secondary, err := entryPayloads(entry)
		if err != nil {
			diags = append(diags, mismatch(param, fmt.Sprintf("entry %d: %v", i, err)))
			continue
		}

		actions = append(actions, &AddEntryPair{
			Param:          param,
			PrimaryID:      spec.PrimaryNodeID,
			SecondaryID:    spec.SecondaryNodeID,
			Index:          spec.InsertIndex + len(actions),
			PrimaryEntry:   primary,
			SecondaryEntry: secondary,
		})
	}

	return actions, diags
}

// entryPayloads builds the two structured loader entries from one input
// entry. The high/low path split mirrors the paired-loader wire format:
// each side gets its own path with shared strength and enable flag.
func entryPayloads(entry map[string]any) (primary, secondary map[string]any, err error) {
	highPath, ok := entry["high_path"].(string)
	if !ok || highPath == "" {
		return nil, nil, fmt.Errorf("missing \"high_path\"")
	}
	lowPath, ok := entry["low_path"].(string)
	if !ok || lowPath == "" {
		return nil, nil, fmt.Errorf("missing \"low_path\"")
	}

	enabled := true
	if on, ok := entry["enabled"].(bool); ok {
		enabled = on
	}

	var strength any = 1.0
	if s, ok := entry["strength"]; ok {
		strength = s
	}

	primary = map[string]any{
		"lora":        highPath,
		"on":          enabled,
		"strength":    strength,
		"strengthTwo": nil,
	}
	secondary = map[string]any{
		"lora":        lowPath,
		"on":          enabled,
		"strength":    strength,
		"strengthTwo": nil,
	}
	return primary, secondary, nil
}

func mismatch(param, msg string) Diagnostic {
	return Diagnostic{
		Kind:     KindTypeMismatch,
		Severity: SeverityWarning,
		Message:  fmt.Sprintf("parameter %q: %s", param, msg),
		Param:    param,
	}
}
