// ABOUTME: YAML loader for mapping configurations with load-time validation.
// ABOUTME: Dispatches on the action tag into the closed PatchSpec union; any defect fails the whole load.
package mapping

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/2389-research/patchwork/graph"
)

// ErrorKind classifies configuration defects.
type ErrorKind int

const (
	// MissingField means a variant-required field is absent or empty.
	MissingField ErrorKind = iota
	// UnknownVariant means the action tag or a mode name is not recognized.
	UnknownVariant
	// DuplicateName means two parameters declare the same name.
	DuplicateName
	// InvalidValue means a field is present but out of its valid range.
	InvalidValue
)

// String returns a human-readable name for the error kind.
func (k ErrorKind) String() string {
	switch k {
	case MissingField:
		return "missing field"
	case UnknownVariant:
		return "unknown variant"
	case DuplicateName:
		return "duplicate name"
	case InvalidValue:
		return "invalid value"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ConfigError is a fatal load-time configuration defect. A config that
// produces one is never partially usable: Load returns nil alongside it.
type ConfigError struct {
	Kind  ErrorKind
	Param string // parameter name, if the defect is scoped to one parameter
	Field string // offending field, if applicable
	Msg   string
}

func (e *ConfigError) Error() string {
	where := ""
	if e.Param != "" {
		where = fmt.Sprintf(" in parameter %q", e.Param)
	}
	if e.Field != "" {
		where += fmt.Sprintf(" (field %q)", e.Field)
	}
	return fmt.Sprintf("config: %s%s: %s", e.Kind, where, e.Msg)
}

// rawParameter is the union of all variant fields as they appear in YAML.
// Pointers distinguish absent from zero for fields where that matters.
type rawParameter struct {
	Name            string           `yaml:"name"`
	Action          string           `yaml:"action"`
	NodeID          *int             `yaml:"node_id"`
	WidgetIndices   []int            `yaml:"widget_indices"`
	Components      map[string][]int `yaml:"components"`
	NodeIDs         []int            `yaml:"node_ids"`
	EnabledMode     string           `yaml:"enabled_mode"`
	DisabledMode    string           `yaml:"disabled_mode"`
	PrimaryNodeID   *int             `yaml:"primary_node_id"`
	SecondaryNodeID *int             `yaml:"secondary_node_id"`
	InsertIndex     *int             `yaml:"insert_index"`
	MaxEntries      *int             `yaml:"max_entries"`
}

type rawConfig struct {
	Name         string         `yaml:"name"`
	WorkflowFile string         `yaml:"workflow_file"`
	BaseHash     string         `yaml:"base_hash"`
	Parameters   []rawParameter `yaml:"parameters"`
}

// Load parses and validates a mapping configuration from YAML. Parameters
// are declared as a sequence, so declaration order survives into
// Config.Parameters. Any defect aborts the load: a usable Config is never
// returned alongside an error.
func Load(r io.Reader) (*Config, error) {
	var raw rawConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}

	cfg := &Config{
		Name:         raw.Name,
		WorkflowFile: raw.WorkflowFile,
		BaseHash:     raw.BaseHash,
		Parameters:   make([]Parameter, 0, len(raw.Parameters)),
		byName:       make(map[string]int, len(raw.Parameters)),
	}

	for i, rp := range raw.Parameters {
		if rp.Name == "" {
			return nil, &ConfigError{Kind: MissingField, Field: "name",
				Msg: fmt.Sprintf("parameter %d has no name", i)}
		}
		if _, dup := cfg.byName[rp.Name]; dup {
			return nil, &ConfigError{Kind: DuplicateName, Param: rp.Name,
				Msg: "parameter declared more than once"}
		}

		spec, err := buildSpec(&rp)
		if err != nil {
			return nil, err
		}

		cfg.byName[rp.Name] = len(cfg.Parameters)
		cfg.Parameters = append(cfg.Parameters, Parameter{Name: rp.Name, Spec: spec})
	}

	return cfg, nil
}

// LoadFile reads and parses a mapping configuration from a file.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// buildSpec dispatches on the action tag and validates variant fields.
// Unknown tags are rejected here, at load time, never deferred to apply time.
func buildSpec(rp *rawParameter) (PatchSpec, error) {
	switch rp.Action {
	case "modify_widget":
		if rp.NodeID == nil {
			return nil, missing(rp.Name, "node_id")
		}
		if len(rp.WidgetIndices) == 0 {
			return nil, missing(rp.Name, "widget_indices")
		}
		for _, idx := range rp.WidgetIndices {
			if idx < 0 {
				return nil, &ConfigError{Kind: InvalidValue, Param: rp.Name,
					Field: "widget_indices", Msg: fmt.Sprintf("index %d is negative", idx)}
			}
		}
		return &ModifyWidget{NodeID: *rp.NodeID, Indices: rp.WidgetIndices}, nil

	case "modify_vector_widget":
		if rp.NodeID == nil {
			return nil, missing(rp.Name, "node_id")
		}
		if len(rp.Components) == 0 {
			return nil, missing(rp.Name, "components")
		}
		for comp, indices := range rp.Components {
			if len(indices) == 0 {
				return nil, &ConfigError{Kind: MissingField, Param: rp.Name,
					Field: "components", Msg: fmt.Sprintf("component %q has no indices", comp)}
			}
			for _, idx := range indices {
				if idx < 0 {
					return nil, &ConfigError{Kind: InvalidValue, Param: rp.Name,
						Field: "components", Msg: fmt.Sprintf("component %q index %d is negative", comp, idx)}
				}
			}
		}
		return &ModifyVectorWidget{NodeID: *rp.NodeID, Components: rp.Components}, nil

	case "toggle_node_mode":
		if len(rp.NodeIDs) == 0 {
			return nil, missing(rp.Name, "node_ids")
		}
		enabled, err := parseMode(rp.Name, "enabled_mode", rp.EnabledMode)
		if err != nil {
			return nil, err
		}
		disabled, err := parseMode(rp.Name, "disabled_mode", rp.DisabledMode)
		if err != nil {
			return nil, err
		}
		return &ToggleNodeMode{NodeIDs: rp.NodeIDs, EnabledMode: enabled, DisabledMode: disabled}, nil

	case "add_entry_pair":
		if rp.PrimaryNodeID == nil {
			return nil, missing(rp.Name, "primary_node_id")
		}
		if rp.SecondaryNodeID == nil {
			return nil, missing(rp.Name, "secondary_node_id")
		}
		if rp.InsertIndex == nil {
			return nil, missing(rp.Name, "insert_index")
		}
		if *rp.InsertIndex < 0 {
			return nil, &ConfigError{Kind: InvalidValue, Param: rp.Name,
				Field: "insert_index", Msg: fmt.Sprintf("must be >= 0, got %d", *rp.InsertIndex)}
		}
		maxEntries := -1 // unlimited when absent
		if rp.MaxEntries != nil {
			if *rp.MaxEntries < 0 {
				return nil, &ConfigError{Kind: InvalidValue, Param: rp.Name,
					Field: "max_entries", Msg: fmt.Sprintf("must be >= 0, got %d", *rp.MaxEntries)}
			}
			maxEntries = *rp.MaxEntries
		}
		return &AddEntryPair{
			PrimaryNodeID:   *rp.PrimaryNodeID,
			SecondaryNodeID: *rp.SecondaryNodeID,
			InsertIndex:     *rp.InsertIndex,
			MaxEntries:      maxEntries,
		}, nil

	case "":
		return nil, missing(rp.Name, "action")

	default:
		return nil, &ConfigError{Kind: UnknownVariant, Param: rp.Name, Field: "action",
			Msg: fmt.Sprintf("unknown action %q", rp.Action)}
	}
}

func missing(param, field string) *ConfigError {
	return &ConfigError{Kind: MissingField, Param: param, Field: field, Msg: "required field is missing"}
}

// parseMode maps a symbolic mode name to its wire value.
func parseMode(param, field, name string) (graph.Mode, error) {
	switch name {
	case "enabled":
		return graph.ModeEnabled, nil
	case "bypassed":
		return graph.ModeBypassed, nil
	case "muted":
		return graph.ModeMuted, nil
	case "":
		return 0, missing(param, field)
	default:
		return 0, &ConfigError{Kind: UnknownVariant, Param: param, Field: field,
			Msg: fmt.Sprintf("unknown mode %q (want enabled, bypassed, or muted)", name)}
	}
}
