// ABOUTME: Flattens nested user-input categories into a flat parameter-name -> value table.
// ABOUTME: Categories are organizational only; flattening is mapping-aware so record-valued leaves stay intact.
package patch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/2389-research/patchwork/mapping"
)

// FlatInputs maps declared parameter names to the values supplied for them.
// Absent parameters are simply absent; that is "no change requested", not an
// error.
type FlatInputs map[string]any

// AmbiguousKeyError is the fatal condition of two input categories supplying
// the same declared parameter name.
type AmbiguousKeyError struct {
	Name          string
	FirstPath     string
	ConflictPath  string
}

func (e *AmbiguousKeyError) Error() string {
	return fmt.Sprintf("ambiguous input: parameter %q supplied at both %s and %s",
		e.Name, e.FirstPath, e.ConflictPath)
}

// Flatten walks nested user inputs and collects the values of declared
// parameters. A key matching a declared parameter name is a leaf regardless
// of its value shape, so record-valued inputs (vector components) and entry
// lists never get mistaken for categories. Any other map value is a category
// to descend into; other undeclared values are ignored. A top-level "inputs"
// wrapper, if present, is unwrapped first.
func Flatten(nested map[string]any, cfg *mapping.Config) (FlatInputs, error) {
	if inner, ok := nested["inputs"].(map[string]any); ok && len(nested) == 1 {
		nested = inner
	}

	flat := make(FlatInputs)
	paths := make(map[string]string)
	if err := flattenInto(nested, "", cfg, flat, paths); err != nil {
		return nil, err
	}
	return flat, nil
}

func flattenInto(m map[string]any, prefix string, cfg *mapping.Config, flat FlatInputs, paths map[string]string) error {
	for key, value := range m {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		if cfg.Declares(key) {
			if first, dup := paths[key]; dup {
				// Report paths in a stable order regardless of map iteration.
				a, b := first, path
				if b < a {
					a, b = b, a
				}
				return &AmbiguousKeyError{Name: key, FirstPath: a, ConflictPath: b}
			}
			paths[key] = path
			flat[key] = value
			continue
		}

		if sub, ok := value.(map[string]any); ok {
			if err := flattenInto(sub, path, cfg, flat, paths); err != nil {
				return err
			}
		}
		// Undeclared scalar leaves carry no meaning for the interpreter.
	}
	return nil
}

// DecodeInputs decodes a user-input JSON document with UseNumber so numeric
// values keep their source text through generation and hashing.
func DecodeInputs(r io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var nested map[string]any
	if err := dec.Decode(&nested); err != nil {
		return nil, fmt.Errorf("parse inputs: %w", err)
	}
	return nested, nil
}

// DecodeInputsFile reads and decodes a user-input JSON file.
func DecodeInputsFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read inputs: %w", err)
	}
	return DecodeInputs(bytes.NewReader(data))
}
