package domain

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Extensions lists allowed file extensions. Manifests may give a single
// extension as a bare string instead of a list.
type Extensions []string

// UnmarshalJSON accepts a string or an array of strings
func (e *Extensions) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*e = nil
		return nil
	}

	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*e = Extensions{one}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*e = many
	return nil
}

// UnmarshalYAML accepts a scalar or a sequence of scalars
func (e *Extensions) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		if node.Tag == "!!null" {
			*e = nil
			return nil
		}
		*e = Extensions{node.Value}
		return nil
	}

	var many []string
	if err := node.Decode(&many); err != nil {
		return err
	}
	*e = many
	return nil
}
