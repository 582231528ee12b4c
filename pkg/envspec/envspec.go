package envspec

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads an env spec from a YAML file.
func Load(path string) (*EnvSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading spec file: %w", err)
	}

	var spec EnvSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing spec YAML: %w", err)
	}

	return &spec, nil
}

// Save writes the spec to a YAML file.
func Save(s *EnvSpec, path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding spec YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing spec file: %w", err)
	}
	return nil
}

// ParseJSON decodes a spec from its persisted JSON document form and runs
// schema validation. Malformed input returns an error and no spec; callers
// editing an existing document keep their prior value untouched.
func ParseJSON(data []byte) (*EnvSpec, error) {
	var spec EnvSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing spec JSON: %w", err)
	}
	if report := Validate(&spec); !report.Valid {
		return nil, fmt.Errorf("invalid spec: %w", report.Err())
	}
	return &spec, nil
}

// MarshalDocument encodes the spec in its persisted JSON document form.
func MarshalDocument(s *EnvSpec) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding spec JSON: %w", err)
	}
	return data, nil
}
