package catalog

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Load parses YAML bytes into a Catalog and validates it.
func Load(data []byte) (*Catalog, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return build(cfg)
}
