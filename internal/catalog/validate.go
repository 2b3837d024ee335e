package catalog

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate verifies required fields and uniqueness of names and URIs.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("catalog is nil")
	}
	if strings.TrimSpace(cfg.Server.Name) == "" {
		return fmt.Errorf("server.name is required")
	}
	if strings.TrimSpace(cfg.Server.Version) == "" {
		return fmt.Errorf("server.version is required")
	}
	if len(cfg.Tools) == 0 {
		return fmt.Errorf("at least one tool is required")
	}

	toolNames := map[string]struct{}{}
	for i, tool := range cfg.Tools {
		if tool.Name == "" {
			return fmt.Errorf("tools[%d].name is required", i)
		}
		if tool.Name != strings.TrimSpace(tool.Name) {
			return fmt.Errorf("tools[%d].name must not contain surrounding spaces", i)
		}
		if _, exists := toolNames[tool.Name]; exists {
			return fmt.Errorf("duplicate tool name: %s", tool.Name)
		}
		toolNames[tool.Name] = struct{}{}
		if strings.TrimSpace(tool.Description) == "" {
			return fmt.Errorf("tools[%d].description is required", i)
		}
		if tool.InputSchema == nil {
			return fmt.Errorf("tools[%d].input_schema is required", i)
		}
	}

	resourceURIs := map[string]struct{}{}
	for i, res := range cfg.Resources {
		if res.URI == "" {
			return fmt.Errorf("resources[%d].uri is required", i)
		}
		parsed, err := url.Parse(res.URI)
		if err != nil || parsed.Scheme == "" {
			return fmt.Errorf("resources[%d].uri must be absolute", i)
		}
		if _, exists := resourceURIs[res.URI]; exists {
			return fmt.Errorf("duplicate resource uri: %s", res.URI)
		}
		resourceURIs[res.URI] = struct{}{}
	}

	return nil
}
