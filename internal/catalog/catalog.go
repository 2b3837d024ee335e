// Package catalog holds the fixed, ordered registry of tool definitions.
package catalog

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// Tool is an immutable tool definition.
type Tool struct {
	Name        string
	Title       string
	Description string
	Annotations *ToolAnnotationsConfig
	InputSchema *jsonschema.Schema
}

// Catalog is the ordered tool registry defined at process start.
type Catalog struct {
	server    ServerConfig
	tools     []Tool
	byName    map[string]int
	resources []ResourceConfig
}

func build(cfg Config) (*Catalog, error) {
	c := &Catalog{
		server:    cfg.Server,
		tools:     make([]Tool, 0, len(cfg.Tools)),
		byName:    make(map[string]int, len(cfg.Tools)),
		resources: append([]ResourceConfig(nil), cfg.Resources...),
	}
	for i, tool := range cfg.Tools {
		schema, err := compileSchema(tool.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("tools[%d].input_schema: %w", i, err)
		}
		c.byName[tool.Name] = len(c.tools)
		c.tools = append(c.tools, Tool{
			Name:        tool.Name,
			Title:       tool.Title,
			Description: tool.Description,
			Annotations: tool.Annotations,
			InputSchema: schema,
		})
	}
	return c, nil
}

// Server returns the server identity.
func (c *Catalog) Server() ServerConfig {
	return c.server
}

// Tools returns the tool definitions in catalog order.
func (c *Catalog) Tools() []Tool {
	return append([]Tool(nil), c.tools...)
}

// Names returns tool names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.tools))
	for i, tool := range c.tools {
		names[i] = tool.Name
	}
	return names
}

// Lookup finds a tool by exact name.
func (c *Catalog) Lookup(name string) (Tool, bool) {
	idx, ok := c.byName[name]
	if !ok {
		return Tool{}, false
	}
	return c.tools[idx], true
}

// Resources returns resource declarations.
func (c *Catalog) Resources() []ResourceConfig {
	return append([]ResourceConfig(nil), c.resources...)
}
