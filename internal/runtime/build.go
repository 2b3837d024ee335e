package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/codex-k8s/stripe-mcp-server/internal/catalog"
	"github.com/codex-k8s/stripe-mcp-server/internal/constants"
	"github.com/codex-k8s/stripe-mcp-server/internal/protocol"
)

// Builder constructs an MCP server from the catalog.
type Builder struct {
	// Catalog supplies tool and resource declarations.
	Catalog *catalog.Catalog
	// Dispatcher serves every tool call and resource read.
	Dispatcher *Dispatcher
	// Logger is used for structured logging.
	Logger *slog.Logger
}

// Build creates an MCP server with tools and resources.
func (b Builder) Build() (*mcp.Server, error) {
	if b.Catalog == nil || b.Dispatcher == nil {
		return nil, fmt.Errorf("catalog and dispatcher are required")
	}
	info := b.Catalog.Server()
	server := mcp.NewServer(&mcp.Implementation{
		Name:    info.Name,
		Version: info.Version,
	}, &mcp.ServerOptions{Instructions: info.Instructions})

	for _, tool := range b.Catalog.Tools() {
		server.AddTool(&mcp.Tool{
			Name:        tool.Name,
			Title:       tool.Title,
			Description: tool.Description,
			InputSchema: tool.InputSchema,
			Annotations: buildAnnotations(tool.Title, tool.Annotations),
		}, b.toolHandler(tool.Name))
	}

	for _, res := range b.Catalog.Resources() {
		switch res.URI {
		case constants.AccountSummaryURI:
			server.AddResource(&mcp.Resource{
				Name:        res.Name,
				URI:         res.URI,
				Description: res.Description,
				MIMEType:    res.MIMEType,
			}, b.summaryHandler(res))
		default:
			return nil, fmt.Errorf("resource %s has no handler", res.URI)
		}
	}

	server.AddReceivingMiddleware(b.catalogMiddleware)

	if b.Logger != nil {
		b.Logger.Info("mcp server built", "tools", len(b.Catalog.Tools()), "resources", len(b.Catalog.Resources()))
	}
	return server, nil
}

const (
	methodListTools = "tools/list"
	methodCallTool  = "tools/call"
)

// catalogMiddleware lists tools in catalog order and answers calls to
// undeclared tools with an in-band error result.
func (b Builder) catalogMiddleware(next mcp.MethodHandler) mcp.MethodHandler {
	names := b.Catalog.Names()
	return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
		switch method {
		case methodCallTool:
			if call, ok := req.(*mcp.CallToolRequest); ok && call.Params != nil {
				if _, known := b.Catalog.Lookup(call.Params.Name); !known {
					return toCallToolResult(b.Dispatcher.Dispatch(ctx, call.Params.Name, call.Params.Arguments)), nil
				}
			}
		case methodListTools:
			res, err := next(ctx, method, req)
			if list, ok := res.(*mcp.ListToolsResult); ok && err == nil {
				slices.SortStableFunc(list.Tools, func(x, y *mcp.Tool) int {
					return slices.Index(names, x.Name) - slices.Index(names, y.Name)
				})
			}
			return res, err
		}
		return next(ctx, method, req)
	}
}

func (b Builder) toolHandler(name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var raw json.RawMessage
		if req != nil && req.Params != nil {
			raw = req.Params.Arguments
		}
		return toCallToolResult(b.Dispatcher.Dispatch(ctx, name, raw)), nil
	}
}

func (b Builder) summaryHandler(res catalog.ResourceConfig) mcp.ResourceHandler {
	return func(ctx context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      res.URI,
				MIMEType: res.MIMEType,
				Text:     b.Dispatcher.AccountSummary(ctx),
			}},
		}, nil
	}
}

func toCallToolResult(res protocol.ToolCallResult) *mcp.CallToolResult {
	content := make([]mcp.Content, 0, len(res.Content))
	for _, item := range res.Content {
		content = append(content, &mcp.TextContent{Text: item.Text})
	}
	return &mcp.CallToolResult{Content: content, IsError: res.IsError}
}

func buildAnnotations(title string, cfg *catalog.ToolAnnotationsConfig) *mcp.ToolAnnotations {
	if cfg == nil {
		return nil
	}
	return &mcp.ToolAnnotations{
		Title:          title,
		ReadOnlyHint:   cfg.ReadOnlyHint,
		IdempotentHint: cfg.IdempotentHint,
		OpenWorldHint:  cfg.OpenWorldHint,
	}
}
