package runtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codex-k8s/stripe-mcp-server/internal/constants"
	"github.com/codex-k8s/stripe-mcp-server/internal/stripe"
)

func connect(t *testing.T, provider Provider) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	cat := loadCatalog(t)
	d, err := NewDispatcher(Options{Catalog: cat, Provider: provider, Timeout: time.Second})
	require.NoError(t, err)
	server, err := Builder{Catalog: cat, Dispatcher: d}.Build()
	require.NoError(t, err)

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestServerListsCatalogInOrder(t *testing.T) {
	session := connect(t, newFakeProvider())

	list, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	names := make([]string, 0, len(list.Tools))
	for _, tool := range list.Tools {
		names = append(names, tool.Name)
		assert.NotNil(t, tool.InputSchema)
		if assert.NotNil(t, tool.Annotations) {
			assert.True(t, tool.Annotations.ReadOnlyHint)
		}
	}
	assert.Equal(t, []string{
		constants.ToolListTransactions,
		constants.ToolGetBalance,
		constants.ToolListCustomers,
		constants.ToolPaymentMethods,
		constants.ToolInvoiceHistory,
		constants.ToolSubscriptionMetrics,
	}, names)
}

func TestServerCallTool(t *testing.T) {
	session := connect(t, newFakeProvider())

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      constants.ToolSubscriptionMetrics,
		Arguments: map[string]any{},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.JSONEq(t, `{"activeSubscriptions":0,"mrr":0,"averageSubscriptionValue":0}`, textOf(t, res))
}

func TestServerCallToolValidationError(t *testing.T) {
	provider := newFakeProvider()
	session := connect(t, provider)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      constants.ToolListCustomers,
		Arguments: map[string]any{"limit": 150},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, textOf(t, res), "limit")
	assert.Zero(t, provider.totalCalls())
}

func TestServerCallUnknownToolReturnsErrorResult(t *testing.T) {
	provider := newFakeProvider()
	session := connect(t, provider)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "no_such_tool",
		Arguments: map[string]any{"limit": 5},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, "Unknown tool: no_such_tool", textOf(t, res))
	assert.Zero(t, provider.totalCalls())
}

func TestServerReadsAccountSummary(t *testing.T) {
	provider := newFakeProvider()
	provider.txns = &stripe.Page{Object: "list", Data: []json.RawMessage{
		json.RawMessage(`{"id":"txn_1","amount":250,"currency":"usd","created":1704067200}`),
	}}
	session := connect(t, provider)

	res, err := session.ReadResource(context.Background(), &mcp.ReadResourceParams{URI: constants.AccountSummaryURI})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Equal(t, "text/plain", res.Contents[0].MIMEType)
	assert.Contains(t, res.Contents[0].Text, "2.50 USD on 2024-01-01")
}
