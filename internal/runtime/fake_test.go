package runtime

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/codex-k8s/stripe-mcp-server/configs"
	"github.com/codex-k8s/stripe-mcp-server/internal/catalog"
	"github.com/codex-k8s/stripe-mcp-server/internal/stripe"
)

// fakeProvider answers from canned pages and counts calls per method.
type fakeProvider struct {
	mu    sync.Mutex
	calls map[string]int
	last  map[string]any

	balanceErr error
	listErr    error
	page       *stripe.Page
	subs       *stripe.Page
	txns       *stripe.Page
	block      bool
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		calls: map[string]int{},
		last:  map[string]any{},
		page:  &stripe.Page{Object: "list", Data: []json.RawMessage{json.RawMessage(`{"id":"obj_1"}`)}, URL: "/v1/x"},
	}
}

func (f *fakeProvider) record(ctx context.Context, name string, arg any) error {
	f.mu.Lock()
	f.calls[name]++
	f.last[name] = arg
	block := f.block
	f.mu.Unlock()
	if block {
		<-ctx.Done()
		return ctx.Err()
	}
	return nil
}

func (f *fakeProvider) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeProvider) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func (f *fakeProvider) lastArg(name string) any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last[name]
}

func (f *fakeProvider) GetBalance(ctx context.Context) (*stripe.Balance, error) {
	if err := f.record(ctx, "GetBalance", nil); err != nil {
		return nil, err
	}
	if f.balanceErr != nil {
		return nil, f.balanceErr
	}
	var b stripe.Balance
	if err := json.Unmarshal([]byte(`{"object":"balance","available":[{"amount":12345,"currency":"usd"}],"pending":[{"amount":500,"currency":"usd"}]}`), &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (f *fakeProvider) listResult(p *stripe.Page) (*stripe.Page, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if p != nil {
		return p, nil
	}
	return f.page, nil
}

func (f *fakeProvider) ListBalanceTransactions(ctx context.Context, params stripe.ListParams) (*stripe.Page, error) {
	if err := f.record(ctx, "ListBalanceTransactions", params); err != nil {
		return nil, err
	}
	return f.listResult(f.txns)
}

func (f *fakeProvider) ListCustomers(ctx context.Context, params stripe.ListParams, email string) (*stripe.Page, error) {
	if err := f.record(ctx, "ListCustomers", []any{params, email}); err != nil {
		return nil, err
	}
	return f.listResult(nil)
}

func (f *fakeProvider) ListPaymentMethods(ctx context.Context, customer string) (*stripe.Page, error) {
	if err := f.record(ctx, "ListPaymentMethods", customer); err != nil {
		return nil, err
	}
	return f.listResult(nil)
}

func (f *fakeProvider) ListInvoices(ctx context.Context, customer string, params stripe.ListParams) (*stripe.Page, error) {
	if err := f.record(ctx, "ListInvoices", []any{customer, params}); err != nil {
		return nil, err
	}
	return f.listResult(nil)
}

func (f *fakeProvider) ListSubscriptions(ctx context.Context, filter stripe.SubscriptionFilter) (*stripe.Page, error) {
	if err := f.record(ctx, "ListSubscriptions", filter); err != nil {
		return nil, err
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.subs != nil {
		return f.subs, nil
	}
	return &stripe.Page{Object: "list", Data: []json.RawMessage{}}, nil
}

func loadCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	raw, err := configs.Load(configs.CatalogFile)
	require.NoError(t, err)
	c, err := catalog.Load(raw)
	require.NoError(t, err)
	return c
}

func newTestDispatcher(t *testing.T, provider Provider, timeout time.Duration) *Dispatcher {
	t.Helper()
	d, err := NewDispatcher(Options{
		Catalog:  loadCatalog(t),
		Provider: provider,
		Timeout:  timeout,
	})
	require.NoError(t, err)
	return d
}
