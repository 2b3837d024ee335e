package runtime

import (
	"context"

	"github.com/codex-k8s/stripe-mcp-server/internal/stripe"
)

// Provider is the subset of the Stripe client the tools call.
type Provider interface {
	GetBalance(ctx context.Context) (*stripe.Balance, error)
	ListBalanceTransactions(ctx context.Context, params stripe.ListParams) (*stripe.Page, error)
	ListCustomers(ctx context.Context, params stripe.ListParams, email string) (*stripe.Page, error)
	ListPaymentMethods(ctx context.Context, customer string) (*stripe.Page, error)
	ListInvoices(ctx context.Context, customer string, params stripe.ListParams) (*stripe.Page, error)
	ListSubscriptions(ctx context.Context, filter stripe.SubscriptionFilter) (*stripe.Page, error)
}

var _ Provider = (*stripe.Client)(nil)
