// Package arguments turns raw tool arguments into one typed record per tool.
package arguments

import (
	"time"

	"github.com/codex-k8s/stripe-mcp-server/internal/constants"
)

// Arguments is a validated, tool-specific argument record.
type Arguments interface {
	// ToolName returns the tool the record belongs to.
	ToolName() string
}

// Pagination carries opaque provider cursors. Zero values mean "not set".
type Pagination struct {
	Limit         *int64
	StartingAfter string
	EndingBefore  string
}

// ListTransactions are the arguments of list_transactions.
type ListTransactions struct {
	Page Pagination
}

// GetBalance are the arguments of get_balance.
type GetBalance struct{}

// ListCustomers are the arguments of list_customers.
type ListCustomers struct {
	Page  Pagination
	Email string
}

// PaymentMethods are the arguments of payment_methods.
type PaymentMethods struct {
	Customer string
}

// InvoiceHistory are the arguments of invoice_history.
type InvoiceHistory struct {
	Customer string
	Page     Pagination
}

// SubscriptionMetrics are the arguments of subscription_metrics.
type SubscriptionMetrics struct {
	From *time.Time
	To   *time.Time
}

func (ListTransactions) ToolName() string    { return constants.ToolListTransactions }
func (GetBalance) ToolName() string          { return constants.ToolGetBalance }
func (ListCustomers) ToolName() string       { return constants.ToolListCustomers }
func (PaymentMethods) ToolName() string      { return constants.ToolPaymentMethods }
func (InvoiceHistory) ToolName() string      { return constants.ToolInvoiceHistory }
func (SubscriptionMetrics) ToolName() string { return constants.ToolSubscriptionMetrics }
