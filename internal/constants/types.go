package constants

// Tool names exposed by the server.
const (
	ToolListTransactions    = "list_transactions"
	ToolGetBalance          = "get_balance"
	ToolListCustomers       = "list_customers"
	ToolPaymentMethods      = "payment_methods"
	ToolInvoiceHistory      = "invoice_history"
	ToolSubscriptionMetrics = "subscription_metrics"
)

// Transport names.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// AccountSummaryURI identifies the account summary resource.
const AccountSummaryURI = "stripe://account/summary"

// MaxListLimit caps limit for customer and invoice listings.
const MaxListLimit = 100
