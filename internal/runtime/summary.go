package runtime

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/codex-k8s/stripe-mcp-server/internal/audit"
	"github.com/codex-k8s/stripe-mcp-server/internal/constants"
	"github.com/codex-k8s/stripe-mcp-server/internal/protocol"
	"github.com/codex-k8s/stripe-mcp-server/internal/revenue"
	"github.com/codex-k8s/stripe-mcp-server/internal/stripe"
	"github.com/codex-k8s/stripe-mcp-server/internal/templates"
	"github.com/codex-k8s/stripe-mcp-server/internal/timeutil"
)

// summaryTransactions is how many recent transactions the summary lists.
const summaryTransactions = 5

// AccountSummary renders the plain-text account summary. Failures are
// returned as an "Error: ..." text, never as an error.
func (d *Dispatcher) AccountSummary(ctx context.Context) string {
	start := time.Now()
	correlationID := uuid.NewString()

	var (
		balance *stripe.Balance
		txns    []stripe.BalanceTransaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		balance, err = guard(gctx, d.timeout, d.provider.GetBalance)
		return err
	})
	g.Go(func() error {
		limit := int64(summaryTransactions)
		page, err := guard(gctx, d.timeout, func(ctx context.Context) (*stripe.Page, error) {
			return d.provider.ListBalanceTransactions(ctx, stripe.ListParams{Limit: &limit})
		})
		if err != nil {
			return err
		}
		txns, err = stripe.Decode[stripe.BalanceTransaction](page)
		return err
	})

	status := protocol.StatusOK
	var text string
	if err := g.Wait(); err != nil {
		failure := d.classifier.Classify(err)
		status = string(failure.Kind)
		text = templates.Text(d.templates, templates.KeyResourceError,
			map[string]string{"Message": failure.Message()},
			"Error: "+failure.Message())
		d.logger.Warn("account summary failed", "correlation_id", correlationID, "kind", status, "error", err)
	} else {
		text = d.formatSummary(balance, txns)
	}

	d.audit.Record(ctx, audit.Event{
		Type:          audit.EventResourceRead,
		Tool:          constants.AccountSummaryURI,
		CorrelationID: correlationID,
		Kind:          kindOf(status),
		Elapsed:       time.Since(start),
	})
	d.metrics.RecordResourceRead(ctx, constants.AccountSummaryURI, status)
	return text
}

func kindOf(status string) string {
	if status == protocol.StatusOK {
		return ""
	}
	return status
}

func (d *Dispatcher) formatSummary(balance *stripe.Balance, txns []stripe.BalanceTransaction) string {
	text := func(key string, data any, fallback string) string {
		return templates.Text(d.templates, key, data, fallback)
	}

	var b strings.Builder
	b.WriteString(text(templates.KeySummaryTitle, nil, "Stripe account summary"))
	b.WriteByte('\n')
	for _, amount := range balance.Available {
		formatted := revenue.FormatAmount(amount.Amount, amount.Currency)
		b.WriteString(text(templates.KeySummaryAvail, map[string]string{"Amount": formatted}, "Available: "+formatted))
		b.WriteByte('\n')
	}
	for _, amount := range balance.Pending {
		formatted := revenue.FormatAmount(amount.Amount, amount.Currency)
		b.WriteString(text(templates.KeySummaryPending, map[string]string{"Amount": formatted}, "Pending: "+formatted))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	if len(txns) == 0 {
		b.WriteString(text(templates.KeySummaryNoTxns, nil, "No recent transactions"))
		b.WriteByte('\n')
		return b.String()
	}
	b.WriteString(text(templates.KeySummaryTxns, nil, "Recent transactions:"))
	b.WriteByte('\n')
	for i, txn := range txns {
		if i == summaryTransactions {
			break
		}
		b.WriteString(revenue.FormatAmount(txn.Amount, txn.Currency))
		b.WriteString(" on ")
		b.WriteString(timeutil.FormatDate(txn.Created))
		b.WriteByte('\n')
	}
	return b.String()
}
