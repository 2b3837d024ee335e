// Package runtime dispatches tool calls to the Stripe client and shapes results.
package runtime

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/codex-k8s/stripe-mcp-server/internal/arguments"
	"github.com/codex-k8s/stripe-mcp-server/internal/audit"
	"github.com/codex-k8s/stripe-mcp-server/internal/catalog"
	"github.com/codex-k8s/stripe-mcp-server/internal/observe"
	"github.com/codex-k8s/stripe-mcp-server/internal/protocol"
	"github.com/codex-k8s/stripe-mcp-server/internal/revenue"
	"github.com/codex-k8s/stripe-mcp-server/internal/security"
	"github.com/codex-k8s/stripe-mcp-server/internal/stripe"
	"github.com/codex-k8s/stripe-mcp-server/internal/templates"
)

// subscriptionPageSize is the single page metrics are computed from.
const subscriptionPageSize = 100

// Options configures a Dispatcher. Catalog and Provider are required.
type Options struct {
	Catalog   *catalog.Catalog
	Provider  Provider
	Timeout   time.Duration
	Templates templates.Renderer
	Logger    *slog.Logger
	Audit     audit.Logger
	Metrics   *observe.Metrics
}

// Dispatcher routes validated tool calls to the provider. It never retries.
type Dispatcher struct {
	catalog    *catalog.Catalog
	provider   Provider
	timeout    time.Duration
	classifier Classifier
	templates  templates.Renderer
	logger     *slog.Logger
	audit      audit.Logger
	metrics    *observe.Metrics
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(opts Options) (*Dispatcher, error) {
	if opts.Catalog == nil {
		return nil, errors.New("catalog is required")
	}
	if opts.Provider == nil {
		return nil, errors.New("provider is required")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	auditLogger := opts.Audit
	if auditLogger == nil {
		auditLogger = audit.Nop{}
	}
	return &Dispatcher{
		catalog:    opts.Catalog,
		provider:   opts.Provider,
		timeout:    timeout,
		classifier: Classifier{Templates: opts.Templates},
		templates:  opts.Templates,
		logger:     logger,
		audit:      auditLogger,
		metrics:    opts.Metrics,
	}, nil
}

// Dispatch runs one tool call. Every failure, including a panic, comes back
// as an error-flagged result.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, raw json.RawMessage) (result protocol.ToolCallResult) {
	start := time.Now()
	correlationID := uuid.NewString()
	ctx, span := observe.StartSpan(ctx, "tool "+name, trace.WithAttributes(
		attribute.String("tool", name),
		attribute.String("correlation_id", correlationID),
	))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("tool handler panicked", "tool", name, "correlation_id", correlationID, "panic", r)
			result = d.classifier.Classify(&PanicError{Value: r})
		}
		d.finish(ctx, span, name, correlationID, time.Since(start), result)
	}()

	d.logger.Info("tool call", "tool", name, "correlation_id", correlationID, "args", redactedArgs(raw))
	d.audit.Record(ctx, audit.Event{Type: audit.EventToolCall, Tool: name, CorrelationID: correlationID})

	if _, ok := d.catalog.Lookup(name); !ok {
		return d.classifier.Classify(&UnknownToolError{Name: name})
	}
	args, err := arguments.Parse(name, raw)
	if err != nil {
		if errors.Is(err, arguments.ErrUnknownTool) {
			err = &UnknownToolError{Name: name}
		}
		return d.classifier.Classify(err)
	}

	payload, err := d.execute(ctx, correlationID, args)
	if err != nil {
		return d.classifier.Classify(err)
	}
	text, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return d.classifier.Classify(fmt.Errorf("encode %s result: %w", name, err))
	}
	return protocol.Text(string(text))
}

func (d *Dispatcher) finish(ctx context.Context, span trace.Span, name, correlationID string, elapsed time.Duration, result protocol.ToolCallResult) {
	status := protocol.StatusOK
	if result.IsError {
		status = string(result.Kind)
		span.SetStatus(codes.Error, status)
		d.logger.Warn("tool call failed", "tool", name, "correlation_id", correlationID, "kind", status, "elapsed", elapsed)
		d.audit.Record(ctx, audit.Event{
			Type:          audit.EventToolError,
			Tool:          name,
			CorrelationID: correlationID,
			Kind:          status,
			Reason:        result.Message(),
			Elapsed:       elapsed,
		})
	} else {
		d.logger.Info("tool call completed", "tool", name, "correlation_id", correlationID, "elapsed", elapsed)
		d.audit.Record(ctx, audit.Event{Type: audit.EventToolOK, Tool: name, CorrelationID: correlationID, Elapsed: elapsed})
	}
	span.SetAttributes(attribute.String("status", status))
	d.metrics.RecordToolCall(ctx, name, status, elapsed)
}

// execute performs exactly one provider call for the validated arguments.
func (d *Dispatcher) execute(ctx context.Context, correlationID string, args arguments.Arguments) (any, error) {
	switch a := args.(type) {
	case arguments.ListTransactions:
		return guard(ctx, d.timeout, func(ctx context.Context) (*stripe.Page, error) {
			return d.provider.ListBalanceTransactions(ctx, listParams(a.Page))
		})
	case arguments.GetBalance:
		return guard(ctx, d.timeout, d.provider.GetBalance)
	case arguments.ListCustomers:
		return guard(ctx, d.timeout, func(ctx context.Context) (*stripe.Page, error) {
			return d.provider.ListCustomers(ctx, listParams(a.Page), a.Email)
		})
	case arguments.PaymentMethods:
		return guard(ctx, d.timeout, func(ctx context.Context) (*stripe.Page, error) {
			return d.provider.ListPaymentMethods(ctx, a.Customer)
		})
	case arguments.InvoiceHistory:
		return guard(ctx, d.timeout, func(ctx context.Context) (*stripe.Page, error) {
			return d.provider.ListInvoices(ctx, a.Customer, listParams(a.Page))
		})
	case arguments.SubscriptionMetrics:
		return d.subscriptionMetrics(ctx, correlationID, a)
	default:
		return nil, fmt.Errorf("no handler for tool %s", args.ToolName())
	}
}

func (d *Dispatcher) subscriptionMetrics(ctx context.Context, correlationID string, a arguments.SubscriptionMetrics) (revenue.Metrics, error) {
	page, err := guard(ctx, d.timeout, func(ctx context.Context) (*stripe.Page, error) {
		return d.provider.ListSubscriptions(ctx, stripe.SubscriptionFilter{
			Status:       "active",
			CreatedAfter: a.From,
			CreatedUntil: a.To,
			Limit:        subscriptionPageSize,
		})
	})
	if err != nil {
		return revenue.Metrics{}, err
	}
	if page.HasMore {
		d.logger.Warn("subscription metrics cover the first page only", "correlation_id", correlationID, "returned", len(page.Data))
	}
	subs, err := stripe.Decode[stripe.Subscription](page)
	if err != nil {
		return revenue.Metrics{}, err
	}
	return revenue.Compute(subs), nil
}

func listParams(p arguments.Pagination) stripe.ListParams {
	return stripe.ListParams{
		Limit:         p.Limit,
		StartingAfter: p.StartingAfter,
		EndingBefore:  p.EndingBefore,
	}
}

// redactedArgs decodes raw arguments for logging only. Undecodable input is logged by size.
func redactedArgs(raw json.RawMessage) any {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return map[string]any{}
	}
	var args map[string]any
	if err := json.Unmarshal(trimmed, &args); err != nil {
		return fmt.Sprintf("<%d bytes>", len(trimmed))
	}
	return security.RedactArguments(args)
}
