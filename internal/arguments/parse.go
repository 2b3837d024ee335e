package arguments

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/mail"
	"time"

	"github.com/codex-k8s/stripe-mcp-server/internal/constants"
	"github.com/codex-k8s/stripe-mcp-server/internal/timeutil"
)

// Parse validates raw JSON arguments of the named tool.
func Parse(tool string, raw json.RawMessage) (Arguments, error) {
	args, err := decode(raw)
	if err != nil {
		return nil, newValidationError(tool, []FieldError{{Field: "arguments", Problem: err.Error()}})
	}
	return ParseMap(tool, args)
}

// ParseMap validates already decoded arguments of the named tool.
func ParseMap(tool string, args map[string]any) (Arguments, error) {
	r := &reader{args: args, seen: make(map[string]struct{}, len(args))}

	var out Arguments
	switch tool {
	case constants.ToolListTransactions:
		out = ListTransactions{Page: r.pagination(0)}
	case constants.ToolGetBalance:
		out = GetBalance{}
	case constants.ToolListCustomers:
		out = ListCustomers{
			Page:  r.pagination(constants.MaxListLimit),
			Email: r.email("email"),
		}
	case constants.ToolPaymentMethods:
		out = PaymentMethods{Customer: r.str("customer", true)}
	case constants.ToolInvoiceHistory:
		out = InvoiceHistory{
			Customer: r.str("customer", true),
			Page:     r.pagination(constants.MaxListLimit),
		}
	case constants.ToolSubscriptionMetrics:
		out = r.subscriptionMetrics()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, tool)
	}

	r.rejectUnknown()
	if len(r.errs) > 0 {
		return nil, newValidationError(tool, r.errs)
	}
	return out, nil
}

func decode(raw json.RawMessage) (map[string]any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return map[string]any{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var args map[string]any
	if err := dec.Decode(&args); err != nil {
		return nil, fmt.Errorf("must be a JSON object")
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

type reader struct {
	args map[string]any
	seen map[string]struct{}
	errs []FieldError
}

func (r *reader) fail(field, format string, a ...any) {
	r.errs = append(r.errs, FieldError{Field: field, Problem: fmt.Sprintf(format, a...)})
}

// lookup marks the field as known and reports whether a non-null value is present.
func (r *reader) lookup(name string) (any, bool) {
	r.seen[name] = struct{}{}
	value, ok := r.args[name]
	if !ok || value == nil {
		return nil, false
	}
	return value, true
}

func (r *reader) str(name string, required bool) string {
	value, ok := r.lookup(name)
	if !ok {
		if required {
			r.fail(name, "is required")
		}
		return ""
	}
	s, ok := value.(string)
	if !ok {
		r.fail(name, "must be a string")
		return ""
	}
	if s == "" {
		r.fail(name, "must not be empty")
		return ""
	}
	return s
}

func (r *reader) email(name string) string {
	s := r.str(name, false)
	if s == "" {
		return ""
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		r.fail(name, "must be a valid email address")
		return ""
	}
	return s
}

// limit reads a positive integer; max <= 0 means no upper bound.
func (r *reader) limit(name string, max int64) *int64 {
	value, ok := r.lookup(name)
	if !ok {
		return nil
	}
	n, ok := toInt(value)
	if !ok {
		r.fail(name, "must be an integer")
		return nil
	}
	if n < 1 {
		r.fail(name, "must be a positive integer")
		return nil
	}
	if max > 0 && n > max {
		r.fail(name, "must be at most %d", max)
		return nil
	}
	return &n
}

func (r *reader) pagination(max int64) Pagination {
	return Pagination{
		Limit:         r.limit("limit", max),
		StartingAfter: r.str("starting_after", false),
		EndingBefore:  r.str("ending_before", false),
	}
}

func (r *reader) dateTime(name string) *time.Time {
	s := r.str(name, false)
	if s == "" {
		return nil
	}
	parsed, err := timeutil.ParseDateTime(s)
	if err != nil {
		r.fail(name, "must be an ISO-8601 date-time")
		return nil
	}
	return &parsed
}

func (r *reader) subscriptionMetrics() SubscriptionMetrics {
	out := SubscriptionMetrics{
		From: r.dateTime("from_date"),
		To:   r.dateTime("to_date"),
	}
	if out.From != nil && out.To != nil && !out.From.Before(*out.To) {
		r.fail("from_date", "must be before to_date")
	}
	return out
}

func (r *reader) rejectUnknown() {
	for name := range r.args {
		if _, ok := r.seen[name]; !ok {
			r.fail(name, "is not a supported argument")
		}
	}
}

func toInt(value any) (int64, bool) {
	switch v := value.(type) {
	case json.Number:
		n, err := v.Int64()
		if err == nil {
			return n, true
		}
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt(f)
	case float64:
		return floatToInt(v)
	case int:
		return int64(v), true
	case int64:
		return v, true
	default:
		return 0, false
	}
}

func floatToInt(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, false
	}
	return int64(f), true
}
