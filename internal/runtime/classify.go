package runtime

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/codex-k8s/stripe-mcp-server/internal/arguments"
	"github.com/codex-k8s/stripe-mcp-server/internal/protocol"
	"github.com/codex-k8s/stripe-mcp-server/internal/stripe"
	"github.com/codex-k8s/stripe-mcp-server/internal/templates"
)

// UnknownToolError reports a call to a tool missing from the catalog.
type UnknownToolError struct {
	Name string
}

// Error implements error.
func (e *UnknownToolError) Error() string {
	return "unknown tool: " + e.Name
}

// Is lets errors.Is match arguments.ErrUnknownTool.
func (e *UnknownToolError) Is(target error) bool {
	return target == arguments.ErrUnknownTool
}

// Classifier maps errors to error-flagged tool results.
type Classifier struct {
	// Templates renders the user-visible messages. Nil uses built-in English text.
	Templates templates.Renderer
}

// Kind returns the error kind of err. Checks run in priority order.
func (c Classifier) Kind(err error) protocol.ErrorKind {
	var (
		validation *arguments.ValidationError
		rateLimit  *stripe.RateLimitError
		apiErr     *stripe.APIError
		timeout    *TimeoutError
		unknown    *UnknownToolError
	)
	switch {
	case errors.As(err, &validation):
		return protocol.KindValidation
	case errors.As(err, &rateLimit):
		return protocol.KindRateLimited
	case errors.As(err, &apiErr):
		return protocol.KindProvider
	case errors.As(err, &timeout), errors.Is(err, context.DeadlineExceeded):
		return protocol.KindTimeout
	case errors.As(err, &unknown), errors.Is(err, arguments.ErrUnknownTool):
		return protocol.KindUnknownTool
	default:
		return protocol.KindUnexpected
	}
}

// Classify converts err into a result with isError set.
func (c Classifier) Classify(err error) protocol.ToolCallResult {
	kind := c.Kind(err)
	return protocol.Failure(kind, c.message(kind, err))
}

func (c Classifier) message(kind protocol.ErrorKind, err error) string {
	switch kind {
	case protocol.KindValidation:
		return templates.Text(c.Templates, templates.KeyValidation,
			map[string]string{"Message": err.Error()},
			"Validation error: "+err.Error())

	case protocol.KindRateLimited:
		var rl *stripe.RateLimitError
		errors.As(err, &rl)
		fallback := "Rate limit exceeded"
		if rl.RetryAfter != "" {
			fallback += ", retry after " + rl.RetryAfter + " seconds"
		}
		return templates.Text(c.Templates, templates.KeyRateLimited,
			map[string]string{"RetryAfter": rl.RetryAfter, "Message": rl.Message},
			fallback)

	case protocol.KindProvider:
		var apiErr *stripe.APIError
		errors.As(err, &apiErr)
		return templates.Text(c.Templates, templates.KeyProvider,
			map[string]string{"Message": apiErr.Message, "Code": apiErr.ErrorCode()},
			"Stripe error: "+apiErr.Message+" (code: "+apiErr.ErrorCode()+")")

	case protocol.KindTimeout:
		seconds := formatSeconds(DefaultTimeout)
		var timeout *TimeoutError
		if errors.As(err, &timeout) {
			seconds = formatSeconds(timeout.After)
		}
		return templates.Text(c.Templates, templates.KeyTimeout,
			map[string]string{"Seconds": seconds},
			"Request timed out after "+seconds+" seconds")

	case protocol.KindUnknownTool:
		name := ""
		var unknown *UnknownToolError
		if errors.As(err, &unknown) {
			name = unknown.Name
		}
		return templates.Text(c.Templates, templates.KeyUnknownTool,
			map[string]string{"Tool": name},
			"Unknown tool: "+name)

	default:
		return templates.Text(c.Templates, templates.KeyUnexpected,
			map[string]string{"Message": err.Error()},
			"Unexpected error: "+err.Error())
	}
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}
