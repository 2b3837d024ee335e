package runtime

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/codex-k8s/stripe-mcp-server/internal/arguments"
	"github.com/codex-k8s/stripe-mcp-server/internal/protocol"
	"github.com/codex-k8s/stripe-mcp-server/internal/stripe"
)

func TestClassifierKinds(t *testing.T) {
	validation := &arguments.ValidationError{Tool: "list_customers", Fields: []arguments.FieldError{{Field: "limit", Problem: "must be at most 100"}}}
	cases := []struct {
		name string
		err  error
		want protocol.ErrorKind
	}{
		{"validation", validation, protocol.KindValidation},
		{"rate limited", &stripe.RateLimitError{RetryAfter: "3"}, protocol.KindRateLimited},
		{"provider", &stripe.APIError{StatusCode: 400, Message: "bad"}, protocol.KindProvider},
		{"timeout", &TimeoutError{After: time.Second}, protocol.KindTimeout},
		{"deadline", fmt.Errorf("call abandoned: %w", context.DeadlineExceeded), protocol.KindTimeout},
		{"unknown tool", &UnknownToolError{Name: "x"}, protocol.KindUnknownTool},
		{"unknown tool sentinel", fmt.Errorf("%w: x", arguments.ErrUnknownTool), protocol.KindUnknownTool},
		{"malformed", &stripe.MalformedResponseError{Reason: "x"}, protocol.KindUnexpected},
		{"plain", errors.New("x"), protocol.KindUnexpected},
		{"wrapped provider", fmt.Errorf("list: %w", &stripe.APIError{Message: "bad"}), protocol.KindProvider},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classifier{}.Kind(tc.err))
		})
	}
}

func TestClassifierPriority(t *testing.T) {
	joined := errors.Join(
		&TimeoutError{After: time.Second},
		&stripe.APIError{Message: "bad"},
		&stripe.RateLimitError{RetryAfter: "1"},
	)
	assert.Equal(t, protocol.KindRateLimited, Classifier{}.Kind(joined))

	joined = errors.Join(joined, &arguments.ValidationError{Tool: "x"})
	assert.Equal(t, protocol.KindValidation, Classifier{}.Kind(joined))
}

func TestClassifyRateLimitWithoutRetryAfter(t *testing.T) {
	res := Classifier{}.Classify(&stripe.RateLimitError{Local: true})
	assert.True(t, res.IsError)
	assert.Equal(t, "Rate limit exceeded", res.Message())

	res = Classifier{}.Classify(&stripe.RateLimitError{RetryAfter: "9"})
	assert.Equal(t, "Rate limit exceeded, retry after 9 seconds", res.Message())
}

func TestClassifyProviderFallsBackToStatus(t *testing.T) {
	res := Classifier{}.Classify(&stripe.APIError{StatusCode: 503, Message: "Service Unavailable"})
	assert.Equal(t, "Stripe error: Service Unavailable (code: 503)", res.Message())
}
