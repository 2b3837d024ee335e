// Package revenue derives recurring revenue figures from subscription records.
package revenue

import (
	"strconv"
	"strings"

	"github.com/codex-k8s/stripe-mcp-server/internal/stripe"
)

// Metrics is the subscription_metrics tool payload.
type Metrics struct {
	ActiveSubscriptions      int     `json:"activeSubscriptions"`
	MRR                      float64 `json:"mrr"`
	AverageSubscriptionValue float64 `json:"averageSubscriptionValue"`
}

// Compute aggregates one page of active subscriptions.
// A missing unit amount counts as zero and a missing quantity as one.
func Compute(subs []stripe.Subscription) Metrics {
	var total int64
	for _, sub := range subs {
		total += Monthly(sub)
	}
	m := Metrics{
		ActiveSubscriptions: len(subs),
		MRR:                 MajorUnits(total),
	}
	if m.ActiveSubscriptions > 0 {
		m.AverageSubscriptionValue = m.MRR / float64(m.ActiveSubscriptions)
	}
	return m
}

// Monthly returns the recurring amount of one subscription in minor units.
func Monthly(sub stripe.Subscription) int64 {
	var sum int64
	for _, item := range sub.Items.Data {
		var unit int64
		if item.Price != nil && item.Price.UnitAmount != nil {
			unit = *item.Price.UnitAmount
		}
		quantity := int64(1)
		if item.Quantity != nil {
			quantity = *item.Quantity
		}
		sum += unit * quantity
	}
	return sum
}

// MajorUnits converts minor currency units to major units.
func MajorUnits(minor int64) float64 {
	return float64(minor) / 100
}

// FormatAmount renders minor units as "<major>.<cents> <CURRENCY>" without float rounding.
func FormatAmount(minor int64, currency string) string {
	var b strings.Builder
	abs := uint64(minor)
	if minor < 0 {
		b.WriteByte('-')
		abs = uint64(-minor)
	}
	b.WriteString(strconv.FormatUint(abs/100, 10))
	b.WriteByte('.')
	cents := abs % 100
	if cents < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.FormatUint(cents, 10))
	if currency != "" {
		b.WriteByte(' ')
		b.WriteString(strings.ToUpper(currency))
	}
	return b.String()
}
