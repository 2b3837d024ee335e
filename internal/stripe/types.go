package stripe

import (
	"encoding/json"
	"strconv"
	"time"
)

// Page is one page of a Stripe list response. Records stay raw JSON.
type Page struct {
	Object  string            `json:"object"`
	Data    []json.RawMessage `json:"data"`
	HasMore bool              `json:"has_more"`
	URL     string            `json:"url,omitempty"`
}

// Amount is a money value in minor currency units.
type Amount struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Balance is the account balance. It marshals back to the provider payload.
type Balance struct {
	Available []Amount
	Pending   []Amount

	raw json.RawMessage
}

// UnmarshalJSON keeps the raw payload next to the parsed amounts.
func (b *Balance) UnmarshalJSON(data []byte) error {
	var parsed struct {
		Available []Amount `json:"available"`
		Pending   []Amount `json:"pending"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return err
	}
	b.Available = parsed.Available
	b.Pending = parsed.Pending
	b.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON returns the provider payload unchanged.
func (b Balance) MarshalJSON() ([]byte, error) {
	if len(b.raw) > 0 {
		return b.raw, nil
	}
	return json.Marshal(struct {
		Object    string   `json:"object"`
		Available []Amount `json:"available"`
		Pending   []Amount `json:"pending"`
	}{"balance", b.Available, b.Pending})
}

// BalanceTransaction is the subset of a balance transaction used for summaries.
type BalanceTransaction struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Created  int64  `json:"created"`
	Type     string `json:"type"`
}

// Subscription is the subset of a subscription used for revenue metrics.
type Subscription struct {
	ID     string           `json:"id"`
	Status string           `json:"status"`
	Items  SubscriptionList `json:"items"`
}

// SubscriptionList holds subscription line items.
type SubscriptionList struct {
	Data []SubscriptionItem `json:"data"`
}

// SubscriptionItem is one subscription line item.
type SubscriptionItem struct {
	ID       string `json:"id"`
	Price    *Price `json:"price"`
	Quantity *int64 `json:"quantity"`
}

// Price is the unit price of a line item.
type Price struct {
	ID         string `json:"id"`
	Currency   string `json:"currency"`
	UnitAmount *int64 `json:"unit_amount"`
}

// ListParams carries pagination cursors forwarded as-is.
type ListParams struct {
	Limit         *int64
	StartingAfter string
	EndingBefore  string
}

// SubscriptionFilter selects subscriptions for metrics.
type SubscriptionFilter struct {
	Status       string
	CreatedAfter *time.Time
	CreatedUntil *time.Time
	Limit        int64
}

// Decode unmarshals every record of the page into T.
func Decode[T any](page *Page) ([]T, error) {
	out := make([]T, 0, len(page.Data))
	for i, item := range page.Data {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			return nil, &MalformedResponseError{Reason: "decode record " + strconv.Itoa(i) + ": " + err.Error()}
		}
		out = append(out, v)
	}
	return out, nil
}
