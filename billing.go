package mailtrap

import (
	"context"
	"net/http"
	"time"
)

// UsageCounter is a current value against a plan limit.
type UsageCounter struct {
	Current int64 `json:"current"`
	Limit   int64 `json:"limit"`
}

// Remaining returns how much of the limit is left, never negative.
func (u UsageCounter) Remaining() int64 {
	return max(u.Limit-u.Current, 0)
}

// Plan names a billing plan.
type Plan struct {
	Name string `json:"name"`
}

// BillingUsage is the usage of the current billing cycle.
type BillingUsage struct {
	Billing struct {
		CycleStart time.Time `json:"cycle_start"`
		CycleEnd   time.Time `json:"cycle_end"`
	} `json:"billing"`
	Testing struct {
		Plan  Plan `json:"plan"`
		Usage struct {
			SentMessagesCount      UsageCounter `json:"sent_messages_count"`
			ForwardedMessagesCount UsageCounter `json:"forwarded_messages_count"`
		} `json:"usage"`
	} `json:"testing"`
	Sending struct {
		Plan  Plan `json:"plan"`
		Usage struct {
			SentMessagesCount UsageCounter `json:"sent_messages_count"`
		} `json:"usage"`
	} `json:"sending"`
}

// BillingResource exposes the account's billing data.
type BillingResource struct {
	res resource
}

// Usage returns the usage of the current billing cycle.
func (b *BillingResource) Usage(ctx context.Context) (*BillingUsage, error) {
	return execJSON[BillingUsage](ctx, b.res.with(ResourceAccount, "usage"), http.MethodGet, nil, nil)
}
