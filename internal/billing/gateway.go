// Package billing isolates the external subscription-billing provider
// behind a narrow gateway so services depend on provider objects only in
// the reduced shape they actually consume. Tests substitute a fake.
package billing

import (
	"context"
	"time"
)

// Price is the reduced provider price object.
type Price struct {
	ID        string
	LookupKey string
}

// SubscriptionInfo is the reduced provider subscription object as
// attached to a finalized checkout session.
type SubscriptionInfo struct {
	ID               string
	Status           string
	PriceID          string
	PriceLookupKey   string
	Metadata         map[string]string
	CurrentPeriodEnd time.Time
}

// CheckoutSession is the reduced provider checkout-session object.
// Subscription is nil when the session completed without one (e.g. the
// user canceled before paying).
type CheckoutSession struct {
	ID           string
	URL          string
	CustomerID   string
	Metadata     map[string]string
	Subscription *SubscriptionInfo
}

// CheckoutParams describes a new subscription checkout.
type CheckoutParams struct {
	CustomerID string
	PriceID    string
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string // propagated to both session and subscription
}

// Invoice is the reduced provider invoice object.
type Invoice struct {
	ID         string    `json:"id"`
	Number     string    `json:"number"`
	AmountDue  int64     `json:"amountDue"`
	AmountPaid int64     `json:"amountPaid"`
	Currency   string    `json:"currency"`
	Status     string    `json:"status"`
	HostedURL  string    `json:"hostedUrl"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Gateway is the full surface the billing service needs from the
// provider. All calls are remote; callers impose timeouts via ctx.
type Gateway interface {
	// GetPrice returns the price or an error when the id does not
	// resolve against the connected account.
	GetPrice(ctx context.Context, id string) (*Price, error)
	// FindPriceByLookupKey returns (nil, nil) when no price carries the key.
	FindPriceByLookupKey(ctx context.Context, key string) (*Price, error)
	CreateRecurringPrice(ctx context.Context, productName, lookupKey, currency string, amount int64) (*Price, error)

	CreateCustomer(ctx context.Context, email, name string, metadata map[string]string) (string, error)

	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
	// GetCheckoutSession retrieves the session expanded with its
	// subscription and that subscription's price.
	GetCheckoutSession(ctx context.Context, id string) (*CheckoutSession, error)

	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)
	ListInvoices(ctx context.Context, customerID string, limit int) ([]Invoice, error)
}
