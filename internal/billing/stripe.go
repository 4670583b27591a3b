package billing

import (
	"context"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// StripeGateway implements Gateway on the Stripe API.
type StripeGateway struct {
	api *client.API
}

func NewStripeGateway(secretKey string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{api: api}
}

func (g *StripeGateway) GetPrice(ctx context.Context, id string) (*Price, error) {
	params := &stripe.PriceParams{}
	params.Context = ctx

	p, err := g.api.Prices.Get(id, params)
	if err != nil {
		return nil, err
	}
	return &Price{ID: p.ID, LookupKey: p.LookupKey}, nil
}

func (g *StripeGateway) FindPriceByLookupKey(ctx context.Context, key string) (*Price, error) {
	params := &stripe.PriceListParams{
		LookupKeys: stripe.StringSlice([]string{key}),
	}
	params.Context = ctx

	iter := g.api.Prices.List(params)
	for iter.Next() {
		p := iter.Price()
		return &Price{ID: p.ID, LookupKey: p.LookupKey}, nil
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return nil, nil
}

func (g *StripeGateway) CreateRecurringPrice(ctx context.Context, productName, lookupKey, currency string, amount int64) (*Price, error) {
	params := &stripe.PriceParams{
		Currency:   stripe.String(currency),
		UnitAmount: stripe.Int64(amount),
		LookupKey:  stripe.String(lookupKey),
		Recurring: &stripe.PriceRecurringParams{
			Interval: stripe.String(string(stripe.PriceRecurringIntervalMonth)),
		},
		ProductData: &stripe.PriceProductDataParams{
			Name: stripe.String(productName),
		},
	}
	params.Context = ctx

	p, err := g.api.Prices.New(params)
	if err != nil {
		return nil, err
	}
	return &Price{ID: p.ID, LookupKey: p.LookupKey}, nil
}

func (g *StripeGateway) CreateCustomer(ctx context.Context, email, name string, metadata map[string]string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	customer, err := g.api.Customers.New(params)
	if err != nil {
		return "", err
	}
	return customer.ID, nil
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer:   stripe.String(p.CustomerID),
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(p.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx
	if len(p.Metadata) > 0 {
		params.SubscriptionData = &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: p.Metadata,
		}
		for k, v := range p.Metadata {
			params.AddMetadata(k, v)
		}
	}

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, err
	}
	return convertSession(sess), nil
}

func (g *StripeGateway) GetCheckoutSession(ctx context.Context, id string) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("subscription")
	params.AddExpand("subscription.items.data.price")

	sess, err := g.api.CheckoutSessions.Get(id, params)
	if err != nil {
		return nil, err
	}
	return convertSession(sess), nil
}

func (g *StripeGateway) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}
	params.Context = ctx

	sess, err := g.api.BillingPortalSessions.New(params)
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}

func (g *StripeGateway) ListInvoices(ctx context.Context, customerID string, limit int) ([]Invoice, error) {
	params := &stripe.InvoiceListParams{
		Customer: stripe.String(customerID),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(int64(limit))

	var invoices []Invoice
	iter := g.api.Invoices.List(params)
	for iter.Next() {
		inv := iter.Invoice()
		invoices = append(invoices, Invoice{
			ID:         inv.ID,
			Number:     inv.Number,
			AmountDue:  inv.AmountDue,
			AmountPaid: inv.AmountPaid,
			Currency:   string(inv.Currency),
			Status:     string(inv.Status),
			HostedURL:  inv.HostedInvoiceURL,
			CreatedAt:  time.Unix(inv.Created, 0),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return invoices, nil
}

func convertSession(sess *stripe.CheckoutSession) *CheckoutSession {
	out := &CheckoutSession{
		ID:       sess.ID,
		URL:      sess.URL,
		Metadata: sess.Metadata,
	}
	if sess.Customer != nil {
		out.CustomerID = sess.Customer.ID
	}
	if sub := sess.Subscription; sub != nil {
		info := &SubscriptionInfo{
			ID:               sub.ID,
			Status:           string(sub.Status),
			Metadata:         sub.Metadata,
			CurrentPeriodEnd: time.Unix(sub.CurrentPeriodEnd, 0),
		}
		if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
			info.PriceID = sub.Items.Data[0].Price.ID
			info.PriceLookupKey = sub.Items.Data[0].Price.LookupKey
		}
		out.Subscription = info
	}
	return out
}
