package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cardbox_backend/internal/billing"
	"cardbox_backend/internal/config"
	"cardbox_backend/internal/repositories"
	"cardbox_backend/internal/services"
	"cardbox_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGateway records calls and serves canned provider objects. Fields
// are set per test; unset paths fall back to sensible defaults.
type fakeGateway struct {
	prices       map[string]*billing.Price // by id
	lookupPrices map[string]*billing.Price // by lookup key
	sessions     map[string]*billing.CheckoutSession
	invoices     []billing.Invoice
	portalURL    string
	checkoutErr  error

	createdCustomers  int
	createdPrices     []billing.Price
	checkoutParams    []billing.CheckoutParams
	invoiceCustomerID string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		prices:       map[string]*billing.Price{},
		lookupPrices: map[string]*billing.Price{},
		sessions:     map[string]*billing.CheckoutSession{},
		portalURL:    "https://billing.example.com/portal",
	}
}

func (g *fakeGateway) GetPrice(ctx context.Context, id string) (*billing.Price, error) {
	if price, ok := g.prices[id]; ok {
		return price, nil
	}
	return nil, errors.New("no such price")
}

func (g *fakeGateway) FindPriceByLookupKey(ctx context.Context, key string) (*billing.Price, error) {
	return g.lookupPrices[key], nil
}

func (g *fakeGateway) CreateRecurringPrice(ctx context.Context, productName, lookupKey, currency string, amount int64) (*billing.Price, error) {
	price := billing.Price{ID: "price_created_" + lookupKey, LookupKey: lookupKey}
	g.createdPrices = append(g.createdPrices, price)
	g.lookupPrices[lookupKey] = &price
	return &price, nil
}

func (g *fakeGateway) CreateCustomer(ctx context.Context, email, name string, metadata map[string]string) (string, error) {
	g.createdCustomers++
	return "cus_test_1", nil
}

func (g *fakeGateway) CreateCheckoutSession(ctx context.Context, params billing.CheckoutParams) (*billing.CheckoutSession, error) {
	if g.checkoutErr != nil {
		return nil, g.checkoutErr
	}
	g.checkoutParams = append(g.checkoutParams, params)
	return &billing.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.example.com/cs_test_1"}, nil
}

func (g *fakeGateway) GetCheckoutSession(ctx context.Context, id string) (*billing.CheckoutSession, error) {
	if session, ok := g.sessions[id]; ok {
		return session, nil
	}
	return nil, errors.New("no such session")
}

func (g *fakeGateway) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	return g.portalURL, nil
}

func (g *fakeGateway) ListInvoices(ctx context.Context, customerID string, limit int) ([]billing.Invoice, error) {
	g.invoiceCustomerID = customerID
	return g.invoices, nil
}

func billingTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Billing.LookupKeyPrefix = "cardbox"
	cfg.Billing.PlanAmounts = map[string]int64{"pro": 900, "studio": 2900}
	cfg.Billing.PriceIDs = map[string]string{}
	cfg.Billing.Currency = "usd"
	cfg.Billing.SuccessURL = "https://app.example.com/billing/success?session_id={CHECKOUT_SESSION_ID}"
	cfg.Billing.CancelURL = "https://app.example.com/billing/cancel"
	cfg.Billing.PortalReturnURL = "https://app.example.com/settings"
	return cfg
}

func newBillingService(gateway billing.Gateway, cfg *config.Config) services.BillingService {
	return services.NewBillingService(
		gateway,
		repositories.NewUserRepository(),
		repositories.NewSubscriptionRepository(),
		cfg,
	)
}

func TestCheckout_CreatesCustomerOnceAndReuses(t *testing.T) {
	db := newTestDB(t)
	gateway := newFakeGateway()
	svc := newBillingService(gateway, billingTestConfig())
	user := createUser(t, db, "ext-700", "Payer")

	_, err := svc.Checkout(context.Background(), db, user.ID, &dto.CheckoutRequest{Plan: "pro"})
	require.NoError(t, err)
	assert.Equal(t, 1, gateway.createdCustomers)

	// The customer link is persisted and reused on the next checkout.
	fresh, err := repositories.NewUserRepository().FindByID(db, user.ID)
	require.NoError(t, err)
	require.NotNil(t, fresh.StripeCustomerID)
	assert.Equal(t, "cus_test_1", *fresh.StripeCustomerID)

	_, err = svc.Checkout(context.Background(), db, user.ID, &dto.CheckoutRequest{Plan: "pro"})
	require.NoError(t, err)
	assert.Equal(t, 1, gateway.createdCustomers)

	require.Len(t, gateway.checkoutParams, 2)
	params := gateway.checkoutParams[0]
	assert.Equal(t, "cus_test_1", params.CustomerID)
	assert.Equal(t, user.ID, params.Metadata["user_id"])
	assert.Equal(t, "pro", params.Metadata["plan"])
}

func TestCheckout_PriceResolutionChain(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "ext-701", "Payer")

	// Configured id that resolves wins.
	gateway := newFakeGateway()
	cfg := billingTestConfig()
	cfg.Billing.PriceIDs["pro"] = "price_configured"
	gateway.prices["price_configured"] = &billing.Price{ID: "price_configured"}
	svc := newBillingService(gateway, cfg)

	_, err := svc.Checkout(context.Background(), db, user.ID, &dto.CheckoutRequest{Plan: "pro"})
	require.NoError(t, err)
	require.Len(t, gateway.checkoutParams, 1)
	assert.Equal(t, "price_configured", gateway.checkoutParams[0].PriceID)
	assert.Empty(t, gateway.createdPrices)

	// A stale configured id falls back to the lookup key.
	gateway = newFakeGateway()
	cfg = billingTestConfig()
	cfg.Billing.PriceIDs["pro"] = "price_stale"
	gateway.lookupPrices["cardbox_pro_monthly"] = &billing.Price{ID: "price_by_key", LookupKey: "cardbox_pro_monthly"}
	svc = newBillingService(gateway, cfg)

	_, err = svc.Checkout(context.Background(), db, user.ID, &dto.CheckoutRequest{Plan: "pro"})
	require.NoError(t, err)
	require.Len(t, gateway.checkoutParams, 1)
	assert.Equal(t, "price_by_key", gateway.checkoutParams[0].PriceID)

	// Nothing resolves: the price is created tagged with the lookup key.
	gateway = newFakeGateway()
	svc = newBillingService(gateway, billingTestConfig())

	_, err = svc.Checkout(context.Background(), db, user.ID, &dto.CheckoutRequest{Plan: "pro"})
	require.NoError(t, err)
	require.Len(t, gateway.createdPrices, 1)
	assert.Equal(t, "cardbox_pro_monthly", gateway.createdPrices[0].LookupKey)
	require.Len(t, gateway.checkoutParams, 1)
	assert.Equal(t, gateway.createdPrices[0].ID, gateway.checkoutParams[0].PriceID)
}

func TestFinalizeCheckout_NoSubscriptionIsIncomplete(t *testing.T) {
	db := newTestDB(t)
	gateway := newFakeGateway()
	svc := newBillingService(gateway, billingTestConfig())
	user := createUser(t, db, "ext-702", "Payer")

	gateway.sessions["cs_empty"] = &billing.CheckoutSession{ID: "cs_empty"}

	resp, err := svc.FinalizeCheckout(context.Background(), db, user.ID, "cs_empty")
	require.NoError(t, err)
	assert.False(t, resp.Completed)
	assert.Empty(t, resp.Plan)

	// Nothing was written locally.
	var count int64
	require.NoError(t, db.Table("subscriptions").Count(&count).Error)
	assert.Zero(t, count)
}

func TestFinalizeCheckout_UpdatesUserAndSubscription(t *testing.T) {
	db := newTestDB(t)
	gateway := newFakeGateway()
	svc := newBillingService(gateway, billingTestConfig())
	user := createUser(t, db, "ext-703", "Payer")

	periodEnd := time.Now().Add(30 * 24 * time.Hour).UTC().Truncate(time.Second)
	gateway.sessions["cs_done"] = &billing.CheckoutSession{
		ID:         "cs_done",
		CustomerID: "cus_done",
		Metadata:   map[string]string{"user_id": user.ID, "plan": "pro"},
		Subscription: &billing.SubscriptionInfo{
			ID:               "sub_1",
			Status:           "active",
			PriceID:          "price_x",
			PriceLookupKey:   "cardbox_pro_monthly",
			Metadata:         map[string]string{"user_id": user.ID},
			CurrentPeriodEnd: periodEnd,
		},
	}

	resp, err := svc.FinalizeCheckout(context.Background(), db, user.ID, "cs_done")
	require.NoError(t, err)
	assert.True(t, resp.Completed)
	assert.Equal(t, "pro", resp.Plan)
	assert.Equal(t, "active", resp.Status)
	require.NotNil(t, resp.CurrentPeriodEnd)

	fresh, err := repositories.NewUserRepository().FindByID(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "pro", fresh.Plan)
	assert.Equal(t, "active", fresh.SubscriptionStatus)
	require.NotNil(t, fresh.StripeCustomerID)
	assert.Equal(t, "cus_done", *fresh.StripeCustomerID)
	require.NotNil(t, fresh.CurrentPeriodEnd)

	// Replays converge on a single subscription row.
	_, err = svc.FinalizeCheckout(context.Background(), db, user.ID, "cs_done")
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Table("subscriptions").Where("stripe_subscription_id = ?", "sub_1").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestFinalizeCheckout_PlanFallsBackToMetadata(t *testing.T) {
	db := newTestDB(t)
	gateway := newFakeGateway()
	svc := newBillingService(gateway, billingTestConfig())
	user := createUser(t, db, "ext-704", "Payer")

	// No lookup key on the price; the session metadata names the plan.
	gateway.sessions["cs_meta"] = &billing.CheckoutSession{
		ID:       "cs_meta",
		Metadata: map[string]string{"plan": "studio"},
		Subscription: &billing.SubscriptionInfo{
			ID:     "sub_meta",
			Status: "active",
		},
	}

	resp, err := svc.FinalizeCheckout(context.Background(), db, user.ID, "cs_meta")
	require.NoError(t, err)
	assert.Equal(t, "studio", resp.Plan)
}

func TestPortal_ReturnsProviderURL(t *testing.T) {
	db := newTestDB(t)
	gateway := newFakeGateway()
	svc := newBillingService(gateway, billingTestConfig())
	user := createUser(t, db, "ext-705", "Payer")

	resp, err := svc.Portal(context.Background(), db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://billing.example.com/portal", resp.URL)
}

func TestListInvoices_EmptyWithoutCustomer(t *testing.T) {
	db := newTestDB(t)
	gateway := newFakeGateway()
	gateway.invoices = []billing.Invoice{{ID: "in_1", AmountPaid: 900}}
	svc := newBillingService(gateway, billingTestConfig())
	user := createUser(t, db, "ext-706", "Payer")

	// Never checked out: the provider is not even called.
	invoices, err := svc.ListInvoices(context.Background(), db, user.ID)
	require.NoError(t, err)
	assert.Empty(t, invoices)
	assert.Empty(t, gateway.invoiceCustomerID)

	_, err = svc.Checkout(context.Background(), db, user.ID, &dto.CheckoutRequest{Plan: "pro"})
	require.NoError(t, err)

	invoices, err = svc.ListInvoices(context.Background(), db, user.ID)
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, "cus_test_1", gateway.invoiceCustomerID)
}
