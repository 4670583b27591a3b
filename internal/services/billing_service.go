package services

import (
	"context"
	"fmt"
	"time"

	"cardbox_backend/internal/billing"
	"cardbox_backend/internal/config"
	"cardbox_backend/internal/logger"
	"cardbox_backend/internal/models"
	"cardbox_backend/internal/repositories"
	"cardbox_backend/internal/services/dto"
	"cardbox_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const invoiceListLimit = 20

type BillingService interface {
	Checkout(ctx context.Context, db *gorm.DB, userID string, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	FinalizeCheckout(ctx context.Context, db *gorm.DB, callerID, sessionID string) (*dto.FinalizeResponse, error)
	Portal(ctx context.Context, db *gorm.DB, userID string) (*dto.PortalResponse, error)
	ListInvoices(ctx context.Context, db *gorm.DB, userID string) ([]billing.Invoice, error)
}

type billingService struct {
	gateway  billing.Gateway
	userRepo repositories.UserRepository
	subRepo  repositories.SubscriptionRepository
	cfg      *config.Config
}

func NewBillingService(
	gateway billing.Gateway,
	userRepo repositories.UserRepository,
	subRepo repositories.SubscriptionRepository,
	cfg *config.Config,
) BillingService {
	return &billingService{
		gateway:  gateway,
		userRepo: userRepo,
		subRepo:  subRepo,
		cfg:      cfg,
	}
}

func (s *billingService) lookupKeyFor(plan string) string {
	return fmt.Sprintf("%s_%s_monthly", s.cfg.Billing.LookupKeyPrefix, plan)
}

// ResolvePriceID finds the provider price for a plan. Configured ids are
// tried first but are environment-specific; the lookup key is the stable
// cross-environment handle, and creating the price tagged with that key
// is the bootstrap path for a fresh account.
func (s *billingService) ResolvePriceID(ctx context.Context, plan string) (string, error) {
	if configured, ok := s.cfg.Billing.PriceIDs[plan]; ok && configured != "" {
		price, err := s.gateway.GetPrice(ctx, configured)
		if err == nil {
			return price.ID, nil
		}
		logger.Warn("configured price id did not resolve, falling back to lookup key",
			"plan", plan, "priceId", configured, "error", err)
	}

	key := s.lookupKeyFor(plan)
	price, err := s.gateway.FindPriceByLookupKey(ctx, key)
	if err != nil {
		return "", err
	}
	if price != nil {
		return price.ID, nil
	}

	amount, ok := s.cfg.Billing.PlanAmounts[plan]
	if !ok {
		return "", fmt.Errorf("no amount configured for plan %q", plan)
	}
	created, err := s.gateway.CreateRecurringPrice(ctx, "Cardbox "+plan, key, s.cfg.Billing.Currency, amount)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

// GetOrCreateCustomer returns the provider customer id for a user,
// creating and persisting the link on first use. Two concurrent
// first-time calls can each create a customer before either persists;
// that rare duplicate is accepted instead of locking.
func (s *billingService) GetOrCreateCustomer(ctx context.Context, db *gorm.DB, identity string) (*models.User, string, error) {
	user, err := s.findUserByIdentity(db, identity)
	if err != nil {
		return nil, "", err
	}

	if user.StripeCustomerID != nil && *user.StripeCustomerID != "" {
		return user, *user.StripeCustomerID, nil
	}

	customerID, err := s.gateway.CreateCustomer(ctx, user.Email, user.DisplayName, map[string]string{
		"user_id":     user.ID,
		"external_id": user.ExternalID,
	})
	if err != nil {
		return nil, "", apperrors.InternalError(err)
	}

	user.StripeCustomerID = &customerID
	if err := s.userRepo.Save(db, user); err != nil {
		return nil, "", apperrors.InternalError(err)
	}
	return user, customerID, nil
}

func (s *billingService) findUserByIdentity(db *gorm.DB, identity string) (*models.User, error) {
	if user, err := s.userRepo.FindByID(db, identity); err == nil {
		return user, nil
	}
	if user, err := s.userRepo.FindByExternalID(db, identity); err == nil {
		return user, nil
	}
	user, err := s.userRepo.FindByEmail(db, identity)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NotFoundError("billing", "User not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

func (s *billingService) Checkout(ctx context.Context, db *gorm.DB, userID string, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	db = db.WithContext(ctx)

	user, customerID, err := s.GetOrCreateCustomer(ctx, db, userID)
	if err != nil {
		return nil, err
	}

	priceID, err := s.ResolvePriceID(ctx, req.Plan)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, billing.CheckoutParams{
		CustomerID: customerID,
		PriceID:    priceID,
		SuccessURL: s.cfg.Billing.SuccessURL,
		CancelURL:  s.cfg.Billing.CancelURL,
		Metadata: map[string]string{
			"user_id": user.ID,
			"plan":    req.Plan,
		},
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.CheckoutResponse{URL: session.URL}, nil
}

// FinalizeCheckout reconciles local state with a completed checkout
// session. The client calls this on browser redirect with no webhook
// backstop, so it must tolerate replays: the subscription upsert keyed
// by the provider's subscription id makes repeat calls converge.
func (s *billingService) FinalizeCheckout(ctx context.Context, db *gorm.DB, callerID, sessionID string) (*dto.FinalizeResponse, error) {
	db = db.WithContext(ctx)

	session, err := s.gateway.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if session.Subscription == nil {
		return &dto.FinalizeResponse{Completed: false}, nil
	}
	sub := session.Subscription

	user, err := s.resolveSubscriptionOwner(db, session, callerID)
	if err != nil {
		return nil, err
	}

	plan := s.resolvePlan(sub, session)
	periodEnd := sub.CurrentPeriodEnd
	var periodEndPtr *time.Time
	if !periodEnd.IsZero() {
		periodEndPtr = &periodEnd
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		record := &models.Subscription{
			StripeSubscriptionID: sub.ID,
			UserID:               user.ID,
			StripePriceID:        sub.PriceID,
			Plan:                 plan,
			Status:               sub.Status,
			CurrentPeriodEnd:     periodEndPtr,
		}
		if err := s.subRepo.Upsert(tx, record); err != nil {
			return apperrors.InternalError(err)
		}

		user.Plan = plan
		user.SubscriptionStatus = sub.Status
		user.CurrentPeriodEnd = periodEndPtr
		if session.CustomerID != "" && (user.StripeCustomerID == nil || *user.StripeCustomerID == "") {
			customerID := session.CustomerID
			user.StripeCustomerID = &customerID
		}
		if err := s.userRepo.Save(tx, user); err != nil {
			return apperrors.InternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.FinalizeResponse{
		Completed:        true,
		Plan:             plan,
		Status:           sub.Status,
		CurrentPeriodEnd: periodEndPtr,
	}, nil
}

// resolveSubscriptionOwner walks subscription metadata, session metadata,
// the customer link, then the caller.
func (s *billingService) resolveSubscriptionOwner(db *gorm.DB, session *billing.CheckoutSession, callerID string) (*models.User, error) {
	if id := session.Subscription.Metadata["user_id"]; id != "" {
		if user, err := s.userRepo.FindByID(db, id); err == nil {
			return user, nil
		}
	}
	if id := session.Metadata["user_id"]; id != "" {
		if user, err := s.userRepo.FindByID(db, id); err == nil {
			return user, nil
		}
	}
	if session.CustomerID != "" {
		var user models.User
		if err := db.Where("stripe_customer_id = ?", session.CustomerID).First(&user).Error; err == nil {
			return &user, nil
		}
	}

	user, err := s.userRepo.FindByID(db, callerID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NotFoundError("billing", "User not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

// resolvePlan walks price lookup key, metadata, then configured price ids.
func (s *billingService) resolvePlan(sub *billing.SubscriptionInfo, session *billing.CheckoutSession) string {
	for plan := range s.cfg.Billing.PlanAmounts {
		if sub.PriceLookupKey != "" && sub.PriceLookupKey == s.lookupKeyFor(plan) {
			return plan
		}
	}
	if plan := sub.Metadata["plan"]; plan != "" {
		return plan
	}
	if plan := session.Metadata["plan"]; plan != "" {
		return plan
	}
	for plan, priceID := range s.cfg.Billing.PriceIDs {
		if priceID != "" && priceID == sub.PriceID {
			return plan
		}
	}
	return "free"
}

func (s *billingService) Portal(ctx context.Context, db *gorm.DB, userID string) (*dto.PortalResponse, error) {
	db = db.WithContext(ctx)

	_, customerID, err := s.GetOrCreateCustomer(ctx, db, userID)
	if err != nil {
		return nil, err
	}

	url, err := s.gateway.CreatePortalSession(ctx, customerID, s.cfg.Billing.PortalReturnURL)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.PortalResponse{URL: url}, nil
}

func (s *billingService) ListInvoices(ctx context.Context, db *gorm.DB, userID string) ([]billing.Invoice, error) {
	db = db.WithContext(ctx)

	user, err := s.findUserByIdentity(db, userID)
	if err != nil {
		return nil, err
	}
	if user.StripeCustomerID == nil || *user.StripeCustomerID == "" {
		return []billing.Invoice{}, nil
	}

	invoices, err := s.gateway.ListInvoices(ctx, *user.StripeCustomerID, invoiceListLimit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return invoices, nil
}
