package handlers

// AppHandlers holds all route handlers of the application.
type AppHandlers struct {
	SessionHandler    *SessionHandler
	UserHandler       *UserHandler
	NameCardHandler   *NameCardHandler
	PortfolioHandler  *PortfolioHandler
	ChallengeHandler  *ChallengeHandler
	SubmissionHandler *SubmissionHandler
	BillingHandler    *BillingHandler
}
