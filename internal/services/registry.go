package services

// ServiceContainer holds all application services.
type ServiceContainer struct {
	SessionService    SessionService
	UserService       UserService
	NameCardService   NameCardService
	PortfolioService  PortfolioService
	ChallengeService  ChallengeService
	SubmissionService SubmissionService
	BillingService    BillingService
}
