package routes

import (
	"cardbox_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts all HTTP routes under /api/v1.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers) {
	api := ginRouter.Group("/api/v1")
	{
		appHandlers.SessionHandler.RegisterRoutes(api)
		appHandlers.UserHandler.RegisterRoutes(api)
		appHandlers.NameCardHandler.RegisterRoutes(api)
		appHandlers.PortfolioHandler.RegisterRoutes(api)
		appHandlers.ChallengeHandler.RegisterRoutes(api)
		appHandlers.SubmissionHandler.RegisterRoutes(api)
		appHandlers.BillingHandler.RegisterRoutes(api)
	}
}
