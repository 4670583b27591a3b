package middleware

import (
	"net/http"

	"cardbox_backend/internal/auth"
	"cardbox_backend/internal/logger"
	"cardbox_backend/internal/models"
	"cardbox_backend/internal/services"
	"cardbox_backend/pkg/apperrors"
	"cardbox_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AttachIdentity verifies the session cookie when present and stores the
// claims in the gin context. It never rejects: public endpoints run
// behind it too, and an invalid cookie just means an anonymous request.
func AttachIdentity(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(auth.SessionCookieName)
		if err != nil || cookie == "" {
			c.Next()
			return
		}

		claims, err := tokens.Verify(cookie)
		if err != nil {
			c.Next()
			return
		}

		c.Set(string(contextkeys.IdentityContextKey), claims)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID()))
		c.Next()
	}
}

// RequireSession rejects anonymous requests. Must run after AttachIdentity.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentClaims(c) == nil {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authentication required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin re-reads the role from the store rather than trusting the
// token claim, so demotions take effect before the session expires.
func RequireAdmin(userService services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := CurrentClaims(c)
		if claims == nil {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authentication required"))
			c.Abort()
			return
		}

		db, ok := c.MustGet(string(contextkeys.DBContextKey)).(*gorm.DB)
		if !ok {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		role, err := userService.RoleOf(c.Request.Context(), db, claims.UserID())
		if err != nil {
			apperrors.HandleError(c, err)
			c.Abort()
			return
		}
		if role != models.UserRoleAdmin {
			apperrors.HandleError(c, apperrors.NewForbiddenError("Admin access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentClaims returns the verified session claims, or nil for an
// anonymous request.
func CurrentClaims(c *gin.Context) *auth.SessionClaims {
	val, exists := c.Get(string(contextkeys.IdentityContextKey))
	if !exists {
		return nil
	}
	claims, ok := val.(*auth.SessionClaims)
	if !ok {
		return nil
	}
	return claims
}

// CurrentUserID returns the authenticated user's id, or "" when anonymous.
func CurrentUserID(c *gin.Context) string {
	claims := CurrentClaims(c)
	if claims == nil {
		return ""
	}
	return claims.UserID()
}
