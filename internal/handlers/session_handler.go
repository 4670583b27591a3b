package handlers

import (
	"net/http"

	"cardbox_backend/internal/auth"
	"cardbox_backend/internal/middleware"
	"cardbox_backend/internal/services"
	"cardbox_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	base           *BaseHandler
	sessionService services.SessionService
	tokens         *auth.TokenService
	cookies        *auth.CookieWriter
}

func NewSessionHandler(base *BaseHandler, sessionService services.SessionService, tokens *auth.TokenService, cookies *auth.CookieWriter) *SessionHandler {
	return &SessionHandler{
		base:           base,
		sessionService: sessionService,
		tokens:         tokens,
		cookies:        cookies,
	}
}

func (h *SessionHandler) RegisterRoutes(r *gin.RouterGroup) {
	session := r.Group("/session")
	{
		session.POST("/login", h.Login)
		session.POST("/logout", h.Logout)
		session.GET("/me", middleware.RequireSession(), h.Me)
	}
}

func (h *SessionHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.base.BindAndValidate_JSON(c, &req) {
		return
	}

	user, token, err := h.sessionService.Login(c.Request.Context(), h.base.GetDB(c), &req)
	if err != nil {
		h.base.HandleServiceError(c, err)
		return
	}

	h.cookies.Set(c, token, h.tokens.TTL())
	h.base.RespondOK(c, "Logged in", dto.NewMeResponse(user))
}

// Logout clears the cookie unconditionally; there is no server-side
// session state to revoke.
func (h *SessionHandler) Logout(c *gin.Context) {
	h.cookies.Clear(c)
	h.base.Respond(c, http.StatusOK, "Logged out", nil)
}

func (h *SessionHandler) Me(c *gin.Context) {
	me, err := h.sessionService.Me(c.Request.Context(), h.base.GetDB(c), middleware.CurrentUserID(c))
	if err != nil {
		h.base.HandleServiceError(c, err)
		return
	}
	h.base.RespondOK(c, "Current session", me)
}
