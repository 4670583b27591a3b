package handlers

import (
	"net/http"

	"cardbox_backend/internal/middleware"
	"cardbox_backend/internal/services"
	"cardbox_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ChallengeHandler struct {
	base             *BaseHandler
	challengeService services.ChallengeService
}

func NewChallengeHandler(base *BaseHandler, challengeService services.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{
		base:             base,
		challengeService: challengeService,
	}
}

func (h *ChallengeHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Public routes
	public := r.Group("/challenges")
	{
		public.GET("/slug/:slug", h.GetPublic)
		public.GET("/public", h.ListPublic)
	}

	// Protected routes
	challenges := r.Group("/challenges")
	challenges.Use(middleware.RequireSession())
	{
		challenges.POST("", h.Create)
		challenges.GET("", h.ListMine)
		challenges.GET("/:id", h.GetOwned)
		challenges.PATCH("/:id", h.Update)
		challenges.DELETE("/:id", h.Delete)
	}
}

func (h *ChallengeHandler) Create(c *gin.Context) {
	var req dto.CreateChallengeRequest
	if !h.base.BindAndValidate_JSON(c, &req) {
		return
	}

	view, err := h.challengeService.Create(c.Request.Context(), h.base.GetDB(c), middleware.CurrentUserID(c), &req)
	if err != nil {
		h.base.HandleServiceError(c, err)
		return
	}
	h.base.Respond(c, http.StatusCreated, "Challenge created", view)
}

func (h *ChallengeHandler) ListMine(c *gin.Context) {
	views, err := h.challengeService.ListMine(c.Request.Context(), h.base.GetDB(c), middleware.CurrentUserID(c))
	if err != nil {
		h.base.HandleServiceError(c, err)
		return
	}
	h.base.RespondOK(c, "Challenges", views)
}

func (h *ChallengeHandler) GetOwned(c *gin.Context) {
	view, err := h.challengeService.GetOwned(c.Request.Context(), h.base.GetDB(c), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		h.base.HandleServiceError(c, err)
		return
	}
	h.base.RespondOK(c, "Challenge", view)
}

func (h *ChallengeHandler) Update(c *gin.Context) {
	var req dto.UpdateChallengeRequest
	if !h.base.BindAndValidate_JSON(c, &req) {
		return
	}

	view, err := h.challengeService.Update(c.Request.Context(), h.base.GetDB(c), middleware.CurrentUserID(c), c.Param("id"), &req)
	if err != nil {
		h.base.HandleServiceError(c, err)
		return
	}
	h.base.RespondOK(c, "Challenge updated", view)
}

func (h *ChallengeHandler) Delete(c *gin.Context) {
	if err := h.challengeService.Delete(c.Request.Context(), h.base.GetDB(c), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		h.base.HandleServiceError(c, err)
		return
	}
	h.base.RespondOK(c, "Challenge deleted", nil)
}

func (h *ChallengeHandler) GetPublic(c *gin.Context) {
	view, err := h.challengeService.GetPublic(c.Request.Context(), h.base.GetDB(c), c.Param("slug"), middleware.CurrentUserID(c))
	if err != nil {
		h.base.HandleServiceError(c, err)
		return
	}
	h.base.RespondOK(c, "Challenge", view)
}

func (h *ChallengeHandler) ListPublic(c *gin.Context) {
	var query dto.CursorQuery
	if !h.base.BindAndValidate_Query(c, &query) {
		return
	}

	page, err := h.challengeService.ListPublic(c.Request.Context(), h.base.GetDB(c), &query)
	if err != nil {
		h.base.HandleServiceError(c, err)
		return
	}
	h.base.RespondOK(c, "Published challenges", page)
}
