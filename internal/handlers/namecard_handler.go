package handlers

import (
	"net/http"

	"cardbox_backend/internal/middleware"
	"cardbox_backend/internal/services"
	"cardbox_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type NameCardHandler struct {
	base        *BaseHandler
	cardService services.NameCardService
}

func NewNameCardHandler(base *BaseHandler, cardService services.NameCardService) *NameCardHandler {
	return &NameCardHandler{
		base:        base,
		cardService: cardService,
	}
}

func (h *NameCardHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Public routes
	public := r.Group("/digital-name-cards")
	{
		public.GET("/slug/:slug", h.GetPublic)
		public.GET("/public", h.ListPublic)
	}

	// Protected routes
	cards := r.Group("/digital-name-cards")
	cards.Use(middleware.RequireSession())
	{
		cards.POST("", h.Create)
		cards.GET("", h.ListMine)
		cards.GET("/:id", h.GetOwned)
		cards.PATCH("/:id", h.Update)
		cards.DELETE("/:id", h.Delete)
	}
}

func (h *NameCardHandler) Create(c *gin.Context) {
	var req dto.CreateCardRequest
	if !h.base.BindAndValidate_JSON(c, &req) {
		return
	}

	view, err := h.cardService.Create(c.Request.Context(), h.base.GetDB(c), middleware.CurrentUserID(c), &req)
	if err != nil {
		h.base.HandleServiceError(c, err)
		return
	}
	h.base.Respond(c, http.StatusCreated, "Name card created", view)
}

func (h *NameCardHandler) ListMine(c *gin.Context) {
	views, err := h.cardService.ListMine(c.Request.Context(), h.base.GetDB(c), middleware.CurrentUserID(c))
	if err != nil {
		h.base.HandleServiceError(c, err)
		return
	}
	h.base.RespondOK(c, "Name cards", views)
}

func (h *NameCardHandler) GetOwned(c *gin.Context) {
	view, err := h.cardService.GetOwned(c.Request.Context(), h.base.GetDB(c), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		h.base.HandleServiceError(c, err)
		return
	}
	h.base.RespondOK(c, "Name card", view)
}

func (h *NameCardHandler) Update(c *gin.Context) {
	var req dto.UpdateCardRequest
	if !h.base.BindAndValidate_JSON(c, &req) {
		return
	}

	view, err := h.cardService.Update(c.Request.Context(), h.base.GetDB(c), middleware.CurrentUserID(c), c.Param("id"), &req)
	if err != nil {
		h.base.HandleServiceError(c, err)
		return
	}
	h.base.RespondOK(c, "Name card updated", view)
}

func (h *NameCardHandler) Delete(c *gin.Context) {
	if err := h.cardService.Delete(c.Request.Context(), h.base.GetDB(c), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		h.base.HandleServiceError(c, err)
		return
	}
	h.base.RespondOK(c, "Name card deleted", nil)
}

func (h *NameCardHandler) GetPublic(c *gin.Context) {
	view, err := h.cardService.GetPublic(c.Request.Context(), h.base.GetDB(c), c.Param("slug"), middleware.CurrentUserID(c))
	if err != nil {
		h.base.HandleServiceError(c, err)
		return
	}
	h.base.RespondOK(c, "Name card", view)
}

func (h *NameCardHandler) ListPublic(c *gin.Context) {
	var query dto.CursorQuery
	if !h.base.BindAndValidate_Query(c, &query) {
		return
	}

	page, err := h.cardService.ListPublic(c.Request.Context(), h.base.GetDB(c), &query)
	if err != nil {
		h.base.HandleServiceError(c, err)
		return
	}
	h.base.RespondOK(c, "Published name cards", page)
}
