package handlers

import (
	"net/http"

	"cardbox_backend/internal/middleware"
	"cardbox_backend/internal/services"
	"cardbox_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type PortfolioHandler struct {
	base             *BaseHandler
	portfolioService services.PortfolioService
}

func NewPortfolioHandler(base *BaseHandler, portfolioService services.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		base:             base,
		portfolioService: portfolioService,
	}
}

func (h *PortfolioHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Public routes
	public := r.Group("/portfolios")
	{
		public.GET("/slug/:slug", h.GetPublic)
		public.GET("/public", h.ListPublic)
	}

	// Protected routes
	portfolios := r.Group("/portfolios")
	portfolios.Use(middleware.RequireSession())
	{
		portfolios.POST("", h.Create)
		portfolios.GET("", h.ListMine)
		portfolios.GET("/:id", h.GetOwned)
		portfolios.PATCH("/:id", h.Update)
		portfolios.DELETE("/:id", h.Delete)
	}
}

func (h *PortfolioHandler) Create(c *gin.Context) {
	var req dto.CreatePortfolioRequest
	if !h.base.BindAndValidate_JSON(c, &req) {
		return
	}

	view, err := h.portfolioService.Create(c.Request.Context(), h.base.GetDB(c), middleware.CurrentUserID(c), &req)
	if err != nil {
		h.base.HandleServiceError(c, err)
		return
	}
	h.base.Respond(c, http.StatusCreated, "Portfolio created", view)
}

func (h *PortfolioHandler) ListMine(c *gin.Context) {
	views, err := h.portfolioService.ListMine(c.Request.Context(), h.base.GetDB(c), middleware.CurrentUserID(c))
	if err != nil {
		h.base.HandleServiceError(c, err)
		return
	}
	h.base.RespondOK(c, "Portfolios", views)
}

func (h *PortfolioHandler) GetOwned(c *gin.Context) {
	view, err := h.portfolioService.GetOwned(c.Request.Context(), h.base.GetDB(c), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		h.base.HandleServiceError(c, err)
		return
	}
	h.base.RespondOK(c, "Portfolio", view)
}

func (h *PortfolioHandler) Update(c *gin.Context) {
	var req dto.UpdatePortfolioRequest
	if !h.base.BindAndValidate_JSON(c, &req) {
		return
	}

	view, err := h.portfolioService.Update(c.Request.Context(), h.base.GetDB(c), middleware.CurrentUserID(c), c.Param("id"), &req)
	if err != nil {
		h.base.HandleServiceError(c, err)
		return
	}
	h.base.RespondOK(c, "Portfolio updated", view)
}

func (h *PortfolioHandler) Delete(c *gin.Context) {
	if err := h.portfolioService.Delete(c.Request.Context(), h.base.GetDB(c), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		h.base.HandleServiceError(c, err)
		return
	}
	h.base.RespondOK(c, "Portfolio deleted", nil)
}

func (h *PortfolioHandler) GetPublic(c *gin.Context) {
	view, err := h.portfolioService.GetPublic(c.Request.Context(), h.base.GetDB(c), c.Param("slug"), middleware.CurrentUserID(c))
	if err != nil {
		h.base.HandleServiceError(c, err)
		return
	}
	h.base.RespondOK(c, "Portfolio", view)
}

func (h *PortfolioHandler) ListPublic(c *gin.Context) {
	var query dto.CursorQuery
	if !h.base.BindAndValidate_Query(c, &query) {
		return
	}

	page, err := h.portfolioService.ListPublic(c.Request.Context(), h.base.GetDB(c), &query)
	if err != nil {
		h.base.HandleServiceError(c, err)
		return
	}
	h.base.RespondOK(c, "Published portfolios", page)
}
