package handlers

import (
	"cardbox_backend/internal/middleware"
	"cardbox_backend/internal/services"
	"cardbox_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type BillingHandler struct {
	base           *BaseHandler
	billingService services.BillingService
}

func NewBillingHandler(base *BaseHandler, billingService services.BillingService) *BillingHandler {
	return &BillingHandler{
		base:           base,
		billingService: billingService,
	}
}

func (h *BillingHandler) RegisterRoutes(r *gin.RouterGroup) {
	billing := r.Group("/billing")
	billing.Use(middleware.RequireSession())
	{
		billing.POST("/checkout", h.Checkout)
		billing.GET("/finalize", h.Finalize)
		billing.POST("/portal", h.Portal)
		billing.GET("/invoices", h.ListInvoices)
	}
}

func (h *BillingHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if !h.base.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.billingService.Checkout(c.Request.Context(), h.base.GetDB(c), middleware.CurrentUserID(c), &req)
	if err != nil {
		h.base.HandleServiceError(c, err)
		return
	}
	h.base.RespondOK(c, "Checkout session created", resp)
}

func (h *BillingHandler) Finalize(c *gin.Context) {
	var query dto.FinalizeQuery
	if !h.base.BindAndValidate_Query(c, &query) {
		return
	}

	resp, err := h.billingService.FinalizeCheckout(c.Request.Context(), h.base.GetDB(c), middleware.CurrentUserID(c), query.SessionID)
	if err != nil {
		h.base.HandleServiceError(c, err)
		return
	}
	h.base.RespondOK(c, "Checkout finalized", resp)
}

func (h *BillingHandler) Portal(c *gin.Context) {
	resp, err := h.billingService.Portal(c.Request.Context(), h.base.GetDB(c), middleware.CurrentUserID(c))
	if err != nil {
		h.base.HandleServiceError(c, err)
		return
	}
	h.base.RespondOK(c, "Portal session created", resp)
}

func (h *BillingHandler) ListInvoices(c *gin.Context) {
	invoices, err := h.billingService.ListInvoices(c.Request.Context(), h.base.GetDB(c), middleware.CurrentUserID(c))
	if err != nil {
		h.base.HandleServiceError(c, err)
		return
	}
	h.base.RespondOK(c, "Invoices", invoices)
}
