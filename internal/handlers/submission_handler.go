package handlers

import (
	"net/http"

	"cardbox_backend/internal/middleware"
	"cardbox_backend/internal/services"
	"cardbox_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type SubmissionHandler struct {
	base              *BaseHandler
	submissionService services.SubmissionService
}

func NewSubmissionHandler(base *BaseHandler, submissionService services.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		base:              base,
		submissionService: submissionService,
	}
}

func (h *SubmissionHandler) RegisterRoutes(r *gin.RouterGroup) {
	// The listing is public; mine=1 switches it to an auth-only mode
	// that the service enforces.
	r.GET("/challenges/:id/submissions", h.List)

	protected := r.Group("")
	protected.Use(middleware.RequireSession())
	{
		protected.POST("/challenges/:id/submissions", h.Submit)
		protected.DELETE("/challenges/:id/submissions", h.Withdraw)
		protected.PATCH("/challenges/:id/submissions/:submissionId/status", h.SetStatus)
		protected.GET("/submissions", h.ListMine)
	}
}

func (h *SubmissionHandler) Submit(c *gin.Context) {
	var req dto.SubmitRequest
	if !h.base.BindAndValidate_JSON(c, &req) {
		return
	}

	view, err := h.submissionService.Submit(c.Request.Context(), h.base.GetDB(c), c.Param("id"), middleware.CurrentUserID(c), &req)
	if err != nil {
		h.base.HandleServiceError(c, err)
		return
	}
	h.base.Respond(c, http.StatusCreated, "Submission created", view)
}

func (h *SubmissionHandler) Withdraw(c *gin.Context) {
	if err := h.submissionService.Withdraw(c.Request.Context(), h.base.GetDB(c), c.Param("id"), middleware.CurrentUserID(c)); err != nil {
		h.base.HandleServiceError(c, err)
		return
	}
	h.base.RespondOK(c, "Submission withdrawn", nil)
}

func (h *SubmissionHandler) List(c *gin.Context) {
	var query dto.SubmissionListQuery
	if !h.base.BindAndValidate_Query(c, &query) {
		return
	}

	page, err := h.submissionService.ListByChallenge(c.Request.Context(), h.base.GetDB(c), c.Param("id"), middleware.CurrentUserID(c), &query)
	if err != nil {
		h.base.HandleServiceError(c, err)
		return
	}
	h.base.RespondOK(c, "Submissions", page)
}

func (h *SubmissionHandler) ListMine(c *gin.Context) {
	views, err := h.submissionService.ListMine(c.Request.Context(), h.base.GetDB(c), middleware.CurrentUserID(c))
	if err != nil {
		h.base.HandleServiceError(c, err)
		return
	}
	h.base.RespondOK(c, "My submissions", views)
}

func (h *SubmissionHandler) SetStatus(c *gin.Context) {
	var req dto.SubmissionStatusRequest
	if !h.base.BindAndValidate_JSON(c, &req) {
		return
	}

	view, err := h.submissionService.SetStatus(
		c.Request.Context(),
		h.base.GetDB(c),
		c.Param("id"),
		c.Param("submissionId"),
		middleware.CurrentUserID(c),
		&req,
	)
	if err != nil {
		h.base.HandleServiceError(c, err)
		return
	}
	h.base.RespondOK(c, "Submission status updated", view)
}
