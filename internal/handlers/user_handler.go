package handlers

import (
	"cardbox_backend/internal/middleware"
	"cardbox_backend/internal/services"
	"cardbox_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	base        *BaseHandler
	userService services.UserService
}

func NewUserHandler(base *BaseHandler, userService services.UserService) *UserHandler {
	return &UserHandler{
		base:        base,
		userService: userService,
	}
}

func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.PATCH("/me", middleware.RequireSession(), h.UpdateProfile)
		users.GET("/:username", h.GetPublicProfile)
	}

	admin := r.Group("/admin/users")
	admin.Use(middleware.RequireAdmin(h.userService))
	{
		admin.GET("", h.ListUsers)
	}
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if !h.base.BindAndValidate_JSON(c, &req) {
		return
	}

	me, err := h.userService.UpdateProfile(c.Request.Context(), h.base.GetDB(c), middleware.CurrentUserID(c), &req)
	if err != nil {
		h.base.HandleServiceError(c, err)
		return
	}
	h.base.RespondOK(c, "Profile updated", me)
}

func (h *UserHandler) GetPublicProfile(c *gin.Context) {
	profile, err := h.userService.GetPublicProfile(c.Request.Context(), h.base.GetDB(c), c.Param("username"))
	if err != nil {
		h.base.HandleServiceError(c, err)
		return
	}
	h.base.RespondOK(c, "Public profile", profile)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	var query dto.OffsetQuery
	if !h.base.BindAndValidate_Query(c, &query) {
		return
	}

	page, err := h.userService.ListUsers(c.Request.Context(), h.base.GetDB(c), &query)
	if err != nil {
		h.base.HandleServiceError(c, err)
		return
	}
	h.base.RespondOK(c, "Users", page)
}
