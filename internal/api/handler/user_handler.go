package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/shelf/internal/api/middleware"
	"github.com/d60-Lab/shelf/internal/service"
	"github.com/d60-Lab/shelf/pkg/response"
)

// Profile 用户主页
// @Summary 用户主页
// @Tags 用户
// @Produce json
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response{data=model.Profile}
// @Failure 404 {object} response.Response
// @Router /api/v1/users/{id}/profile [get]
func (h *Handler) Profile(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	viewer, _ := middleware.CurrentUserID(c)
	p, err := h.userService.Profile(c.Request.Context(), viewer, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, p)
}

// UpdateMe 修改个人资料
// @Summary 修改个人资料
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.ProfileInput true "资料"
// @Success 200 {object} response.Response{data=model.User}
// @Router /api/v1/users/me [put]
func (h *Handler) UpdateMe(c *gin.Context) {
	me, _ := middleware.CurrentUserID(c)
	var req service.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.userService.UpdateProfile(c.Request.Context(), me, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, u)
}

// UserLibrary 用户书影库
// @Summary 用户书影库（按状态分组）
// @Tags 用户
// @Produce json
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response{data=model.Library}
// @Router /api/v1/users/{id}/library [get]
func (h *Handler) UserLibrary(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	lib, err := h.libraryService.Library(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, lib)
}
