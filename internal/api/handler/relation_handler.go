package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/shelf/internal/api/middleware"
	"github.com/d60-Lab/shelf/pkg/response"
)

// Follow 关注用户
// @Summary 关注用户
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param targetUserId path int true "被关注用户ID"
// @Success 200 {object} response.Response{data=model.UserSummary}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/follow/{targetUserId} [post]
func (h *Handler) Follow(c *gin.Context) {
	me, _ := middleware.CurrentUserID(c)
	target, ok := pathID(c, "targetUserId")
	if !ok {
		return
	}
	sum, err := h.relService.Follow(c.Request.Context(), me, target)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, sum)
}

// Unfollow 取消关注
// @Summary 取消关注
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param targetUserId path int true "被关注用户ID"
// @Success 200 {object} response.Response{data=model.UserSummary}
// @Failure 404 {object} response.Response
// @Router /api/v1/follow/{targetUserId} [delete]
func (h *Handler) Unfollow(c *gin.Context) {
	me, _ := middleware.CurrentUserID(c)
	target, ok := pathID(c, "targetUserId")
	if !ok {
		return
	}
	sum, err := h.relService.Unfollow(c.Request.Context(), me, target)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, sum)
}

// ListFollowing 查询某用户关注的人
// @Summary 查询关注列表
// @Tags 关系链
// @Produce json
// @Param id path int true "用户ID"
// @Param page query int false "页码" default(1)
// @Param pageSize query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=model.Page[model.UserSummary]}
// @Router /api/v1/users/{id}/following [get]
func (h *Handler) ListFollowing(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	page, pageSize := pagination(c)
	res, err := h.relService.ListFollowing(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// ListFollowers 查询某用户的粉丝
// @Summary 查询粉丝列表
// @Tags 关系链
// @Produce json
// @Param id path int true "用户ID"
// @Param page query int false "页码" default(1)
// @Param pageSize query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=model.Page[model.UserSummary]}
// @Router /api/v1/users/{id}/followers [get]
func (h *Handler) ListFollowers(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	page, pageSize := pagination(c)
	res, err := h.relService.ListFollowers(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
