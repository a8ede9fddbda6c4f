package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/shelf/internal/api/middleware"
	"github.com/d60-Lab/shelf/pkg/response"
)

// Feed 动态流
// @Summary 获取动态流（自己 + 关注的人）
// @Tags 动态
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param pageSize query int false "每页数量（最大 100）" default(20)
// @Success 200 {object} response.Response{data=model.Page[model.FeedItem]}
// @Failure 401 {object} response.Response
// @Router /api/v1/feed [get]
func (h *Handler) Feed(c *gin.Context) {
	me, _ := middleware.CurrentUserID(c)
	page, pageSize := pagination(c)
	res, err := h.feedService.Feed(c.Request.Context(), me, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// UserActivities 某用户的动态
// @Summary 用户动态
// @Tags 动态
// @Produce json
// @Param id path int true "用户ID"
// @Param page query int false "页码" default(1)
// @Param pageSize query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=model.Page[model.FeedItem]}
// @Failure 404 {object} response.Response
// @Router /api/v1/users/{id}/activities [get]
func (h *Handler) UserActivities(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	viewer, _ := middleware.CurrentUserID(c)
	page, pageSize := pagination(c)
	res, err := h.feedService.UserActivities(c.Request.Context(), viewer, userID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// Like 点赞动态
// @Summary 点赞
// @Tags 动态
// @Produce json
// @Security BearerAuth
// @Param activityId path int true "动态ID"
// @Success 200 {object} response.Response{data=service.LikeState}
// @Failure 404 {object} response.Response
// @Router /api/v1/feed/{activityId}/like [post]
func (h *Handler) Like(c *gin.Context) {
	me, _ := middleware.CurrentUserID(c)
	id, ok := pathID(c, "activityId")
	if !ok {
		return
	}
	st, err := h.likeService.Like(c.Request.Context(), id, me)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, st)
}

// Unlike 取消点赞
// @Summary 取消点赞
// @Tags 动态
// @Produce json
// @Security BearerAuth
// @Param activityId path int true "动态ID"
// @Success 200 {object} response.Response{data=service.LikeState}
// @Failure 404 {object} response.Response
// @Router /api/v1/feed/{activityId}/like [delete]
func (h *Handler) Unlike(c *gin.Context) {
	me, _ := middleware.CurrentUserID(c)
	id, ok := pathID(c, "activityId")
	if !ok {
		return
	}
	st, err := h.likeService.Unlike(c.Request.Context(), id, me)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, st)
}
