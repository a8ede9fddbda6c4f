package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/shelf/internal/api/middleware"
	"github.com/d60-Lab/shelf/internal/model"
	"github.com/d60-Lab/shelf/internal/service"
	"github.com/d60-Lab/shelf/pkg/response"
)

// SetStatus 标记看过/想看/读过/想读
// @Summary 设置书影库状态
// @Tags 书影库
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.StatusInput true "状态"
// @Success 200 {object} response.Response{data=model.UserContent}
// @Failure 400 {object} response.Response
// @Router /api/v1/user-content/set-status [post]
func (h *Handler) SetStatus(c *gin.Context) {
	me, _ := middleware.CurrentUserID(c)
	var req service.StatusInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	uc, err := h.libraryService.SetStatus(c.Request.Context(), me, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, uc)
}

// Favorite 收藏
// @Summary 收藏（记录 favorite 动态）
// @Tags 书影库
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.FavoriteInput true "内容"
// @Success 200 {object} response.Response{data=model.Activity}
// @Router /api/v1/user-content/favorite [post]
func (h *Handler) Favorite(c *gin.Context) {
	me, _ := middleware.CurrentUserID(c)
	var req service.FavoriteInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	a, err := h.libraryService.Favorite(c.Request.Context(), me, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, a)
}

// LibraryStatus 查询某内容的状态
// @Summary 查询书影库状态
// @Tags 书影库
// @Produce json
// @Security BearerAuth
// @Param contentId query string true "内容ID"
// @Param type query string true "movie|book"
// @Success 200 {object} response.Response
// @Router /api/v1/user-content/status [get]
func (h *Handler) LibraryStatus(c *gin.Context) {
	me, _ := middleware.CurrentUserID(c)
	st, err := h.libraryService.Status(c.Request.Context(), me, contentRef(c, c.Query("contentId")))
	if err != nil {
		response.Error(c, err)
		return
	}
	var status *model.LibraryStatus
	if st != "" {
		status = &st
	}
	response.Success(c, gin.H{"status": status})
}

// LibraryList 我的书影库
// @Summary 我的书影库
// @Tags 书影库
// @Produce json
// @Security BearerAuth
// @Param status query string false "watched|toWatch|read|toRead"
// @Success 200 {object} response.Response{data=[]model.UserContent}
// @Router /api/v1/user-content/list [get]
func (h *Handler) LibraryList(c *gin.Context) {
	me, _ := middleware.CurrentUserID(c)
	list, err := h.libraryService.List(c.Request.Context(), me, model.LibraryStatus(c.Query("status")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// RemoveFromLibrary 移出书影库
// @Summary 移出书影库
// @Tags 书影库
// @Produce json
// @Security BearerAuth
// @Param id path int true "条目ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/user-content/{id} [delete]
func (h *Handler) RemoveFromLibrary(c *gin.Context) {
	me, _ := middleware.CurrentUserID(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.libraryService.Remove(c.Request.Context(), me, id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
