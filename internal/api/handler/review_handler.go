package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/shelf/internal/api/middleware"
	"github.com/d60-Lab/shelf/internal/service"
	"github.com/d60-Lab/shelf/pkg/response"
)

type updateReviewRequest struct {
	Text string `json:"text" binding:"required"`
}

// ContentReviews 内容短评列表
// @Summary 内容短评列表
// @Tags 短评
// @Produce json
// @Param id path string true "内容ID"
// @Param type query string true "movie|book"
// @Param page query int false "页码" default(1)
// @Param pageSize query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=model.Page[model.ReviewView]}
// @Router /api/v1/reviews/content/{id} [get]
func (h *Handler) ContentReviews(c *gin.Context) {
	page, pageSize := pagination(c)
	res, err := h.reviewService.ListForContent(c.Request.Context(), contentRef(c, c.Param("id")), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// AddReview 发表短评
// @Summary 发表短评
// @Tags 短评
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.ReviewInput true "短评"
// @Success 200 {object} response.Response{data=model.Review}
// @Failure 400 {object} response.Response
// @Router /api/v1/reviews [post]
func (h *Handler) AddReview(c *gin.Context) {
	me, _ := middleware.CurrentUserID(c)
	var req service.ReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	r, err := h.reviewService.Add(c.Request.Context(), me, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, r)
}

// UpdateReview 修改短评
// @Summary 修改短评
// @Tags 短评
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "短评ID"
// @Param request body updateReviewRequest true "新内容"
// @Success 200 {object} response.Response{data=model.Review}
// @Failure 404 {object} response.Response
// @Router /api/v1/reviews/{id} [put]
func (h *Handler) UpdateReview(c *gin.Context) {
	me, _ := middleware.CurrentUserID(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	r, err := h.reviewService.Update(c.Request.Context(), me, id, req.Text)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, r)
}

// DeleteReview 删除短评（连带其动态）
// @Summary 删除短评
// @Tags 短评
// @Produce json
// @Security BearerAuth
// @Param id path int true "短评ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/reviews/{id} [delete]
func (h *Handler) DeleteReview(c *gin.Context) {
	me, _ := middleware.CurrentUserID(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.reviewService.Delete(c.Request.Context(), me, id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
