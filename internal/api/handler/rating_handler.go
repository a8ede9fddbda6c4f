package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/shelf/internal/api/middleware"
	"github.com/d60-Lab/shelf/internal/model"
	"github.com/d60-Lab/shelf/internal/service"
	"github.com/d60-Lab/shelf/pkg/response"
)

// Rate 评分
// @Summary 给电影/图书评分（1-10）
// @Tags 评分
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.RateInput true "评分"
// @Success 200 {object} response.Response{data=model.Rating}
// @Failure 400 {object} response.Response
// @Router /api/v1/ratings [post]
func (h *Handler) Rate(c *gin.Context) {
	me, _ := middleware.CurrentUserID(c)
	var req service.RateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	r, err := h.ratingService.Rate(c.Request.Context(), me, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, r)
}

// ContentRating 内容评分汇总
// @Summary 内容平均分与评分人数
// @Tags 评分
// @Produce json
// @Param id path string true "内容ID"
// @Param type query string true "movie|book"
// @Success 200 {object} response.Response{data=model.RatingSummary}
// @Router /api/v1/ratings/content/{id} [get]
func (h *Handler) ContentRating(c *gin.Context) {
	sum, err := h.ratingService.ContentSummary(c.Request.Context(), contentRef(c, c.Param("id")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, sum)
}

// UserRatings 用户评分列表
// @Summary 用户评分列表
// @Tags 评分
// @Produce json
// @Param id path int true "用户ID"
// @Param type query string false "movie|book"
// @Param page query int false "页码" default(1)
// @Param pageSize query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=model.Page[model.Rating]}
// @Router /api/v1/ratings/user/{id} [get]
func (h *Handler) UserRatings(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	page, pageSize := pagination(c)
	res, err := h.ratingService.UserRatings(c.Request.Context(), userID, model.ContentType(c.Query("type")), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// MyRating 我对某内容的评分
// @Summary 我的评分
// @Tags 评分
// @Produce json
// @Security BearerAuth
// @Param contentId query string true "内容ID"
// @Param type query string true "movie|book"
// @Success 200 {object} response.Response{data=model.Rating}
// @Router /api/v1/ratings/me [get]
func (h *Handler) MyRating(c *gin.Context) {
	me, _ := middleware.CurrentUserID(c)
	r, err := h.ratingService.MyRating(c.Request.Context(), me, contentRef(c, c.Query("contentId")))
	if err != nil {
		response.Error(c, err)
		return
	}
	// 未评分时 data 为 null
	if r == nil {
		response.Success(c, nil)
		return
	}
	response.Success(c, r)
}
