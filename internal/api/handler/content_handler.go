package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/shelf/internal/model"
	"github.com/d60-Lab/shelf/pkg/response"
)

// SearchContent 搜索电影/图书
// @Summary 搜索（结果缓存于 redis）
// @Tags 内容
// @Produce json
// @Param query query string true "关键词"
// @Param type query string true "movie|book"
// @Success 200 {object} response.Response{data=[]provider.Metadata}
// @Failure 503 {object} response.Response
// @Router /api/v1/content/search [get]
func (h *Handler) SearchContent(c *gin.Context) {
	res, err := h.contentService.Search(c.Request.Context(), c.Query("query"), model.ContentType(c.Query("type")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// ContentDetails 内容详情
// @Summary 内容详情
// @Tags 内容
// @Produce json
// @Param id path string true "内容ID"
// @Param type query string true "movie|book"
// @Success 200 {object} response.Response{data=model.Content}
// @Failure 404 {object} response.Response
// @Router /api/v1/content/{id} [get]
func (h *Handler) ContentDetails(c *gin.Context) {
	ct, err := h.contentService.Details(c.Request.Context(), contentRef(c, c.Param("id")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, ct)
}

// Health 健康检查
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} response.Response
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok"})
}
