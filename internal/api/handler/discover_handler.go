package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/shelf/internal/model"
	"github.com/d60-Lab/shelf/pkg/response"
)

// TopRated 高分榜
// @Summary 高分榜（按平均分，需达到最少评分人数）
// @Tags 发现
// @Produce json
// @Param type query string true "movie|book"
// @Param minVotes query int false "最少评分人数" default(5)
// @Param limit query int false "数量" default(20)
// @Success 200 {object} response.Response{data=[]model.DiscoverEntry}
// @Router /api/v1/discover/top-rated [get]
func (h *Handler) TopRated(c *gin.Context) {
	res, err := h.discoverService.TopRated(c.Request.Context(), model.ContentType(c.Query("type")),
		queryInt(c, "minVotes"), queryInt(c, "limit"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// MostPopular 热门榜
// @Summary 热门榜（按动态数）
// @Tags 发现
// @Produce json
// @Param type query string true "movie|book"
// @Param limit query int false "数量" default(20)
// @Success 200 {object} response.Response{data=[]model.DiscoverEntry}
// @Router /api/v1/discover/most-popular [get]
func (h *Handler) MostPopular(c *gin.Context) {
	res, err := h.discoverService.MostPopular(c.Request.Context(), model.ContentType(c.Query("type")), queryInt(c, "limit"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
