package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/shelf/internal/api/middleware"
	"github.com/d60-Lab/shelf/internal/service"
	"github.com/d60-Lab/shelf/pkg/response"
)

type createListRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// Lists 我的片单/书单
// @Summary 我的自定义列表
// @Tags 自定义列表
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]model.CustomList}
// @Router /api/v1/custom-list [get]
func (h *Handler) Lists(c *gin.Context) {
	me, _ := middleware.CurrentUserID(c)
	lists, err := h.listService.Lists(c.Request.Context(), me)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, lists)
}

// CreateList 新建列表
// @Summary 新建自定义列表
// @Tags 自定义列表
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createListRequest true "列表名"
// @Success 200 {object} response.Response{data=model.CustomList}
// @Router /api/v1/custom-list [post]
func (h *Handler) CreateList(c *gin.Context) {
	me, _ := middleware.CurrentUserID(c)
	var req createListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	l, err := h.listService.Create(c.Request.Context(), me, req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, l)
}

// DeleteList 删除列表
// @Summary 删除自定义列表
// @Tags 自定义列表
// @Produce json
// @Security BearerAuth
// @Param id path int true "列表ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/custom-list/{id} [delete]
func (h *Handler) DeleteList(c *gin.Context) {
	me, _ := middleware.CurrentUserID(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.listService.Delete(c.Request.Context(), me, id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// ToggleListItem 加入/移出列表
// @Summary 切换列表条目
// @Tags 自定义列表
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.ToggleInput true "条目"
// @Success 200 {object} response.Response{data=service.ToggleResult}
// @Router /api/v1/custom-list/toggle-item [post]
func (h *Handler) ToggleListItem(c *gin.Context) {
	me, _ := middleware.CurrentUserID(c)
	var req service.ToggleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	res, err := h.listService.ToggleItem(c.Request.Context(), me, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
