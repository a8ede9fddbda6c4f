package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/shelf/internal/service"
	"github.com/d60-Lab/shelf/pkg/response"
)

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type resetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// Register 注册
// @Summary 注册
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body service.RegisterInput true "注册信息"
// @Success 200 {object} response.Response{data=service.AuthResult}
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req service.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	res, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// Login 登录
// @Summary 登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body service.LoginInput true "登录信息"
// @Success 200 {object} response.Response{data=service.AuthResult}
// @Failure 401 {object} response.Response
// @Router /api/v1/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req service.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	res, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// ForgotPassword 发送重置密码邮件；无论邮箱是否存在都返回成功
// @Summary 忘记密码
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body forgotPasswordRequest true "邮箱"
// @Success 200 {object} response.Response
// @Router /api/v1/auth/forgot-password [post]
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.authService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "if the email is registered, a reset link has been sent"})
}

// ResetPassword 重置密码
// @Summary 重置密码
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body resetPasswordRequest true "重置信息"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/auth/reset-password [post]
func (h *Handler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.authService.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
