package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-auth-service/internal/domain"
	"go-auth-service/internal/service"
	mdw "go-auth-service/internal/transport/http/middleware"
	resp "go-auth-service/internal/transport/http/response"
)

type AuthHandler struct {
	svc *service.AuthService
	dev bool
}

func NewAuthHandler(svc *service.AuthService, dev bool) *AuthHandler {
	return &AuthHandler{svc: svc, dev: dev}
}

// binding 标签就是校验闸门：坏请求在这里 400，进不了 service
type signupIn struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name"     binding:"omitempty,max=64"`
}

type loginIn struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type forgotIn struct {
	Email string `json:"email" binding:"required,email"`
}

type resetIn struct {
	Token    string `json:"token"    binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var in signupIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	out, err := h.svc.Signup(c.Request.Context(), in.Email, in.Password, in.Name)
	if err != nil {
		resp.Fail(c, err, h.dev)
		return
	}
	resp.OK(c, http.StatusCreated, "User created successfully", out)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var in loginIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	out, err := h.svc.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		resp.Fail(c, err, h.dev)
		return
	}
	resp.OK(c, http.StatusOK, "Login successful", out)
}

// Me 返回 AuthGate 解析出的当前用户
func (h *AuthHandler) Me(c *gin.Context) {
	v, ok := c.Get(mdw.KeyUser)
	if !ok {
		resp.Unauthorized(c, "Unauthorized")
		return
	}
	u, ok := v.(domain.PublicUser)
	if !ok {
		resp.Unauthorized(c, "Unauthorized")
		return
	}
	resp.OK(c, http.StatusOK, "User retrieved successfully", u)
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var in forgotIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	out, err := h.svc.ForgotPassword(c.Request.Context(), in.Email)
	if err != nil {
		resp.Fail(c, err, h.dev)
		return
	}
	resp.OK(c, http.StatusOK, out.Message, out)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var in resetIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	msg, err := h.svc.ResetPassword(c.Request.Context(), in.Token, in.Password)
	if err != nil {
		resp.Fail(c, err, h.dev)
		return
	}
	resp.OK(c, http.StatusOK, msg, gin.H{"message": msg})
}
