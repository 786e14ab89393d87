package handler

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"orgdesk/internal/core/storage"
	"orgdesk/internal/domain"
	"orgdesk/internal/service"
	"orgdesk/pkg/apperrors"
	"orgdesk/pkg/utils"
)

type AuthHandler struct {
	svc         *service.AuthService
	store       *storage.Local
	maxUploadMB int64
}

func NewAuthHandler(svc *service.AuthService, store *storage.Local, maxUploadMB int64) *AuthHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 8
	}
	return &AuthHandler{svc: svc, store: store, maxUploadMB: maxUploadMB}
}

type registerForm struct {
	Email      string   `form:"email" binding:"required,email"`
	Password   string   `form:"password" binding:"required"`
	FirstName  string   `form:"firstName" binding:"required"`
	LastName   string   `form:"lastName" binding:"required"`
	Department *string  `form:"department"`
	Salary     *float64 `form:"salary"`
	Currency   *string  `form:"currency"`
	TechStack  string   `form:"techStack"`
	IsEmployed *bool    `form:"isEmployed"`
}

// Register POST /users/register（multipart，image 可选）
func (h *AuthHandler) Register(c *gin.Context) {
	var in registerForm
	if err := c.ShouldBind(&in); err != nil {
		_ = c.Error(apperrors.BadInput("email, password, first name and last name are required"))
		return
	}

	stack, err := domain.ParseTechStack(in.TechStack)
	if err != nil {
		_ = c.Error(apperrors.BadInput(err.Error()))
		return
	}

	input := service.RegisterInput{
		Email:      in.Email,
		Password:   in.Password,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Salary:     in.Salary,
		TechStack:  stack,
		IsEmployed: in.IsEmployed,
	}
	if in.Department != nil {
		d := domain.Department(*in.Department)
		input.Department = &d
	}
	if in.Currency != nil {
		cur := domain.Currency(*in.Currency)
		input.Currency = &cur
	}

	if fh, err := c.FormFile("image"); err == nil && fh != nil {
		if fh.Size > h.maxUploadMB<<20 {
			_ = c.Error(apperrors.BadInput("image is too large"))
			return
		}
		f, err := fh.Open()
		if err != nil {
			_ = c.Error(apperrors.BadInput("could not read uploaded image"))
			return
		}
		defer f.Close()
		name := utils.NewID() + filepath.Ext(fh.Filename)
		path, err := h.store.Save(name, f)
		if err != nil {
			_ = c.Error(apperrors.Internal("store image failed", err))
			return
		}
		input.ImagePath = path
	}

	u, sess, err := h.svc.Register(c.Request.Context(), input)
	if err != nil {
		// 注册没成，落盘的图片也不留
		if input.ImagePath != "" {
			_ = h.store.Delete(input.ImagePath)
		}
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"user":      u,
		"employee":  u.Employee,
		"token":     sess.Token,
		"expiresAt": sess.ExpiresAt,
	})
}

type loginIn struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"rememberMe"`
}

// Login POST /users/login
func (h *AuthHandler) Login(c *gin.Context) {
	var in loginIn
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(apperrors.BadInput("email and password are required"))
		return
	}
	u, sess, err := h.svc.Login(c.Request.Context(), in.Email, in.Password, in.RememberMe)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":      u,
		"token":     sess.Token,
		"expiresAt": sess.ExpiresAt,
	})
}

type resetRequestIn struct {
	Email string `json:"email" binding:"required,email"`
}

// RequestPasswordReset POST /users/reset-password-request
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var in resetRequestIn
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(apperrors.BadInput("email is required"))
		return
	}
	msg, err := h.svc.RequestPasswordReset(c.Request.Context(), in.Email)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

type resetIn struct {
	Password string `json:"password" binding:"required"`
}

// ResetPassword POST /users/:id/reset-password/:token
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var in resetIn
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(apperrors.BadInput("password is required"))
		return
	}
	if err := h.svc.ResetPassword(c.Request.Context(), c.Param("id"), c.Param("token"), in.Password); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password has been reset"})
}

// 以下两个小助手供各 handler 取调用者身份
func callerID(c *gin.Context) string { return c.GetString("userId") }

func callerRole(c *gin.Context) domain.Role { return domain.Role(c.GetString("role")) }
