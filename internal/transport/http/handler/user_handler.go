package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"orgdesk/internal/service"
	"orgdesk/pkg/apperrors"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}

// List GET /users
func (h *UserHandler) List(c *gin.Context) {
	offset := atoiDefault(c.Query("offset"), 0)
	limit := atoiDefault(c.Query("limit"), 20)
	users, total, err := h.svc.List(c.Request.Context(), offset, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": users, "total": total})
}

// Get GET /users/:id
func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, u)
}

type userPatchIn struct {
	Email     *string `json:"email" binding:"omitempty,email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Password  *string `json:"password"`
	Role      *string `json:"role"`
}

// Update PATCH /users/:id（本人或 admin）
func (h *UserHandler) Update(c *gin.Context) {
	var in userPatchIn
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(apperrors.BadInput("invalid request body"))
		return
	}
	u, err := h.svc.Update(c.Request.Context(), callerID(c), callerRole(c), c.Param("id"), service.UserPatch{
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Password:  in.Password,
		Role:      in.Role,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// Delete DELETE /users/:id（admin 账号永远 403）
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), callerID(c), callerRole(c), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
