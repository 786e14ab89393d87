package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"orgdesk/internal/domain"
	"orgdesk/internal/repo"
	"orgdesk/internal/service"
	"orgdesk/pkg/apperrors"
)

type ExpenseHandler struct {
	svc *service.ExpenseService
}

func NewExpenseHandler(svc *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{svc: svc}
}

// List GET /expenses
func (h *ExpenseHandler) List(c *gin.Context) {
	f := repo.ExpenseFilter{
		Offset: atoiDefault(c.Query("offset"), 0),
		Limit:  atoiDefault(c.Query("limit"), 20),
	}
	if v := c.Query("category"); v != "" {
		cat := domain.ExpenseCategory(v)
		f.Category = &cat
	}
	if v := c.Query("employeeId"); v != "" {
		f.EmployeeID = &v
	}
	items, total, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items, "total": total})
}

// Get GET /expenses/:id
func (h *ExpenseHandler) Get(c *gin.Context) {
	e, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, e)
}

type expenseCreateIn struct {
	Amount      float64    `json:"amount" binding:"required"`
	Currency    string     `json:"currency" binding:"required"`
	Category    string     `json:"category" binding:"required"`
	Description string     `json:"description"`
	EmployeeID  *string    `json:"employeeId"`
	IncurredOn  *time.Time `json:"incurredOn"`
}

// Create POST /expenses
func (h *ExpenseHandler) Create(c *gin.Context) {
	var in expenseCreateIn
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(apperrors.BadInput("amount, currency and category are required"))
		return
	}
	e, err := h.svc.Create(c.Request.Context(), service.ExpenseCreate{
		Amount:      in.Amount,
		Currency:    domain.Currency(in.Currency),
		Category:    domain.ExpenseCategory(in.Category),
		Description: in.Description,
		EmployeeID:  in.EmployeeID,
		IncurredOn:  in.IncurredOn,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

type expensePatchIn struct {
	Amount      *float64   `json:"amount"`
	Currency    *string    `json:"currency"`
	Category    *string    `json:"category"`
	Description *string    `json:"description"`
	EmployeeID  *string    `json:"employeeId"`
	IncurredOn  *time.Time `json:"incurredOn"`
}

// Update PATCH /expenses/:id
func (h *ExpenseHandler) Update(c *gin.Context) {
	var in expensePatchIn
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(apperrors.BadInput("invalid request body"))
		return
	}
	patch := service.ExpensePatch{
		Amount:      in.Amount,
		Description: in.Description,
		EmployeeID:  in.EmployeeID,
		IncurredOn:  in.IncurredOn,
	}
	if in.Currency != nil {
		cur := domain.Currency(*in.Currency)
		patch.Currency = &cur
	}
	if in.Category != nil {
		cat := domain.ExpenseCategory(*in.Category)
		patch.Category = &cat
	}
	e, err := h.svc.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// Delete DELETE /expenses/:id（admin）
func (h *ExpenseHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
