package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"orgdesk/internal/domain"
	"orgdesk/internal/repo"
	"orgdesk/internal/service"
	"orgdesk/pkg/apperrors"
)

type EmployeeHandler struct {
	svc *service.EmployeeService
}

func NewEmployeeHandler(svc *service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{svc: svc}
}

type projectRef struct {
	Name     string `json:"name"`
	PartTime bool   `json:"partTime"`
}

type employeeView struct {
	*domain.Employee
	// 遮蔽内嵌的 Assignments，对外只给扁平的 projects
	Assignments []domain.ProjectAssignment `json:"-"`
	Projects    []projectRef               `json:"projects"`
}

func toEmployeeView(e *domain.Employee) employeeView {
	refs := make([]projectRef, 0, len(e.Assignments))
	for _, a := range e.Assignments {
		if a.Project == nil {
			continue
		}
		refs = append(refs, projectRef{Name: a.Project.Name, PartTime: a.PartTime})
	}
	return employeeView{Employee: e, Projects: refs}
}

// List GET /employees — 搜索/过滤/排序/分页
func (h *EmployeeHandler) List(c *gin.Context) {
	q := repo.EmployeeQuery{
		Search:   c.Query("search"),
		SortBy:   c.Query("sortBy"),
		SortDir:  c.Query("sortDir"),
		Page:     atoiDefault(c.Query("page"), 1),
		PageSize: atoiDefault(c.Query("pageSize"), repo.DefaultPageSize),
	}
	if v := c.Query("currency"); v != "" {
		cur := domain.Currency(v)
		if !cur.Valid() {
			_ = c.Error(apperrors.BadInput("unknown currency"))
			return
		}
		q.Currency = &cur
	}
	if v := c.Query("department"); v != "" {
		d := domain.Department(v)
		if !d.Valid() {
			_ = c.Error(apperrors.BadInput("unknown department"))
			return
		}
		q.Department = &d
	}
	if v := c.Query("techStack"); v != "" {
		t := domain.TechTag(v)
		if !t.Valid() {
			_ = c.Error(apperrors.BadInput("unknown tech tag"))
			return
		}
		q.Tech = &t
	}
	if v := c.Query("isEmployed"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			_ = c.Error(apperrors.BadInput("isEmployed must be a boolean"))
			return
		}
		q.IsEmployed = &b
	}

	page, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		_ = c.Error(err)
		return
	}
	views := make([]employeeView, 0, len(page.Items))
	for i := range page.Items {
		views = append(views, toEmployeeView(&page.Items[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"data": views,
		"meta": gin.H{
			"total":       page.Total,
			"currentPage": page.CurrentPage,
			"lastPage":    page.LastPage,
			"pageSize":    page.PageSize,
		},
	})
}

// Get GET /employees/:id
func (h *EmployeeHandler) Get(c *gin.Context) {
	e, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, toEmployeeView(e))
}

type employeeCreateIn struct {
	FirstName  string   `json:"firstName" binding:"required"`
	LastName   string   `json:"lastName" binding:"required"`
	Department *string  `json:"department"`
	Salary     float64  `json:"salary"`
	Currency   *string  `json:"currency"`
	TechStack  []string `json:"techStack"`
	IsEmployed *bool    `json:"isEmployed"`
	ImagePath  string   `json:"imagePath"`
}

func parseTags(raw []string) (domain.TechStack, error) {
	out := make(domain.TechStack, 0, len(raw))
	for _, s := range raw {
		t := domain.TechTag(s)
		if !t.Valid() {
			return nil, apperrors.BadInput("unknown tech tag " + s)
		}
		out = append(out, t)
	}
	return out, nil
}

// Create POST /employees（admin）
func (h *EmployeeHandler) Create(c *gin.Context) {
	var in employeeCreateIn
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(apperrors.BadInput("first name and last name are required"))
		return
	}
	stack, err := parseTags(in.TechStack)
	if err != nil {
		_ = c.Error(err)
		return
	}
	input := service.EmployeeCreate{
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Salary:     in.Salary,
		TechStack:  stack,
		IsEmployed: in.IsEmployed,
		ImagePath:  in.ImagePath,
	}
	if in.Department != nil {
		d := domain.Department(*in.Department)
		input.Department = &d
	}
	if in.Currency != nil {
		cur := domain.Currency(*in.Currency)
		input.Currency = &cur
	}
	e, err := h.svc.Create(c.Request.Context(), input)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, toEmployeeView(e))
}

type employeePatchIn struct {
	FirstName  *string   `json:"firstName"`
	LastName   *string   `json:"lastName"`
	Department *string   `json:"department"`
	Salary     *float64  `json:"salary"`
	Currency   *string   `json:"currency"`
	TechStack  *[]string `json:"techStack"`
	IsEmployed *bool     `json:"isEmployed"`
	ImagePath  *string   `json:"imagePath"`
}

// Update PATCH /employees/:id（admin）
func (h *EmployeeHandler) Update(c *gin.Context) {
	var in employeePatchIn
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(apperrors.BadInput("invalid request body"))
		return
	}
	patch := service.EmployeePatch{
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Salary:     in.Salary,
		IsEmployed: in.IsEmployed,
		ImagePath:  in.ImagePath,
	}
	if in.Department != nil {
		d := domain.Department(*in.Department)
		patch.Department = &d
	}
	if in.Currency != nil {
		cur := domain.Currency(*in.Currency)
		patch.Currency = &cur
	}
	if in.TechStack != nil {
		stack, err := parseTags(*in.TechStack)
		if err != nil {
			_ = c.Error(err)
			return
		}
		patch.TechStack = &stack
	}
	e, err := h.svc.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, toEmployeeView(e))
}

// Delete DELETE /employees/:id（admin，级联清理）
func (h *EmployeeHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
