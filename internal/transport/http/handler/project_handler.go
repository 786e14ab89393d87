package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"orgdesk/internal/domain"
	"orgdesk/internal/service"
	"orgdesk/pkg/apperrors"
)

type ProjectHandler struct {
	svc *service.ProjectService
}

func NewProjectHandler(svc *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

type memberView struct {
	EmployeeID string `json:"employeeId"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	PartTime   bool   `json:"partTime"`
}

type projectView struct {
	*domain.Project
	Members []memberView `json:"members"`
}

func toProjectView(p *domain.Project) projectView {
	members := make([]memberView, 0, len(p.Assignments))
	for _, a := range p.Assignments {
		m := memberView{EmployeeID: a.EmployeeID, PartTime: a.PartTime}
		if a.Employee != nil {
			m.FirstName = a.Employee.FirstName
			m.LastName = a.Employee.LastName
		}
		members = append(members, m)
	}
	return projectView{Project: p, Members: members}
}

type memberIn struct {
	EmployeeID string `json:"employeeId" binding:"required"`
	PartTime   bool   `json:"partTime"`
}

func toMembers(in []memberIn) []service.ProjectMember {
	out := make([]service.ProjectMember, 0, len(in))
	for _, m := range in {
		out = append(out, service.ProjectMember{EmployeeID: m.EmployeeID, PartTime: m.PartTime})
	}
	return out
}

// List GET /projects
func (h *ProjectHandler) List(c *gin.Context) {
	offset := atoiDefault(c.Query("offset"), 0)
	limit := atoiDefault(c.Query("limit"), 20)
	projects, total, err := h.svc.List(c.Request.Context(), offset, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	views := make([]projectView, 0, len(projects))
	for i := range projects {
		views = append(views, toProjectView(&projects[i]))
	}
	c.JSON(http.StatusOK, gin.H{"data": views, "total": total})
}

// Get GET /projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, toProjectView(p))
}

type projectCreateIn struct {
	Name    string     `json:"name" binding:"required"`
	Members []memberIn `json:"members"`
}

// Create POST /projects（admin）
func (h *ProjectHandler) Create(c *gin.Context) {
	var in projectCreateIn
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(apperrors.BadInput("project name is required"))
		return
	}
	p, err := h.svc.Create(c.Request.Context(), in.Name, toMembers(in.Members))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, toProjectView(p))
}

type projectPatchIn struct {
	Name    *string     `json:"name"`
	Members *[]memberIn `json:"members"`
}

// Update PATCH /projects/:id（admin）
func (h *ProjectHandler) Update(c *gin.Context) {
	var in projectPatchIn
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(apperrors.BadInput("invalid request body"))
		return
	}
	patch := service.ProjectPatch{Name: in.Name}
	if in.Members != nil {
		members := toMembers(*in.Members)
		patch.Members = &members
	}
	p, err := h.svc.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, toProjectView(p))
}

// Delete DELETE /projects/:id（admin）
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
