package service

import (
	"context"
	"strings"

	"orgdesk/internal/domain"
	"orgdesk/internal/repo"
	"orgdesk/pkg/apperrors"
	"orgdesk/pkg/utils"
)

type ProjectService struct {
	projects *repo.ProjectRepo
	emps     *repo.EmployeeRepo
}

func NewProjectService(projects *repo.ProjectRepo, emps *repo.EmployeeRepo) *ProjectService {
	return &ProjectService{projects: projects, emps: emps}
}

type ProjectMember struct {
	EmployeeID string
	PartTime   bool
}

func (s *ProjectService) resolveMembers(ctx context.Context, members []ProjectMember) ([]domain.ProjectAssignment, error) {
	out := make([]domain.ProjectAssignment, 0, len(members))
	seen := make(map[string]struct{}, len(members))
	for _, m := range members {
		if _, dup := seen[m.EmployeeID]; dup {
			return nil, apperrors.BadInput("duplicate employee in member list")
		}
		seen[m.EmployeeID] = struct{}{}
		e, err := s.emps.FindByID(ctx, m.EmployeeID)
		if err != nil {
			return nil, apperrors.Internal("lookup employee failed", err)
		}
		if e == nil {
			return nil, apperrors.BadInput("unknown employee " + m.EmployeeID)
		}
		out = append(out, domain.ProjectAssignment{EmployeeID: m.EmployeeID, PartTime: m.PartTime})
	}
	return out, nil
}

func (s *ProjectService) Create(ctx context.Context, name string, members []ProjectMember) (*domain.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.BadInput("project name is required")
	}
	assignments, err := s.resolveMembers(ctx, members)
	if err != nil {
		return nil, err
	}
	p := &domain.Project{ID: utils.NewID(), Name: name}
	if err := s.projects.Create(ctx, p, assignments); err != nil {
		return nil, apperrors.Internal("create project failed", err)
	}
	return s.Get(ctx, p.ID)
}

func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	p, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Internal("lookup project failed", err)
	}
	if p == nil {
		return nil, apperrors.NotFound("project not found")
	}
	return p, nil
}

func (s *ProjectService) List(ctx context.Context, offset, limit int) ([]domain.Project, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	projects, total, err := s.projects.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, apperrors.Internal("list projects failed", err)
	}
	return projects, total, nil
}

type ProjectPatch struct {
	Name    *string
	Members *[]ProjectMember
}

func (s *ProjectService) Update(ctx context.Context, id string, p ProjectPatch) (*domain.Project, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, apperrors.BadInput("project name must not be empty")
		}
		if err := s.projects.Rename(ctx, id, name); err != nil {
			return nil, apperrors.Internal("rename project failed", err)
		}
	}
	if p.Members != nil {
		assignments, err := s.resolveMembers(ctx, *p.Members)
		if err != nil {
			return nil, err
		}
		if err := s.projects.ReplaceMembers(ctx, id, assignments); err != nil {
			return nil, apperrors.Internal("replace members failed", err)
		}
	}
	return s.Get(ctx, id)
}

func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.projects.DeleteCascade(ctx, id); err != nil {
		return apperrors.Internal("delete project failed", err)
	}
	return nil
}
