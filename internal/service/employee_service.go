package service

import (
	"context"
	"strings"
	"time"

	"orgdesk/internal/core/cache"
	"orgdesk/internal/domain"
	"orgdesk/internal/repo"
	"orgdesk/pkg/apperrors"
	"orgdesk/pkg/utils"
)

const employeeCacheTTL = 5 * time.Minute

type EmployeeService struct {
	emps  *repo.EmployeeRepo
	cache *cache.Cache // 可为 nil（redis 关闭时）
}

func NewEmployeeService(emps *repo.EmployeeRepo, c *cache.Cache) *EmployeeService {
	return &EmployeeService{emps: emps, cache: c}
}

func employeeCacheKey(id string) string { return "employee:" + id }

func (s *EmployeeService) List(ctx context.Context, q repo.EmployeeQuery) (*repo.EmployeePage, error) {
	page, err := s.emps.Search(ctx, q)
	if err != nil {
		return nil, apperrors.Internal("list employees failed", err)
	}
	return page, nil
}

func (s *EmployeeService) Get(ctx context.Context, id string) (*domain.Employee, error) {
	load := func(ctx context.Context) (*domain.Employee, error) {
		return s.emps.FindByID(ctx, id)
	}
	var e *domain.Employee
	var err error
	if s.cache != nil {
		e, err = cache.GetOrLoadJSON(s.cache, ctx, employeeCacheKey(id), employeeCacheTTL, load)
	} else {
		e, err = load(ctx)
	}
	if err != nil {
		return nil, apperrors.Internal("lookup employee failed", err)
	}
	if e == nil {
		return nil, apperrors.NotFound("employee not found")
	}
	return e, nil
}

type EmployeeCreate struct {
	FirstName  string
	LastName   string
	Department *domain.Department
	Salary     float64
	Currency   *domain.Currency
	TechStack  domain.TechStack
	IsEmployed *bool
	ImagePath  string
}

func (s *EmployeeService) Create(ctx context.Context, in EmployeeCreate) (*domain.Employee, error) {
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return nil, apperrors.BadInput("first name and last name are required")
	}
	if in.Department != nil && !in.Department.Valid() {
		return nil, apperrors.BadInput("unknown department")
	}
	if in.Currency != nil && !in.Currency.Valid() {
		return nil, apperrors.BadInput("unknown currency")
	}

	e := &domain.Employee{
		ID:            utils.NewID(),
		FirstName:     strings.TrimSpace(in.FirstName),
		LastName:      strings.TrimSpace(in.LastName),
		Salary:        in.Salary,
		TechStack:     in.TechStack,
		ImagePath:     in.ImagePath,
		IsEmployed:    true,
		EmployedSince: time.Now(), // 入职时间在创建时落定
	}
	if in.Department != nil {
		e.Department = *in.Department
	}
	if in.Currency != nil {
		e.Currency = *in.Currency
	}
	if in.IsEmployed != nil {
		e.IsEmployed = *in.IsEmployed
	}
	if err := s.emps.Create(ctx, e); err != nil {
		return nil, apperrors.Internal("create employee failed", err)
	}
	return e, nil
}

type EmployeePatch struct {
	FirstName  *string
	LastName   *string
	Department *domain.Department
	Salary     *float64
	Currency   *domain.Currency
	TechStack  *domain.TechStack
	IsEmployed *bool
	ImagePath  *string
}

func (s *EmployeeService) Update(ctx context.Context, id string, p EmployeePatch) (*domain.Employee, error) {
	e, err := s.emps.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Internal("lookup employee failed", err)
	}
	if e == nil {
		return nil, apperrors.NotFound("employee not found")
	}

	if p.FirstName != nil {
		if strings.TrimSpace(*p.FirstName) == "" {
			return nil, apperrors.BadInput("first name must not be empty")
		}
		e.FirstName = strings.TrimSpace(*p.FirstName)
	}
	if p.LastName != nil {
		if strings.TrimSpace(*p.LastName) == "" {
			return nil, apperrors.BadInput("last name must not be empty")
		}
		e.LastName = strings.TrimSpace(*p.LastName)
	}
	if p.Department != nil {
		if !p.Department.Valid() {
			return nil, apperrors.BadInput("unknown department")
		}
		e.Department = *p.Department
	}
	if p.Salary != nil {
		e.Salary = *p.Salary
	}
	if p.Currency != nil {
		if !p.Currency.Valid() {
			return nil, apperrors.BadInput("unknown currency")
		}
		e.Currency = *p.Currency
	}
	if p.TechStack != nil {
		e.TechStack = *p.TechStack
	}
	if p.ImagePath != nil {
		e.ImagePath = *p.ImagePath
	}
	// 只有雇佣状态真的翻转才重置时间戳
	if p.IsEmployed != nil && *p.IsEmployed != e.IsEmployed {
		e.IsEmployed = *p.IsEmployed
		e.EmployedSince = time.Now()
	}

	if err := s.emps.Update(ctx, e); err != nil {
		return nil, apperrors.Internal("update employee failed", err)
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, employeeCacheKey(id))
	}
	return e, nil
}

func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	e, err := s.emps.FindByID(ctx, id)
	if err != nil {
		return apperrors.Internal("lookup employee failed", err)
	}
	if e == nil {
		return apperrors.NotFound("employee not found")
	}
	if err := s.emps.DeleteCascade(ctx, id); err != nil {
		return apperrors.Internal("delete employee failed", err)
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, employeeCacheKey(id))
	}
	return nil
}
