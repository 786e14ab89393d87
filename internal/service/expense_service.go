package service

import (
	"context"
	"strings"
	"time"

	"orgdesk/internal/domain"
	"orgdesk/internal/repo"
	"orgdesk/pkg/apperrors"
	"orgdesk/pkg/utils"
)

type ExpenseService struct {
	expenses *repo.ExpenseRepo
	emps     *repo.EmployeeRepo
}

func NewExpenseService(expenses *repo.ExpenseRepo, emps *repo.EmployeeRepo) *ExpenseService {
	return &ExpenseService{expenses: expenses, emps: emps}
}

type ExpenseCreate struct {
	Amount      float64
	Currency    domain.Currency
	Category    domain.ExpenseCategory
	Description string
	EmployeeID  *string
	IncurredOn  *time.Time
}

func (s *ExpenseService) Create(ctx context.Context, in ExpenseCreate) (*domain.Expense, error) {
	if in.Amount <= 0 {
		return nil, apperrors.BadInput("amount must be positive")
	}
	if !in.Currency.Valid() {
		return nil, apperrors.BadInput("unknown currency")
	}
	if !in.Category.Valid() {
		return nil, apperrors.BadInput("unknown category")
	}
	if in.EmployeeID != nil {
		e, err := s.emps.FindByID(ctx, *in.EmployeeID)
		if err != nil {
			return nil, apperrors.Internal("lookup employee failed", err)
		}
		if e == nil {
			return nil, apperrors.BadInput("unknown employee")
		}
	}

	exp := &domain.Expense{
		ID:          utils.NewID(),
		Amount:      in.Amount,
		Currency:    in.Currency,
		Category:    in.Category,
		Description: strings.TrimSpace(in.Description),
		EmployeeID:  in.EmployeeID,
		IncurredOn:  time.Now(),
	}
	if in.IncurredOn != nil {
		exp.IncurredOn = *in.IncurredOn
	}
	if err := s.expenses.Create(ctx, exp); err != nil {
		return nil, apperrors.Internal("create expense failed", err)
	}
	return exp, nil
}

func (s *ExpenseService) Get(ctx context.Context, id string) (*domain.Expense, error) {
	e, err := s.expenses.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Internal("lookup expense failed", err)
	}
	if e == nil {
		return nil, apperrors.NotFound("expense not found")
	}
	return e, nil
}

func (s *ExpenseService) List(ctx context.Context, f repo.ExpenseFilter) ([]domain.Expense, int64, error) {
	if f.Category != nil && !f.Category.Valid() {
		return nil, 0, apperrors.BadInput("unknown category")
	}
	items, total, err := s.expenses.List(ctx, f)
	if err != nil {
		return nil, 0, apperrors.Internal("list expenses failed", err)
	}
	return items, total, nil
}

type ExpensePatch struct {
	Amount      *float64
	Currency    *domain.Currency
	Category    *domain.ExpenseCategory
	Description *string
	EmployeeID  *string
	IncurredOn  *time.Time
}

func (s *ExpenseService) Update(ctx context.Context, id string, p ExpensePatch) (*domain.Expense, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Amount != nil {
		if *p.Amount <= 0 {
			return nil, apperrors.BadInput("amount must be positive")
		}
		e.Amount = *p.Amount
	}
	if p.Currency != nil {
		if !p.Currency.Valid() {
			return nil, apperrors.BadInput("unknown currency")
		}
		e.Currency = *p.Currency
	}
	if p.Category != nil {
		if !p.Category.Valid() {
			return nil, apperrors.BadInput("unknown category")
		}
		e.Category = *p.Category
	}
	if p.Description != nil {
		e.Description = strings.TrimSpace(*p.Description)
	}
	if p.EmployeeID != nil {
		if *p.EmployeeID == "" {
			e.EmployeeID = nil
		} else {
			emp, err := s.emps.FindByID(ctx, *p.EmployeeID)
			if err != nil {
				return nil, apperrors.Internal("lookup employee failed", err)
			}
			if emp == nil {
				return nil, apperrors.BadInput("unknown employee")
			}
			e.EmployeeID = p.EmployeeID
		}
	}
	if p.IncurredOn != nil {
		e.IncurredOn = *p.IncurredOn
	}
	if err := s.expenses.Update(ctx, e); err != nil {
		return nil, apperrors.Internal("update expense failed", err)
	}
	return e, nil
}

func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.expenses.Delete(ctx, id); err != nil {
		return apperrors.Internal("delete expense failed", err)
	}
	return nil
}
