package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"orgdesk/internal/domain"
)

type ExpenseRepo struct{ db *gorm.DB }

func NewExpenseRepo(db *gorm.DB) *ExpenseRepo { return &ExpenseRepo{db: db} }

type ExpenseFilter struct {
	Category   *domain.ExpenseCategory
	EmployeeID *string
	Offset     int
	Limit      int
}

func (r *ExpenseRepo) Create(ctx context.Context, e *domain.Expense) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *ExpenseRepo) FindByID(ctx context.Context, id string) (*domain.Expense, error) {
	var e domain.Expense
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *ExpenseRepo) List(ctx context.Context, f ExpenseFilter) ([]domain.Expense, int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Expense{})
	if f.Category != nil {
		tx = tx.Where("category = ?", *f.Category)
	}
	if f.EmployeeID != nil {
		tx = tx.Where("employee_id = ?", *f.EmployeeID)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	var items []domain.Expense
	if err := tx.Order("incurred_on desc").Offset(f.Offset).Limit(f.Limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *ExpenseRepo) Update(ctx context.Context, e *domain.Expense) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *ExpenseRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Expense{}).Error
}
