package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"orgdesk/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Preload("Employee").First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) List(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	var users []domain.User
	tx := r.db.WithContext(ctx).Model(&domain.User{})
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := tx.Preload("Employee").Offset(offset).Limit(limit).Order("created_at desc").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

// DeleteCascade 一个事务内删用户、关联员工、项目成员、存活的重置 token
func (r *UserRepo) DeleteCascade(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if u.EmployeeID != nil {
			if err := tx.Where("employee_id = ?", *u.EmployeeID).
				Delete(&domain.ProjectAssignment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id = ?", *u.EmployeeID).
				Delete(&domain.Employee{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", u.ID).Delete(&domain.ResetToken{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", u.ID).Delete(&domain.User{}).Error
	})
}
