package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"orgdesk/internal/domain"
)

type ProjectRepo struct{ db *gorm.DB }

func NewProjectRepo(db *gorm.DB) *ProjectRepo { return &ProjectRepo{db: db} }

// Create 项目与成员关系同事务落库
func (r *ProjectRepo) Create(ctx context.Context, p *domain.Project, members []domain.ProjectAssignment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		if len(members) == 0 {
			return nil
		}
		for i := range members {
			members[i].ProjectID = p.ID
		}
		return tx.Create(&members).Error
	})
}

func (r *ProjectRepo) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	var p domain.Project
	err := r.db.WithContext(ctx).Preload("Assignments.Employee").First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepo) List(ctx context.Context, offset, limit int) ([]domain.Project, int64, error) {
	var projects []domain.Project
	tx := r.db.WithContext(ctx).Model(&domain.Project{})
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := tx.Preload("Assignments.Employee").
		Offset(offset).Limit(limit).Order("created_at desc").Find(&projects).Error; err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

func (r *ProjectRepo) Rename(ctx context.Context, id, name string) error {
	return r.db.WithContext(ctx).Model(&domain.Project{}).
		Where("id = ?", id).Update("name", name).Error
}

// ReplaceMembers 整体替换成员集合
func (r *ProjectRepo) ReplaceMembers(ctx context.Context, id string, members []domain.ProjectAssignment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&domain.ProjectAssignment{}).Error; err != nil {
			return err
		}
		if len(members) == 0 {
			return nil
		}
		for i := range members {
			members[i].ProjectID = id
		}
		return tx.Create(&members).Error
	})
}

func (r *ProjectRepo) DeleteCascade(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&domain.ProjectAssignment{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&domain.Project{}).Error
	})
}
