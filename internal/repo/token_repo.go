package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"orgdesk/internal/domain"
)

type TokenRepo struct{ db *gorm.DB }

func NewTokenRepo(db *gorm.DB) *TokenRepo { return &TokenRepo{db: db} }

func (r *TokenRepo) Create(ctx context.Context, t *domain.ResetToken) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TokenRepo) FindByUser(ctx context.Context, userID string) (*domain.ResetToken, error) {
	var t domain.ResetToken
	err := r.db.WithContext(ctx).First(&t, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TokenRepo) FindByUserAndToken(ctx context.Context, userID, token string) (*domain.ResetToken, error) {
	var t domain.ResetToken
	err := r.db.WithContext(ctx).First(&t, "user_id = ? AND token = ?", userID, token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TokenRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.ResetToken{}).Error
}
