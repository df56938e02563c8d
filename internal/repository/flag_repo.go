package repository

import (
	"context"

	"github.com/danishsenju/fixmyhood/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FlagRepository interface {
	Create(ctx context.Context, flag *model.Flag) error
	FindByStatus(ctx context.Context, status string, offset, limit int) ([]model.Flag, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

type flagRepository struct {
	db *gorm.DB
}

func NewFlagRepository(db *gorm.DB) FlagRepository {
	return &flagRepository{db: db}
}

func (r *flagRepository) Create(ctx context.Context, flag *model.Flag) error {
	return r.db.WithContext(ctx).Create(flag).Error
}

func (r *flagRepository) FindByStatus(ctx context.Context, status string, offset, limit int) ([]model.Flag, int64, error) {
	var flags []model.Flag
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Flag{}).Preload("Reporter")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&flags).Error
	return flags, total, err
}

func (r *flagRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).Model(&model.Flag{}).
		Where("id = ?", id).
		Update("status", status).Error
}
