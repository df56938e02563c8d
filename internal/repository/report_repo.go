package repository

import (
	"context"

	"github.com/danishsenju/fixmyhood/internal/dto"
	"github.com/danishsenju/fixmyhood/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportRepository interface {
	Create(ctx context.Context, report *model.Report) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Report, error)
	FindFeed(ctx context.Context, filter dto.ReportFilter) ([]model.Report, int64, error)
	// FindDetectionPool returns the most recent visible, non-duplicate
	// reports in a category. This is the candidate pool for duplicate
	// detection.
	FindDetectionPool(ctx context.Context, category string, limit int) ([]model.Report, error)
	FindWithCoordinates(ctx context.Context) ([]model.Report, error)
	FindByCreator(ctx context.Context, creatorID uuid.UUID) ([]model.Report, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Report, error)
	CountByCreator(ctx context.Context, creatorID uuid.UUID) (int64, error)
	Update(ctx context.Context, report *model.Report) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	SetHidden(ctx context.Context, id uuid.UUID, hidden bool) error
	SetCommentsLocked(ctx context.Context, id uuid.UUID, locked bool) error
	SetDuplicateOf(ctx context.Context, id uuid.UUID, originalID *uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindAllForAdmin(ctx context.Context, offset, limit int) ([]model.Report, int64, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *model.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *reportRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	var report model.Report
	if err := r.db.WithContext(ctx).
		Preload("Creator").
		Where("id = ?", id).
		First(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) FindFeed(ctx context.Context, filter dto.ReportFilter) ([]model.Report, int64, error) {
	var reports []model.Report
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Report{}).
		Preload("Creator").
		Where("is_hidden = ?", false).
		Where("duplicate_of IS NULL")

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := query.Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&reports).Error
	return reports, total, err
}

func (r *reportRepository) FindDetectionPool(ctx context.Context, category string, limit int) ([]model.Report, error) {
	var reports []model.Report
	err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Where("is_hidden = ?", false).
		Where("duplicate_of IS NULL").
		Order("created_at DESC").
		Limit(limit).
		Find(&reports).Error
	return reports, err
}

func (r *reportRepository) FindWithCoordinates(ctx context.Context) ([]model.Report, error) {
	var reports []model.Report
	err := r.db.WithContext(ctx).
		Where("is_hidden = ?", false).
		Where("duplicate_of IS NULL").
		Where("latitude IS NOT NULL AND longitude IS NOT NULL").
		Order("created_at DESC").
		Find(&reports).Error
	return reports, err
}

func (r *reportRepository) FindByCreator(ctx context.Context, creatorID uuid.UUID) ([]model.Report, error) {
	var reports []model.Report
	err := r.db.WithContext(ctx).
		Where("creator_id = ?", creatorID).
		Order("created_at DESC").
		Find(&reports).Error
	return reports, err
}

func (r *reportRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Report, error) {
	var reports []model.Report
	if len(ids) == 0 {
		return reports, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&reports).Error
	return reports, err
}

func (r *reportRepository) CountByCreator(ctx context.Context, creatorID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Report{}).
		Where("creator_id = ?", creatorID).
		Count(&count).Error
	return count, err
}

func (r *reportRepository) Update(ctx context.Context, report *model.Report) error {
	return r.db.WithContext(ctx).Save(report).Error
}

func (r *reportRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).Model(&model.Report{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *reportRepository) SetHidden(ctx context.Context, id uuid.UUID, hidden bool) error {
	return r.db.WithContext(ctx).Model(&model.Report{}).
		Where("id = ?", id).
		Update("is_hidden", hidden).Error
}

func (r *reportRepository) SetCommentsLocked(ctx context.Context, id uuid.UUID, locked bool) error {
	return r.db.WithContext(ctx).Model(&model.Report{}).
		Where("id = ?", id).
		Update("comments_locked", locked).Error
}

func (r *reportRepository) SetDuplicateOf(ctx context.Context, id uuid.UUID, originalID *uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Report{}).
		Where("id = ?", id).
		Update("duplicate_of", originalID).Error
}

func (r *reportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Report{}, id).Error
}

func (r *reportRepository) FindAllForAdmin(ctx context.Context, offset, limit int) ([]model.Report, int64, error) {
	var reports []model.Report
	var total int64

	if err := r.db.WithContext(ctx).Model(&model.Report{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Preload("Creator").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&reports).Error
	return reports, total, err
}
