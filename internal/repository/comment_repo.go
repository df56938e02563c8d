package repository

import (
	"context"

	"github.com/danishsenju/fixmyhood/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)
	FindByReportID(ctx context.Context, reportID uuid.UUID) ([]model.Comment, error)
	FindRecentByReportIDs(ctx context.Context, reportIDs []uuid.UUID, limit int) ([]model.Comment, error)
	CountByReport(ctx context.Context, reportID uuid.UUID) (int64, error)
	CountByReports(ctx context.Context, reportIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error)
	FindConfirmFixIDsByAuthor(ctx context.Context, authorID uuid.UUID) ([]uuid.UUID, error)
	HasProgressComment(ctx context.Context, reportID uuid.UUID) (bool, error)
	SetHidden(ctx context.Context, id uuid.UUID, hidden bool) error
	// MarkVerifiedFixAwarded flips the award guard and reports whether this
	// call was the one that flipped it. A false return means another call
	// already claimed the award.
	MarkVerifiedFixAwarded(ctx context.Context, id uuid.UUID) (bool, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("id = ?", id).
		First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) FindByReportID(ctx context.Context, reportID uuid.UUID) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("report_id = ? AND is_hidden = ?", reportID, false).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) FindRecentByReportIDs(ctx context.Context, reportIDs []uuid.UUID, limit int) ([]model.Comment, error) {
	var comments []model.Comment
	if len(reportIDs) == 0 {
		return comments, nil
	}
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("report_id IN ? AND is_hidden = ?", reportIDs, false).
		Order("created_at DESC").
		Limit(limit).
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) CountByReport(ctx context.Context, reportID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("report_id = ? AND is_hidden = ?", reportID, false).
		Count(&count).Error
	return count, err
}

func (r *commentRepository) CountByReports(ctx context.Context, reportIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(reportIDs))
	if len(reportIDs) == 0 {
		return counts, nil
	}

	type result struct {
		ReportID uuid.UUID
		Total    int64
	}
	var results []result

	err := r.db.WithContext(ctx).Model(&model.Comment{}).
		Select("report_id, COUNT(*) as total").
		Where("report_id IN ? AND is_hidden = ?", reportIDs, false).
		Group("report_id").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	for _, res := range results {
		counts[res.ReportID] = res.Total
	}
	return counts, nil
}

func (r *commentRepository) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("author_id = ?", authorID).
		Count(&count).Error
	return count, err
}

func (r *commentRepository) FindConfirmFixIDsByAuthor(ctx context.Context, authorID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("author_id = ? AND comment_type = ?", authorID, model.CommentTypeConfirmFix).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *commentRepository) HasProgressComment(ctx context.Context, reportID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("report_id = ? AND comment_type = ?", reportID, model.CommentTypeProgress).
		Count(&count).Error
	return count > 0, err
}

func (r *commentRepository) SetHidden(ctx context.Context, id uuid.UUID, hidden bool) error {
	return r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ?", id).
		Update("is_hidden", hidden).Error
}

func (r *commentRepository) MarkVerifiedFixAwarded(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ? AND verified_fix_awarded = ?", id, false).
		Update("verified_fix_awarded", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
