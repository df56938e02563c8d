package repository

import (
	"context"

	"github.com/danishsenju/fixmyhood/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FollowerRepository interface {
	Follow(ctx context.Context, reportID, userID uuid.UUID) error
	Unfollow(ctx context.Context, reportID, userID uuid.UUID) error
	IsFollowing(ctx context.Context, reportID, userID uuid.UUID) (bool, error)
	CountByReport(ctx context.Context, reportID uuid.UUID) (int64, error)
	CountByReports(ctx context.Context, reportIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	FindReportIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	FindUserIDsByReport(ctx context.Context, reportID uuid.UUID) ([]uuid.UUID, error)
	CreateView(ctx context.Context, view *model.ReportView) error
	FindRecentViews(ctx context.Context, reportID uuid.UUID, limit int) ([]model.ReportView, error)
}

type followerRepository struct {
	db *gorm.DB
}

func NewFollowerRepository(db *gorm.DB) FollowerRepository {
	return &followerRepository{db: db}
}

func (r *followerRepository) Follow(ctx context.Context, reportID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.Follower{ReportID: reportID, UserID: userID}).Error
}

func (r *followerRepository) Unfollow(ctx context.Context, reportID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("report_id = ? AND user_id = ?", reportID, userID).
		Delete(&model.Follower{}).Error
}

func (r *followerRepository) IsFollowing(ctx context.Context, reportID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Follower{}).
		Where("report_id = ? AND user_id = ?", reportID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *followerRepository) CountByReport(ctx context.Context, reportID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Follower{}).
		Where("report_id = ?", reportID).
		Count(&count).Error
	return count, err
}

func (r *followerRepository) CountByReports(ctx context.Context, reportIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(reportIDs))
	if len(reportIDs) == 0 {
		return counts, nil
	}

	type result struct {
		ReportID uuid.UUID
		Total    int64
	}
	var results []result

	err := r.db.WithContext(ctx).Model(&model.Follower{}).
		Select("report_id, COUNT(*) as total").
		Where("report_id IN ?", reportIDs).
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

func (r *followerRepository) FindReportIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.Follower{}).
		Where("user_id = ?", userID).
		Pluck("report_id", &ids).Error
	return ids, err
}

func (r *followerRepository) FindUserIDsByReport(ctx context.Context, reportID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.Follower{}).
		Where("report_id = ?", reportID).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *followerRepository) CreateView(ctx context.Context, view *model.ReportView) error {
	return r.db.WithContext(ctx).Create(view).Error
}

func (r *followerRepository) FindRecentViews(ctx context.Context, reportID uuid.UUID, limit int) ([]model.ReportView, error) {
	var views []model.ReportView
	err := r.db.WithContext(ctx).
		Preload("Viewer").
		Where("report_id = ?", reportID).
		Order("viewed_at DESC").
		Limit(limit).
		Find(&views).Error
	return views, err
}
