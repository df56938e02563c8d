package repository

import (
	"context"

	"github.com/danishsenju/fixmyhood/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VerificationRepository interface {
	Create(ctx context.Context, v *model.Verification) error
	Exists(ctx context.Context, commentID, userID uuid.UUID) (bool, error)
	CountByComment(ctx context.Context, commentID uuid.UUID) (int64, error)
	// CountByComments batches verification counts for a set of comments in
	// one query (resolver badge rule needs per-comment counts without N+1).
	CountByComments(ctx context.Context, commentIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	FindUserVerified(ctx context.Context, commentIDs []uuid.UUID, userID uuid.UUID) (map[uuid.UUID]bool, error)
}

type verificationRepository struct {
	db *gorm.DB
}

func NewVerificationRepository(db *gorm.DB) VerificationRepository {
	return &verificationRepository{db: db}
}

func (r *verificationRepository) Create(ctx context.Context, v *model.Verification) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *verificationRepository) Exists(ctx context.Context, commentID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Verification{}).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *verificationRepository) CountByComment(ctx context.Context, commentID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Verification{}).
		Where("comment_id = ?", commentID).
		Count(&count).Error
	return count, err
}

func (r *verificationRepository) CountByComments(ctx context.Context, commentIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(commentIDs))
	if len(commentIDs) == 0 {
		return counts, nil
	}

	type result struct {
		CommentID uuid.UUID
		Total     int64
	}
	var results []result

	err := r.db.WithContext(ctx).Model(&model.Verification{}).
		Select("comment_id, COUNT(*) as total").
		Where("comment_id IN ?", commentIDs).
		Group("comment_id").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	for _, res := range results {
		counts[res.CommentID] = res.Total
	}
	return counts, nil
}

func (r *verificationRepository) FindUserVerified(ctx context.Context, commentIDs []uuid.UUID, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	verified := make(map[uuid.UUID]bool, len(commentIDs))
	if len(commentIDs) == 0 {
		return verified, nil
	}

	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.Verification{}).
		Where("comment_id IN ? AND user_id = ?", commentIDs, userID).
		Pluck("comment_id", &ids).Error
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		verified[id] = true
	}
	return verified, nil
}
