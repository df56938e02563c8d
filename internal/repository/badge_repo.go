package repository

import (
	"context"

	"github.com/danishsenju/fixmyhood/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BadgeRepository interface {
	FindByUser(ctx context.Context, userID uuid.UUID) ([]model.Badge, error)
	FindTypesByUser(ctx context.Context, userID uuid.UUID) ([]string, error)
	// UpsertBatch inserts all badges in one statement keyed on
	// (user_id, badge_type); rows that already exist are left untouched, so
	// concurrent badge checks cannot duplicate awards.
	UpsertBatch(ctx context.Context, badges []model.Badge) error
}

type badgeRepository struct {
	db *gorm.DB
}

func NewBadgeRepository(db *gorm.DB) BadgeRepository {
	return &badgeRepository{db: db}
}

func (r *badgeRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]model.Badge, error) {
	var badges []model.Badge
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("earned_at ASC").
		Find(&badges).Error
	return badges, err
}

func (r *badgeRepository) FindTypesByUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var types []string
	err := r.db.WithContext(ctx).Model(&model.Badge{}).
		Where("user_id = ?", userID).
		Pluck("badge_type", &types).Error
	return types, err
}

func (r *badgeRepository) UpsertBatch(ctx context.Context, badges []model.Badge) error {
	if len(badges) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "badge_type"}},
		DoNothing: true,
	}).Create(&badges).Error
}
