package repository

import (
	"context"

	"github.com/danishsenju/fixmyhood/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *model.Profile) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	FindByEmail(ctx context.Context, email string) (*model.Profile, error)
	FindAll(ctx context.Context, offset, limit int) ([]model.Profile, int64, error)
	Update(ctx context.Context, profile *model.Profile) error
	// AddPoints increments the points counter in a single UPDATE so
	// concurrent awards cannot lose updates.
	AddPoints(ctx context.Context, userID uuid.UUID, delta int) error
	SetActiveFrame(ctx context.Context, userID uuid.UUID, frame string) error
	SetBanned(ctx context.Context, userID uuid.UUID, banned bool) error
	SetAdmin(ctx context.Context, userID uuid.UUID, admin bool) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *model.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *profileRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) FindByEmail(ctx context.Context, email string) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) FindAll(ctx context.Context, offset, limit int) ([]model.Profile, int64, error) {
	var profiles []model.Profile
	var total int64

	if err := r.db.WithContext(ctx).Model(&model.Profile{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&profiles).Error

	return profiles, total, err
}

func (r *profileRepository) Update(ctx context.Context, profile *model.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

func (r *profileRepository) AddPoints(ctx context.Context, userID uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).Model(&model.Profile{}).
		Where("id = ?", userID).
		UpdateColumn("points", gorm.Expr("points + ?", delta)).Error
}

func (r *profileRepository) SetActiveFrame(ctx context.Context, userID uuid.UUID, frame string) error {
	return r.db.WithContext(ctx).Model(&model.Profile{}).
		Where("id = ?", userID).
		Update("active_frame", frame).Error
}

func (r *profileRepository) SetBanned(ctx context.Context, userID uuid.UUID, banned bool) error {
	return r.db.WithContext(ctx).Model(&model.Profile{}).
		Where("id = ?", userID).
		Update("is_banned", banned).Error
}

func (r *profileRepository) SetAdmin(ctx context.Context, userID uuid.UUID, admin bool) error {
	return r.db.WithContext(ctx).Model(&model.Profile{}).
		Where("id = ?", userID).
		Update("is_admin", admin).Error
}
