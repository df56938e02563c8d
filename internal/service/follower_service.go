package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/danishsenju/fixmyhood/internal/model"
	"github.com/danishsenju/fixmyhood/internal/repository"
	"github.com/danishsenju/fixmyhood/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FollowerService interface {
	Follow(ctx context.Context, userID, reportID uuid.UUID) error
	Unfollow(ctx context.Context, userID, reportID uuid.UUID) error
	IsFollowing(ctx context.Context, userID, reportID uuid.UUID) (bool, error)
}

type followerService struct {
	followerRepo    repository.FollowerRepository
	reportRepo      repository.ReportRepository
	notificationSvc NotificationService
}

func NewFollowerService(
	followerRepo repository.FollowerRepository,
	reportRepo repository.ReportRepository,
	notificationSvc NotificationService,
) FollowerService {
	return &followerService{
		followerRepo:    followerRepo,
		reportRepo:      reportRepo,
		notificationSvc: notificationSvc,
	}
}

func (s *followerService) Follow(ctx context.Context, userID, reportID uuid.UUID) error {
	report, err := s.reportRepo.FindByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if report.CreatorID == userID {
		return apperror.New(400, "you already follow your own report", apperror.ErrBadRequest)
	}

	already, err := s.followerRepo.IsFollowing(ctx, reportID, userID)
	if err != nil {
		return err
	}

	if err := s.followerRepo.Follow(ctx, reportID, userID); err != nil {
		return err
	}

	// Only the first follow notifies the creator; the upsert makes repeats
	// harmless but they should stay silent.
	if !already && s.notificationSvc != nil {
		go func() {
			notification := &model.Notification{
				UserID:     report.CreatorID,
				ActorID:    userID,
				EntityID:   reportID,
				EntityType: "report",
				Type:       "new_follower",
				Message:    fmt.Sprintf("Someone is now following '%s'", report.Title),
			}
			if err := s.notificationSvc.CreateNotification(context.Background(), notification); err != nil {
				log.Printf("failed to notify creator of report %s: %v", reportID, err)
			}
		}()
	}

	return nil
}

func (s *followerService) Unfollow(ctx context.Context, userID, reportID uuid.UUID) error {
	return s.followerRepo.Unfollow(ctx, reportID, userID)
}

func (s *followerService) IsFollowing(ctx context.Context, userID, reportID uuid.UUID) (bool, error) {
	return s.followerRepo.IsFollowing(ctx, reportID, userID)
}
