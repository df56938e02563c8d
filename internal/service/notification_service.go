package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/danishsenju/fixmyhood/internal/model"
	"github.com/danishsenju/fixmyhood/internal/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type NotificationService interface {
	CreateNotification(ctx context.Context, notification *model.Notification) error
	NotifyBadgeEarned(ctx context.Context, userID uuid.UUID, badgeType string)
	GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

type notificationService struct {
	repo        repository.NotificationRepository
	redisClient *redis.Client
}

func NewNotificationService(repo repository.NotificationRepository, redisClient *redis.Client) NotificationService {
	return &notificationService{
		repo:        repo,
		redisClient: redisClient,
	}
}

// NotificationChannel is the Redis pub/sub channel for a user's live stream.
func NotificationChannel(userID uuid.UUID) string {
	return fmt.Sprintf("user_notifications:%s", userID.String())
}

func (s *notificationService) CreateNotification(ctx context.Context, notification *model.Notification) error {
	// 1. Save to DB
	if err := s.repo.Create(ctx, notification); err != nil {
		return err
	}

	// 2. Publish to Redis if Redis is available
	if s.redisClient != nil {
		payload, err := json.Marshal(notification)
		if err == nil {
			s.redisClient.Publish(ctx, NotificationChannel(notification.UserID), payload)
		}
	}

	return nil
}

func (s *notificationService) NotifyBadgeEarned(ctx context.Context, userID uuid.UUID, badgeType string) {
	notification := &model.Notification{
		UserID:     userID,
		ActorID:    userID, // self-triggered
		EntityID:   userID,
		EntityType: "badge",
		Type:       "badge_earned",
		Message:    fmt.Sprintf("You earned the %q badge! A new profile frame is unlocked.", badgeType),
	}

	if err := s.CreateNotification(ctx, notification); err != nil {
		log.Printf("failed to send badge notification to user %s: %v", userID, err)
	}
}

func (s *notificationService) GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, error) {
	return s.repo.FindByUserID(ctx, userID, limit, offset)
}

func (s *notificationService) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, id)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}
