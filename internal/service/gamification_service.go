package service

import (
	"context"
	"fmt"
	"log"

	"github.com/danishsenju/fixmyhood/internal/model"
	"github.com/danishsenju/fixmyhood/internal/repository"
	"github.com/danishsenju/fixmyhood/pkg/apperror"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	ActionReportCreated  = "report_created"
	ActionComment        = "comment"
	ActionProgressUpdate = "progress_update"
	ActionConfirmFix     = "confirm_fix"
	ActionVerifiedFix    = "verified_fix"
)

// actionPoints is the fixed point table. Unknown actions fail closed.
var actionPoints = map[string]int{
	ActionReportCreated:  10,
	ActionComment:        2,
	ActionProgressUpdate: 5,
	ActionConfirmFix:     5,
	ActionVerifiedFix:    15,
}

const (
	helperCommentThreshold    = 5
	resolverVerifiedThreshold = 3 // verifications per confirm_fix comment
	resolverCommentsRequired  = 2 // qualifying comments for the badge
)

// GamificationService maintains the monotonic point economy and the badge
// rule set. Failures here are logged and never block the primary action.
type GamificationService interface {
	AwardPoints(ctx context.Context, userID uuid.UUID, action string) error
	CheckAndAwardBadges(ctx context.Context, userID uuid.UUID) error
	// AwardAsync runs the point award plus a badge check in the background,
	// for callers that must not wait on reward mechanics.
	AwardAsync(userID uuid.UUID, action string)
}

type gamificationService struct {
	profileRepo      repository.ProfileRepository
	badgeRepo        repository.BadgeRepository
	reportRepo       repository.ReportRepository
	commentRepo      repository.CommentRepository
	verificationRepo repository.VerificationRepository
	notificationSvc  NotificationService
}

func NewGamificationService(
	profileRepo repository.ProfileRepository,
	badgeRepo repository.BadgeRepository,
	reportRepo repository.ReportRepository,
	commentRepo repository.CommentRepository,
	verificationRepo repository.VerificationRepository,
	notificationSvc NotificationService,
) GamificationService {
	return &gamificationService{
		profileRepo:      profileRepo,
		badgeRepo:        badgeRepo,
		reportRepo:       reportRepo,
		commentRepo:      commentRepo,
		verificationRepo: verificationRepo,
		notificationSvc:  notificationSvc,
	}
}

// AwardPoints adds the action's fixed delta to the user's total with a
// single atomic increment, so concurrent awards to the same user cannot
// lose updates.
func (s *gamificationService) AwardPoints(ctx context.Context, userID uuid.UUID, action string) error {
	points, ok := actionPoints[action]
	if !ok {
		return fmt.Errorf("%w: %q", apperror.ErrInvalidActionKind, action)
	}

	return s.profileRepo.AddPoints(ctx, userID, points)
}

// CheckAndAwardBadges evaluates every badge rule against the user's
// aggregate activity and upserts all newly earned badges in one batch. It is
// idempotent: repeated calls with no new activity are no-ops.
func (s *gamificationService) CheckAndAwardBadges(ctx context.Context, userID uuid.UUID) error {
	var (
		earnedTypes   []string
		reportCount   int64
		commentCount  int64
		confirmFixIDs []uuid.UUID
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		earnedTypes, err = s.badgeRepo.FindTypesByUser(gctx, userID)
		return
	})
	g.Go(func() (err error) {
		reportCount, err = s.reportRepo.CountByCreator(gctx, userID)
		return
	})
	g.Go(func() (err error) {
		commentCount, err = s.commentRepo.CountByAuthor(gctx, userID)
		return
	})
	g.Go(func() (err error) {
		confirmFixIDs, err = s.commentRepo.FindConfirmFixIDsByAuthor(gctx, userID)
		return
	})
	if err := g.Wait(); err != nil {
		return err
	}

	earned := make(map[string]bool, len(earnedTypes))
	for _, t := range earnedTypes {
		earned[t] = true
	}

	var toAward []model.Badge

	if !earned[model.BadgeFirstReport] && reportCount >= 1 {
		toAward = append(toAward, model.Badge{UserID: userID, BadgeType: model.BadgeFirstReport})
	}

	if !earned[model.BadgeHelper] && commentCount >= helperCommentThreshold {
		toAward = append(toAward, model.Badge{UserID: userID, BadgeType: model.BadgeHelper})
	}

	if !earned[model.BadgeResolver] && len(confirmFixIDs) > 0 {
		// One batched lookup for all of the user's confirm_fix comments.
		counts, err := s.verificationRepo.CountByComments(ctx, confirmFixIDs)
		if err != nil {
			return err
		}
		qualifying := 0
		for _, c := range counts {
			if c >= resolverVerifiedThreshold {
				qualifying++
			}
		}
		if qualifying >= resolverCommentsRequired {
			toAward = append(toAward, model.Badge{UserID: userID, BadgeType: model.BadgeResolver})
		}
	}

	if len(toAward) == 0 {
		return nil
	}

	if err := s.badgeRepo.UpsertBatch(ctx, toAward); err != nil {
		return err
	}

	if s.notificationSvc != nil {
		for _, badge := range toAward {
			s.notificationSvc.NotifyBadgeEarned(ctx, userID, badge.BadgeType)
		}
	}

	return nil
}

func (s *gamificationService) AwardAsync(userID uuid.UUID, action string) {
	go func() {
		ctx := context.Background()
		if err := s.AwardPoints(ctx, userID, action); err != nil {
			log.Printf("failed to award %s points to user %s: %v", action, userID, err)
			return
		}
		if err := s.CheckAndAwardBadges(ctx, userID); err != nil {
			log.Printf("badge check failed for user %s: %v", userID, err)
		}
	}()
}
