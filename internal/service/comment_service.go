package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/danishsenju/fixmyhood/internal/dto"
	"github.com/danishsenju/fixmyhood/internal/model"
	"github.com/danishsenju/fixmyhood/internal/repository"
	"github.com/danishsenju/fixmyhood/pkg/apperror"
	"github.com/danishsenju/fixmyhood/pkg/storage"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// verifiedFixThreshold is the number of distinct verifications that
// constitute peer-confirmed resolution and trigger the author's bonus.
const verifiedFixThreshold = 3

type CommentService interface {
	CreateComment(ctx context.Context, userID, reportID uuid.UUID, req dto.CreateCommentRequest, image *PhotoFile) (*dto.CommentResponse, error)
	GetComments(ctx context.Context, reportID, viewerID uuid.UUID) ([]dto.CommentResponse, error)
	// VerifyFix records one user's endorsement of a confirm_fix comment.
	// The third distinct verification awards the comment author a one-time
	// verified_fix bonus.
	VerifyFix(ctx context.Context, userID, commentID uuid.UUID) error
}

type commentService struct {
	commentRepo      repository.CommentRepository
	reportRepo       repository.ReportRepository
	verificationRepo repository.VerificationRepository
	followerRepo     repository.FollowerRepository
	gamification     GamificationService
	notificationSvc  NotificationService
	photoStorage     storage.PhotoStorage
	redisClient      *redis.Client
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	reportRepo repository.ReportRepository,
	verificationRepo repository.VerificationRepository,
	followerRepo repository.FollowerRepository,
	gamification GamificationService,
	notificationSvc NotificationService,
	photoStorage storage.PhotoStorage,
	redisClient *redis.Client,
) CommentService {
	return &commentService{
		commentRepo:      commentRepo,
		reportRepo:       reportRepo,
		verificationRepo: verificationRepo,
		followerRepo:     followerRepo,
		gamification:     gamification,
		notificationSvc:  notificationSvc,
		photoStorage:     photoStorage,
		redisClient:      redisClient,
	}
}

func (s *commentService) CreateComment(ctx context.Context, userID, reportID uuid.UUID, req dto.CreateCommentRequest, image *PhotoFile) (*dto.CommentResponse, error) {
	commentLimit := GetDurationFromEnv("RATE_LIMIT_COMMENT", 10*time.Second)
	allowed, err := CheckAndSetRateLimit(ctx, s.redisClient, userID, "comment", commentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to check rate limit: %w", err)
	}
	if !allowed {
		ttl, _ := GetRateLimitTTL(ctx, s.redisClient, userID, "comment")
		return nil, &RateLimitError{
			Message:    fmt.Sprintf("please wait %.0f seconds before posting another comment", ttl.Seconds()),
			RetryAfter: ttl,
		}
	}

	creationFailed := true
	defer func() {
		if creationFailed {
			_ = ClearRateLimit(ctx, s.redisClient, userID, "comment")
		}
	}()

	report, err := s.reportRepo.FindByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if report.CommentsLocked {
		return nil, apperror.New(403, "comments are locked on this report", apperror.ErrForbidden)
	}

	commentType := req.CommentType
	if commentType == "" {
		commentType = model.CommentTypeComment
	}
	if !model.ValidCommentType(commentType) {
		return nil, apperror.ErrInvalidInput
	}

	// Progress and fix claims need photographic evidence.
	if (commentType == model.CommentTypeProgress || commentType == model.CommentTypeConfirmFix) && image == nil {
		return nil, apperror.New(400, "progress and confirm_fix comments require an image", apperror.ErrBadRequest)
	}

	// A fix can only be confirmed after someone reported progress on it.
	if commentType == model.CommentTypeConfirmFix {
		hasProgress, err := s.commentRepo.HasProgressComment(ctx, reportID)
		if err != nil {
			return nil, err
		}
		if !hasProgress {
			return nil, apperror.New(400, "confirm_fix requires a prior progress update on the report", apperror.ErrBadRequest)
		}
	}

	comment := &model.Comment{
		ReportID:    reportID,
		AuthorID:    userID,
		Content:     req.Content,
		CommentType: commentType,
	}

	if image != nil && s.photoStorage != nil {
		url, err := s.photoStorage.UploadPhoto(ctx, image.Reader, "comments", image.FileName)
		if err != nil {
			return nil, fmt.Errorf("failed to upload comment image: %w", err)
		}
		comment.ImageURL = &url
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	creationFailed = false

	switch commentType {
	case model.CommentTypeProgress:
		s.gamification.AwardAsync(userID, ActionProgressUpdate)
	case model.CommentTypeConfirmFix:
		s.gamification.AwardAsync(userID, ActionConfirmFix)
	default:
		s.gamification.AwardAsync(userID, ActionComment)
	}

	s.applyStatusTransition(ctx, report, commentType)
	s.notifyReportActivity(report, comment, userID)

	loaded, err := s.commentRepo.FindByID(ctx, comment.ID)
	if err == nil {
		comment = loaded
	}

	return s.mapToResponse(comment, 0, false), nil
}

// applyStatusTransition advances the report lifecycle in response to a new
// comment: progress moves open/acknowledged reports to in_progress, any
// other comment acknowledges an open report.
func (s *commentService) applyStatusTransition(ctx context.Context, report *model.Report, commentType string) {
	var next string
	if commentType == model.CommentTypeProgress {
		if report.Status == model.StatusOpen || report.Status == model.StatusAcknowledged {
			next = model.StatusInProgress
		}
	} else if report.Status == model.StatusOpen {
		next = model.StatusAcknowledged
	}

	if next == "" || !report.CanTransitionTo(next) {
		return
	}

	if err := s.reportRepo.UpdateStatus(ctx, report.ID, next); err != nil {
		log.Printf("failed to auto-transition report %s to %s: %v", report.ID, next, err)
		return
	}
	report.Status = next
}

// notifyReportActivity fans a new-comment notification out to the report
// creator and every follower, skipping the comment author.
func (s *commentService) notifyReportActivity(report *model.Report, comment *model.Comment, actorID uuid.UUID) {
	if s.notificationSvc == nil {
		return
	}

	go func() {
		ctx := context.Background()

		recipients := map[uuid.UUID]bool{}
		if report.CreatorID != actorID {
			recipients[report.CreatorID] = true
		}

		followerIDs, err := s.followerRepo.FindUserIDsByReport(ctx, report.ID)
		if err != nil {
			log.Printf("failed to load followers of report %s: %v", report.ID, err)
		}
		for _, id := range followerIDs {
			if id != actorID {
				recipients[id] = true
			}
		}

		for recipient := range recipients {
			notification := &model.Notification{
				UserID:     recipient,
				ActorID:    actorID,
				EntityID:   comment.ID,
				EntityType: "comment",
				Type:       "new_comment",
				Message:    fmt.Sprintf("New activity on '%s'", report.Title),
			}
			if err := s.notificationSvc.CreateNotification(ctx, notification); err != nil {
				log.Printf("failed to notify user %s: %v", recipient, err)
			}
		}
	}()
}

func (s *commentService) GetComments(ctx context.Context, reportID, viewerID uuid.UUID) ([]dto.CommentResponse, error) {
	comments, err := s.commentRepo.FindByReportID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	// Verification state only matters for confirm_fix comments; batch both
	// lookups over exactly those ids.
	var confirmFixIDs []uuid.UUID
	for _, c := range comments {
		if c.CommentType == model.CommentTypeConfirmFix {
			confirmFixIDs = append(confirmFixIDs, c.ID)
		}
	}

	counts, err := s.verificationRepo.CountByComments(ctx, confirmFixIDs)
	if err != nil {
		return nil, err
	}

	var viewerVerified map[uuid.UUID]bool
	if viewerID != uuid.Nil {
		viewerVerified, err = s.verificationRepo.FindUserVerified(ctx, confirmFixIDs, viewerID)
		if err != nil {
			return nil, err
		}
	}

	responses := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		c := &comments[i]
		responses = append(responses, *s.mapToResponse(c, counts[c.ID], viewerVerified[c.ID]))
	}
	return responses, nil
}

func (s *commentService) VerifyFix(ctx context.Context, userID, commentID uuid.UUID) error {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if comment.CommentType != model.CommentTypeConfirmFix {
		return apperror.New(400, "only confirm_fix comments can be verified", apperror.ErrBadRequest)
	}
	if comment.AuthorID == userID {
		return apperror.New(403, "you cannot verify your own fix", apperror.ErrForbidden)
	}

	exists, err := s.verificationRepo.Exists(ctx, commentID, userID)
	if err != nil {
		return err
	}
	if exists {
		return apperror.New(409, "you already verified this fix", apperror.ErrConflict)
	}

	if err := s.verificationRepo.Create(ctx, &model.Verification{
		CommentID: commentID,
		UserID:    userID,
	}); err != nil {
		return err
	}

	// The verifier is rewarded for participating in verification.
	s.gamification.AwardAsync(userID, ActionConfirmFix)

	count, err := s.verificationRepo.CountByComment(ctx, commentID)
	if err != nil {
		log.Printf("failed to count verifications for comment %s: %v", commentID, err)
		return nil
	}

	// Peer-confirmed resolution: the author's bonus fires exactly once per
	// comment. The conditional flip makes this safe even when a race pushes
	// the count straight from 2 to 4.
	if count >= verifiedFixThreshold {
		flipped, err := s.commentRepo.MarkVerifiedFixAwarded(ctx, commentID)
		if err != nil {
			log.Printf("failed to mark verified_fix award for comment %s: %v", commentID, err)
			return nil
		}
		if flipped {
			s.gamification.AwardAsync(comment.AuthorID, ActionVerifiedFix)
		}
	}

	return nil
}

func (s *commentService) mapToResponse(comment *model.Comment, verificationCount int64, userVerified bool) *dto.CommentResponse {
	return &dto.CommentResponse{
		ID:                comment.ID.String(),
		ReportID:          comment.ReportID.String(),
		Content:           comment.Content,
		CommentType:       comment.CommentType,
		ImageURL:          comment.ImageURL,
		VerificationCount: verificationCount,
		UserVerified:      userVerified,
		CreatedAt:         comment.CreatedAt,
		Author: dto.AuthorResponse{
			ID:          comment.AuthorID.String(),
			DisplayName: comment.Author.DisplayName,
			AvatarURL:   comment.Author.AvatarURL,
			ActiveFrame: comment.Author.ActiveFrame,
		},
	}
}
