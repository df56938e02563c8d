package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/danishsenju/fixmyhood/internal/dto"
	"github.com/danishsenju/fixmyhood/internal/model"
	"github.com/danishsenju/fixmyhood/internal/repository"
	"github.com/danishsenju/fixmyhood/pkg/apperror"
	"github.com/danishsenju/fixmyhood/pkg/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const activityFeedLimit = 30

// frameBadge maps each unlockable frame to the badge that unlocks it.
var frameBadge = map[string]string{
	model.FrameFirstReport: model.BadgeFirstReport,
	model.FrameHelper:      model.BadgeHelper,
	model.FrameResolver:    model.BadgeResolver,
}

type ProfileService interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req dto.UpdateProfileRequest, avatar *AvatarFile) (*dto.ProfileResponse, error)
	// SetActiveFrame changes the profile frame. Frames other than the
	// default are locked until the matching badge is earned.
	SetActiveFrame(ctx context.Context, userID uuid.UUID, frame string) error
	// GetActivity returns recent comments on the user's own reports and on
	// reports the user follows.
	GetActivity(ctx context.Context, userID uuid.UUID) ([]dto.ActivityEntry, error)
}

type profileService struct {
	profileRepo  repository.ProfileRepository
	badgeRepo    repository.BadgeRepository
	reportRepo   repository.ReportRepository
	commentRepo  repository.CommentRepository
	followerRepo repository.FollowerRepository
	photoStorage storage.PhotoStorage
}

func NewProfileService(
	profileRepo repository.ProfileRepository,
	badgeRepo repository.BadgeRepository,
	reportRepo repository.ReportRepository,
	commentRepo repository.CommentRepository,
	followerRepo repository.FollowerRepository,
	photoStorage storage.PhotoStorage,
) ProfileService {
	return &profileService{
		profileRepo:  profileRepo,
		badgeRepo:    badgeRepo,
		reportRepo:   reportRepo,
		commentRepo:  commentRepo,
		followerRepo: followerRepo,
		photoStorage: photoStorage,
	}
}

func (s *profileService) GetProfile(ctx context.Context, id uuid.UUID) (*dto.ProfileResponse, error) {
	profile, err := s.profileRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	badges, err := s.badgeRepo.FindByUser(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.mapToResponse(profile, badges), nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req dto.UpdateProfileRequest, avatar *AvatarFile) (*dto.ProfileResponse, error) {
	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if req.DisplayName != nil {
		profile.DisplayName = *req.DisplayName
	}

	if avatar != nil && s.photoStorage != nil {
		oldURL := profile.AvatarURL
		url, err := s.photoStorage.UploadPhoto(ctx, avatar.Reader, "avatars", avatar.FileName)
		if err != nil {
			return nil, fmt.Errorf("failed to upload avatar: %w", err)
		}
		profile.AvatarURL = &url
		if oldURL != nil {
			_ = s.photoStorage.DeletePhoto(ctx, *oldURL)
		}
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	badges, err := s.badgeRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.mapToResponse(profile, badges), nil
}

func (s *profileService) SetActiveFrame(ctx context.Context, userID uuid.UUID, frame string) error {
	if frame != model.FrameDefault {
		required, ok := frameBadge[frame]
		if !ok {
			return apperror.ErrInvalidInput
		}

		earned, err := s.badgeRepo.FindTypesByUser(ctx, userID)
		if err != nil {
			return err
		}

		unlocked := false
		for _, badge := range earned {
			if badge == required {
				unlocked = true
				break
			}
		}
		if !unlocked {
			return apperror.New(403, "frame is locked until you earn the matching badge", apperror.ErrForbidden)
		}
	}

	return s.profileRepo.SetActiveFrame(ctx, userID, frame)
}

func (s *profileService) GetActivity(ctx context.Context, userID uuid.UUID) ([]dto.ActivityEntry, error) {
	own, err := s.reportRepo.FindByCreator(ctx, userID)
	if err != nil {
		return nil, err
	}

	followedIDs, err := s.followerRepo.FindReportIDsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := map[uuid.UUID]bool{}
	var reportIDs []uuid.UUID
	for _, r := range own {
		if !seen[r.ID] {
			seen[r.ID] = true
			reportIDs = append(reportIDs, r.ID)
		}
	}
	for _, id := range followedIDs {
		if !seen[id] {
			seen[id] = true
			reportIDs = append(reportIDs, id)
		}
	}

	if len(reportIDs) == 0 {
		return []dto.ActivityEntry{}, nil
	}

	comments, err := s.commentRepo.FindRecentByReportIDs(ctx, reportIDs, activityFeedLimit)
	if err != nil {
		return nil, err
	}

	titles := map[uuid.UUID]string{}
	for _, r := range own {
		titles[r.ID] = r.Title
	}
	var missing []uuid.UUID
	for _, c := range comments {
		if _, ok := titles[c.ReportID]; !ok {
			missing = append(missing, c.ReportID)
		}
	}
	if len(missing) > 0 {
		reports, err := s.reportRepo.FindByIDs(ctx, missing)
		if err != nil {
			return nil, err
		}
		for _, r := range reports {
			titles[r.ID] = r.Title
		}
	}

	entries := make([]dto.ActivityEntry, 0, len(comments))
	for _, c := range comments {
		entries = append(entries, dto.ActivityEntry{
			ReportID:    c.ReportID.String(),
			ReportTitle: titles[c.ReportID],
			CommentID:   c.ID.String(),
			CommentType: c.CommentType,
			Excerpt:     excerpt(c.Content, 80),
			Author:      c.Author.DisplayName,
			CreatedAt:   c.CreatedAt,
		})
	}
	return entries, nil
}

func excerpt(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

func (s *profileService) mapToResponse(profile *model.Profile, badges []model.Badge) *dto.ProfileResponse {
	badgeResponses := make([]dto.BadgeResponse, 0, len(badges))
	for _, b := range badges {
		badgeResponses = append(badgeResponses, dto.BadgeResponse{
			BadgeType: b.BadgeType,
			EarnedAt:  b.EarnedAt,
		})
	}

	return &dto.ProfileResponse{
		ID:          profile.ID.String(),
		DisplayName: profile.DisplayName,
		AvatarURL:   profile.AvatarURL,
		Points:      profile.Points,
		IsAdmin:     profile.IsAdmin,
		ActiveFrame: profile.ActiveFrame,
		Badges:      badgeResponses,
		CreatedAt:   profile.CreatedAt,
	}
}
