package service

import (
	"context"
	"errors"
	"log"

	"github.com/danishsenju/fixmyhood/internal/dto"
	"github.com/danishsenju/fixmyhood/internal/model"
	"github.com/danishsenju/fixmyhood/internal/repository"
	"github.com/danishsenju/fixmyhood/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminService groups the moderation surface. All callers are gated by the
// admin middleware before reaching it.
type AdminService interface {
	ListUsers(ctx context.Context, page, limit int) ([]dto.AdminUserResponse, *dto.PaginationMeta, error)
	SetBanned(ctx context.Context, actorID, userID uuid.UUID, banned bool) error
	SetAdmin(ctx context.Context, actorID, userID uuid.UUID, admin bool) error
	ListReports(ctx context.Context, page, limit int) (*dto.PaginatedReportResponse, error)
	SetReportHidden(ctx context.Context, reportID uuid.UUID, hidden bool) error
	SetCommentHidden(ctx context.Context, commentID uuid.UUID, hidden bool) error
	SetCommentsLocked(ctx context.Context, reportID uuid.UUID, locked bool) error
	// SetStatus overrides the report status, ignoring the forward-only rule
	// regular closes obey.
	SetStatus(ctx context.Context, reportID uuid.UUID, status string) error
}

type adminService struct {
	profileRepo repository.ProfileRepository
	reportRepo  repository.ReportRepository
	commentRepo repository.CommentRepository
	searchSvc   SearchService
}

func NewAdminService(
	profileRepo repository.ProfileRepository,
	reportRepo repository.ReportRepository,
	commentRepo repository.CommentRepository,
	searchSvc SearchService,
) AdminService {
	return &adminService{
		profileRepo: profileRepo,
		reportRepo:  reportRepo,
		commentRepo: commentRepo,
		searchSvc:   searchSvc,
	}
}

func (s *adminService) ListUsers(ctx context.Context, page, limit int) ([]dto.AdminUserResponse, *dto.PaginationMeta, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	profiles, total, err := s.profileRepo.FindAll(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, nil, err
	}

	users := make([]dto.AdminUserResponse, 0, len(profiles))
	for _, p := range profiles {
		users = append(users, dto.AdminUserResponse{
			ID:          p.ID.String(),
			DisplayName: p.DisplayName,
			Email:       p.Email,
			Points:      p.Points,
			IsAdmin:     p.IsAdmin,
			IsBanned:    p.IsBanned,
			CreatedAt:   p.CreatedAt,
		})
	}

	meta := &dto.PaginationMeta{
		CurrentPage: page,
		TotalPages:  int((total + int64(limit) - 1) / int64(limit)),
		TotalItems:  total,
		Limit:       limit,
	}
	return users, meta, nil
}

func (s *adminService) SetBanned(ctx context.Context, actorID, userID uuid.UUID, banned bool) error {
	if actorID == userID {
		return apperror.New(400, "you cannot ban yourself", apperror.ErrBadRequest)
	}
	if err := s.ensureUserExists(ctx, userID); err != nil {
		return err
	}
	return s.profileRepo.SetBanned(ctx, userID, banned)
}

func (s *adminService) SetAdmin(ctx context.Context, actorID, userID uuid.UUID, admin bool) error {
	if actorID == userID {
		return apperror.New(400, "you cannot change your own admin role", apperror.ErrBadRequest)
	}
	if err := s.ensureUserExists(ctx, userID); err != nil {
		return err
	}
	return s.profileRepo.SetAdmin(ctx, userID, admin)
}

func (s *adminService) ensureUserExists(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.profileRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}
	return nil
}

func (s *adminService) ListReports(ctx context.Context, page, limit int) (*dto.PaginatedReportResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	reports, total, err := s.reportRepo.FindAllForAdmin(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ReportResponse, 0, len(reports))
	for i := range reports {
		r := &reports[i]
		resp := dto.ReportResponse{
			ID:             r.ID.String(),
			Title:          r.Title,
			Description:    r.Description,
			Category:       r.Category,
			Severity:       r.Severity,
			Status:         r.Status,
			PhotoURL:       r.PhotoURL,
			LocationText:   r.LocationText,
			Latitude:       r.Latitude,
			Longitude:      r.Longitude,
			CommentsLocked: r.CommentsLocked,
			CreatedAt:      r.CreatedAt,
			UpdatedAt:      r.UpdatedAt,
			Creator: dto.AuthorResponse{
				ID:          r.CreatorID.String(),
				DisplayName: r.Creator.DisplayName,
				AvatarURL:   r.Creator.AvatarURL,
				ActiveFrame: r.Creator.ActiveFrame,
			},
		}
		if r.DuplicateOf != nil {
			id := r.DuplicateOf.String()
			resp.DuplicateOf = &id
		}
		responses = append(responses, resp)
	}

	return &dto.PaginatedReportResponse{
		Data: responses,
		Meta: dto.PaginationMeta{
			CurrentPage: page,
			TotalPages:  int((total + int64(limit) - 1) / int64(limit)),
			TotalItems:  total,
			Limit:       limit,
		},
	}, nil
}

func (s *adminService) SetReportHidden(ctx context.Context, reportID uuid.UUID, hidden bool) error {
	report, err := s.reportRepo.FindByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if err := s.reportRepo.SetHidden(ctx, reportID, hidden); err != nil {
		return err
	}

	report.IsHidden = hidden
	if s.searchSvc != nil {
		if err := s.searchSvc.IndexReport(report); err != nil {
			log.Printf("failed to reindex report %s: %v", reportID, err)
		}
	}
	return nil
}

func (s *adminService) SetCommentHidden(ctx context.Context, commentID uuid.UUID, hidden bool) error {
	if _, err := s.commentRepo.FindByID(ctx, commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}
	return s.commentRepo.SetHidden(ctx, commentID, hidden)
}

func (s *adminService) SetCommentsLocked(ctx context.Context, reportID uuid.UUID, locked bool) error {
	if _, err := s.reportRepo.FindByID(ctx, reportID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}
	return s.reportRepo.SetCommentsLocked(ctx, reportID, locked)
}

func (s *adminService) SetStatus(ctx context.Context, reportID uuid.UUID, status string) error {
	if !model.ValidStatus(status) {
		return apperror.ErrInvalidInput
	}

	report, err := s.reportRepo.FindByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if err := s.reportRepo.UpdateStatus(ctx, reportID, status); err != nil {
		return err
	}

	report.Status = status
	if s.searchSvc != nil {
		if err := s.searchSvc.IndexReport(report); err != nil {
			log.Printf("failed to reindex report %s: %v", reportID, err)
		}
	}
	return nil
}
