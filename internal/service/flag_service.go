package service

import (
	"context"
	"errors"
	"time"

	"github.com/danishsenju/fixmyhood/internal/dto"
	"github.com/danishsenju/fixmyhood/internal/model"
	"github.com/danishsenju/fixmyhood/internal/repository"
	"github.com/danishsenju/fixmyhood/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FlagResponse struct {
	ID          string    `json:"id"`
	ContentType string    `json:"content_type"`
	ContentID   string    `json:"content_id"`
	Reason      string    `json:"reason"`
	Status      string    `json:"status"`
	Reporter    string    `json:"reporter"`
	CreatedAt   time.Time `json:"created_at"`
}

type FlagService interface {
	CreateFlag(ctx context.Context, reporterID uuid.UUID, req dto.CreateFlagRequest) error
	ListFlags(ctx context.Context, status string, page, limit int) ([]FlagResponse, *dto.PaginationMeta, error)
	ResolveFlag(ctx context.Context, flagID uuid.UUID, status string) error
}

type flagService struct {
	flagRepo    repository.FlagRepository
	reportRepo  repository.ReportRepository
	commentRepo repository.CommentRepository
}

func NewFlagService(
	flagRepo repository.FlagRepository,
	reportRepo repository.ReportRepository,
	commentRepo repository.CommentRepository,
) FlagService {
	return &flagService{
		flagRepo:    flagRepo,
		reportRepo:  reportRepo,
		commentRepo: commentRepo,
	}
}

func (s *flagService) CreateFlag(ctx context.Context, reporterID uuid.UUID, req dto.CreateFlagRequest) error {
	contentID, err := uuid.Parse(req.ContentID)
	if err != nil {
		return apperror.ErrInvalidInput
	}

	// Reject flags on content that does not exist.
	switch req.ContentType {
	case model.FlagContentReport:
		_, err = s.reportRepo.FindByID(ctx, contentID)
	case model.FlagContentComment:
		_, err = s.commentRepo.FindByID(ctx, contentID)
	default:
		return apperror.ErrInvalidInput
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	return s.flagRepo.Create(ctx, &model.Flag{
		ContentType: req.ContentType,
		ContentID:   contentID,
		ReporterID:  reporterID,
		Reason:      req.Reason,
		Status:      model.FlagStatusPending,
	})
}

func (s *flagService) ListFlags(ctx context.Context, status string, page, limit int) ([]FlagResponse, *dto.PaginationMeta, error) {
	if status != "" && status != model.FlagStatusPending &&
		status != model.FlagStatusReviewed && status != model.FlagStatusDismissed {
		return nil, nil, apperror.ErrInvalidInput
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	flags, total, err := s.flagRepo.FindByStatus(ctx, status, (page-1)*limit, limit)
	if err != nil {
		return nil, nil, err
	}

	responses := make([]FlagResponse, 0, len(flags))
	for _, f := range flags {
		responses = append(responses, FlagResponse{
			ID:          f.ID.String(),
			ContentType: f.ContentType,
			ContentID:   f.ContentID.String(),
			Reason:      f.Reason,
			Status:      f.Status,
			Reporter:    f.Reporter.DisplayName,
			CreatedAt:   f.CreatedAt,
		})
	}

	meta := &dto.PaginationMeta{
		CurrentPage: page,
		TotalPages:  int((total + int64(limit) - 1) / int64(limit)),
		TotalItems:  total,
		Limit:       limit,
	}
	return responses, meta, nil
}

func (s *flagService) ResolveFlag(ctx context.Context, flagID uuid.UUID, status string) error {
	if status != model.FlagStatusReviewed && status != model.FlagStatusDismissed {
		return apperror.ErrInvalidInput
	}
	return s.flagRepo.UpdateStatus(ctx, flagID, status)
}
