package service

import (
	"context"
	"errors"
	"fmt"
	"io"
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

// PhotoFile is an uploaded report photo.
type PhotoFile struct {
	Reader   io.Reader
	FileName string
}

type ReportService interface {
	CreateReport(ctx context.Context, userID uuid.UUID, req dto.CreateReportRequest, photo *PhotoFile) (*dto.ReportResponse, error)
	GetFeed(ctx context.Context, filter dto.ReportFilter) (*dto.PaginatedReportResponse, error)
	GetReport(ctx context.Context, id uuid.UUID, viewerID uuid.UUID) (*dto.ReportResponse, error)
	GetMapReports(ctx context.Context) ([]dto.MapReportResponse, error)
	UpdateReport(ctx context.Context, userID, id uuid.UUID, req dto.UpdateReportRequest) (*dto.ReportResponse, error)
	DeleteReport(ctx context.Context, userID, id uuid.UUID) error
	CloseReport(ctx context.Context, userID, id uuid.UUID) error
	// MarkDuplicate links a report to the original it duplicates. The link
	// forms a forest; assignments that would close a cycle are rejected.
	MarkDuplicate(ctx context.Context, reportID, originalID uuid.UUID) error
	UnmarkDuplicate(ctx context.Context, reportID uuid.UUID) error
}

type reportService struct {
	reportRepo   repository.ReportRepository
	commentRepo  repository.CommentRepository
	followerRepo repository.FollowerRepository
	gamification GamificationService
	searchSvc    SearchService
	photoStorage storage.PhotoStorage
	redisClient  *redis.Client
}

func NewReportService(
	reportRepo repository.ReportRepository,
	commentRepo repository.CommentRepository,
	followerRepo repository.FollowerRepository,
	gamification GamificationService,
	searchSvc SearchService,
	photoStorage storage.PhotoStorage,
	redisClient *redis.Client,
) ReportService {
	return &reportService{
		reportRepo:   reportRepo,
		commentRepo:  commentRepo,
		followerRepo: followerRepo,
		gamification: gamification,
		searchSvc:    searchSvc,
		photoStorage: photoStorage,
		redisClient:  redisClient,
	}
}

func (s *reportService) CreateReport(ctx context.Context, userID uuid.UUID, req dto.CreateReportRequest, photo *PhotoFile) (*dto.ReportResponse, error) {
	reportLimit := GetDurationFromEnv("RATE_LIMIT_REPORT", time.Minute)
	allowed, err := CheckAndSetRateLimit(ctx, s.redisClient, userID, "report", reportLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to check rate limit: %w", err)
	}
	if !allowed {
		ttl, _ := GetRateLimitTTL(ctx, s.redisClient, userID, "report")
		return nil, &RateLimitError{
			Message:    fmt.Sprintf("you can only create one report every %.0f seconds. Please wait %.0f seconds", reportLimit.Seconds(), ttl.Seconds()),
			RetryAfter: ttl,
		}
	}

	creationFailed := true
	defer func() {
		if creationFailed {
			_ = ClearRateLimit(ctx, s.redisClient, userID, "report")
		}
	}()

	if !model.ValidCategory(req.Category) {
		return nil, apperror.ErrInvalidInput
	}

	report := &model.Report{
		CreatorID:    userID,
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Severity:     req.Severity,
		Status:       model.StatusOpen,
		LocationText: req.LocationText,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
	}
	if report.Severity == "" {
		report.Severity = "Medium"
	}

	if photo != nil && s.photoStorage != nil {
		url, err := s.photoStorage.UploadPhoto(ctx, photo.Reader, "reports", photo.FileName)
		if err != nil {
			return nil, fmt.Errorf("failed to upload report photo: %w", err)
		}
		report.PhotoURL = &url
	}

	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}

	creationFailed = false

	if s.searchSvc != nil {
		if err := s.searchSvc.IndexReport(report); err != nil {
			log.Printf("failed to index report %s: %v", report.ID, err)
		}
	}

	// Reward mechanics run in the background; a failed award never blocks
	// the submission.
	s.gamification.AwardAsync(userID, ActionReportCreated)

	return s.mapToResponse(ctx, report, 0, 0), nil
}

func (s *reportService) GetFeed(ctx context.Context, filter dto.ReportFilter) (*dto.PaginatedReportResponse, error) {
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.Limit == 0 {
		filter.Limit = 20
	}

	var reports []model.Report
	var total int64
	var err error

	if filter.Search != "" && s.searchSvc != nil {
		ids, serr := s.searchSvc.SearchReportIDs(filter.Search, filter.Category, filter.Status, filter.Limit)
		if serr != nil {
			return nil, serr
		}
		found, ferr := s.reportRepo.FindByIDs(ctx, ids)
		if ferr != nil {
			return nil, ferr
		}
		// Preserve search relevance ordering from the index.
		byID := make(map[uuid.UUID]model.Report, len(found))
		for _, r := range found {
			byID[r.ID] = r
		}
		for _, id := range ids {
			if r, ok := byID[id]; ok && !r.IsHidden && r.DuplicateOf == nil {
				reports = append(reports, r)
			}
		}
		total = int64(len(reports))
	} else {
		reports, total, err = s.reportRepo.FindFeed(ctx, filter)
		if err != nil {
			return nil, err
		}
	}

	ids := make([]uuid.UUID, 0, len(reports))
	for _, r := range reports {
		ids = append(ids, r.ID)
	}

	commentCounts, err := s.commentRepo.CountByReports(ctx, ids)
	if err != nil {
		return nil, err
	}
	followerCounts, err := s.followerRepo.CountByReports(ctx, ids)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ReportResponse, 0, len(reports))
	for i := range reports {
		r := &reports[i]
		responses = append(responses, *s.mapToResponse(ctx, r, commentCounts[r.ID], followerCounts[r.ID]))
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &dto.PaginatedReportResponse{
		Data: responses,
		Meta: dto.PaginationMeta{
			CurrentPage: filter.Page,
			TotalPages:  totalPages,
			TotalItems:  total,
			Limit:       filter.Limit,
		},
	}, nil
}

func (s *reportService) GetReport(ctx context.Context, id uuid.UUID, viewerID uuid.UUID) (*dto.ReportResponse, error) {
	report, err := s.reportRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if viewerID != uuid.Nil && viewerID != report.CreatorID {
		view := &model.ReportView{ReportID: id, UserID: viewerID}
		if err := s.followerRepo.CreateView(ctx, view); err != nil {
			log.Printf("failed to record view on report %s: %v", id, err)
		}
	}

	commentCount, err := s.commentRepo.CountByReport(ctx, id)
	if err != nil {
		return nil, err
	}
	followerCount, err := s.followerRepo.CountByReport(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.mapToResponse(ctx, report, commentCount, followerCount), nil
}

func (s *reportService) GetMapReports(ctx context.Context) ([]dto.MapReportResponse, error) {
	reports, err := s.reportRepo.FindWithCoordinates(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.MapReportResponse, 0, len(reports))
	for _, r := range reports {
		out = append(out, dto.MapReportResponse{
			ID:        r.ID.String(),
			Title:     r.Title,
			Category:  r.Category,
			Status:    r.Status,
			Latitude:  *r.Latitude,
			Longitude: *r.Longitude,
		})
	}
	return out, nil
}

func (s *reportService) UpdateReport(ctx context.Context, userID, id uuid.UUID, req dto.UpdateReportRequest) (*dto.ReportResponse, error) {
	report, err := s.reportRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if report.CreatorID != userID {
		return nil, apperror.ErrForbidden
	}

	if req.Title != nil {
		report.Title = *req.Title
	}
	if req.Description != nil {
		report.Description = *req.Description
	}
	if req.Severity != nil {
		report.Severity = *req.Severity
	}
	if req.LocationText != nil {
		report.LocationText = req.LocationText
	}
	if req.Latitude != nil {
		report.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		report.Longitude = req.Longitude
	}

	if err := s.reportRepo.Update(ctx, report); err != nil {
		return nil, err
	}

	if s.searchSvc != nil {
		if err := s.searchSvc.IndexReport(report); err != nil {
			log.Printf("failed to reindex report %s: %v", report.ID, err)
		}
	}

	return s.mapToResponse(ctx, report, 0, 0), nil
}

func (s *reportService) DeleteReport(ctx context.Context, userID, id uuid.UUID) error {
	report, err := s.reportRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if report.CreatorID != userID {
		return apperror.ErrForbidden
	}

	if err := s.reportRepo.Delete(ctx, id); err != nil {
		return err
	}

	// Owner-initiated deletion cascades the photo blob.
	if report.PhotoURL != nil && s.photoStorage != nil {
		if err := s.photoStorage.DeletePhoto(ctx, *report.PhotoURL); err != nil {
			log.Printf("failed to delete photo for report %s: %v", id, err)
		}
	}

	if s.searchSvc != nil {
		if err := s.searchSvc.DeleteReport(id.String()); err != nil {
			log.Printf("failed to deindex report %s: %v", id, err)
		}
	}

	return nil
}

func (s *reportService) CloseReport(ctx context.Context, userID, id uuid.UUID) error {
	report, err := s.reportRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if report.CreatorID != userID {
		return apperror.ErrForbidden
	}

	if !report.CanTransitionTo(model.StatusClosed) {
		return apperror.ErrBadRequest
	}

	if err := s.reportRepo.UpdateStatus(ctx, id, model.StatusClosed); err != nil {
		return err
	}

	report.Status = model.StatusClosed
	if s.searchSvc != nil {
		if err := s.searchSvc.IndexReport(report); err != nil {
			log.Printf("failed to reindex report %s: %v", id, err)
		}
	}
	return nil
}

func (s *reportService) MarkDuplicate(ctx context.Context, reportID, originalID uuid.UUID) error {
	if reportID == originalID {
		return apperror.ErrDuplicateCycle
	}

	report, err := s.reportRepo.FindByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}
	if _, err := s.reportRepo.FindByID(ctx, originalID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	// Walk up from the proposed original; if the chain reaches the report
	// being marked, the assignment would close a cycle.
	visited := map[uuid.UUID]bool{reportID: true}
	cursor := originalID
	for {
		if visited[cursor] {
			return apperror.ErrDuplicateCycle
		}
		visited[cursor] = true

		parent, err := s.reportRepo.FindByID(ctx, cursor)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				break // dangling pointer, chain ends here
			}
			return err
		}
		if parent.DuplicateOf == nil {
			break
		}
		cursor = *parent.DuplicateOf
	}

	if err := s.reportRepo.SetDuplicateOf(ctx, reportID, &originalID); err != nil {
		return err
	}

	// Marked duplicates leave the feed and the detection pool, so they also
	// leave the search index.
	report.DuplicateOf = &originalID
	if s.searchSvc != nil {
		if err := s.searchSvc.IndexReport(report); err != nil {
			log.Printf("failed to deindex duplicate report %s: %v", reportID, err)
		}
	}
	return nil
}

func (s *reportService) UnmarkDuplicate(ctx context.Context, reportID uuid.UUID) error {
	report, err := s.reportRepo.FindByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if err := s.reportRepo.SetDuplicateOf(ctx, reportID, nil); err != nil {
		return err
	}

	report.DuplicateOf = nil
	if s.searchSvc != nil {
		if err := s.searchSvc.IndexReport(report); err != nil {
			log.Printf("failed to reindex report %s: %v", reportID, err)
		}
	}
	return nil
}

func (s *reportService) mapToResponse(ctx context.Context, report *model.Report, commentCount, followerCount int64) *dto.ReportResponse {
	resp := &dto.ReportResponse{
		ID:             report.ID.String(),
		Title:          report.Title,
		Description:    report.Description,
		Category:       report.Category,
		Severity:       report.Severity,
		Status:         report.Status,
		PhotoURL:       report.PhotoURL,
		LocationText:   report.LocationText,
		Latitude:       report.Latitude,
		Longitude:      report.Longitude,
		CommentsLocked: report.CommentsLocked,
		CommentCount:   commentCount,
		FollowerCount:  followerCount,
		CreatedAt:      report.CreatedAt,
		UpdatedAt:      report.UpdatedAt,
		Creator: dto.AuthorResponse{
			ID:          report.CreatorID.String(),
			DisplayName: report.Creator.DisplayName,
			AvatarURL:   report.Creator.AvatarURL,
			ActiveFrame: report.Creator.ActiveFrame,
		},
	}
	if report.DuplicateOf != nil {
		dup := report.DuplicateOf.String()
		resp.DuplicateOf = &dup
	}
	return resp
}
