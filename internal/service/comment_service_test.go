package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/danishsenju/fixmyhood/internal/dto"
	"github.com/danishsenju/fixmyhood/internal/model"
	"github.com/danishsenju/fixmyhood/internal/repository"
	"github.com/danishsenju/fixmyhood/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeCommentRepo struct {
	repository.CommentRepository
	comments    map[uuid.UUID]*model.Comment
	hasProgress bool
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: map[uuid.UUID]*model.Comment{}}
}

func (f *fakeCommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	if comment.ID == uuid.Nil {
		comment.ID, _ = uuid.NewV7()
	}
	f.comments[comment.ID] = comment
	return nil
}

func (f *fakeCommentRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	c, ok := f.comments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (f *fakeCommentRepo) HasProgressComment(ctx context.Context, reportID uuid.UUID) (bool, error) {
	return f.hasProgress, nil
}

func (f *fakeCommentRepo) MarkVerifiedFixAwarded(ctx context.Context, id uuid.UUID) (bool, error) {
	c, ok := f.comments[id]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if c.VerifiedFixAwarded {
		return false, nil
	}
	c.VerifiedFixAwarded = true
	return true, nil
}

type fakeVerificationRepo struct {
	repository.VerificationRepository
	verifications map[uuid.UUID][]uuid.UUID
}

func newFakeVerificationRepo() *fakeVerificationRepo {
	return &fakeVerificationRepo{verifications: map[uuid.UUID][]uuid.UUID{}}
}

func (f *fakeVerificationRepo) Create(ctx context.Context, v *model.Verification) error {
	f.verifications[v.CommentID] = append(f.verifications[v.CommentID], v.UserID)
	return nil
}

func (f *fakeVerificationRepo) Exists(ctx context.Context, commentID, userID uuid.UUID) (bool, error) {
	for _, u := range f.verifications[commentID] {
		if u == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeVerificationRepo) CountByComment(ctx context.Context, commentID uuid.UUID) (int64, error) {
	return int64(len(f.verifications[commentID])), nil
}

type fakeReportStatusRepo struct {
	repository.ReportRepository
	report   *model.Report
	statuses []string
}

func (f *fakeReportStatusRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	if f.report == nil || f.report.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return f.report, nil
}

func (f *fakeReportStatusRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	f.statuses = append(f.statuses, status)
	return nil
}

// recordingGamification records awards synchronously so tests can assert on
// them without sleeping.
type recordingGamification struct {
	mu      sync.Mutex
	actions map[uuid.UUID][]string
}

func newRecordingGamification() *recordingGamification {
	return &recordingGamification{actions: map[uuid.UUID][]string{}}
}

func (r *recordingGamification) AwardPoints(ctx context.Context, userID uuid.UUID, action string) error {
	r.record(userID, action)
	return nil
}

func (r *recordingGamification) CheckAndAwardBadges(ctx context.Context, userID uuid.UUID) error {
	return nil
}

func (r *recordingGamification) AwardAsync(userID uuid.UUID, action string) {
	r.record(userID, action)
}

func (r *recordingGamification) record(userID uuid.UUID, action string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions[userID] = append(r.actions[userID], action)
}

func (r *recordingGamification) count(userID uuid.UUID, action string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, a := range r.actions[userID] {
		if a == action {
			n++
		}
	}
	return n
}

func newTestReport(status string) *model.Report {
	id, _ := uuid.NewV7()
	creator, _ := uuid.NewV7()
	return &model.Report{
		ID:        id,
		CreatorID: creator,
		Title:     "Streetlight out on Oak Road",
		Category:  model.CategoryInfrastructure,
		Status:    status,
	}
}

func TestVerifyFixThirdVerificationAwardsAuthorOnce(t *testing.T) {
	comments := newFakeCommentRepo()
	verifications := newFakeVerificationRepo()
	rewards := newRecordingGamification()

	author, _ := uuid.NewV7()
	commentID, _ := uuid.NewV7()
	comments.comments[commentID] = &model.Comment{
		ID:          commentID,
		AuthorID:    author,
		CommentType: model.CommentTypeConfirmFix,
	}

	svc := NewCommentService(comments, nil, verifications, nil, rewards, nil, nil, nil)

	for i := 0; i < 5; i++ {
		verifier, _ := uuid.NewV7()
		if err := svc.VerifyFix(context.Background(), verifier, commentID); err != nil {
			t.Fatalf("verification %d: unexpected error: %v", i+1, err)
		}

		wantAuthorBonus := 0
		if i >= 2 {
			wantAuthorBonus = 1
		}
		if got := rewards.count(author, ActionVerifiedFix); got != wantAuthorBonus {
			t.Fatalf("after %d verifications: author bonus fired %d times, want %d", i+1, got, wantAuthorBonus)
		}
		if got := rewards.count(verifier, ActionConfirmFix); got != 1 {
			t.Errorf("verifier %d should get confirm_fix points once, got %d", i+1, got)
		}
	}
}

func TestVerifyFixOwnCommentRejected(t *testing.T) {
	comments := newFakeCommentRepo()
	author, _ := uuid.NewV7()
	commentID, _ := uuid.NewV7()
	comments.comments[commentID] = &model.Comment{
		ID:          commentID,
		AuthorID:    author,
		CommentType: model.CommentTypeConfirmFix,
	}

	svc := NewCommentService(comments, nil, newFakeVerificationRepo(), nil, newRecordingGamification(), nil, nil, nil)

	err := svc.VerifyFix(context.Background(), author, commentID)
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestVerifyFixDuplicateRejected(t *testing.T) {
	comments := newFakeCommentRepo()
	author, _ := uuid.NewV7()
	commentID, _ := uuid.NewV7()
	comments.comments[commentID] = &model.Comment{
		ID:          commentID,
		AuthorID:    author,
		CommentType: model.CommentTypeConfirmFix,
	}

	svc := NewCommentService(comments, nil, newFakeVerificationRepo(), nil, newRecordingGamification(), nil, nil, nil)

	verifier, _ := uuid.NewV7()
	if err := svc.VerifyFix(context.Background(), verifier, commentID); err != nil {
		t.Fatalf("first verification failed: %v", err)
	}

	err := svc.VerifyFix(context.Background(), verifier, commentID)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("expected ErrConflict on repeat verification, got %v", err)
	}
}

func TestVerifyFixRejectsPlainComments(t *testing.T) {
	comments := newFakeCommentRepo()
	author, _ := uuid.NewV7()
	commentID, _ := uuid.NewV7()
	comments.comments[commentID] = &model.Comment{
		ID:          commentID,
		AuthorID:    author,
		CommentType: model.CommentTypeComment,
	}

	svc := NewCommentService(comments, nil, newFakeVerificationRepo(), nil, newRecordingGamification(), nil, nil, nil)

	verifier, _ := uuid.NewV7()
	err := svc.VerifyFix(context.Background(), verifier, commentID)
	if !errors.Is(err, apperror.ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest, got %v", err)
	}
}

func TestCreateCommentLockedReport(t *testing.T) {
	report := newTestReport(model.StatusOpen)
	report.CommentsLocked = true
	reports := &fakeReportStatusRepo{report: report}

	svc := NewCommentService(newFakeCommentRepo(), reports, newFakeVerificationRepo(), nil, newRecordingGamification(), nil, nil, nil)

	userID, _ := uuid.NewV7()
	_, err := svc.CreateComment(context.Background(), userID, report.ID, dto.CreateCommentRequest{
		Content: "any update?",
	}, nil)
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("expected ErrForbidden on locked report, got %v", err)
	}
}

func TestCreateCommentConfirmFixRequiresProgress(t *testing.T) {
	report := newTestReport(model.StatusInProgress)
	reports := &fakeReportStatusRepo{report: report}
	comments := newFakeCommentRepo()
	comments.hasProgress = false

	svc := NewCommentService(comments, reports, newFakeVerificationRepo(), nil, newRecordingGamification(), nil, nil, nil)

	userID, _ := uuid.NewV7()
	_, err := svc.CreateComment(context.Background(), userID, report.ID, dto.CreateCommentRequest{
		Content:     "looks fixed to me",
		CommentType: model.CommentTypeConfirmFix,
	}, &PhotoFile{})
	if !errors.Is(err, apperror.ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest without prior progress, got %v", err)
	}
}

func TestCreateCommentProgressRequiresImage(t *testing.T) {
	report := newTestReport(model.StatusOpen)
	reports := &fakeReportStatusRepo{report: report}

	svc := NewCommentService(newFakeCommentRepo(), reports, newFakeVerificationRepo(), nil, newRecordingGamification(), nil, nil, nil)

	userID, _ := uuid.NewV7()
	_, err := svc.CreateComment(context.Background(), userID, report.ID, dto.CreateCommentRequest{
		Content:     "crew is on site",
		CommentType: model.CommentTypeProgress,
	}, nil)
	if !errors.Is(err, apperror.ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest without image, got %v", err)
	}
}

func TestCreateCommentStatusTransitions(t *testing.T) {
	cases := []struct {
		name        string
		status      string
		commentType string
		image       *PhotoFile
		wantStatus  string
	}{
		{"progress advances open", model.StatusOpen, model.CommentTypeProgress, &PhotoFile{}, model.StatusInProgress},
		{"progress advances acknowledged", model.StatusAcknowledged, model.CommentTypeProgress, &PhotoFile{}, model.StatusInProgress},
		{"comment acknowledges open", model.StatusOpen, model.CommentTypeComment, nil, model.StatusAcknowledged},
		{"comment leaves in_progress alone", model.StatusInProgress, model.CommentTypeComment, nil, ""},
	}

	for _, tc := range cases {
		report := newTestReport(tc.status)
		reports := &fakeReportStatusRepo{report: report}
		comments := newFakeCommentRepo()
		comments.hasProgress = true

		svc := NewCommentService(comments, reports, newFakeVerificationRepo(), nil, newRecordingGamification(), nil, nil, nil)

		userID, _ := uuid.NewV7()
		_, err := svc.CreateComment(context.Background(), userID, report.ID, dto.CreateCommentRequest{
			Content:     "update",
			CommentType: tc.commentType,
		}, tc.image)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}

		if tc.wantStatus == "" {
			if len(reports.statuses) != 0 {
				t.Errorf("%s: expected no status change, got %v", tc.name, reports.statuses)
			}
			continue
		}
		if len(reports.statuses) != 1 || reports.statuses[0] != tc.wantStatus {
			t.Errorf("%s: got status updates %v, want [%s]", tc.name, reports.statuses, tc.wantStatus)
		}
	}
}

func TestCreateCommentAwardsPointsByType(t *testing.T) {
	cases := []struct {
		commentType string
		image       *PhotoFile
		wantAction  string
	}{
		{model.CommentTypeComment, nil, ActionComment},
		{model.CommentTypeProgress, &PhotoFile{}, ActionProgressUpdate},
		{model.CommentTypeConfirmFix, &PhotoFile{}, ActionConfirmFix},
	}

	for _, tc := range cases {
		report := newTestReport(model.StatusInProgress)
		reports := &fakeReportStatusRepo{report: report}
		comments := newFakeCommentRepo()
		comments.hasProgress = true
		rewards := newRecordingGamification()

		svc := NewCommentService(comments, reports, newFakeVerificationRepo(), nil, rewards, nil, nil, nil)

		userID, _ := uuid.NewV7()
		_, err := svc.CreateComment(context.Background(), userID, report.ID, dto.CreateCommentRequest{
			Content:     "update",
			CommentType: tc.commentType,
		}, tc.image)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.commentType, err)
		}

		if got := rewards.count(userID, tc.wantAction); got != 1 {
			t.Errorf("%s: expected one %s award, got %d", tc.commentType, tc.wantAction, got)
		}
	}
}
