package service

import (
	"context"
	"errors"
	"testing"

	"github.com/danishsenju/fixmyhood/internal/model"
	"github.com/danishsenju/fixmyhood/internal/repository"
	"github.com/danishsenju/fixmyhood/pkg/apperror"
	"github.com/google/uuid"
)

type fakeProfileRepo struct {
	repository.ProfileRepository
	points map[uuid.UUID]int
}

func (f *fakeProfileRepo) AddPoints(ctx context.Context, userID uuid.UUID, delta int) error {
	if f.points == nil {
		f.points = map[uuid.UUID]int{}
	}
	f.points[userID] += delta
	return nil
}

type fakeBadgeRepo struct {
	repository.BadgeRepository
	earned   []string
	upserted []model.Badge
}

func (f *fakeBadgeRepo) FindTypesByUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	return f.earned, nil
}

func (f *fakeBadgeRepo) UpsertBatch(ctx context.Context, badges []model.Badge) error {
	f.upserted = append(f.upserted, badges...)
	return nil
}

type fakeReportCountRepo struct {
	repository.ReportRepository
	reportCount int64
}

func (f *fakeReportCountRepo) CountByCreator(ctx context.Context, creatorID uuid.UUID) (int64, error) {
	return f.reportCount, nil
}

type fakeCommentCountRepo struct {
	repository.CommentRepository
	commentCount  int64
	confirmFixIDs []uuid.UUID
}

func (f *fakeCommentCountRepo) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	return f.commentCount, nil
}

func (f *fakeCommentCountRepo) FindConfirmFixIDsByAuthor(ctx context.Context, authorID uuid.UUID) ([]uuid.UUID, error) {
	return f.confirmFixIDs, nil
}

type fakeVerificationCountRepo struct {
	repository.VerificationRepository
	counts map[uuid.UUID]int64
}

func (f *fakeVerificationCountRepo) CountByComments(ctx context.Context, commentIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	return f.counts, nil
}

func newGamificationFixture(profile *fakeProfileRepo, badge *fakeBadgeRepo, report *fakeReportCountRepo, comment *fakeCommentCountRepo, verification *fakeVerificationCountRepo) GamificationService {
	if profile == nil {
		profile = &fakeProfileRepo{}
	}
	if badge == nil {
		badge = &fakeBadgeRepo{}
	}
	if report == nil {
		report = &fakeReportCountRepo{}
	}
	if comment == nil {
		comment = &fakeCommentCountRepo{}
	}
	if verification == nil {
		verification = &fakeVerificationCountRepo{}
	}
	return NewGamificationService(profile, badge, report, comment, verification, nil)
}

func TestAwardPointsTable(t *testing.T) {
	cases := []struct {
		action string
		points int
	}{
		{ActionReportCreated, 10},
		{ActionComment, 2},
		{ActionProgressUpdate, 5},
		{ActionConfirmFix, 5},
		{ActionVerifiedFix, 15},
	}

	for _, tc := range cases {
		profiles := &fakeProfileRepo{}
		svc := newGamificationFixture(profiles, nil, nil, nil, nil)
		userID, _ := uuid.NewV7()

		if err := svc.AwardPoints(context.Background(), userID, tc.action); err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.action, err)
		}
		if got := profiles.points[userID]; got != tc.points {
			t.Errorf("%s: got %d points, want %d", tc.action, got, tc.points)
		}
	}
}

func TestAwardPointsUnknownActionFailsClosed(t *testing.T) {
	profiles := &fakeProfileRepo{}
	svc := newGamificationFixture(profiles, nil, nil, nil, nil)
	userID, _ := uuid.NewV7()

	err := svc.AwardPoints(context.Background(), userID, "downvote")
	if !errors.Is(err, apperror.ErrInvalidActionKind) {
		t.Fatalf("expected ErrInvalidActionKind, got %v", err)
	}
	if len(profiles.points) != 0 {
		t.Errorf("no points should be written for unknown actions, got %v", profiles.points)
	}
}

func TestCheckAndAwardBadgesFirstReport(t *testing.T) {
	badges := &fakeBadgeRepo{}
	svc := newGamificationFixture(nil, badges, &fakeReportCountRepo{reportCount: 1}, nil, nil)
	userID, _ := uuid.NewV7()

	if err := svc.CheckAndAwardBadges(context.Background(), userID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(badges.upserted) != 1 || badges.upserted[0].BadgeType != model.BadgeFirstReport {
		t.Fatalf("expected first_report badge, got %v", badges.upserted)
	}
}

func TestCheckAndAwardBadgesIsIdempotent(t *testing.T) {
	badges := &fakeBadgeRepo{earned: []string{model.BadgeFirstReport}}
	svc := newGamificationFixture(nil, badges, &fakeReportCountRepo{reportCount: 3}, nil, nil)
	userID, _ := uuid.NewV7()

	if err := svc.CheckAndAwardBadges(context.Background(), userID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(badges.upserted) != 0 {
		t.Fatalf("already-earned badge must not be re-upserted, got %v", badges.upserted)
	}
}

func TestCheckAndAwardBadgesHelperThreshold(t *testing.T) {
	for _, tc := range []struct {
		comments int64
		want     bool
	}{
		{4, false},
		{5, true},
	} {
		badges := &fakeBadgeRepo{}
		svc := newGamificationFixture(nil, badges, nil, &fakeCommentCountRepo{commentCount: tc.comments}, nil)
		userID, _ := uuid.NewV7()

		if err := svc.CheckAndAwardBadges(context.Background(), userID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got := false
		for _, b := range badges.upserted {
			if b.BadgeType == model.BadgeHelper {
				got = true
			}
		}
		if got != tc.want {
			t.Errorf("%d comments: helper awarded = %v, want %v", tc.comments, got, tc.want)
		}
	}
}

func TestCheckAndAwardBadgesResolver(t *testing.T) {
	c1, _ := uuid.NewV7()
	c2, _ := uuid.NewV7()
	c3, _ := uuid.NewV7()

	for _, tc := range []struct {
		name   string
		counts map[uuid.UUID]int64
		want   bool
	}{
		{"two qualifying comments", map[uuid.UUID]int64{c1: 3, c2: 4, c3: 1}, true},
		{"one qualifying comment", map[uuid.UUID]int64{c1: 3, c2: 2, c3: 0}, false},
		{"many verifications on one comment", map[uuid.UUID]int64{c1: 9}, false},
	} {
		badges := &fakeBadgeRepo{}
		comments := &fakeCommentCountRepo{confirmFixIDs: []uuid.UUID{c1, c2, c3}}
		verifications := &fakeVerificationCountRepo{counts: tc.counts}
		svc := newGamificationFixture(nil, badges, nil, comments, verifications)
		userID, _ := uuid.NewV7()

		if err := svc.CheckAndAwardBadges(context.Background(), userID); err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}

		got := false
		for _, b := range badges.upserted {
			if b.BadgeType == model.BadgeResolver {
				got = true
			}
		}
		if got != tc.want {
			t.Errorf("%s: resolver awarded = %v, want %v", tc.name, got, tc.want)
		}
	}
}
