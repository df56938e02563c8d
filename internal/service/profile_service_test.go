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

type fakeFrameProfileRepo struct {
	repository.ProfileRepository
	frames map[uuid.UUID]string
}

func (f *fakeFrameProfileRepo) SetActiveFrame(ctx context.Context, userID uuid.UUID, frame string) error {
	if f.frames == nil {
		f.frames = map[uuid.UUID]string{}
	}
	f.frames[userID] = frame
	return nil
}

type fakeFrameBadgeRepo struct {
	repository.BadgeRepository
	earned []string
}

func (f *fakeFrameBadgeRepo) FindTypesByUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	return f.earned, nil
}

func newFrameFixture(earned []string) (*fakeFrameProfileRepo, ProfileService) {
	profiles := &fakeFrameProfileRepo{}
	badges := &fakeFrameBadgeRepo{earned: earned}
	return profiles, NewProfileService(profiles, badges, nil, nil, nil, nil)
}

func TestSetActiveFrameDefaultAlwaysAllowed(t *testing.T) {
	profiles, svc := newFrameFixture(nil)
	userID, _ := uuid.NewV7()

	if err := svc.SetActiveFrame(context.Background(), userID, model.FrameDefault); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profiles.frames[userID] != model.FrameDefault {
		t.Fatalf("frame not persisted: %v", profiles.frames)
	}
}

func TestSetActiveFrameLockedWithoutBadge(t *testing.T) {
	profiles, svc := newFrameFixture([]string{model.BadgeFirstReport})
	userID, _ := uuid.NewV7()

	err := svc.SetActiveFrame(context.Background(), userID, model.FrameResolver)
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for locked frame, got %v", err)
	}
	if len(profiles.frames) != 0 {
		t.Fatalf("locked frame must not be persisted, got %v", profiles.frames)
	}
}

func TestSetActiveFrameUnlockedByBadge(t *testing.T) {
	for frame, badge := range map[string]string{
		model.FrameFirstReport: model.BadgeFirstReport,
		model.FrameHelper:      model.BadgeHelper,
		model.FrameResolver:    model.BadgeResolver,
	} {
		profiles, svc := newFrameFixture([]string{badge})
		userID, _ := uuid.NewV7()

		if err := svc.SetActiveFrame(context.Background(), userID, frame); err != nil {
			t.Errorf("frame %s with badge %s: unexpected error: %v", frame, badge, err)
			continue
		}
		if profiles.frames[userID] != frame {
			t.Errorf("frame %s not persisted", frame)
		}
	}
}

func TestSetActiveFrameUnknownFrameRejected(t *testing.T) {
	_, svc := newFrameFixture([]string{model.BadgeFirstReport, model.BadgeHelper, model.BadgeResolver})
	userID, _ := uuid.NewV7()

	err := svc.SetActiveFrame(context.Background(), userID, "golden")
	if !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
