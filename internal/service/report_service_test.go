package service

import (
	"context"
	"errors"
	"testing"

	"github.com/danishsenju/fixmyhood/internal/model"
	"github.com/danishsenju/fixmyhood/internal/repository"
	"github.com/danishsenju/fixmyhood/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeDuplicateGraphRepo struct {
	repository.ReportRepository
	reports map[uuid.UUID]*model.Report
}

func newFakeDuplicateGraphRepo() *fakeDuplicateGraphRepo {
	return &fakeDuplicateGraphRepo{reports: map[uuid.UUID]*model.Report{}}
}

func (f *fakeDuplicateGraphRepo) addReport() *model.Report {
	id, _ := uuid.NewV7()
	r := &model.Report{ID: id, Status: model.StatusOpen}
	f.reports[id] = r
	return r
}

func (f *fakeDuplicateGraphRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	r, ok := f.reports[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r, nil
}

func (f *fakeDuplicateGraphRepo) SetDuplicateOf(ctx context.Context, id uuid.UUID, originalID *uuid.UUID) error {
	r, ok := f.reports[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.DuplicateOf = originalID
	return nil
}

func newDuplicateGraphService(repo *fakeDuplicateGraphRepo) ReportService {
	return NewReportService(repo, nil, nil, nil, nil, nil, nil)
}

func TestMarkDuplicateSelfRejected(t *testing.T) {
	repo := newFakeDuplicateGraphRepo()
	a := repo.addReport()
	svc := newDuplicateGraphService(repo)

	err := svc.MarkDuplicate(context.Background(), a.ID, a.ID)
	if !errors.Is(err, apperror.ErrDuplicateCycle) {
		t.Fatalf("expected ErrDuplicateCycle, got %v", err)
	}
}

func TestMarkDuplicateLinksForest(t *testing.T) {
	repo := newFakeDuplicateGraphRepo()
	a := repo.addReport()
	b := repo.addReport()
	svc := newDuplicateGraphService(repo)

	if err := svc.MarkDuplicate(context.Background(), a.ID, b.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.DuplicateOf == nil || *a.DuplicateOf != b.ID {
		t.Fatalf("expected a -> b link, got %v", a.DuplicateOf)
	}
}

func TestMarkDuplicateRejectsCycle(t *testing.T) {
	repo := newFakeDuplicateGraphRepo()
	a := repo.addReport()
	b := repo.addReport()
	c := repo.addReport()
	svc := newDuplicateGraphService(repo)

	// a -> b -> c, then closing c -> a must fail.
	if err := svc.MarkDuplicate(context.Background(), a.ID, b.ID); err != nil {
		t.Fatalf("a -> b: %v", err)
	}
	if err := svc.MarkDuplicate(context.Background(), b.ID, c.ID); err != nil {
		t.Fatalf("b -> c: %v", err)
	}

	err := svc.MarkDuplicate(context.Background(), c.ID, a.ID)
	if !errors.Is(err, apperror.ErrDuplicateCycle) {
		t.Fatalf("expected ErrDuplicateCycle closing the loop, got %v", err)
	}
	if c.DuplicateOf != nil {
		t.Errorf("rejected assignment must not be persisted, got %v", c.DuplicateOf)
	}
}

func TestUnmarkDuplicateClearsLink(t *testing.T) {
	repo := newFakeDuplicateGraphRepo()
	a := repo.addReport()
	b := repo.addReport()
	svc := newDuplicateGraphService(repo)

	if err := svc.MarkDuplicate(context.Background(), a.ID, b.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.UnmarkDuplicate(context.Background(), a.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.DuplicateOf != nil {
		t.Fatalf("expected link cleared, got %v", a.DuplicateOf)
	}
}

func TestCloseReportForwardOnly(t *testing.T) {
	repo := newFakeDuplicateGraphRepo()
	r := repo.addReport()
	owner, _ := uuid.NewV7()
	r.CreatorID = owner
	r.Status = model.StatusClosed

	svc := NewReportService(&fakeClosableRepo{fakeDuplicateGraphRepo: repo}, nil, nil, nil, nil, nil, nil)

	err := svc.CloseReport(context.Background(), owner, r.ID)
	if !errors.Is(err, apperror.ErrBadRequest) {
		t.Fatalf("closing a closed report should fail, got %v", err)
	}
}

type fakeClosableRepo struct {
	*fakeDuplicateGraphRepo
}

func (f *fakeClosableRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	r, ok := f.reports[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.Status = status
	return nil
}
