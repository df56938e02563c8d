package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/danishsenju/fixmyhood/internal/model"
	"github.com/danishsenju/fixmyhood/internal/repository"
	"github.com/google/uuid"
)

type fakeDetectionRepo struct {
	repository.ReportRepository
	pool  []model.Report
	err   error
	calls int
}

func (f *fakeDetectionRepo) FindDetectionPool(ctx context.Context, category string, limit int) ([]model.Report, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.pool) > limit {
		return f.pool[:limit], nil
	}
	return f.pool, nil
}

func poolReport(title string, lat, lng *float64) model.Report {
	id, _ := uuid.NewV7()
	return model.Report{
		ID:        id,
		Title:     title,
		Category:  model.CategoryInfrastructure,
		Status:    model.StatusOpen,
		Latitude:  lat,
		Longitude: lng,
	}
}

func f64(v float64) *float64 { return &v }

func TestFindPotentialDuplicatesShortTitleSkipsQuery(t *testing.T) {
	repo := &fakeDetectionRepo{}
	svc := NewDuplicateService(repo)

	for _, title := range []string{"", "Pit", "   abcd   "} {
		matches := svc.FindPotentialDuplicates(context.Background(), DuplicateQuery{
			Title:    title,
			Category: model.CategoryInfrastructure,
		})
		if len(matches) != 0 {
			t.Errorf("title %q: expected no matches, got %d", title, len(matches))
		}
	}

	if repo.calls != 0 {
		t.Errorf("expected no pool queries for short titles, got %d", repo.calls)
	}
}

func TestFindPotentialDuplicatesEmptyCategorySkipsQuery(t *testing.T) {
	repo := &fakeDetectionRepo{}
	svc := NewDuplicateService(repo)

	matches := svc.FindPotentialDuplicates(context.Background(), DuplicateQuery{
		Title: "Large pothole on Main Street",
	})
	if len(matches) != 0 {
		t.Fatalf("expected no matches, got %d", len(matches))
	}
	if repo.calls != 0 {
		t.Fatalf("expected no pool query without a category, got %d", repo.calls)
	}
}

func TestFindPotentialDuplicatesTokenOverlap(t *testing.T) {
	repo := &fakeDetectionRepo{pool: []model.Report{
		poolReport("Pothole near Main St intersection", nil, nil),
		poolReport("Broken swing in the park", nil, nil),
	}}
	svc := NewDuplicateService(repo)

	matches := svc.FindPotentialDuplicates(context.Background(), DuplicateQuery{
		Title:    "Large pothole on Main Street",
		Category: model.CategoryInfrastructure,
	})

	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Title != "Pothole near Main St intersection" {
		t.Errorf("unexpected match: %q", matches[0].Title)
	}
}

func TestFindPotentialDuplicatesSingleTokenOverlapIsNotEnough(t *testing.T) {
	repo := &fakeDetectionRepo{pool: []model.Report{
		poolReport("Pothole by the school", nil, nil),
	}}
	svc := NewDuplicateService(repo)

	// Only "pothole" overlaps; one shared token is below the threshold.
	matches := svc.FindPotentialDuplicates(context.Background(), DuplicateQuery{
		Title:    "Pothole on Elm Avenue",
		Category: model.CategoryInfrastructure,
	})
	if len(matches) != 0 {
		t.Fatalf("expected no matches on single-token overlap, got %d", len(matches))
	}
}

func TestFindPotentialDuplicatesSpatialGate(t *testing.T) {
	// Roughly 10 km apart.
	near := poolReport("Pothole near Main St", f64(52.5200), f64(13.4050))
	far := poolReport("Pothole on Main St corner", f64(52.6100), f64(13.4050))

	repo := &fakeDetectionRepo{pool: []model.Report{near, far}}
	svc := NewDuplicateService(repo)

	matches := svc.FindPotentialDuplicates(context.Background(), DuplicateQuery{
		Title:     "Large pothole on Main Street",
		Category:  model.CategoryInfrastructure,
		Latitude:  f64(52.5201),
		Longitude: f64(13.4051),
	})

	if len(matches) != 1 {
		t.Fatalf("expected 1 match after spatial gate, got %d", len(matches))
	}
	if matches[0].ID != near.ID.String() {
		t.Errorf("expected nearby report to match, got %q", matches[0].Title)
	}
}

func TestFindPotentialDuplicatesMissingCoordinatesSkipGate(t *testing.T) {
	noCoords := poolReport("Pothole near Main St", nil, nil)
	repo := &fakeDetectionRepo{pool: []model.Report{noCoords}}
	svc := NewDuplicateService(repo)

	// Query has coordinates, candidate does not: text alone decides.
	matches := svc.FindPotentialDuplicates(context.Background(), DuplicateQuery{
		Title:     "Large pothole on Main Street",
		Category:  model.CategoryInfrastructure,
		Latitude:  f64(52.5200),
		Longitude: f64(13.4050),
	})
	if len(matches) != 1 {
		t.Fatalf("expected coordinate-less candidate to pass, got %d matches", len(matches))
	}
}

func TestFindPotentialDuplicatesTruncatesPreservingOrder(t *testing.T) {
	var pool []model.Report
	for i := 0; i < 5; i++ {
		pool = append(pool, poolReport(fmt.Sprintf("Pothole on Main Street %d", i), nil, nil))
	}
	repo := &fakeDetectionRepo{pool: pool}
	svc := NewDuplicateService(repo)

	matches := svc.FindPotentialDuplicates(context.Background(), DuplicateQuery{
		Title:    "Large pothole on Main Street",
		Category: model.CategoryInfrastructure,
	})

	if len(matches) != 3 {
		t.Fatalf("expected matches capped at 3, got %d", len(matches))
	}
	for i, m := range matches {
		if m.ID != pool[i].ID.String() {
			t.Errorf("match %d out of order: got %q want %q", i, m.Title, pool[i].Title)
		}
	}
}

func TestFindPotentialDuplicatesQueryErrorYieldsEmpty(t *testing.T) {
	repo := &fakeDetectionRepo{err: errors.New("connection refused")}
	svc := NewDuplicateService(repo)

	matches := svc.FindPotentialDuplicates(context.Background(), DuplicateQuery{
		Title:    "Large pothole on Main Street",
		Category: model.CategoryInfrastructure,
	})
	if matches == nil || len(matches) != 0 {
		t.Fatalf("expected empty non-nil match list on error, got %#v", matches)
	}
}
