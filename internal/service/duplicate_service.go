package service

import (
	"context"
	"log"
	"strings"

	"github.com/danishsenju/fixmyhood/internal/dto"
	"github.com/danishsenju/fixmyhood/internal/model"
	"github.com/danishsenju/fixmyhood/internal/repository"
	"github.com/danishsenju/fixmyhood/pkg/geo"
)

const (
	// detectionPoolSize is how many recent reports in the category are
	// considered as duplicate candidates.
	detectionPoolSize = 50
	// minTitleLength is the trimmed title length below which detection is
	// skipped entirely (too little signal to be worth a query).
	minTitleLength = 5
	// minTokenOverlap is the number of overlapping title tokens required to
	// call two reports textually similar.
	minTokenOverlap = 2
	// maxDuplicateDistanceKm gates textual matches when both reports carry
	// coordinates.
	maxDuplicateDistanceKm = 2.0
	// maxMatches caps the short-list shown to the author.
	maxMatches = 3
)

// DuplicateQuery is a draft report as typed so far.
type DuplicateQuery struct {
	Title     string
	Category  string
	Latitude  *float64
	Longitude *float64
}

// DuplicateService surfaces likely existing reports of the same issue before
// a submission is finalized. It is advisory: it never blocks submission and
// treats every failure as "no matches".
type DuplicateService interface {
	FindPotentialDuplicates(ctx context.Context, query DuplicateQuery) []dto.DuplicateMatch
}

type duplicateService struct {
	reportRepo repository.ReportRepository
}

func NewDuplicateService(reportRepo repository.ReportRepository) DuplicateService {
	return &duplicateService{reportRepo: reportRepo}
}

func (s *duplicateService) FindPotentialDuplicates(ctx context.Context, query DuplicateQuery) []dto.DuplicateMatch {
	// Cost-saving early exit, not an error: too little text or no category.
	if len(strings.TrimSpace(query.Title)) < minTitleLength || query.Category == "" {
		return []dto.DuplicateMatch{}
	}

	pool, err := s.reportRepo.FindDetectionPool(ctx, query.Category, detectionPoolSize)
	if err != nil {
		// Detection is advisory; a failed lookup must never surface.
		log.Printf("duplicate detection query failed: %v", err)
		return []dto.DuplicateMatch{}
	}

	candidateTokens := titleTokens(query.Title)

	matches := make([]dto.DuplicateMatch, 0, maxMatches)
	for _, report := range pool {
		if !titlesSimilar(candidateTokens, titleTokens(report.Title)) {
			continue
		}
		if !withinDuplicateRange(query, report) {
			continue
		}

		// Pool recency order is preserved; no re-ranking by score.
		matches = append(matches, dto.DuplicateMatch{
			ID:       report.ID.String(),
			Title:    report.Title,
			Status:   report.Status,
			Category: report.Category,
		})
		if len(matches) == maxMatches {
			break
		}
	}

	return matches
}

// titleTokens lowercases and splits on whitespace, dropping tokens too short
// to carry signal.
func titleTokens(title string) []string {
	var tokens []string
	for _, tok := range strings.Fields(strings.ToLower(title)) {
		if len(tok) > 2 {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// titlesSimilar counts candidate tokens that substring-match any pool token
// in either direction ("pothole" matches "potholes", "st" is filtered out
// before we get here). Two or more overlapping tokens make a textual match.
// The heuristic favors recall over precision on purpose.
func titlesSimilar(candidate, existing []string) bool {
	overlap := 0
	for _, c := range candidate {
		for _, e := range existing {
			if strings.Contains(c, e) || strings.Contains(e, c) {
				overlap++
				break
			}
		}
		if overlap >= minTokenOverlap {
			return true
		}
	}
	return false
}

// withinDuplicateRange applies the spatial gate: when both sides carry
// coordinates the match must be within 2 km; otherwise text alone decides.
func withinDuplicateRange(query DuplicateQuery, report model.Report) bool {
	if query.Latitude == nil || query.Longitude == nil ||
		report.Latitude == nil || report.Longitude == nil {
		return true
	}
	dist := geo.DistanceKm(*query.Latitude, *query.Longitude, *report.Latitude, *report.Longitude)
	return dist < maxDuplicateDistanceKm
}
