package service

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/danishsenju/fixmyhood/internal/model"
	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

const reportIndexName = "reports"

// SearchService keeps the Meilisearch report index in sync and serves
// full-text feed search. Indexing failures are logged, never fatal: search
// lags behind rather than blocking writes.
type SearchService interface {
	IndexReport(report *model.Report) error
	DeleteReport(id string) error
	SearchReportIDs(query string, category, status string, limit int) ([]uuid.UUID, error)
}

type searchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

type reportDocument struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Status      string `json:"status"`
	CreatedAt   int64  `json:"created_at"`
}

func NewSearchService(client meilisearch.ServiceManager) SearchService {
	s := &searchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndex()
	return s
}

func (s *searchService) initIndex() {
	if s.client == nil {
		return
	}

	if _, err := s.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        reportIndexName,
		PrimaryKey: "id",
	}); err != nil {
		log.Printf("failed to ensure meilisearch index %q: %v", reportIndexName, err)
	}

	index := s.client.Index(reportIndexName)
	if _, err := index.UpdateFilterableAttributes(&[]interface{}{"category", "status"}); err != nil {
		log.Printf("failed to configure filterable attributes: %v", err)
	}
	if _, err := index.UpdateSortableAttributes(&[]string{"created_at"}); err != nil {
		log.Printf("failed to configure sortable attributes: %v", err)
	}
}

func (s *searchService) IndexReport(report *model.Report) error {
	if s.client == nil {
		return nil
	}

	// Hidden reports and duplicates stay out of the index entirely.
	if report.IsHidden || report.DuplicateOf != nil {
		return s.DeleteReport(report.ID.String())
	}

	doc := reportDocument{
		ID:          report.ID.String(),
		Title:       s.sanitizer.Sanitize(report.Title),
		Description: s.sanitizer.Sanitize(report.Description),
		Category:    report.Category,
		Status:      report.Status,
		CreatedAt:   report.CreatedAt.Unix(),
	}

	_, err := s.client.Index(reportIndexName).AddDocuments([]reportDocument{doc}, nil)
	return err
}

func (s *searchService) DeleteReport(id string) error {
	if s.client == nil {
		return nil
	}
	_, err := s.client.Index(reportIndexName).DeleteDocument(id)
	return err
}

func (s *searchService) SearchReportIDs(query string, category, status string, limit int) ([]uuid.UUID, error) {
	if s.client == nil {
		return nil, nil
	}

	req := &meilisearch.SearchRequest{
		Limit: int64(limit),
		Sort:  []string{"created_at:desc"},
	}

	var filters []string
	if category != "" {
		filters = append(filters, fmt.Sprintf("category = %q", category))
	}
	if status != "" {
		filters = append(filters, fmt.Sprintf("status = %q", status))
	}
	if len(filters) > 0 {
		req.Filter = filters
	}

	resp, err := s.client.Index(reportIndexName).Search(query, req)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		raw, ok := hit["id"]
		if !ok {
			continue
		}
		var idStr string
		if err := json.Unmarshal(raw, &idStr); err != nil {
			continue
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
