package services

import (
	"log"
	"sort"
	"strings"

	"fleetdocs/internal/database"
	"fleetdocs/internal/models"

	"gorm.io/gorm"
)

type DocumentSearchResult struct {
	Document models.VehicleDocument `json:"document"`
	Score    float64                `json:"score"`
}

type DocumentSearchService struct {
	db *gorm.DB
}

func NewDocumentSearchService() *DocumentSearchService {
	return &DocumentSearchService{
		db: database.GetDB(),
	}
}

// SearchDocuments searches documents by document number, vehicle name or
// document type name, ranking exact document-number hits first.
func (s *DocumentSearchService) SearchDocuments(searchTerm string, limit int, offset int) ([]models.VehicleDocument, error) {
	if strings.TrimSpace(searchTerm) == "" {
		return []models.VehicleDocument{}, nil
	}

	cleanTerm := strings.TrimSpace(searchTerm)

	var results []DocumentSearchResult

	// Strategy 1: exact document number (highest priority)
	exactResults, err := s.exactSearch(cleanTerm)
	if err != nil {
		log.Printf("Exact search error: %v", err)
	} else {
		results = append(results, exactResults...)
	}

	// Strategy 2: partial matching across document no, vehicle and type names
	partialResults, err := s.partialSearch(cleanTerm, limit)
	if err != nil {
		log.Printf("Partial search error: %v", err)
	} else {
		results = append(results, partialResults...)
	}

	return dedupeAndPage(results, limit, offset), nil
}

func (s *DocumentSearchService) exactSearch(term string) ([]DocumentSearchResult, error) {
	var docs []models.VehicleDocument
	err := s.db.Preload("Vehicle").Preload("DocumentType").
		Where("document_no = ?", term).
		Find(&docs).Error
	if err != nil {
		return nil, err
	}

	results := make([]DocumentSearchResult, 0, len(docs))
	for _, doc := range docs {
		results = append(results, DocumentSearchResult{Document: doc, Score: 1.0})
	}
	return results, nil
}

func (s *DocumentSearchService) partialSearch(term string, limit int) ([]DocumentSearchResult, error) {
	pattern := "%" + term + "%"

	var docs []models.VehicleDocument
	err := s.db.Preload("Vehicle").Preload("DocumentType").
		Joins("JOIN vehicle ON vehicle.id = vehicle_document.vehicle_id").
		Joins("JOIN document_type ON document_type.id = vehicle_document.document_type_id").
		Where("vehicle_document.document_no ILIKE ? OR vehicle.name ILIKE ? OR document_type.name ILIKE ?",
			pattern, pattern, pattern).
		Order("vehicle_document.expiry_date").
		Limit(limit).
		Find(&docs).Error
	if err != nil {
		return nil, err
	}

	results := make([]DocumentSearchResult, 0, len(docs))
	for _, doc := range docs {
		results = append(results, DocumentSearchResult{Document: doc, Score: 0.5})
	}
	return results, nil
}

// dedupeAndPage keeps the best score per document, orders by score then by
// soonest expiry, and applies paging.
func dedupeAndPage(results []DocumentSearchResult, limit, offset int) []models.VehicleDocument {
	best := make(map[uint]DocumentSearchResult)
	for _, r := range results {
		if existing, ok := best[r.Document.ID]; !ok || r.Score > existing.Score {
			best[r.Document.ID] = r
		}
	}

	merged := make([]DocumentSearchResult, 0, len(best))
	for _, r := range best {
		merged = append(merged, r)
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Score != merged[j].Score {
			return merged[i].Score > merged[j].Score
		}
		return merged[i].Document.ExpiryDate.Before(merged[j].Document.ExpiryDate)
	})

	if offset >= len(merged) {
		return []models.VehicleDocument{}
	}
	merged = merged[offset:]
	if limit > 0 && limit < len(merged) {
		merged = merged[:limit]
	}

	docs := make([]models.VehicleDocument, 0, len(merged))
	for _, r := range merged {
		docs = append(docs, r.Document)
	}
	return docs
}
