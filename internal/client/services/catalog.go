package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/docreview/internal/client/client"
	"github.com/dmitrijs2005/docreview/internal/client/models"
)

// CatalogService reads categories and documents from the review service.
type CatalogService interface {
	Categories(ctx context.Context) ([]models.Category, error)
	Documents(ctx context.Context, category string, reviewed bool) ([]models.Document, error)
	Counts(ctx context.Context, category string) (models.Counts, error)
	Entries(ctx context.Context, documentID int64) ([]models.Entry, error)
}

type catalogService struct {
	client client.Client
}

func NewCatalogService(c client.Client) CatalogService {
	return &catalogService{client: c}
}

func (s *catalogService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.client.Categories(ctx)
}

// Documents returns the list in server order; nothing is filtered locally.
func (s *catalogService) Documents(ctx context.Context, category string, reviewed bool) ([]models.Document, error) {
	return s.client.Documents(ctx, category, reviewed)
}

// Counts fetches both full lists and counts them. The service has no count
// endpoint, so this costs two list transfers.
func (s *catalogService) Counts(ctx context.Context, category string) (models.Counts, error) {
	unreviewed, err := s.client.Documents(ctx, category, false)
	if err != nil {
		return models.Counts{}, fmt.Errorf("counting unreviewed: %w", err)
	}
	reviewed, err := s.client.Documents(ctx, category, true)
	if err != nil {
		return models.Counts{}, fmt.Errorf("counting reviewed: %w", err)
	}
	return models.Counts{Unreviewed: len(unreviewed), Reviewed: len(reviewed)}, nil
}

func (s *catalogService) Entries(ctx context.Context, documentID int64) ([]models.Entry, error) {
	return s.client.Entries(ctx, documentID)
}
