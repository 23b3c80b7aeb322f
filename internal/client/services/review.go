package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/docreview/internal/client/client"
	"github.com/dmitrijs2005/docreview/internal/client/models"
	"github.com/dmitrijs2005/docreview/internal/logging"
)

var ErrNoChanges = errors.New("no changes to save")

// ReviewService submits field corrections.
type ReviewService interface {
	Update(ctx context.Context, documentID int64, changes map[string]string) (*models.UpdateResult, error)
}

type reviewService struct {
	client client.Client
	log    logging.Logger
}

func NewReviewService(c client.Client, log logging.Logger) ReviewService {
	if log == nil {
		log = logging.Nop()
	}
	return &reviewService{client: c, log: log}
}

// Update sends all changes in one request. The server marks the document
// reviewed on success.
func (s *reviewService) Update(ctx context.Context, documentID int64, changes map[string]string) (*models.UpdateResult, error) {
	if len(changes) == 0 {
		return nil, ErrNoChanges
	}
	res, err := s.client.UpdateFields(ctx, documentID, changes)
	if err != nil {
		return nil, fmt.Errorf("updating document %d: %w", documentID, err)
	}
	s.log.Info(ctx, "document updated", "id", documentID, "fields", len(changes))
	return res, nil
}
