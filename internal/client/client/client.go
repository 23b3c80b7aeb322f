package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/docreview/internal/client/models"
)

// Client is the remote contract of the review service.
type Client interface {
	Login(ctx context.Context, username string, password []byte) (string, error)
	SetAccessToken(token string)
	ClearAccessToken()
	HasAccessToken() bool

	Categories(ctx context.Context) ([]models.Category, error)
	Documents(ctx context.Context, category string, reviewed bool) ([]models.Document, error)
	Entries(ctx context.Context, documentID int64) ([]models.Entry, error)
	UpdateFields(ctx context.Context, documentID int64, fields map[string]string) (*models.UpdateResult, error)
	DownloadCategory(ctx context.Context, category string) (*Download, error)
	FetchImage(ctx context.Context, imageURL string) (io.ReadCloser, error)
}

// Download is an export archive stream. The caller must close Body.
type Download struct {
	FileName string
	Body     io.ReadCloser
}
