package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/docreview/internal/client/client"
	"github.com/dmitrijs2005/docreview/internal/client/models"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// ---- helpers ----

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE metadata (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
`)
	require.NoError(t, err)
	return db
}

func getMeta(t *testing.T, db *sql.DB, k string) []byte {
	t.Helper()
	var v []byte
	err := db.QueryRow(`SELECT value FROM metadata WHERE key=?`, k).Scan(&v)
	if err == sql.ErrNoRows {
		return nil
	}
	require.NoError(t, err)
	return v
}

// ---- fake client ----

type fakeClient struct {
	Token string

	LoginRet string
	LoginErr error

	CategoriesRet []models.Category
	CategoriesErr error

	DocumentsRet map[bool][]models.Document
	DocumentsErr map[bool]error

	EntriesRet []models.Entry
	EntriesErr error

	UpdateRet *models.UpdateResult
	UpdateErr error

	DownloadName string
	DownloadBody string
	DownloadErr  error

	LastLoginUser     string
	LastLoginPassword []byte
	LastDocuments     []string
	LastUpdateID      int64
	LastUpdateFields  map[string]string
	UpdateCalls       int
	LastDownload      string
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) Login(ctx context.Context, username string, password []byte) (string, error) {
	f.LastLoginUser = username
	f.LastLoginPassword = password
	if f.LoginErr != nil {
		return "", f.LoginErr
	}
	f.Token = f.LoginRet
	return f.LoginRet, nil
}

func (f *fakeClient) SetAccessToken(token string) { f.Token = token }
func (f *fakeClient) ClearAccessToken()           { f.Token = "" }
func (f *fakeClient) HasAccessToken() bool        { return f.Token != "" }

func (f *fakeClient) Categories(ctx context.Context) ([]models.Category, error) {
	return f.CategoriesRet, f.CategoriesErr
}

func (f *fakeClient) Documents(ctx context.Context, category string, reviewed bool) ([]models.Document, error) {
	f.LastDocuments = append(f.LastDocuments, fmt.Sprintf("%s:%t", category, reviewed))
	if err := f.DocumentsErr[reviewed]; err != nil {
		return nil, err
	}
	return f.DocumentsRet[reviewed], nil
}

func (f *fakeClient) Entries(ctx context.Context, documentID int64) ([]models.Entry, error) {
	return f.EntriesRet, f.EntriesErr
}

func (f *fakeClient) UpdateFields(ctx context.Context, documentID int64, fields map[string]string) (*models.UpdateResult, error) {
	f.UpdateCalls++
	f.LastUpdateID = documentID
	f.LastUpdateFields = fields
	return f.UpdateRet, f.UpdateErr
}

func (f *fakeClient) DownloadCategory(ctx context.Context, category string) (*client.Download, error) {
	f.LastDownload = category
	if f.DownloadErr != nil {
		return nil, f.DownloadErr
	}
	return &client.Download{FileName: f.DownloadName, Body: io.NopCloser(strings.NewReader(f.DownloadBody))}, nil
}

func (f *fakeClient) FetchImage(ctx context.Context, imageURL string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}
