package store

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/docreview/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func seeded(t *testing.T) *Store {
	t.Helper()
	s := New()
	require.NoError(t, s.LoadFile(context.Background(), ""))
	return s
}

func TestLoadFile_DefaultSeed(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)

	assert.Equal(t, []string{"Invoices", "Receipts"}, s.Categories(ctx))
	assert.Len(t, s.Documents(ctx, "Invoices", false), 3)
	assert.Len(t, s.Documents(ctx, "Invoices", true), 7)

	doc, err := s.Document(ctx, 42)
	require.NoError(t, err)
	require.Len(t, doc.Fields, 5)
	assert.Equal(t, "Company", doc.Fields[0].Name)
	assert.Equal(t, "Acme Corp", *doc.Fields[0].Value)
	assert.Nil(t, doc.Fields[4].Value)

	hash, err := s.PasswordHash(ctx, "reviewer")
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(hash, "reviewer"))
}

func TestLoad_JSONSeed(t *testing.T) {
	ctx := context.Background()
	s := New()

	seed := `{"reviewers":[{"username":"ann","password":"pw"}],"documents":[{"category":"Forms","file_name":"a.png","fields":[{"name":"Name","value":"Ann"}]}]}`
	require.NoError(t, s.Load(ctx, strings.NewReader(seed)))

	docs := s.Documents(ctx, "Forms", false)
	require.Len(t, docs, 1)
	assert.Equal(t, int64(1), docs[0].ID)

	_, err := s.PasswordHash(ctx, "ann")
	require.NoError(t, err)

	err = s.Load(ctx, strings.NewReader(`{"reviewers":[{"username":"ann","password":"x"}]}`))
	require.ErrorIs(t, err, ErrUserExists)
}

func TestDocuments_OrderAndIsolation(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.Add(ctx, Document{ID: 7, Category: "A", Fields: []Field{{Name: "x", Value: str("1")}}})
	s.Add(ctx, Document{ID: 3, Category: "A"})
	s.Add(ctx, Document{Category: "B"})

	docs := s.Documents(ctx, "A", false)
	require.Len(t, docs, 2)
	assert.Equal(t, int64(7), docs[0].ID)
	assert.Equal(t, int64(3), docs[1].ID)

	*docs[0].Fields[0].Value = "changed"
	doc, err := s.Document(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "1", *doc.Fields[0].Value)

	b := s.Documents(ctx, "B", false)
	require.Len(t, b, 1)
	assert.Equal(t, int64(8), b[0].ID)

	assert.NotNil(t, s.Documents(ctx, "missing", false))
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)

	doc, err := s.Update(ctx, 42, map[string]string{"Company": "Acme Corporation", "Currency": "EUR", "Account": "1"})
	require.NoError(t, err)

	assert.True(t, doc.IsReviewed)
	require.Len(t, doc.Fields, 7)
	assert.Equal(t, "Acme Corporation", *doc.Fields[0].Value)
	assert.Equal(t, "Account", doc.Fields[5].Name)
	assert.Equal(t, "Currency", doc.Fields[6].Name)

	assert.Len(t, s.Documents(ctx, "Invoices", false), 2)
	assert.Len(t, s.Documents(ctx, "Invoices", true), 8)

	_, err = s.Update(ctx, 999, map[string]string{"a": "b"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestReviewedArchive(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)

	data, err := s.ReviewedArchive(ctx, "Invoices")
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 7)
	assert.Equal(t, "json_files/invoice_045.json", zr.File[0].Name)

	rc, err := zr.File[0].Open()
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "{\n    \"Company\": \"Umbrella\","))
	assert.Contains(t, string(body), `"Notes": null`)

	_, err = s.ReviewedArchive(ctx, "Receipts")
	require.ErrorIs(t, err, ErrNoReviewed)

	_, err = s.ReviewedArchive(ctx, "Nope")
	require.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestFieldsJSON_Empty(t *testing.T) {
	out, err := FieldsJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(out))
}
