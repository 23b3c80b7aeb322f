package api

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/docreview/internal/logging"
	"github.com/dmitrijs2005/docreview/internal/server/config"
	"github.com/dmitrijs2005/docreview/internal/server/store"
	"github.com/dmitrijs2005/docreview/internal/server/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, staticDir string) *httptest.Server {
	t.Helper()

	st := store.New()
	require.NoError(t, st.LoadFile(context.Background(), ""))

	cfg := &config.Config{SecretKey: "test", TokenValidity: time.Hour}
	h := NewHandler(st, users.NewService(st, cfg), logging.Nop())
	h.now = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) }

	srv := httptest.NewServer(NewRouter(h, staticDir))
	t.Cleanup(srv.Close)
	return srv
}

func login(t *testing.T, srv *httptest.Server, user, pass string) *http.Response {
	t.Helper()
	resp, err := http.PostForm(srv.URL+"/reviewer-token", url.Values{"username": {user}, "password": {pass}})
	require.NoError(t, err)
	return resp
}

func token(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp := login(t, srv, "reviewer", "reviewer")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tr tokenResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tr))
	assert.Equal(t, "bearer", tr.TokenType)
	require.NotEmpty(t, tr.AccessToken)
	return tr.AccessToken
}

func do(t *testing.T, srv *httptest.Server, tok, method, path string, body io.Reader) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, body)
	require.NoError(t, err)
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func detail(t *testing.T, resp *http.Response) string {
	t.Helper()
	var e errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	return e.Detail
}

func TestLogin_BadCredentials(t *testing.T) {
	srv := newTestServer(t, "")

	resp := login(t, srv, "reviewer", "nope")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"))
	assert.Equal(t, "Incorrect username or password", detail(t, resp))
}

func TestAuthMiddleware(t *testing.T) {
	srv := newTestServer(t, "")

	resp := do(t, srv, "", http.MethodGet, "/categories/", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Not authenticated", detail(t, resp))

	resp = do(t, srv, "garbage", http.MethodGet, "/categories/", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid authentication credentials", detail(t, resp))
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))
}

func TestCategoriesAndDocuments(t *testing.T) {
	srv := newTestServer(t, "")
	tok := token(t, srv)

	resp := do(t, srv, tok, http.MethodGet, "/categories/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cats []categoryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cats))
	assert.Equal(t, []categoryResponse{{Name: "Invoices"}, {Name: "Receipts"}}, cats)

	resp = do(t, srv, tok, http.MethodGet, "/documents/Invoices?reviewed=false", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var docs []documentResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&docs))
	require.Len(t, docs, 3)
	assert.Equal(t, int64(42), docs[0].ID)
	assert.Len(t, docs[0].Entries, 5)
	assert.Nil(t, docs[0].Entries[4].FieldValue)

	resp = do(t, srv, tok, http.MethodGet, "/documents/Invoices?reviewed=true", nil)
	docs = nil
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&docs))
	assert.Len(t, docs, 7)

	resp = do(t, srv, tok, http.MethodGet, "/documents/Unknown", nil)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(raw))

	resp = do(t, srv, tok, http.MethodGet, "/documents/Invoices?reviewed=maybe", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestEntries(t *testing.T) {
	srv := newTestServer(t, "")
	tok := token(t, srv)

	resp := do(t, srv, tok, http.MethodGet, "/document/42/entries", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var entries []entryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entries))
	require.Len(t, entries, 5)
	assert.Equal(t, "Company", entries[0].FieldName)

	resp = do(t, srv, tok, http.MethodGet, "/document/999/entries", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Document not found", detail(t, resp))
}

func TestUpdate(t *testing.T) {
	srv := newTestServer(t, "")
	tok := token(t, srv)

	resp := do(t, srv, tok, http.MethodPut, "/review/document/42/update", strings.NewReader(`{"Company":"Acme Corporation"}`))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var ur struct {
		Message        string `json:"message"`
		UpdatedContent struct {
			Data map[string]*string `json:"data"`
		} `json:"updated_content"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ur))
	assert.Equal(t, "Fields updated successfully", ur.Message)
	assert.Equal(t, "Acme Corporation", *ur.UpdatedContent.Data["Company"])

	resp = do(t, srv, tok, http.MethodGet, "/documents/Invoices?reviewed=true", nil)
	var docs []documentResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&docs))
	assert.Len(t, docs, 8)

	resp = do(t, srv, tok, http.MethodPut, "/review/document/42/update", strings.NewReader(`[1,2]`))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = do(t, srv, tok, http.MethodPut, "/review/document/999/update", strings.NewReader(`{}`))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, srv, tok, http.MethodGet, "/review/document/42/update", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestDownloadCategory(t *testing.T) {
	srv := newTestServer(t, "")
	tok := token(t, srv)

	resp := do(t, srv, tok, http.MethodGet, "/download-category/Invoices", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/zip", resp.Header.Get("Content-Type"))

	_, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "Invoices_reviewed_20240506_070809.zip", params["filename"])

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Len(t, zr.File, 7)

	resp = do(t, srv, tok, http.MethodGet, "/download-category/Receipts", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No reviewed documents found in this category", detail(t, resp))

	resp = do(t, srv, tok, http.MethodGet, "/download-category/Nope", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Category not found", detail(t, resp))
}

func TestStaticAndNotFound(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "invoice_042.png"), []byte("png"), 0o600))
	srv := newTestServer(t, dir)

	resp := do(t, srv, "", http.MethodGet, "/static/invoice_042.png", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "png", string(body))

	resp = do(t, srv, "", http.MethodGet, "/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Not Found", detail(t, resp))
}

func TestUserFromContext(t *testing.T) {
	assert.Empty(t, UserFromContext(context.Background()))
	ctx := context.WithValue(context.Background(), userKey, "reviewer")
	assert.Equal(t, "reviewer", UserFromContext(ctx))
}
