package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/docreview/internal/client/models"
	"github.com/dmitrijs2005/docreview/internal/logging"
	"github.com/google/uuid"
)

// RequestIDHeader carries a per-request id for correlating client and
// server logs.
const RequestIDHeader = "X-Request-ID"

// HTTPClient talks to the review service over HTTP/JSON.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	log     logging.Logger

	mu          sync.RWMutex
	accessToken string
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(baseURL string, timeout time.Duration, log logging.Logger) *HTTPClient {
	if log == nil {
		log = logging.Nop()
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

func (c *HTTPClient) SetAccessToken(token string) {
	c.mu.Lock()
	c.accessToken = token
	c.mu.Unlock()
}

func (c *HTTPClient) ClearAccessToken() { c.SetAccessToken("") }

func (c *HTTPClient) HasAccessToken() bool { return c.token() != "" }

func (c *HTTPClient) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges credentials for an access token. The token is kept for
// subsequent calls and also returned so the caller can persist it.
func (c *HTTPClient) Login(ctx context.Context, username string, password []byte) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", string(password))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/reviewer-token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.send(req, "login")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return "", &AuthError{Status: resp.StatusCode, Message: detailOf(body)}
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("decoding token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", &AuthError{Status: resp.StatusCode, Message: "empty access token"}
	}

	c.SetAccessToken(tr.AccessToken)
	return tr.AccessToken, nil
}

func (c *HTTPClient) Categories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := c.getJSON(ctx, "categories", "/categories/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Documents(ctx context.Context, category string, reviewed bool) ([]models.Document, error) {
	path := "/documents/" + url.PathEscape(category) + "?reviewed=" + strconv.FormatBool(reviewed)
	var out []models.Document
	if err := c.getJSON(ctx, "documents", path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Entries(ctx context.Context, documentID int64) ([]models.Entry, error) {
	path := fmt.Sprintf("/document/%d/entries", documentID)
	var out []models.Entry
	if err := c.getJSON(ctx, "entries", path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateFields sends every changed field of one document in a single PUT.
func (c *HTTPClient) UpdateFields(ctx context.Context, documentID int64, fields map[string]string) (*models.UpdateResult, error) {
	body, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	path := fmt.Sprintf("/review/document/%d/update", documentID)

	resp, err := c.authorized(ctx, "update", http.MethodPut, path, bytes.NewReader(body), "application/json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out models.UpdateResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding update response: %w", err)
	}
	return &out, nil
}

// DownloadCategory starts the export of a category's reviewed documents.
func (c *HTTPClient) DownloadCategory(ctx context.Context, category string) (*Download, error) {
	token := c.token()
	if token == "" {
		return nil, ErrNoSession
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/download-category/"+url.PathEscape(category), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.send(req, "download")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return nil, &DownloadError{Status: resp.StatusCode, Detail: jsonDetail(body)}
	}

	return &Download{
		FileName: attachmentName(resp.Header.Get("Content-Disposition")),
		Body:     resp.Body,
	}, nil
}

// FetchImage downloads a document image. Relative URLs are resolved
// against the service base URL; the bearer token is only sent to the
// service host.
func (c *HTTPClient) FetchImage(ctx context.Context, imageURL string) (io.ReadCloser, error) {
	base, err := url.Parse(c.baseURL + "/")
	if err != nil {
		return nil, err
	}
	ref, err := url.Parse(imageURL)
	if err != nil {
		return nil, fmt.Errorf("parsing image url: %w", err)
	}
	target := base.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}
	if token := c.token(); token != "" && target.Host == base.Host {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.send(req, "image")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		return nil, statusError("image", resp)
	}
	return resp.Body, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, op, path string, out any) error {
	resp, err := c.authorized(ctx, op, http.MethodGet, path, nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", op, err)
	}
	return nil
}

// authorized performs a request that needs the session token and turns
// any non-2xx reply into a NetworkError.
func (c *HTTPClient) authorized(ctx context.Context, op, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	token := c.token()
	if token == "" {
		return nil, ErrNoSession
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.send(req, op)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		return nil, statusError(op, resp)
	}
	return resp, nil
}

func (c *HTTPClient) send(req *http.Request, op string) (*http.Response, error) {
	id := uuid.NewString()
	req.Header.Set(RequestIDHeader, id)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug(req.Context(), "request failed",
			"op", op, "method", req.Method, "path", req.URL.Path, "request_id", id, "error", err)
		return nil, &NetworkError{Op: op, Err: ErrUnavailable, Detail: err.Error()}
	}

	c.log.Debug(req.Context(), "request done",
		"op", op, "method", req.Method, "path", req.URL.Path,
		"status", resp.StatusCode, "duration", time.Since(start), "request_id", id)
	return resp, nil
}

func statusError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	return &NetworkError{
		Op:     op,
		Status: resp.StatusCode,
		Detail: detailOf(body),
		Err:    mapStatus(resp.StatusCode),
	}
}

// jsonDetail returns the "detail" string of a JSON error body, or "".
func jsonDetail(body []byte) string {
	var payload struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if s, ok := payload.Detail.(string); ok {
		return s
	}
	return ""
}

// detailOf prefers the JSON "detail" message and falls back to the raw body.
func detailOf(body []byte) string {
	if d := jsonDetail(body); d != "" {
		return d
	}
	return strings.TrimSpace(string(body))
}

func attachmentName(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return params["filename"]
}
