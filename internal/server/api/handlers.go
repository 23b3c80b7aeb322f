package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/docreview/internal/server/store"
	"github.com/gorilla/mux"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type categoryResponse struct {
	Name string `json:"name"`
}

type entryResponse struct {
	FieldName  string  `json:"field_name"`
	FieldValue *string `json:"field_value"`
}

type documentResponse struct {
	ID         int64           `json:"id"`
	FileName   string          `json:"file_name"`
	ImageURL   string          `json:"image_url"`
	Entries    []entryResponse `json:"entries"`
	IsReviewed bool            `json:"is_reviewed"`
}

type updateResponse struct {
	Message        string          `json:"message"`
	UpdatedContent json.RawMessage `json:"updated_content"`
}

func entriesOf(fields []store.Field) []entryResponse {
	out := make([]entryResponse, 0, len(fields))
	for _, f := range fields {
		out = append(out, entryResponse{FieldName: f.Name, FieldValue: f.Value})
	}
	return out
}

func documentOf(d store.Document) documentResponse {
	img := d.ImageURL
	if img == "" {
		img = d.FileName
	}
	return documentResponse{
		ID:         d.ID,
		FileName:   d.FileName,
		ImageURL:   img,
		Entries:    entriesOf(d.Fields),
		IsReviewed: d.IsReviewed,
	}
}

// Login exchanges form-encoded credentials for a bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid form body")
		return
	}

	username := r.PostForm.Get("username")
	token, err := h.auth.Login(r.Context(), username, r.PostForm.Get("password"))
	if err != nil {
		h.logger.Warn(r.Context(), "login failed", "username", username)
		writeUnauthorized(w, "Incorrect username or password")
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	cats := h.store.Categories(r.Context())
	out := make([]categoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryResponse{Name: c})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) Documents(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]

	reviewed := false
	if v := r.URL.Query().Get("reviewed"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("invalid reviewed value %q", v))
			return
		}
		reviewed = b
	}

	docs := h.store.Documents(r.Context(), category, reviewed)
	out := make([]documentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, documentOf(d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) Entries(w http.ResponseWriter, r *http.Request) {
	id, ok := documentID(w, r)
	if !ok {
		return
	}

	doc, err := h.store.Document(r.Context(), id)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entriesOf(doc.Fields))
}

// Update merges the posted fields into the document and marks it reviewed.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := documentID(w, r)
	if !ok {
		return
	}

	var fields map[string]string
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "body must be a JSON object of string values")
		return
	}

	doc, err := h.store.Update(r.Context(), id, fields)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	data, err := store.FieldsJSON(doc.Fields)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error updating fields: %v", err))
		return
	}

	h.logger.Info(r.Context(), "document reviewed", "id", id, "fields", len(fields), "user", UserFromContext(r.Context()))
	writeJSON(w, http.StatusOK, updateResponse{
		Message:        "Fields updated successfully",
		UpdatedContent: json.RawMessage(`{"data":` + string(data) + `}`),
	})
}

// DownloadCategory streams a zip of the reviewed documents of a category.
func (h *Handler) DownloadCategory(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]

	data, err := h.store.ReviewedArchive(r.Context(), category)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	name := fmt.Sprintf("%s_reviewed_%s.zip", category, h.now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error(r.Context(), "write archive", "error", err)
	}
}

func documentID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid document id")
		return 0, false
	}
	return id, true
}

func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "Document not found")
	case errors.Is(err, store.ErrCategoryNotFound):
		writeError(w, http.StatusBadRequest, "Category not found")
	case errors.Is(err, store.ErrNoReviewed):
		writeError(w, http.StatusBadRequest, "No reviewed documents found in this category")
	default:
		h.logger.Error(r.Context(), "store failure", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
