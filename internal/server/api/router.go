// Package api exposes the stub review service over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/docreview/internal/logging"
	"github.com/dmitrijs2005/docreview/internal/server/store"
	"github.com/gorilla/mux"
)

// Store is the document repository the handlers read and update.
type Store interface {
	Categories(ctx context.Context) []string
	Documents(ctx context.Context, category string, reviewed bool) []store.Document
	Document(ctx context.Context, id int64) (store.Document, error)
	Update(ctx context.Context, id int64, fields map[string]string) (store.Document, error)
	ReviewedArchive(ctx context.Context, category string) ([]byte, error)
}

// Authenticator issues and verifies reviewer tokens.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
	Authenticate(ctx context.Context, token string) (string, error)
}

type Handler struct {
	store  Store
	auth   Authenticator
	logger logging.Logger
	now    func() time.Time
}

func NewHandler(s Store, a Authenticator, l logging.Logger) *Handler {
	return &Handler{store: s, auth: a, logger: l, now: time.Now}
}

// NewRouter wires every endpoint of the review API. When staticDir is not
// empty its files are served under /static/.
func NewRouter(h *Handler, staticDir string) *mux.Router {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware, h.loggingMiddleware)

	r.HandleFunc("/reviewer-token", h.Login).Methods("POST")

	if staticDir != "" {
		r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	}

	api := r.NewRoute().Subrouter()
	api.Use(h.authMiddleware)
	api.HandleFunc("/categories/", h.Categories).Methods("GET")
	api.HandleFunc("/documents/{category}", h.Documents).Methods("GET")
	api.HandleFunc("/document/{id:[0-9]+}/entries", h.Entries).Methods("GET")
	api.HandleFunc("/review/document/{id:[0-9]+}/update", h.Update).Methods("PUT")
	api.HandleFunc("/download-category/{category}", h.DownloadCategory).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	return r
}
