// Package store keeps the stub service's reviewers and documents in memory.
package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/dmitrijs2005/docreview/internal/server/auth"
)

var (
	ErrNotFound         = errors.New("document not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrNoReviewed       = errors.New("no reviewed documents found in this category")
	ErrUserNotFound     = errors.New("user not found")
	ErrUserExists       = errors.New("user already exists")
)

// Field is one extracted key/value pair. A nil Value is a null extraction.
type Field struct {
	Name  string  `json:"name" yaml:"name"`
	Value *string `json:"value" yaml:"value"`
}

// Document is a stored document with its extracted fields in extraction order.
type Document struct {
	ID         int64   `json:"id" yaml:"id"`
	Category   string  `json:"category" yaml:"category"`
	FileName   string  `json:"file_name" yaml:"file_name"`
	ImageURL   string  `json:"image_url" yaml:"image_url"`
	Fields     []Field `json:"fields" yaml:"fields"`
	IsReviewed bool    `json:"is_reviewed" yaml:"reviewed"`
}

func (d Document) clone() Document {
	d.Fields = append([]Field(nil), d.Fields...)
	for i, f := range d.Fields {
		if f.Value != nil {
			v := *f.Value
			d.Fields[i].Value = &v
		}
	}
	return d
}

// Store is a concurrency-safe in-memory repository. Documents keep insertion
// order, which is the order every listing returns.
type Store struct {
	mu        sync.RWMutex
	reviewers map[string]string
	docs      []Document
	byID      map[int64]int
	nextID    int64
}

func New() *Store {
	return &Store{
		reviewers: make(map[string]string),
		byID:      make(map[int64]int),
		nextID:    1,
	}
}

// AddReviewer registers a reviewer account with a bcrypt-hashed password.
func (s *Store) AddReviewer(ctx context.Context, username, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reviewers[username]; ok {
		return ErrUserExists
	}
	s.reviewers[username] = hash
	return nil
}

// PasswordHash returns the stored hash for username.
func (s *Store) PasswordHash(ctx context.Context, username string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hash, ok := s.reviewers[username]
	if !ok {
		return "", ErrUserNotFound
	}
	return hash, nil
}

// Add stores doc and returns its id. A zero ID is assigned the next free one;
// an explicit ID replaces any document with the same id.
func (s *Store) Add(ctx context.Context, doc Document) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.ID == 0 {
		doc.ID = s.nextID
	}
	if doc.ID >= s.nextID {
		s.nextID = doc.ID + 1
	}

	doc = doc.clone()
	if i, ok := s.byID[doc.ID]; ok {
		s.docs[i] = doc
		return doc.ID
	}
	s.byID[doc.ID] = len(s.docs)
	s.docs = append(s.docs, doc)
	return doc.ID
}

// Categories returns the distinct categories in first-seen order.
func (s *Store) Categories(ctx context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for _, d := range s.docs {
		if !seen[d.Category] {
			seen[d.Category] = true
			out = append(out, d.Category)
		}
	}
	return out
}

// Documents lists the documents of category whose review flag equals reviewed.
func (s *Store) Documents(ctx context.Context, category string, reviewed bool) []Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Document, 0)
	for _, d := range s.docs {
		if d.Category == category && d.IsReviewed == reviewed {
			out = append(out, d.clone())
		}
	}
	return out
}

func (s *Store) Document(ctx context.Context, id int64) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byID[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return s.docs[i].clone(), nil
}

// Update merges fields into the document and marks it reviewed. Existing
// fields keep their position; new ones are appended in name order.
func (s *Store) Update(ctx context.Context, id int64, fields map[string]string) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.byID[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	doc := &s.docs[i]

	pending := make(map[string]string, len(fields))
	for k, v := range fields {
		pending[k] = v
	}
	for j := range doc.Fields {
		if v, ok := pending[doc.Fields[j].Name]; ok {
			doc.Fields[j].Value = &v
			delete(pending, doc.Fields[j].Name)
		}
	}

	names := make([]string, 0, len(pending))
	for k := range pending {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		v := pending[k]
		doc.Fields = append(doc.Fields, Field{Name: k, Value: &v})
	}

	doc.IsReviewed = true
	return doc.clone(), nil
}
