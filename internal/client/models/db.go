// Package models defines the data exchanged with the review service.
package models

import (
	"bytes"
	"encoding/json"
)

// Category is a named group of documents.
type Category struct {
	Name string `json:"name"`
}

// Entry is one extracted key/value pair of a document.
// FieldValue is nil when the service sent null.
type Entry struct {
	FieldName  string  `json:"field_name"`
	FieldValue *string `json:"field_value"`
}

// Value returns the field value with null normalized to "".
func (e Entry) Value() string {
	if e.FieldValue == nil {
		return ""
	}
	return *e.FieldValue
}

// UnmarshalJSON accepts a string, null or any other JSON scalar as the
// field value. Non-string scalars are kept as their literal text.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw struct {
		FieldName  string          `json:"field_name"`
		FieldValue json.RawMessage `json:"field_value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.FieldName = raw.FieldName
	e.FieldValue = nil

	v := bytes.TrimSpace(raw.FieldValue)
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return nil
	}
	if v[0] == '"' {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return err
		}
		e.FieldValue = &s
		return nil
	}
	s := string(v)
	e.FieldValue = &s
	return nil
}

// StringPtr is a helper for building entries in code.
func StringPtr(s string) *string { return &s }

// Document is a scanned document with its extracted entries.
type Document struct {
	ID         int64   `json:"id"`
	FileName   string  `json:"file_name"`
	ImageURL   string  `json:"image_url"`
	Entries    []Entry `json:"entries"`
	IsReviewed bool    `json:"is_reviewed"`
}

// Counts holds the number of documents per review state of a category.
type Counts struct {
	Unreviewed int `json:"unreviewed"`
	Reviewed   int `json:"reviewed"`
}

// UpdateResult is the service reply to a field update.
type UpdateResult struct {
	Message        string          `json:"message"`
	UpdatedContent json.RawMessage `json:"updated_content,omitempty"`
}
