package store

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
)

// ReviewedArchive zips the field data of every reviewed document in category
// as json_files/<file stem>.json.
func (s *Store) ReviewedArchive(ctx context.Context, category string) ([]byte, error) {
	s.mu.RLock()
	var (
		known    bool
		reviewed []Document
	)
	for _, d := range s.docs {
		if d.Category != category {
			continue
		}
		known = true
		if d.IsReviewed {
			reviewed = append(reviewed, d.clone())
		}
	}
	s.mu.RUnlock()

	if !known {
		return nil, ErrCategoryNotFound
	}
	if len(reviewed) == 0 {
		return nil, ErrNoReviewed
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, d := range reviewed {
		data, err := FieldsJSON(d.Fields)
		if err != nil {
			return nil, err
		}
		w, err := zw.Create("json_files/" + stem(d.FileName) + ".json")
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// FieldsJSON renders fields as an indented JSON object in field order.
func FieldsJSON(fields []Field) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "    "); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func stem(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
