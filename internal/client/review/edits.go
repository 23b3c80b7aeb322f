package review

import "github.com/dmitrijs2005/docreview/internal/client/models"

// Snapshot maps field name to its value when the document was shown.
type Snapshot map[string]string

// TakeSnapshot records every entry of doc, null values as "".
func TakeSnapshot(doc models.Document) Snapshot {
	s := make(Snapshot, len(doc.Entries))
	for _, e := range doc.Entries {
		s[e.FieldName] = e.Value()
	}
	return s
}

// snapshotOf copies a value map into a new Snapshot.
func snapshotOf(values map[string]string) Snapshot {
	s := make(Snapshot, len(values))
	for k, v := range values {
		s[k] = v
	}
	return s
}

// ComputeChanges returns the fields of current whose value differs from the
// snapshot. The result is never nil.
func ComputeChanges(current map[string]string, snapshot Snapshot) map[string]string {
	changes := make(map[string]string)
	for field, value := range current {
		if orig, ok := snapshot[field]; !ok || orig != value {
			changes[field] = value
		}
	}
	return changes
}

// Tracker is the edit buffer of the displayed document, keyed by field name.
type Tracker struct {
	DocumentID int64             `json:"document_id"`
	Fields     []string          `json:"fields"`
	Original   Snapshot          `json:"original"`
	Current    map[string]string `json:"current"`
}

// NewTracker starts tracking doc with no pending edits.
func NewTracker(doc models.Document) *Tracker {
	t := &Tracker{
		DocumentID: doc.ID,
		Fields:     make([]string, 0, len(doc.Entries)),
		Original:   TakeSnapshot(doc),
		Current:    make(map[string]string, len(doc.Entries)),
	}
	for _, e := range doc.Entries {
		if _, seen := t.Current[e.FieldName]; seen {
			continue
		}
		t.Fields = append(t.Fields, e.FieldName)
		t.Current[e.FieldName] = t.Original[e.FieldName]
	}
	return t
}

func (t *Tracker) Has(field string) bool {
	_, ok := t.Original[field]
	return ok
}

// Set changes the buffered value of field.
func (t *Tracker) Set(field, value string) error {
	if !t.Has(field) {
		return ErrUnknownField
	}
	t.Current[field] = value
	return nil
}

// Value returns the buffered value of field.
func (t *Tracker) Value(field string) string { return t.Current[field] }

func (t *Tracker) Revert(field string) error {
	if !t.Has(field) {
		return ErrUnknownField
	}
	t.Current[field] = t.Original[field]
	return nil
}

func (t *Tracker) RevertAll() {
	for f, v := range t.Original {
		t.Current[f] = v
	}
}

// Changes returns only the modified fields.
func (t *Tracker) Changes() map[string]string {
	return ComputeChanges(t.Current, t.Original)
}

func (t *Tracker) Dirty() bool { return len(t.Changes()) > 0 }
