package review

import "github.com/dmitrijs2005/docreview/internal/client/models"

// ListContext is the document list of the selected category and tab.
// Index is -1 when the list is empty and within [0, len-1] otherwise.
type ListContext struct {
	Category  string            `json:"category"`
	Reviewed  bool              `json:"reviewed"`
	Documents []models.Document `json:"documents"`
	Index     int               `json:"index"`
}

// NewListContext returns the Empty state with no category.
func NewListContext() ListContext {
	return ListContext{Index: -1}
}

// Reset replaces the list and moves to Viewing(0), or Empty when docs is empty.
func (l *ListContext) Reset(category string, reviewed bool, docs []models.Document) {
	l.Category = category
	l.Reviewed = reviewed
	l.Documents = docs
	l.Index = -1
	if len(docs) > 0 {
		l.Index = 0
	}
}

func (l *ListContext) Empty() bool { return l.Index < 0 || len(l.Documents) == 0 }

func (l *ListContext) CanPrev() bool { return !l.Empty() && l.Index > 0 }

func (l *ListContext) CanNext() bool { return !l.Empty() && l.Index < len(l.Documents)-1 }

// Next advances one document; it reports false and does nothing at the end.
func (l *ListContext) Next() bool {
	if !l.CanNext() {
		return false
	}
	l.Index++
	return true
}

// Prev steps back one document; it reports false and does nothing at the start.
func (l *ListContext) Prev() bool {
	if !l.CanPrev() {
		return false
	}
	l.Index--
	return true
}

// Current returns the selected document.
func (l *ListContext) Current() (models.Document, bool) {
	if l.Empty() {
		return models.Document{}, false
	}
	return l.Documents[l.Index], true
}

// IndexOf returns the position of the document with id, or -1.
func (l *ListContext) IndexOf(id int64) int {
	for i, d := range l.Documents {
		if d.ID == id {
			return i
		}
	}
	return -1
}
