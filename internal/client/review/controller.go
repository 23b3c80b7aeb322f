// Package review holds the view state of the reviewer client and the
// controller that drives it: session gating, category and list navigation,
// the edit buffer of the shown document and the image viewport.
package review

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/dmitrijs2005/docreview/internal/client/client"
	"github.com/dmitrijs2005/docreview/internal/client/export"
	"github.com/dmitrijs2005/docreview/internal/client/models"
	"github.com/dmitrijs2005/docreview/internal/client/services"
	"github.com/dmitrijs2005/docreview/internal/logging"
)

type Sessions interface {
	Login(ctx context.Context, username string, password []byte) (services.Session, error)
	Restore(ctx context.Context) (services.Session, error)
	Logout(ctx context.Context) error
}

type Catalog interface {
	Categories(ctx context.Context) ([]models.Category, error)
	Documents(ctx context.Context, category string, reviewed bool) ([]models.Document, error)
	Counts(ctx context.Context, category string) (models.Counts, error)
	Entries(ctx context.Context, documentID int64) ([]models.Entry, error)
}

type Updater interface {
	Update(ctx context.Context, documentID int64, changes map[string]string) (*models.UpdateResult, error)
}

type Exporter interface {
	Export(ctx context.Context, category string, sink export.Sink) (services.ExportResult, error)
}

// State is the whole application view state. It serializes to JSON.
type State struct {
	Authenticated bool              `json:"authenticated"`
	User          string            `json:"user,omitempty"`
	Categories    []models.Category `json:"categories"`
	List          ListContext       `json:"list"`
	Counts        models.Counts     `json:"counts"`
	Edits         *Tracker          `json:"edits,omitempty"`
	Viewport      Viewport          `json:"viewport"`
}

// SaveOutcome tells a real save apart from a save with nothing to send.
type SaveOutcome int

const (
	SaveNoChanges SaveOutcome = iota
	SaveSaved
)

func (o SaveOutcome) String() string {
	if o == SaveSaved {
		return "saved"
	}
	return "no changes"
}

// Controller owns State. Network-backed operations are serialized by a busy
// flag: starting one while another is outstanding fails with ErrBusy.
// Navigation is refused the same way so a slow save cannot race a document
// switch.
type Controller struct {
	sessions Sessions
	catalog  Catalog
	updater  Updater
	exporter Exporter
	log      logging.Logger

	busy  atomic.Bool
	state State
}

func NewController(s Sessions, c Catalog, u Updater, e Exporter, log logging.Logger) *Controller {
	if log == nil {
		log = logging.Nop()
	}
	return &Controller{
		sessions: s,
		catalog:  c,
		updater:  u,
		exporter: e,
		log:      log,
		state: State{
			List:     NewListContext(),
			Viewport: NewViewport(),
		},
	}
}

func (c *Controller) begin() error {
	if !c.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	return nil
}

func (c *Controller) end() { c.busy.Store(false) }

// Busy reports whether a network operation is outstanding.
func (c *Controller) Busy() bool { return c.busy.Load() }

// State returns a copy of the view state. Slices are shared and must be
// treated as read-only.
func (c *Controller) State() State { return c.state }

func (c *Controller) Authenticated() bool { return c.state.Authenticated }

func (c *Controller) User() string { return c.state.User }

// Viewport gives direct access to the pan/zoom state.
func (c *Controller) Viewport() *Viewport { return &c.state.Viewport }

func (c *Controller) requireSession() error {
	if !c.state.Authenticated {
		return client.ErrNoSession
	}
	return nil
}

// Login authenticates and switches to the main view.
func (c *Controller) Login(ctx context.Context, username string, password []byte) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	s, err := c.sessions.Login(ctx, username, password)
	if err != nil {
		return err
	}
	c.state.Authenticated = true
	c.state.User = s.Username
	return nil
}

// Restore picks up a persisted session. It reports whether one was found.
func (c *Controller) Restore(ctx context.Context) (bool, error) {
	if err := c.begin(); err != nil {
		return false, err
	}
	defer c.end()

	s, err := c.sessions.Restore(ctx)
	if err != nil {
		return false, err
	}
	if !s.Active() {
		return false, nil
	}
	c.state.Authenticated = true
	c.state.User = s.Username
	return true, nil
}

// Logout drops the session and every catalog-derived piece of state. The
// viewport is kept.
func (c *Controller) Logout(ctx context.Context) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	if err := c.sessions.Logout(ctx); err != nil {
		return err
	}
	c.state = State{
		List:     NewListContext(),
		Viewport: c.state.Viewport,
	}
	return nil
}

// LoadCategories refreshes the category list.
func (c *Controller) LoadCategories(ctx context.Context) ([]models.Category, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}
	if err := c.begin(); err != nil {
		return nil, err
	}
	defer c.end()

	cats, err := c.catalog.Categories(ctx)
	if err != nil {
		return nil, err
	}
	c.state.Categories = cats
	return cats, nil
}

// SelectCategory loads the current tab's list of category and shows its
// first document.
func (c *Controller) SelectCategory(ctx context.Context, category string) error {
	if err := c.requireSession(); err != nil {
		return err
	}
	if category == "" {
		return ErrNoCategory
	}
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	return c.loadList(ctx, category, c.state.List.Reviewed)
}

// SwitchTab changes the reviewed filter. Without a selected category only
// the filter is recorded.
func (c *Controller) SwitchTab(ctx context.Context, reviewed bool) error {
	if err := c.requireSession(); err != nil {
		return err
	}
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	if c.state.List.Category == "" {
		c.state.List.Reviewed = reviewed
		return nil
	}
	return c.loadList(ctx, c.state.List.Category, reviewed)
}

// loadList fetches the list and then the counts. State is only touched once
// both succeeded.
func (c *Controller) loadList(ctx context.Context, category string, reviewed bool) error {
	docs, err := c.catalog.Documents(ctx, category, reviewed)
	if err != nil {
		return err
	}
	counts, err := c.catalog.Counts(ctx, category)
	if err != nil {
		return err
	}

	c.state.List.Reset(category, reviewed, docs)
	c.state.Counts = counts
	c.showCurrent()
	c.log.Debug(ctx, "list loaded", "category", category, "reviewed", reviewed, "documents", len(docs))
	return nil
}

func (c *Controller) showCurrent() {
	doc, ok := c.state.List.Current()
	if !ok {
		c.state.Edits = nil
		return
	}
	c.state.Edits = NewTracker(doc)
}

func (c *Controller) CanNext() bool { return !c.Busy() && c.state.List.CanNext() }
func (c *Controller) CanPrev() bool { return !c.Busy() && c.state.List.CanPrev() }

// Next moves to the following document. It reports false when already at
// the last one or the list is empty.
func (c *Controller) Next() (bool, error) {
	return c.move(c.state.List.Next)
}

// Prev moves to the preceding document.
func (c *Controller) Prev() (bool, error) {
	return c.move(c.state.List.Prev)
}

func (c *Controller) move(step func() bool) (bool, error) {
	if err := c.begin(); err != nil {
		return false, err
	}
	defer c.end()

	if !step() {
		return false, nil
	}
	c.showCurrent()
	return true, nil
}

// ShowDocument selects a document of the current list by id.
func (c *Controller) ShowDocument(id int64) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	idx := c.state.List.IndexOf(id)
	if idx < 0 {
		return &NotFoundError{ID: id}
	}
	c.state.List.Index = idx
	c.showCurrent()
	return nil
}

// Current returns the shown document.
func (c *Controller) Current() (models.Document, bool) {
	return c.state.List.Current()
}

// Edits returns the edit buffer of the shown document, or nil.
func (c *Controller) Edits() *Tracker { return c.state.Edits }

func (c *Controller) SetField(field, value string) error {
	if c.state.Edits == nil {
		return ErrNoDocument
	}
	return c.state.Edits.Set(field, value)
}

func (c *Controller) RevertField(field string) error {
	if c.state.Edits == nil {
		return ErrNoDocument
	}
	return c.state.Edits.Revert(field)
}

func (c *Controller) RevertAll() error {
	if c.state.Edits == nil {
		return ErrNoDocument
	}
	c.state.Edits.RevertAll()
	return nil
}

// Save sends the changed fields of the shown document in one request, then
// refreshes counts and reloads the current tab. The saved document may have
// left the list, so the index is reset as on a category switch.
func (c *Controller) Save(ctx context.Context) (SaveOutcome, error) {
	if err := c.requireSession(); err != nil {
		return SaveNoChanges, err
	}
	if err := c.begin(); err != nil {
		return SaveNoChanges, err
	}
	defer c.end()

	edits := c.state.Edits
	if edits == nil {
		return SaveNoChanges, ErrNoDocument
	}
	changes := edits.Changes()
	if len(changes) == 0 {
		return SaveNoChanges, nil
	}

	if _, err := c.updater.Update(ctx, edits.DocumentID, changes); err != nil {
		return SaveNoChanges, err
	}
	c.log.Info(ctx, "changes saved", "id", edits.DocumentID, "fields", len(changes))

	if err := c.loadList(ctx, c.state.List.Category, c.state.List.Reviewed); err != nil {
		// the update went through; what is on screen is now the saved state
		edits.Original = snapshotOf(edits.Current)
		return SaveSaved, fmt.Errorf("reloading after save: %w", err)
	}
	return SaveSaved, nil
}

// Reload re-fetches the entries of the shown document and starts a fresh
// edit buffer. Pending edits are dropped.
func (c *Controller) Reload(ctx context.Context) error {
	if err := c.requireSession(); err != nil {
		return err
	}
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	doc, ok := c.state.List.Current()
	if !ok {
		return ErrNoDocument
	}
	entries, err := c.catalog.Entries(ctx, doc.ID)
	if err != nil {
		return err
	}

	doc.Entries = entries
	c.state.List.Documents[c.state.List.Index] = doc
	c.state.Edits = NewTracker(doc)
	return nil
}

// Export stores the reviewed documents of the selected category in sink.
// It is only offered on the reviewed tab.
func (c *Controller) Export(ctx context.Context, sink export.Sink) (services.ExportResult, error) {
	if err := c.requireSession(); err != nil {
		return services.ExportResult{}, err
	}
	if c.state.List.Category == "" || !c.state.List.Reviewed {
		return services.ExportResult{}, ErrExportUnavailable
	}
	if err := c.begin(); err != nil {
		return services.ExportResult{}, err
	}
	defer c.end()

	return c.exporter.Export(ctx, c.state.List.Category, sink)
}

// CanExport reports whether the export action is offered.
func (c *Controller) CanExport() bool {
	return c.state.Authenticated && c.state.List.Category != "" && c.state.List.Reviewed
}
