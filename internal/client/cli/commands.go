package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/docreview/internal/client/client"
	"github.com/dmitrijs2005/docreview/internal/client/models"
	"github.com/dmitrijs2005/docreview/internal/client/review"
	"github.com/dmitrijs2005/docreview/internal/cryptox"
)

// getSimpleText, getPassword and getAssignments are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText  = GetSimpleText
	getPassword    = GetPassword
	getAssignments = GetAssignments
)

var errUsage = errors.New("usage")

func usage(format string) error {
	return fmt.Errorf("%w: %s", errUsage, format)
}

func (a *App) say(s string) { fmt.Fprintln(a.out, s) }

func (a *App) renderCurrent() {
	a.say(renderDocument(a.ctl.State(), paneWidth))
}

// Login prompts for missing credentials and opens a session. The user name
// may be given as the first argument; the last one used is offered as default.
func (a *App) Login(ctx context.Context, args []string) error {
	var userName string
	if len(args) > 0 {
		userName = args[0]
	} else {
		last, _ := a.auth.LastUsername(ctx)
		prompt := "Enter username"
		if last != "" {
			prompt += " [" + last + "]"
		}
		in, err := getSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return err
		}
		userName = in
		if userName == "" {
			userName = last
		}
	}
	if userName == "" {
		return usage("login <username>")
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer cryptox.WipeByteArray(password)

	if err := a.ctl.Login(ctx, userName, password); err != nil {
		return err
	}
	a.say(okStyle.Render("Logged in as " + a.ctl.User()))
	return a.Categories(ctx, nil)
}

func (a *App) Logout(ctx context.Context, args []string) error {
	if err := a.ctl.Logout(ctx); err != nil {
		return err
	}
	a.categories = nil
	a.say("Logged out.")
	return nil
}

func (a *App) Categories(ctx context.Context, args []string) error {
	cats, err := a.ctl.LoadCategories(ctx)
	if err != nil {
		return err
	}
	a.categories = a.categories[:0]
	for _, c := range cats {
		a.categories = append(a.categories, c.Name)
	}
	a.say(renderCategories(cats))
	return nil
}

// Select opens a category by name or by its number in the last listing.
func (a *App) Select(ctx context.Context, args []string) error {
	name := strings.Join(args, " ")
	if name == "" {
		return review.ErrNoCategory
	}
	if n, err := strconv.Atoi(name); err == nil && !a.knownCategory(name) && n >= 1 && n <= len(a.categories) {
		name = a.categories[n-1]
	}

	if err := a.ctl.SelectCategory(ctx, name); err != nil {
		return err
	}
	a.renderCurrent()
	return nil
}

func (a *App) knownCategory(name string) bool {
	for _, c := range a.categories {
		if c == name {
			return true
		}
	}
	return false
}

func (a *App) Tab(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("tab reviewed|unreviewed")
	}
	var reviewed bool
	switch args[0] {
	case "reviewed", "r":
		reviewed = true
	case "unreviewed", "u":
		reviewed = false
	default:
		return usage("tab reviewed|unreviewed")
	}

	if err := a.ctl.SwitchTab(ctx, reviewed); err != nil {
		return err
	}
	if a.ctl.State().List.Category == "" {
		a.say("Showing " + tabName(reviewed) + " documents once a category is selected.")
		return nil
	}
	a.renderCurrent()
	return nil
}

func (a *App) Next(ctx context.Context, args []string) error {
	moved, err := a.ctl.Next()
	if err != nil {
		return err
	}
	if !moved {
		a.say("Already at the last document.")
		return nil
	}
	a.renderCurrent()
	return nil
}

func (a *App) Prev(ctx context.Context, args []string) error {
	moved, err := a.ctl.Prev()
	if err != nil {
		return err
	}
	if !moved {
		a.say("Already at the first document.")
		return nil
	}
	a.renderCurrent()
	return nil
}

// Show jumps to a document of the current list, or redraws the current one.
func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) > 0 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return usage("show <id>")
		}
		if err := a.ctl.ShowDocument(id); err != nil {
			return err
		}
	}
	if a.ctl.State().List.Category == "" {
		return review.ErrNoCategory
	}
	a.renderCurrent()
	return nil
}

// Set changes one field ("set Company = Acme") or, without arguments, reads
// several assignments until an empty line.
func (a *App) Set(ctx context.Context, args []string) error {
	if a.ctl.Edits() == nil {
		return review.ErrNoDocument
	}

	var changes map[string]string
	if len(args) > 0 {
		field, value, err := models.ParseAssignment(strings.Join(args, " "))
		if err != nil {
			return usage("set <field> = <value>")
		}
		changes = map[string]string{field: value}
	} else {
		lines, err := getAssignments(a.reader, a.out)
		if err != nil {
			return err
		}
		changes, err = models.FieldsFromStrings(lines)
		if err != nil {
			return usage("field = value")
		}
	}

	// All or nothing: an unknown field leaves the buffer untouched.
	edits := a.ctl.Edits()
	for _, field := range sortedKeys(changes) {
		if !edits.Has(field) {
			return fmt.Errorf("%w: %s", review.ErrUnknownField, field)
		}
	}
	for _, field := range sortedKeys(changes) {
		if err := a.ctl.SetField(field, changes[field]); err != nil {
			return fmt.Errorf("%w: %s", err, field)
		}
	}
	a.say(renderDiff(edits))
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Edit prompts for every field in order; an empty answer keeps the value.
func (a *App) Edit(ctx context.Context, args []string) error {
	edits := a.ctl.Edits()
	if edits == nil {
		return review.ErrNoDocument
	}

	for _, f := range edits.Fields {
		in, err := getSimpleText(a.reader, fmt.Sprintf("%s [%s]", f, edits.Value(f)), a.out)
		if err != nil {
			return err
		}
		if in == "" {
			continue
		}
		if err := a.ctl.SetField(f, in); err != nil {
			return err
		}
	}
	a.say(renderDiff(edits))
	return nil
}

func (a *App) Diff(ctx context.Context, args []string) error {
	edits := a.ctl.Edits()
	if edits == nil {
		return review.ErrNoDocument
	}
	a.say(renderDiff(edits))
	return nil
}

func (a *App) Revert(ctx context.Context, args []string) error {
	if len(args) == 0 {
		if err := a.ctl.RevertAll(); err != nil {
			return err
		}
		a.say("All pending changes dropped.")
		return nil
	}

	field := strings.Join(args, " ")
	if err := a.ctl.RevertField(field); err != nil {
		return fmt.Errorf("%w: %s", err, field)
	}
	a.say(renderDiff(a.ctl.Edits()))
	return nil
}

func (a *App) Save(ctx context.Context, args []string) error {
	outcome, err := a.ctl.Save(ctx)
	if outcome == review.SaveNoChanges {
		if err != nil {
			return err
		}
		a.say("No changes to save.")
		return nil
	}

	a.say(okStyle.Render("Changes saved."))
	if err != nil {
		return err
	}
	a.renderCurrent()
	return nil
}

func (a *App) Reload(ctx context.Context, args []string) error {
	if err := a.ctl.Reload(ctx); err != nil {
		return err
	}
	a.renderCurrent()
	return nil
}

func (a *App) sayViewport() {
	a.say("transform: " + a.ctl.Viewport().Transform())
}

func (a *App) Zoom(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("zoom in|out|reset")
	}
	vp := a.ctl.Viewport()
	switch args[0] {
	case "in", "+":
		vp.ZoomIn()
	case "out", "-":
		vp.ZoomOut()
	case "reset", "0":
		vp.Reset()
	default:
		return usage("zoom in|out|reset")
	}
	a.sayViewport()
	return nil
}

func (a *App) Wheel(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usage("wheel up|down [n]")
	}
	var delta float64
	switch args[0] {
	case "up":
		delta = -1
	case "down":
		delta = 1
	default:
		return usage("wheel up|down [n]")
	}
	n := 1
	if len(args) == 2 {
		v, err := strconv.Atoi(args[1])
		if err != nil || v < 1 {
			return usage("wheel up|down [n]")
		}
		n = v
	}

	vp := a.ctl.Viewport()
	for i := 0; i < n; i++ {
		vp.WheelZoom(delta)
	}
	a.sayViewport()
	return nil
}

func (a *App) Pan(ctx context.Context, args []string) error {
	vp := a.ctl.Viewport()
	switch {
	case len(args) == 1 && args[0] == "left":
		vp.PanLeft()
	case len(args) == 1 && args[0] == "right":
		vp.PanRight()
	case len(args) == 1 && args[0] == "up":
		vp.PanUp()
	case len(args) == 1 && args[0] == "down":
		vp.PanDown()
	case len(args) == 2:
		dx, dy, err := parsePoint(args)
		if err != nil {
			return usage("pan <dx> <dy>")
		}
		vp.PanBy(dx, dy)
	default:
		return usage("pan left|right|up|down")
	}
	a.sayViewport()
	return nil
}

func (a *App) Drag(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("drag start|move <x> <y>, drag end")
	}
	vp := a.ctl.Viewport()
	switch args[0] {
	case "start", "move":
		x, y, err := parsePoint(args[1:])
		if err != nil {
			return usage("drag " + args[0] + " <x> <y>")
		}
		if args[0] == "start" {
			vp.DragStart(x, y)
		} else {
			vp.DragMove(x, y)
		}
	case "end":
		vp.DragEnd()
	default:
		return usage("drag start|move <x> <y>, drag end")
	}
	a.sayViewport()
	return nil
}

func parsePoint(args []string) (float64, float64, error) {
	if len(args) != 2 {
		return 0, 0, errUsage
	}
	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return 0, 0, err
	}
	y, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// View opens the full-screen inspector on the shown document.
func (a *App) View(ctx context.Context, args []string) error {
	doc, ok := a.ctl.Current()
	if err := runProgram(newInspectModel(a.ctl.Viewport(), doc, ok)); err != nil {
		return err
	}
	a.sayViewport()
	return nil
}

func (a *App) Preview(ctx context.Context, args []string) error {
	doc, ok := a.ctl.Current()
	if !ok {
		return review.ErrNoDocument
	}
	refresh := len(args) > 0 && args[0] == "refresh"

	path, err := a.previewer.Generate(ctx, doc, refresh)
	if err != nil {
		return err
	}
	a.say("Preview written to " + path)
	return nil
}

// Export stores the reviewed documents of the selected category. The target
// is "s3", "dir" or a directory path; the configured default otherwise.
func (a *App) Export(ctx context.Context, args []string) error {
	if !a.ctl.Authenticated() {
		return client.ErrNoSession
	}
	if !a.ctl.CanExport() {
		return review.ErrExportUnavailable
	}

	sink, err := a.newSink(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	res, err := a.ctl.Export(ctx, sink)
	if err != nil {
		return err
	}
	a.say(okStyle.Render(fmt.Sprintf("Exported %s to %s (%d bytes)", res.FileName, res.Location, res.Size)))
	return nil
}

// State prints the serializable view state.
func (a *App) State(ctx context.Context, args []string) error {
	data, err := json.MarshalIndent(a.ctl.State(), "", "  ")
	if err != nil {
		return err
	}
	a.say(string(data))
	return nil
}
