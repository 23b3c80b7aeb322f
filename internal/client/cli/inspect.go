package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/docreview/internal/client/models"
	"github.com/dmitrijs2005/docreview/internal/client/review"
)

// One terminal cell stands for this many image pixels when mapping mouse
// positions and translations onto the canvas.
const (
	cellWidthPx  = 8
	cellHeightPx = 16
)

// Page size in cells at scale 1.
const (
	pageCols = 24
	pageRows = 12
)

// runProgram is a test seam for running the full-screen inspector.
var runProgram = func(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}

// inspectModel shows where the document image sits in the viewport and lets
// the reviewer zoom and pan it with keys and the mouse. It mutates the
// controller's viewport in place.
type inspectModel struct {
	vp     *review.Viewport
	doc    models.Document
	hasDoc bool
	width  int
	height int
}

func newInspectModel(vp *review.Viewport, doc models.Document, hasDoc bool) inspectModel {
	return inspectModel{vp: vp, doc: doc, hasDoc: hasDoc, width: 80, height: 24}
}

func (m inspectModel) Init() tea.Cmd { return nil }

func (m inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.vp.DragEnd()
			return m, tea.Quit
		case "+", "=":
			m.vp.ZoomIn()
		case "-", "_":
			m.vp.ZoomOut()
		case "0":
			m.vp.Reset()
		case "left", "h":
			m.vp.PanLeft()
		case "right", "l":
			m.vp.PanRight()
		case "up", "k":
			m.vp.PanUp()
		case "down", "j":
			m.vp.PanDown()
		}

	case tea.MouseMsg:
		x, y := float64(msg.X*cellWidthPx), float64(msg.Y*cellHeightPx)
		switch {
		case msg.Button == tea.MouseButtonWheelUp:
			m.vp.WheelZoom(-1)
		case msg.Button == tea.MouseButtonWheelDown:
			m.vp.WheelZoom(1)
		case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
			m.vp.DragStart(x, y)
		case msg.Action == tea.MouseActionMotion && m.vp.Dragging():
			m.vp.DragMove(x, y)
		case msg.Action == tea.MouseActionRelease:
			m.vp.DragEnd()
		}
	}
	return m, nil
}

func (m inspectModel) View() string {
	title := "No document selected"
	if m.hasDoc {
		title = fmt.Sprintf("Document %d  %s", m.doc.ID, m.doc.FileName)
	}

	cols, rows := m.width-4, m.height-6
	if cols < 10 {
		cols = 10
	}
	if rows < 4 {
		rows = 4
	}

	header := titleStyle.Render(title)
	canvas := paneStyle.Render(renderCanvas(*m.vp, cols, rows))
	status := labelStyle.Render(fmt.Sprintf("transform: %s   zoom %.0f%%", m.vp.Transform(), m.vp.Scale*100))
	help := mutedStyle.Render("+/- zoom · 0 reset · arrows pan · wheel zoom · drag pan · q close")

	return lipgloss.JoinVertical(lipgloss.Left, header, canvas, status, help)
}

// renderCanvas draws the page rectangle as the transform places it: scaled
// around its center, then shifted by the translation.
func renderCanvas(vp review.Viewport, cols, rows int) string {
	w := float64(pageCols) * vp.Scale
	h := float64(pageRows) * vp.Scale
	cx := float64(cols)/2 + vp.TranslateX/cellWidthPx
	cy := float64(rows)/2 + vp.TranslateY/cellHeightPx

	left, right := int(math.Round(cx-w/2)), int(math.Round(cx+w/2))
	top, bottom := int(math.Round(cy-h/2)), int(math.Round(cy+h/2))

	var b strings.Builder
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if c >= left && c < right && r >= top && r < bottom {
				b.WriteRune('░')
			} else {
				b.WriteRune(' ')
			}
		}
		if r < rows-1 {
			b.WriteByte('\n')
		}
	}
	return pageStyle.Render(b.String())
}
