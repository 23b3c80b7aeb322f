package review

import (
	"fmt"
	"math"
)

const (
	MinScale = 0.5
	MaxScale = 5.0

	// WheelStep is the relative scale change of one wheel tick.
	WheelStep = 0.1
	// ButtonFactor is the scale multiplier of the zoom buttons.
	ButtonFactor = 1.2
	// PanStep is the translation of one pan button press.
	PanStep = 50.0
)

// Viewport is the pan/zoom state of the document image. It is independent
// of the displayed document and survives document switches until Reset.
type Viewport struct {
	Scale      float64 `json:"scale"`
	TranslateX float64 `json:"translate_x"`
	TranslateY float64 `json:"translate_y"`

	Drag *DragAnchor `json:"drag,omitempty"`
}

// DragAnchor is the pointer offset captured when a drag starts.
type DragAnchor struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewViewport returns the identity transform.
func NewViewport() Viewport {
	return Viewport{Scale: 1}
}

func clampScale(s float64) float64 {
	return math.Min(MaxScale, math.Max(MinScale, s))
}

func (v *Viewport) ZoomIn()  { v.Scale = clampScale(v.Scale * ButtonFactor) }
func (v *Viewport) ZoomOut() { v.Scale = clampScale(v.Scale / ButtonFactor) }

// WheelZoom applies one wheel tick. A negative delta (wheel up) zooms in;
// any other delta, zero included, zooms out.
func (v *Viewport) WheelZoom(deltaY float64) {
	if deltaY < 0 {
		v.Scale = clampScale(v.Scale * (1 + WheelStep))
		return
	}
	v.Scale = clampScale(v.Scale * (1 - WheelStep))
}

// Reset restores scale 1 and translation (0, 0). An active drag is dropped.
func (v *Viewport) Reset() {
	*v = NewViewport()
}

func (v *Viewport) PanBy(dx, dy float64) {
	v.TranslateX += dx
	v.TranslateY += dy
}

func (v *Viewport) PanLeft()  { v.PanBy(-PanStep, 0) }
func (v *Viewport) PanRight() { v.PanBy(PanStep, 0) }
func (v *Viewport) PanUp()    { v.PanBy(0, -PanStep) }
func (v *Viewport) PanDown()  { v.PanBy(0, PanStep) }

// DragStart enters the Dragging state anchored at pointer minus translation.
func (v *Viewport) DragStart(x, y float64) {
	v.Drag = &DragAnchor{X: x - v.TranslateX, Y: y - v.TranslateY}
}

// DragMove tracks the pointer while dragging. It is ignored when idle.
func (v *Viewport) DragMove(x, y float64) {
	if v.Drag == nil {
		return
	}
	v.TranslateX = x - v.Drag.X
	v.TranslateY = y - v.Drag.Y
}

func (v *Viewport) DragEnd() { v.Drag = nil }

func (v *Viewport) Dragging() bool { return v.Drag != nil }

// Transform renders the state as a CSS-style transform string.
func (v Viewport) Transform() string {
	return fmt.Sprintf("translate(%spx, %spx) scale(%s)",
		formatFloat(v.TranslateX), formatFloat(v.TranslateY), formatFloat(v.Scale))
}

func formatFloat(f float64) string {
	return fmt.Sprintf("%g", math.Round(f*1000)/1000)
}
