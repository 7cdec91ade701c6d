package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// SpeedControls is a row of raygui buttons, one per speed multiplier.
type SpeedControls struct {
	levels []int
	x, y   float32
	button rl.Vector2
}

// NewSpeedControls creates buttons for the given multipliers.
func NewSpeedControls(levels []int, x, y float32) *SpeedControls {
	return &SpeedControls{
		levels: levels,
		x:      x,
		y:      y,
		button: rl.Vector2{X: 44, Y: 24},
	}
}

// SetPosition moves the button row.
func (s *SpeedControls) SetPosition(x, y float32) {
	s.x, s.y = x, y
}

// Bounds returns the screen rectangle covered by the buttons.
func (s *SpeedControls) Bounds() rl.Rectangle {
	n := float32(len(s.levels))
	return rl.Rectangle{X: s.x, Y: s.y, Width: n*(s.button.X+4) - 4, Height: s.button.Y}
}

// Draw renders the buttons and returns the selected multiplier. The current
// one is marked; clicking another returns it.
func (s *SpeedControls) Draw(current int) int {
	selected := current
	for i, level := range s.levels {
		bounds := rl.Rectangle{
			X:      s.x + float32(i)*(s.button.X+4),
			Y:      s.y,
			Width:  s.button.X,
			Height: s.button.Y,
		}
		label := fmt.Sprintf("%dx", level)
		if level == current {
			label = "[" + label + "]"
		}
		if gui.Button(bounds, label) {
			selected = level
		}
	}
	return selected
}

// ControlsPanel lists the overlays with a raygui checkbox each.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a hidden controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Contains reports whether a screen point is over the visible panel.
func (c *ControlsPanel) Contains(px, py float32, overlays *OverlayRegistry) bool {
	if !c.visible {
		return false
	}
	r := rl.Rectangle{X: float32(c.x), Y: float32(c.y), Width: float32(c.width), Height: float32(c.height(overlays))}
	return rl.CheckCollisionPointRec(rl.Vector2{X: px, Y: py}, r)
}

func (c *ControlsPanel) height(overlays *OverlayRegistry) int32 {
	t := c.renderer.Theme
	return int32(len(overlays.All())+1)*(t.LineHeight+4) + t.Padding*2
}

// Draw renders the panel and applies checkbox changes to the registry.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) {
	if !c.visible {
		return
	}

	r := c.renderer
	pad := r.Theme.Padding
	step := r.Theme.LineHeight + 4

	r.DrawPanel(c.x, c.y, c.width, c.height(overlays))
	y := c.y + pad
	rl.DrawText("Overlays", c.x+pad, y, 16, rl.White)
	y += step

	for _, desc := range overlays.All() {
		bounds := rl.Rectangle{X: float32(c.x + pad), Y: float32(y), Width: 14, Height: 14}
		label := desc.Name
		if desc.KeyLabel != "" {
			label = fmt.Sprintf("%s [%s]", desc.Name, desc.KeyLabel)
		}
		enabled := overlays.IsEnabled(desc.ID)
		if gui.CheckBox(bounds, label, enabled) != enabled {
			overlays.Toggle(desc.ID)
		}
		y += step
	}
}
