package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ObituaryEntry is one row of the death table.
type ObituaryEntry struct {
	Reason string
	Count  int
}

// ObituaryPanel renders death counts by cause.
type ObituaryPanel struct {
	renderer *Renderer
	width    int32
}

// NewObituaryPanel creates an obituary panel.
func NewObituaryPanel(width int32) *ObituaryPanel {
	return &ObituaryPanel{renderer: NewRenderer(), width: width}
}

// Draw renders the entries anchored to the bottom-right corner and returns
// the panel's top edge.
func (o *ObituaryPanel) Draw(entries []ObituaryEntry, screenW, screenH int32) int32 {
	r := o.renderer
	pad := r.Theme.Padding
	lh := r.Theme.LineHeight

	total := 0
	for _, e := range entries {
		total += e.Count
	}

	h := pad*2 + lh + 4 + int32(len(entries))*lh + lh
	x := screenW - o.width - pad
	y := screenH - h - pad
	r.DrawPanel(x, y, o.width, h)

	cy := y + pad
	rl.DrawText("Obituary", x+pad, cy, 16, rl.White)
	cy += lh + 4
	for _, e := range entries {
		cy = r.DrawLabelValue(x+pad, cy, e.Reason, fmt.Sprintf("%d", e.Count))
	}
	r.DrawLabelValue(x+pad, cy, "total", fmt.Sprintf("%d", total))
	return y
}
