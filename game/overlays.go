package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/tonygoldcrest/ecosystem-sim/components"
	"github.com/tonygoldcrest/ecosystem-sim/systems"
	"github.com/tonygoldcrest/ecosystem-sim/ui"
)

var (
	pathColor   = rl.Color{R: 255, G: 255, B: 255, A: 160}
	fovColor    = rl.Color{R: 255, G: 80, B: 80, A: 200}
	waterSense  = rl.Color{R: 80, G: 160, B: 255, A: 180}
	foodSense   = rl.Color{R: 120, G: 220, B: 80, A: 180}
	mateSense   = rl.Color{R: 255, G: 120, B: 200, A: 180}
	targetColor = rl.Color{R: 255, G: 230, B: 80, A: 140}
)

// drawActiveOverlays renders all currently enabled overlays.
func (g *Game) drawActiveOverlays() {
	if g.overlays.IsEnabled(ui.OverlayPaths) {
		g.pop.Each(g.drawPath)
	}
	if g.overlays.IsEnabled(ui.OverlayFieldOfView) {
		g.pop.Each(g.drawFieldOfView)
	}
	if g.overlays.IsEnabled(ui.OverlayTargets) {
		g.pop.Each(g.drawTarget)
	}
	if g.overlays.IsEnabled(ui.OverlaySenses) && g.hasSelection {
		if a, ok := g.pop.Agent(g.selected); ok {
			g.drawSenses(a)
		}
	}
}

// drawPath draws the remaining waypoints, last to be visited first in the slice.
func (g *Game) drawPath(a systems.Agent) {
	path := a.Kin.Path
	if len(path) == 0 {
		return
	}
	px, py := g.camera.WorldToScreen(a.Pos.X, a.Pos.Y)
	for i := len(path) - 1; i >= 0; i-- {
		x, y := g.camera.WorldToScreen(path[i].X, path[i].Y)
		rl.DrawLineV(rl.Vector2{X: px, Y: py}, rl.Vector2{X: x, Y: y}, pathColor)
		rl.DrawCircleV(rl.Vector2{X: x, Y: y}, 2, pathColor)
		px, py = x, y
	}
}

func (g *Game) drawFieldOfView(a systems.Agent) {
	if a.Kin.VelX == 0 && a.Kin.VelY == 0 {
		return
	}
	x, y := g.camera.WorldToScreen(a.Pos.X, a.Pos.Y)
	fx, fy := g.camera.WorldToScreen(a.Pos.X+a.Kin.FovX, a.Pos.Y+a.Kin.FovY)
	rl.DrawLineV(rl.Vector2{X: x, Y: y}, rl.Vector2{X: fx, Y: fy}, fovColor)
}

func (g *Game) drawTarget(a systems.Agent) {
	var tx, ty float32
	l := a.Life
	switch l.Activity {
	case components.ActivityFetchingWater:
		tx, ty = l.WaterX, l.WaterY
	case components.ActivityFetchingFood:
		src := g.food.Source(l.FoodIndex)
		if src == nil {
			return
		}
		tx, ty = src.X, src.Y
	case components.ActivityMating:
		mate, ok := g.pop.Agent(l.Mate)
		if !ok {
			return
		}
		tx, ty = mate.Pos.X, mate.Pos.Y
	default:
		return
	}
	x, y := g.camera.WorldToScreen(a.Pos.X, a.Pos.Y)
	sx, sy := g.camera.WorldToScreen(tx, ty)
	rl.DrawLineV(rl.Vector2{X: x, Y: y}, rl.Vector2{X: sx, Y: sy}, targetColor)
}

// drawSenses outlines the water, food and mate search areas. Water is a square
// of tiles, the others are radii.
func (g *Game) drawSenses(a systems.Agent) {
	side := g.grid.TileSide()
	zoom := g.camera.Zoom
	x, y := g.camera.WorldToScreen(a.Pos.X, a.Pos.Y)
	t := a.Profile.Traits

	half := (t.WaterSense + 0.5) * side * zoom
	rl.DrawRectangleLinesEx(rl.Rectangle{X: x - half, Y: y - half, Width: 2 * half, Height: 2 * half}, 1, waterSense)
	rl.DrawCircleLinesV(rl.Vector2{X: x, Y: y}, t.FoodSense*side*zoom, foodSense)
	if a.Profile.Sex == components.Male {
		rl.DrawCircleLinesV(rl.Vector2{X: x, Y: y}, t.MateSense*side*zoom, mateSense)
	}
}
