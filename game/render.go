package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/tonygoldcrest/ecosystem-sim/components"
	"github.com/tonygoldcrest/ecosystem-sim/systems"
	"github.com/tonygoldcrest/ecosystem-sim/ui"
)

const controlsLegend = "[Space] pause  [</>] speed  [Click] select  [Arrows/RMB] pan  [Wheel] zoom  [Home] reset  [O] overlays  [F3] perf"

// Draw renders the world and the UI.
func (g *Game) Draw() {
	g.perfCollector.RecordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	g.terrainRenderer.Draw(g.camera)
	g.spriteRenderer.DrawFood(g.camera, g.food.SnapshotForRender())
	g.drawActiveOverlays()
	g.spriteRenderer.DrawRabbits(g.camera, g.pop.SnapshotForRender())

	g.drawUI()

	rl.EndDrawing()
}

// drawUI renders the HUD and panels.
func (g *Game) drawUI() {
	sw, sh := int32(g.screenWidth), int32(g.screenHeight)

	var males, females, pregnant int
	g.pop.Each(func(a systems.Agent) {
		if a.Life.Pregnant {
			pregnant++
		}
		if a.Profile.Sex == components.Male {
			males++
		} else {
			females++
		}
	})

	bottom := g.hud.Draw(ui.HUDData{
		Title:         "Rabbit Ecosystem",
		Population:    males + females,
		Males:         males,
		Females:       females,
		Pregnant:      pregnant,
		FoodAvailable: g.food.Available(),
		FoodTotal:     g.food.Len(),
		Tick:          g.ctx.Tick,
		SimTime:       g.ctx.Elapsed,
		Speed:         g.speed,
		FPS:           rl.GetFPS(),
		Paused:        g.paused,
	})

	g.speedControls.SetPosition(10, float32(bottom))
	if s := g.speedControls.Draw(g.speed); s != g.speed {
		g.SetSpeed(s)
	}

	g.controlsPanel.Draw(g.overlays)
	if g.showPerf {
		g.perfPanel.SetPosition(16, sh-220)
		g.perfPanel.Draw(g.perfCollector.Stats())
	}

	if view := g.selectedView(); view != nil {
		g.statsPanel.Draw(view, sw)
	}
	g.obituaryPanel.Draw(g.obituaryEntries(), sw, sh)

	g.hud.DrawControls(sh, controlsLegend)
}
