package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/tonygoldcrest/ecosystem-sim/components"
	"github.com/tonygoldcrest/ecosystem-sim/ui"
)

// SelectAt selects the rabbit covering world point (x, y) and highlights it.
// A miss clears the selection. Reports whether a rabbit was selected.
func (g *Game) SelectAt(x, y float32) bool {
	e, ok := g.pop.AgentAt(x, y)
	if !ok {
		g.clearSelection()
		return false
	}
	if g.hasSelection && g.selected != e {
		g.pop.SetHighlighted(g.selected, false)
	}
	g.selected = e
	g.hasSelection = true
	g.pop.SetHighlighted(e, true)
	return true
}

// Selected returns the selected rabbit, if any.
func (g *Game) Selected() (ecs.Entity, bool) {
	return g.selected, g.hasSelection
}

func (g *Game) clearSelection() {
	if g.hasSelection {
		g.pop.SetHighlighted(g.selected, false)
	}
	g.selected = ecs.Entity{}
	g.hasSelection = false
}

// validateSelection drops a selection whose rabbit has died.
func (g *Game) validateSelection() {
	if !g.hasSelection {
		return
	}
	if a, ok := g.pop.Agent(g.selected); !ok || !a.Life.Alive {
		g.selected = ecs.Entity{}
		g.hasSelection = false
	}
}

// selectedView copies the selected rabbit into a panel view, or returns nil.
func (g *Game) selectedView() *ui.RabbitView {
	if !g.hasSelection {
		return nil
	}
	a, ok := g.pop.Agent(g.selected)
	if !ok || !a.Life.Alive {
		return nil
	}
	p, n, l := a.Profile, a.Needs, a.Life
	rc := &g.cfg.Rabbit
	return &ui.RabbitView{
		Name:           p.Name,
		Female:         p.Sex == components.Female,
		Generation:     p.Traits.Generation,
		Age:            n.Age,
		MaxAge:         p.Traits.MaxAge,
		Speed:          p.Traits.BaseSpeed,
		Litter:         p.Traits.Descendants,
		Activity:       l.Activity.String(),
		Water:          n.Water,
		WaterThreshold: p.WaterThreshold,
		Food:           n.Food,
		FoodThreshold:  p.FoodThreshold,
		Mate:           n.Mate,
		MateThreshold:  p.MatingThreshold,
		NeedMax:        rc.NeedMax,
		Impregnated:    l.Impregnated,
		Pregnant:       l.Pregnant,
		Pregnancy:      n.Pregnancy,
		PregnancyFull:  rc.PregnancyFull,
		Childbirths:    l.Childbirths,
	}
}
