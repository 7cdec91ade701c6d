package game

import (
	"log/slog"

	"github.com/tonygoldcrest/ecosystem-sim/systems"
)

func (g *Game) logBirthEvent(a systems.Agent) {
	p := a.Profile
	slog.Info("birth",
		"tick", g.ctx.Tick,
		"id", p.ID,
		"name", p.Name,
		"sex", p.Sex.String(),
		"generation", p.Traits.Generation,
		"mother", p.MotherID,
		"father", p.FatherID,
		"x", a.Pos.X,
		"y", a.Pos.Y,
	)
}

func (g *Game) logDeathEvent(a systems.Agent) {
	p := a.Profile
	slog.Info("death",
		"tick", g.ctx.Tick,
		"id", p.ID,
		"name", p.Name,
		"cause", a.Life.DeathReason.String(),
		"age", a.Needs.Age,
		"max_age", p.Traits.MaxAge,
		"water", a.Needs.Water,
		"food", a.Needs.Food,
		"activity", a.Life.Activity.String(),
	)
}

// LogWorldState logs a one-line summary of the current world.
func (g *Game) LogWorldState() {
	obituary := g.pop.Obituary()
	attrs := []any{
		"tick", g.ctx.Tick,
		"sim_time", g.ctx.Elapsed,
		"population", g.pop.Size(),
		"food_available", g.food.Available(),
	}
	for reason, n := range obituary {
		attrs = append(attrs, "dead_"+reason.String(), n)
	}
	slog.Info("world", attrs...)
}
