package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/tonygoldcrest/ecosystem-sim/components"
)

func TestQueryRadiusFindsWithinRadius(t *testing.T) {
	posMap := ecs.NewMap1[components.Position](ecs.NewWorld())
	g := NewSpatialGrid(0, 0, 100, 100, 10)

	near := posMap.NewEntity(&components.Position{X: 12, Y: 5})
	far := posMap.NewEntity(&components.Position{X: 60, Y: 60})
	self := posMap.NewEntity(&components.Position{X: 5, Y: 5})
	for _, e := range []ecs.Entity{near, far, self} {
		p := posMap.Get(e)
		g.Insert(e, p.X, p.Y)
	}

	got := g.QueryRadiusInto(nil, 5, 5, 10, self, posMap)
	if len(got) != 1 || got[0].E != near {
		t.Fatalf("got %+v, want only the near entity", got)
	}
	if got[0].DistSq != 49 {
		t.Errorf("DistSq = %v, want 49", got[0].DistSq)
	}
}

func TestQueryRadiusFindsEntityMovedSinceRebuild(t *testing.T) {
	posMap := ecs.NewMap1[components.Position](ecs.NewWorld())
	g := NewSpatialGrid(0, 0, 100, 100, 10)

	// Bucketed three cells away, then moved to within the radius before the
	// next rebuild.
	e := posMap.NewEntity(&components.Position{X: 35, Y: 5})
	g.Insert(e, 35, 5)
	posMap.Get(e).X = 14

	got := g.QueryRadiusInto(nil, 5, 5, 10, ecs.Entity{}, posMap)
	if len(got) != 1 || got[0].E != e {
		t.Errorf("got %+v, want the moved entity", got)
	}
}
