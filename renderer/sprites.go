package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/tonygoldcrest/ecosystem-sim/camera"
	"github.com/tonygoldcrest/ecosystem-sim/components"
	"github.com/tonygoldcrest/ecosystem-sim/systems"
)

// Fur colours per sex. Texture indices wrap around these lists.
var (
	maleFur = []rl.Color{
		{R: 120, G: 94, B: 72, A: 255},
		{R: 90, G: 90, B: 96, A: 255},
		{R: 168, G: 130, B: 92, A: 255},
	}
	femaleFur = []rl.Color{
		{R: 236, G: 230, B: 220, A: 255},
		{R: 196, G: 164, B: 132, A: 255},
		{R: 150, G: 118, B: 100, A: 255},
	}
)

var (
	foodLeaf     = rl.Color{R: 58, G: 140, B: 46, A: 255}
	foodRoot     = rl.Color{R: 236, G: 124, B: 36, A: 255}
	highlightCol = rl.Color{R: 255, G: 230, B: 80, A: 255}
	earInner     = rl.Color{R: 232, G: 160, B: 170, A: 255}
)

// SpriteRenderer draws food sources and rabbits as simple shapes.
type SpriteRenderer struct {
	FoodSize float32 // World units
}

// NewSpriteRenderer creates a sprite renderer sized to the tile grid.
func NewSpriteRenderer(tileSide float32) *SpriteRenderer {
	return &SpriteRenderer{FoodSize: max(tileSide*1.5, 4)}
}

// DrawFood draws every non-empty food source as a small carrot.
func (r *SpriteRenderer) DrawFood(cam *camera.Camera, food []systems.FoodSprite) {
	size := r.FoodSize * cam.Zoom
	for _, f := range food {
		if !cam.IsVisible(f.X, f.Y, r.FoodSize) {
			continue
		}
		x, y := cam.WorldToScreen(f.X, f.Y)
		rl.DrawTriangle(
			rl.Vector2{X: x - size*0.25, Y: y - size*0.2},
			rl.Vector2{X: x, Y: y + size*0.5},
			rl.Vector2{X: x + size*0.25, Y: y - size*0.2},
			foodRoot,
		)
		rl.DrawCircleV(rl.Vector2{X: x, Y: y - size*0.3}, size*0.18, foodLeaf)
	}
}

// DrawRabbits draws the population in the given order so later births sit on top.
func (r *SpriteRenderer) DrawRabbits(cam *camera.Camera, rabbits []systems.AgentSprite) {
	for i := range rabbits {
		s := &rabbits[i]
		if !cam.IsVisible(s.X, s.Y, s.Size) {
			continue
		}
		r.drawRabbit(cam, s)
	}
}

func (r *SpriteRenderer) drawRabbit(cam *camera.Camera, s *systems.AgentSprite) {
	x, y := cam.WorldToScreen(s.X, s.Y)
	unit := s.Size * cam.Zoom / 4
	fur := Fur(s.Sex, s.Texture)

	dir := float32(1)
	if s.FacingLeft {
		dir = -1
	}

	if s.Highlighted {
		rl.DrawCircleLines(int32(x), int32(y), unit*2.2, highlightCol)
		rl.DrawCircleLines(int32(x), int32(y), unit*2.3, highlightCol)
	}

	// Body and tail
	rl.DrawEllipse(int32(x), int32(y), unit, unit*0.75, fur)
	rl.DrawCircleV(rl.Vector2{X: x - dir*unit, Y: y - unit*0.2}, unit*0.3, rl.RayWhite)

	// Head and ears
	hx, hy := x+dir*unit*0.9, y-unit*0.5
	rl.DrawCircleV(rl.Vector2{X: hx, Y: hy}, unit*0.5, fur)
	for _, off := range []float32{-0.2, 0.15} {
		ex := hx + dir*unit*off
		rl.DrawEllipse(int32(ex), int32(hy-unit*0.8), unit*0.15, unit*0.5, fur)
		rl.DrawEllipse(int32(ex), int32(hy-unit*0.8), unit*0.07, unit*0.35, earInner)
	}
	rl.DrawCircleV(rl.Vector2{X: hx + dir*unit*0.25, Y: hy - unit*0.1}, max(unit*0.08, 1), rl.Black)

	if s.Activity == components.ActivityDrinking {
		rl.DrawCircleV(rl.Vector2{X: x, Y: y - unit*1.8}, max(unit*0.2, 2), rl.SkyBlue)
	}
}

// Fur returns the body colour for a sex and texture index.
func Fur(sex components.Sex, texture int) rl.Color {
	palette := maleFur
	if sex == components.Female {
		palette = femaleFur
	}
	if texture < 0 {
		texture = -texture
	}
	return palette[texture%len(palette)]
}
