// Package renderer draws the simulation with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/tonygoldcrest/ecosystem-sim/camera"
	"github.com/tonygoldcrest/ecosystem-sim/config"
	"github.com/tonygoldcrest/ecosystem-sim/systems"
)

// TerrainRenderer bakes the tile grid into a texture once. Tiles never change,
// so every frame is a single textured quad.
type TerrainRenderer struct {
	target      rl.RenderTexture2D
	minX, minY  float32
	width       float32
	height      float32
	initialized bool
}

// NewTerrainRenderer creates a renderer for the given grid. The GPU texture is
// created lazily on the first Draw, after the window exists.
func NewTerrainRenderer(grid *systems.TerrainGrid) *TerrainRenderer {
	minX, minY, maxX, maxY := grid.Bounds()
	return &TerrainRenderer{
		minX:   minX,
		minY:   minY,
		width:  maxX - minX,
		height: maxY - minY,
	}
}

// Bake renders the tiles into the backing texture.
func (r *TerrainRenderer) Bake(grid *systems.TerrainGrid) {
	if r.initialized {
		rl.UnloadRenderTexture(r.target)
	}
	r.target = rl.LoadRenderTexture(int32(r.width+0.5), int32(r.height+0.5))
	r.initialized = true

	sprites := grid.SnapshotForRender()
	tiles := grid.Tiles()

	rl.BeginTextureMode(r.target)
	rl.ClearBackground(rl.Black)
	for i, s := range sprites {
		x, y := s.X-r.minX, s.Y-r.minY
		// Overlap by one pixel so fractional tile sides leave no seams.
		rl.DrawRectangleRec(rl.Rectangle{X: x, Y: y, Width: s.Side + 1, Height: s.Side + 1}, toRL(s.Color))
		r.drawShore(grid, &tiles[i], x, y, s.Side, s.Color)
	}
	rl.EndTextureMode()
}

// drawShore darkens the edges of land tiles that border water.
func (r *TerrainRenderer) drawShore(grid *systems.TerrainGrid, t *systems.Tile, x, y, side float32, base config.Color) {
	if t.Biome == systems.Water {
		return
	}
	n := grid.Neighbors8(t.ID)
	edge := side * 0.15
	shade := toRL(base)
	shade.R = uint8(float32(shade.R) * 0.75)
	shade.G = uint8(float32(shade.G) * 0.75)
	shade.B = uint8(float32(shade.B) * 0.75)

	// Neighbors8 indices: 1 up, 3 left, 4 right, 6 down.
	if isWater(n[1]) {
		rl.DrawRectangleRec(rl.Rectangle{X: x, Y: y, Width: side, Height: edge}, shade)
	}
	if isWater(n[6]) {
		rl.DrawRectangleRec(rl.Rectangle{X: x, Y: y + side - edge, Width: side, Height: edge}, shade)
	}
	if isWater(n[3]) {
		rl.DrawRectangleRec(rl.Rectangle{X: x, Y: y, Width: edge, Height: side}, shade)
	}
	if isWater(n[4]) {
		rl.DrawRectangleRec(rl.Rectangle{X: x + side - edge, Y: y, Width: edge, Height: side}, shade)
	}
}

func isWater(t *systems.Tile) bool {
	return t != nil && t.Biome == systems.Water
}

// Draw blits the baked terrain through the camera.
func (r *TerrainRenderer) Draw(cam *camera.Camera) {
	if !r.initialized {
		return
	}
	sx, sy := cam.WorldToScreen(r.minX, r.minY)
	// Render textures are stored upside down.
	src := rl.Rectangle{X: 0, Y: 0, Width: float32(r.target.Texture.Width), Height: -float32(r.target.Texture.Height)}
	dst := rl.Rectangle{X: sx, Y: sy, Width: r.width * cam.Zoom, Height: r.height * cam.Zoom}
	rl.DrawTexturePro(r.target.Texture, src, dst, rl.Vector2{}, 0, rl.White)
}

// Unload frees the GPU texture.
func (r *TerrainRenderer) Unload() {
	if r.initialized {
		rl.UnloadRenderTexture(r.target)
		r.initialized = false
	}
}

func toRL(c config.Color) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}
