// Terrain preview tool - interactive biome generation with sliders.
//
// Usage: go run ./cmd/terrainpreview [-config path]
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/tonygoldcrest/ecosystem-sim/config"
	"github.com/tonygoldcrest/ecosystem-sim/systems"
)

const (
	windowWidth  = 1100
	windowHeight = 720
	previewW     = 640
	previewH     = 360
	panelX       = previewW + 30
	sliderW      = windowWidth - panelX - 90
)

// preview holds the editable generation settings.
type preview struct {
	world   config.WorldConfig
	terrain config.TerrainConfig
}

func main() {
	configPath := flag.String("config", "", "Config YAML file (empty = use defaults)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	initial := preview{world: cfg.World, terrain: cfg.Terrain}
	p := initial

	rl.InitWindow(windowWidth, windowHeight, "Terrain Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	var texture rl.Texture2D
	var grid *systems.TerrainGrid
	var genErr error
	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			grid, genErr = generate(cfg, p)
			if genErr == nil {
				if texture.ID != 0 {
					rl.UnloadTexture(texture)
				}
				texture = bake(grid)
			}
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		if texture.ID != 0 {
			rl.DrawTexturePro(
				texture,
				rl.Rectangle{Width: float32(texture.Width), Height: float32(texture.Height)},
				rl.Rectangle{X: 10, Y: 10, Width: previewW, Height: previewH},
				rl.Vector2{},
				0,
				rl.White,
			)
		}
		rl.DrawRectangleLines(10, 10, previewW, previewH, rl.DarkGray)

		statsY := int32(previewH + 25)
		if genErr != nil {
			rl.DrawText(genErr.Error(), 15, statsY, 16, rl.Maroon)
		} else {
			drawBiomeStats(grid, 15, statsY)
		}

		y := float32(10)
		rl.DrawText("Terrain Parameters", panelX, int32(y), 20, rl.DarkGray)
		y += 35

		island := gui.CheckBox(rl.Rectangle{X: panelX, Y: y, Width: 18, Height: 18}, "Island", p.world.Generation == config.GenerationIsland)
		generation := config.GenerationPlain
		if island {
			generation = config.GenerationIsland
		}
		if generation != p.world.Generation {
			p.world.Generation = generation
			needsRegen = true
		}
		y += 30

		needsRegen = slider(&y, "Rows", "%.0f", &p.world.Rows, 20, 240) || needsRegen
		needsRegen = sliderF(&y, "Noise scale (period / rows)", "%.2f", &p.terrain.NoiseScale, 0.05, 2) || needsRegen
		needsRegen = slider(&y, "Octaves (island only)", "%.0f", &p.terrain.Octaves, 1, 8) || needsRegen
		needsRegen = sliderF(&y, "Island falloff", "%.2f", &p.terrain.IslandFalloff, 0, 4) || needsRegen

		rl.DrawLine(panelX, int32(y), windowWidth-20, int32(y), rl.LightGray)
		y += 10
		th := &p.terrain.Thresholds
		needsRegen = sliderF(&y, "Dirt below", "%.2f", &th.Dirt, -1.5, 1.5) || needsRegen
		needsRegen = sliderF(&y, "Dark grass below", "%.2f", &th.DarkGrass, -1.5, 1.5) || needsRegen
		needsRegen = sliderF(&y, "Grass below", "%.2f", &th.Grass, -1.5, 1.5) || needsRegen
		needsRegen = sliderF(&y, "Sand below (water above)", "%.2f", &th.Sand, -1.5, 1.5) || needsRegen

		seed := int(p.world.Seed)
		if slider(&y, "Seed", "%.0f", &seed, 0, 99999) {
			p.world.Seed = int64(seed)
			needsRegen = true
		}
		y += 10

		if gui.Button(rl.Rectangle{X: panelX, Y: y, Width: 120, Height: 30}, "Random Seed") {
			p.world.Seed = int64(rl.GetRandomValue(0, 99999))
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: y, Width: 120, Height: 30}, "Reset All") {
			p = initial
			needsRegen = true
		}
		y += 45

		rl.DrawText("Press C to copy YAML to clipboard", panelX, windowHeight-30, 12, rl.Gray)
		if rl.IsKeyPressed(rl.KeyC) {
			if out, err := p.yaml(); err != nil {
				log.Printf("failed to marshal yaml: %v", err)
			} else {
				rl.SetClipboardText(out)
			}
		}

		rl.EndDrawing()
	}

	if texture.ID != 0 {
		rl.UnloadTexture(texture)
	}
}

// yaml renders the world and terrain sections as config YAML.
func (p preview) yaml() (string, error) {
	out, err := yaml.Marshal(struct {
		World   config.WorldConfig   `yaml:"world"`
		Terrain config.TerrainConfig `yaml:"terrain"`
	}{p.world, p.terrain})
	return string(out), err
}

func generate(cfg *config.Config, p preview) (*systems.TerrainGrid, error) {
	c := *cfg
	c.World = p.world
	c.Terrain = p.terrain
	return systems.NewTerrainGrid(systems.TerrainParamsFromConfig(&c))
}

// bake draws one pixel per tile.
func bake(grid *systems.TerrainGrid) rl.Texture2D {
	img := image.NewRGBA(image.Rect(0, 0, grid.Cols(), grid.Rows()))
	side := grid.TileSide()
	minX, minY, _, _ := grid.Bounds()
	for _, s := range grid.SnapshotForRender() {
		col := int((s.X - minX) / side)
		row := int((s.Y - minY) / side)
		img.Set(col, row, color.RGBA{R: s.Color.R, G: s.Color.G, B: s.Color.B, A: 255})
	}
	return rl.LoadTextureFromImage(rl.NewImageFromImage(img))
}

func drawBiomeStats(grid *systems.TerrainGrid, x, y int32) {
	counts := grid.BiomeCounts()
	total := float64(len(grid.Tiles()))
	rl.DrawText(fmt.Sprintf("%d x %d tiles, side %.1f", grid.Cols(), grid.Rows(), grid.TileSide()), x, y, 16, rl.DarkGray)
	y += 22
	for b := systems.Biome(0); b < systems.NumBiomes; b++ {
		rl.DrawText(fmt.Sprintf("%-10s %5.1f%%", b, 100*float64(counts[b])/total), x, y, 16, rl.DarkGray)
		y += 18
	}
}

// sliderF draws a labelled float slider and reports whether the value changed.
func sliderF(y *float32, label, format string, v *float64, lo, hi float32) bool {
	rl.DrawText(label, panelX, int32(*y), 14, rl.Gray)
	*y += 18
	n := gui.SliderBar(rl.Rectangle{X: panelX, Y: *y, Width: sliderW, Height: 20}, "", "", float32(*v), lo, hi)
	rl.DrawText(fmt.Sprintf(format, *v), panelX+sliderW+10, int32(*y+2), 16, rl.DarkGray)
	*y += 30
	if float64(n) == float64(float32(*v)) {
		return false
	}
	*v = float64(n)
	return true
}

// slider is sliderF for integer settings.
func slider(y *float32, label, format string, v *int, lo, hi float32) bool {
	f := float64(*v)
	if !sliderF(y, label, format, &f, lo, hi) || int(f) == *v {
		return false
	}
	*v = int(f)
	return true
}
