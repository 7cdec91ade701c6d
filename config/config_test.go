package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tonygoldcrest/ecosystem-sim/traits"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	if cfg.World.Rows <= 0 {
		t.Errorf("World.Rows = %d, want positive", cfg.World.Rows)
	}
	if cfg.Food.Amount != 250 {
		t.Errorf("Food.Amount = %d, want 250", cfg.Food.Amount)
	}
	if cfg.Population.Initial != 100 {
		t.Errorf("Population.Initial = %d, want 100", cfg.Population.Initial)
	}
	want := []int{1, 2, 5, 10, 20, 30, 50, 100}
	if len(cfg.Speed.Levels) != len(want) {
		t.Fatalf("Speed.Levels = %v, want %v", cfg.Speed.Levels, want)
	}
	for i := range want {
		if cfg.Speed.Levels[i] != want[i] {
			t.Errorf("Speed.Levels[%d] = %d, want %d", i, cfg.Speed.Levels[i], want[i])
		}
	}
	if cfg.Rabbit.WaterGiveUp != 100 {
		t.Errorf("Rabbit.WaterGiveUp = %v, want 100", cfg.Rabbit.WaterGiveUp)
	}
	if cfg.Genetics.Strategies.MateSense != traits.FatherOnly {
		t.Errorf("MateSense strategy = %v, want father", cfg.Genetics.Strategies.MateSense)
	}
	if cfg.Derived.DT32 <= 0 {
		t.Errorf("Derived.DT32 = %v, want positive", cfg.Derived.DT32)
	}
	if _, ok := cfg.Derived.Palette["water"]; !ok {
		t.Error("Derived.Palette missing water")
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	overlay := "world:\n  rows: 64\n  generation: island\nfood:\n  amount: 10\n"
	if err := os.WriteFile(path, []byte(overlay), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.World.Rows != 64 || cfg.World.Generation != GenerationIsland {
		t.Errorf("world = %+v, want rows 64 island", cfg.World)
	}
	if cfg.Food.Amount != 10 {
		t.Errorf("Food.Amount = %d, want 10", cfg.Food.Amount)
	}
	// Untouched sections keep defaults
	if cfg.Population.Initial != 100 {
		t.Errorf("Population.Initial = %d, want default 100", cfg.Population.Initial)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		overlay string
		wantErr string
	}{
		{"zero rows", "world:\n  rows: 0\n", "world.rows"},
		{"unknown generation", "world:\n  generation: swamp\n", "world.generation"},
		{"unordered thresholds", "terrain:\n  thresholds:\n    grass: 0.9\n", "thresholds"},
		{"bad strategy", "genetics:\n  strategies:\n    max_age: cousin\n", "strategy"},
		{"bad colour", "terrain:\n  palette:\n    water: blue\n", "palette"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.overlay), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Rabbit.SeekSpeed = 3.5
	cfg.Genetics.Strategies.BaseSpeed = traits.MotherOnly

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load written file: %v", err)
	}
	if back.Rabbit.SeekSpeed != 3.5 {
		t.Errorf("SeekSpeed = %v, want 3.5", back.Rabbit.SeekSpeed)
	}
	if back.Genetics.Strategies.BaseSpeed != traits.MotherOnly {
		t.Errorf("BaseSpeed strategy = %v, want mother", back.Genetics.Strategies.BaseSpeed)
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#3b7fc4", Color{0x3b, 0x7f, 0xc4, 255}, false},
		{"#00000080", Color{0, 0, 0, 0x80}, false},
		{"3b7fc4", Color{}, true},
		{"#zzzzzz", Color{}, true},
	}
	for _, tt := range tests {
		got, err := ParseHexColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHexColor(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHexColor(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}
