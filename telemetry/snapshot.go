package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/tonygoldcrest/ecosystem-sim/components"
	"github.com/tonygoldcrest/ecosystem-sim/systems"
	"github.com/tonygoldcrest/ecosystem-sim/traits"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the population at a moment of interest for offline analysis.
type Snapshot struct {
	Version int   `json:"version"`
	Seed    int64 `json:"seed"`

	Rows       int    `json:"rows"`
	Generation string `json:"generation"`

	Tick       int32   `json:"tick"`
	SimTimeSec float64 `json:"sim_time"`

	FoodAvailable int                            `json:"food_available"`
	Obituary      map[components.DeathReason]int `json:"obituary"`
	Rabbits       []RabbitState                  `json:"rabbits"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// RabbitState holds one rabbit's state.
type RabbitState struct {
	ID       uuid.UUID `json:"id"`
	MotherID uuid.UUID `json:"mother_id"`
	FatherID uuid.UUID `json:"father_id"`
	Name     string    `json:"name"`
	Sex      string    `json:"sex"`

	X    float32 `json:"x"`
	Y    float32 `json:"y"`
	VelX float32 `json:"vel_x"`
	VelY float32 `json:"vel_y"`

	Water     float32 `json:"water"`
	Food      float32 `json:"food"`
	Mate      float32 `json:"mate"`
	Age       float32 `json:"age"`
	Pregnancy float32 `json:"pregnancy"`
	Pregnant  bool    `json:"pregnant"`
	Activity  string  `json:"activity"`

	Traits traits.Traits `json:"traits"`
}

// NewRabbitState copies the persistent parts of an agent.
func NewRabbitState(a systems.Agent) RabbitState {
	p := a.Profile
	return RabbitState{
		ID:        p.ID,
		MotherID:  p.MotherID,
		FatherID:  p.FatherID,
		Name:      p.Name,
		Sex:       p.Sex.String(),
		X:         a.Pos.X,
		Y:         a.Pos.Y,
		VelX:      a.Kin.VelX,
		VelY:      a.Kin.VelY,
		Water:     a.Needs.Water,
		Food:      a.Needs.Food,
		Mate:      a.Needs.Mate,
		Age:       a.Needs.Age,
		Pregnancy: a.Needs.Pregnancy,
		Pregnant:  a.Life.Pregnant,
		Activity:  a.Life.Activity.String(),
		Traits:    p.Traits,
	}
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}
