package telemetry

import (
	"github.com/google/uuid"
)

// LifetimeStats tracks one rabbit from birth to death.
type LifetimeStats struct {
	ID         uuid.UUID `csv:"id" json:"id"`
	MotherID   uuid.UUID `csv:"mother_id" json:"mother_id"`
	FatherID   uuid.UUID `csv:"father_id" json:"father_id"`
	Name       string    `csv:"name" json:"name"`
	Sex        string    `csv:"sex" json:"sex"`
	Generation int       `csv:"generation" json:"generation"`

	BirthTick  int32   `csv:"birth_tick" json:"birth_tick"`
	BornAt     float64 `csv:"born_at" json:"born_at"`
	SurvivalS  float64 `csv:"survival_sec" json:"survival_sec"`
	DeathCause string  `csv:"death_cause" json:"death_cause,omitempty"`

	// Genes
	BaseSpeed   float32 `csv:"base_speed" json:"base_speed"`
	MaxAge      float32 `csv:"max_age" json:"max_age"`
	Descendants int     `csv:"descendants" json:"descendants"`

	// Reproduction
	Children    int `csv:"children" json:"children"`
	Impregnated int `csv:"impregnated" json:"impregnated"`
	Childbirths int `csv:"childbirths" json:"childbirths"`
}

// LifetimeTracker keeps stats for every living rabbit. Rabbits are keyed by
// uuid because entity ids are recycled after death.
type LifetimeTracker struct {
	stats map[uuid.UUID]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uuid.UUID]*LifetimeStats),
	}
}

// Register starts tracking a newborn and credits its parents.
func (lt *LifetimeTracker) Register(s LifetimeStats) {
	lt.stats[s.ID] = &s
	lt.RecordChild(s.MotherID)
	lt.RecordChild(s.FatherID)
}

// Get returns the lifetime stats for a rabbit, or nil if not found.
func (lt *LifetimeTracker) Get(id uuid.UUID) *LifetimeStats {
	return lt.stats[id]
}

// Remove stops tracking a rabbit and returns its final stats.
func (lt *LifetimeTracker) Remove(id uuid.UUID) *LifetimeStats {
	s := lt.stats[id]
	delete(lt.stats, id)
	return s
}

// RecordChild increments a parent's children count. Unknown or dead parents are ignored.
func (lt *LifetimeTracker) RecordChild(parentID uuid.UUID) {
	if s := lt.stats[parentID]; s != nil {
		s.Children++
	}
}

// Count returns the number of tracked rabbits.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}

// All returns all tracked stats (for snapshots).
func (lt *LifetimeTracker) All() map[uuid.UUID]*LifetimeStats {
	return lt.stats
}
