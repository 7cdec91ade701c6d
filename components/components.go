// Package components defines ECS components for the simulation.
package components

import (
	"github.com/google/uuid"
	"github.com/mlange-42/ark/ecs"

	"github.com/tonygoldcrest/ecosystem-sim/traits"
)

// Position represents an entity's world position.
type Position struct {
	X, Y float32
}

// Waypoint is a point on a planned route.
type Waypoint struct {
	X, Y float32
}

// Kinematics holds movement state. Velocity is in world units per second
// before the hop modifier is applied.
type Kinematics struct {
	VelX, VelY   float32
	PrevX, PrevY float32 // Velocity before the last stop
	Speed        float32 // Multiplier: wander or seek
	FovX, FovY   float32 // Look-ahead offset along the heading

	// Route consumed from the end; empty means head straight for the target.
	Path []Waypoint
}

// Profile is the immutable part of a rabbit, fixed at birth.
type Profile struct {
	ID       uuid.UUID
	MotherID uuid.UUID // Zero for founders
	FatherID uuid.UUID
	Seq      uint64 // Birth order, used to break ties deterministically
	Name     string
	Sex      Sex
	Seed     float32 // Hop phase in [0, 1)
	Traits   traits.Traits

	MinSize, MaxSize float32

	WaterThreshold  float32
	FoodThreshold   float32
	MatingThreshold float32

	BornAt float64 // Simulation seconds
}

// Needs holds levels that drift every tick. Water and food fall, mate desire
// and pregnancy rise, age accumulates in simulation seconds.
type Needs struct {
	Water     float32
	Food      float32
	Mate      float32
	Age       float32
	Pregnancy float32
}

// Life holds the mutable behavioural state.
type Life struct {
	Alive       bool
	DeathReason DeathReason
	Activity    Activity

	Pregnant     bool
	FatherTraits traits.Traits // Valid while Pregnant
	FatherID     uuid.UUID
	Impregnated  int
	Childbirths  int

	Highlighted   bool
	Size          float32
	ProjectedSize float32

	// Targets. Entities are weak references and must be checked with World.Alive.
	WaterX, WaterY float32
	FoodIndex      int // -1 when not seeking food
	Mate           ecs.Entity

	WaitingToMate bool
	Suitor        ecs.Entity
}

// Deferred is one pending delayed action.
type Deferred struct {
	Pending bool
	FiresAt float64 // Simulation seconds
}

// Schedule holds at most one pending action of each kind.
type Schedule struct {
	Slots [NumActions]Deferred
}
