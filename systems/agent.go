package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/tonygoldcrest/ecosystem-sim/components"
)

// Agent bundles pointers to one rabbit's components. The pointers stay valid
// until the next structural change to the world, so an Agent must not be held
// across entity creation or removal.
type Agent struct {
	Entity  ecs.Entity
	Pos     *components.Position
	Kin     *components.Kinematics
	Profile *components.Profile
	Needs   *components.Needs
	Life    *components.Life
	Sched   *components.Schedule
}

// MateFinder resolves other rabbits for the behaviour controller.
type MateFinder interface {
	// Agent resolves a weak reference. ok is false if the entity no longer exists.
	Agent(e ecs.Entity) (Agent, bool)
	// ClosestFemale returns the nearest living, non-pregnant, mature female
	// within radius that is not already waiting for another male.
	ClosestFemale(x, y, radius float32, matureAge float32, exclude ecs.Entity) (Agent, bool)
}

// Available reports whether a female can be courted.
func (a Agent) Available(matureAge float32) bool {
	l := a.Life
	return l.Alive &&
		a.Profile.Sex == components.Female &&
		!l.Pregnant &&
		!l.WaitingToMate &&
		a.Needs.Age > matureAge
}

// AgentSprite is the render view of one rabbit.
type AgentSprite struct {
	X, Y        float32
	Size        float32
	Highlighted bool
	Sex         components.Sex
	Texture     int
	Activity    components.Activity
	FacingLeft  bool
}
