package systems

import (
	"github.com/tonygoldcrest/ecosystem-sim/components"
)

// Schedule arms a deferred action to fire after a random delay in [0, maxDelay).
// A pending action of the same kind is replaced.
func Schedule(ctx *SimContext, a Agent, kind components.DeferredAction, maxDelay float64) {
	a.Sched.Slots[kind] = components.Deferred{
		Pending: true,
		FiresAt: ctx.Elapsed + ctx.RNG.Float64()*maxDelay,
	}
}

// Cancel disarms a pending deferred action.
func Cancel(a Agent, kind components.DeferredAction) {
	a.Sched.Slots[kind] = components.Deferred{}
}

// Pending reports whether an action of the given kind is armed.
func Pending(a Agent, kind components.DeferredAction) bool {
	return a.Sched.Slots[kind].Pending
}

// runDeferred fires every due action and clears its slot. Actions only apply
// to an idle rabbit; anything else it started since has priority.
func (b *Behavior) runDeferred(ctx *SimContext, a Agent) {
	for kind := components.DeferredAction(0); kind < components.NumActions; kind++ {
		slot := &a.Sched.Slots[kind]
		if !slot.Pending || ctx.Elapsed < slot.FiresAt {
			continue
		}
		*slot = components.Deferred{}

		if a.Life.Activity != components.ActivityNone || a.Life.WaitingToMate {
			continue
		}
		switch kind {
		case components.ActionReorient:
			b.mover.Reverse(a.Kin, a.Profile.Traits.BaseSpeed, ctx.RNG)
		case components.ActionResume:
			b.mover.StartMoving(a.Kin, a.Profile.Traits.BaseSpeed, ctx.RNG)
		}
	}
}
