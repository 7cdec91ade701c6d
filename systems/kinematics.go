package systems

import (
	"math"
	"math/rand"

	"github.com/tonygoldcrest/ecosystem-sim/components"
	"github.com/tonygoldcrest/ecosystem-sim/config"
)

// Mover applies heading changes to a Kinematics component.
type Mover struct {
	Scale       float32 // World units per second at speed 1
	FOV         float32 // Look-ahead distance
	WanderSpeed float32
	SeekSpeed   float32
}

// NewMover reads movement constants from the rabbit config.
func NewMover(cfg *config.RabbitConfig) Mover {
	return Mover{
		Scale:       cfg.VelocityScale,
		FOV:         cfg.FieldOfView,
		WanderSpeed: cfg.WanderSpeed,
		SeekSpeed:   cfg.SeekSpeed,
	}
}

// setVelocity points k along (dx, dy) at its current speed.
func (m Mover) setVelocity(k *components.Kinematics, dx, dy, base float32) {
	nx, ny := normalize(dx, dy)
	mag := m.Scale * k.Speed * base
	k.VelX, k.VelY = nx*mag, ny*mag
	m.UpdateFieldOfView(k)
}

// StartMoving sets a random heading at wander speed and drops any route.
func (m Mover) StartMoving(k *components.Kinematics, base float32, rng *rand.Rand) {
	k.Speed = m.WanderSpeed
	k.Path = k.Path[:0]
	angle := rng.Float64() * 2 * math.Pi
	m.setVelocity(k, float32(math.Cos(angle)), float32(math.Sin(angle)), base)
}

// Wander turns the heading by 30 to 120 degrees at wander speed.
func (m Mover) Wander(k *components.Kinematics, base float32, rng *rand.Rand) {
	if k.VelX == 0 && k.VelY == 0 {
		m.StartMoving(k, base, rng)
		return
	}
	k.Speed = m.WanderSpeed
	k.Path = k.Path[:0]
	angle := float32(math.Pi/6 + rng.Float64()*math.Pi/2)
	dx, dy := rotate(k.VelX, k.VelY, angle)
	m.setVelocity(k, dx, dy, base)
}

// Seek switches to seek speed. The caller then steers with SetDirection.
func (m Mover) Seek(k *components.Kinematics) {
	k.Speed = m.SeekSpeed
	k.Path = k.Path[:0]
}

// SetDirection heads along (dx, dy) at the current speed.
func (m Mover) SetDirection(k *components.Kinematics, dx, dy, base float32) {
	if dx == 0 && dy == 0 {
		return
	}
	m.setVelocity(k, dx, dy, base)
}

// Stop halts movement and remembers the last velocity for a later reorient.
func (m Mover) Stop(k *components.Kinematics) {
	if k.VelX != 0 || k.VelY != 0 {
		k.PrevX, k.PrevY = k.VelX, k.VelY
	}
	k.VelX, k.VelY = 0, 0
	k.Speed = m.WanderSpeed
	k.Path = k.Path[:0]
}

// Reverse heads back the way the rabbit came, then wanders off that heading.
func (m Mover) Reverse(k *components.Kinematics, base float32, rng *rand.Rand) {
	k.VelX, k.VelY = -k.PrevX, -k.PrevY
	m.Wander(k, base, rng)
}

// UpdateFieldOfView recomputes the look-ahead offset from the velocity.
func (m Mover) UpdateFieldOfView(k *components.Kinematics) {
	nx, ny := normalize(k.VelX, k.VelY)
	k.FovX, k.FovY = nx*m.FOV, ny*m.FOV
}

// NextWaypoint pops waypoints within reach of (x, y) and returns the point to
// head for: the last remaining waypoint, or the target once the route is used up.
func NextWaypoint(k *components.Kinematics, x, y, tx, ty, reach float32) (float32, float32) {
	reachSq := reach * reach
	for len(k.Path) > 0 {
		wp := k.Path[len(k.Path)-1]
		if distanceSq(x, y, wp.X, wp.Y) > reachSq {
			return wp.X, wp.Y
		}
		k.Path = k.Path[:len(k.Path)-1]
	}
	return tx, ty
}

// HopCoefficient is the per-tick speed modifier producing a hopping cadence.
// It is never negative, so half of each cycle the rabbit sits still.
func HopCoefficient(seed, speed float32, elapsed float64, amplitude, frequency float32) float32 {
	phase := 2*math.Pi*float64(seed) + float64(speed)*elapsed*float64(frequency)
	return float32(math.Max(0, float64(amplitude)*math.Sin(phase)))
}
