// Package scene drives the interactive view of a laid-out graph: the
// eased camera, frame-rate tracking, the adaptive quality tiers, and
// visibility culling. Everything here advances via explicit Tick calls
// carrying a delta, never wall-clock reads, so the whole package is
// deterministic under test.
package scene

import (
	"math"

	"github.com/vanderheijden86/orbital/pkg/model"
)

// cameraDamping is the per-tick lerp factor toward the target. Small
// enough to feel smooth at ~30 fps, large enough that any focus change
// settles within a few seconds.
const cameraDamping = 0.05

// defaultOrbitDistance is where the camera rests when nothing is
// focused.
const defaultOrbitDistance = 14.0

// Camera is an eased orbit camera. Position chases Target a fixed
// fraction per tick, so it approaches without ever overshooting.
type Camera struct {
	Position model.Vec3
	Target   model.Vec3

	home model.Vec3
}

// NewCamera returns a camera resting at the default orbit position.
func NewCamera() *Camera {
	home := model.Vec3{X: 0, Y: defaultOrbitDistance * 0.35, Z: defaultOrbitDistance}
	return &Camera{Position: home, Target: home, home: home}
}

// FocusOn retargets the camera halfway toward node's position, pulled
// out to the current orbit distance so focusing never changes zoom.
// A node at the origin falls back to the home position.
func (c *Camera) FocusOn(node model.Node) {
	mid := node.Position.Scale(0.5)
	dir := mid.Normalized()
	if dir == (model.Vec3{}) {
		c.Target = c.home
		return
	}
	dist := c.Position.Length()
	if dist == 0 {
		dist = defaultOrbitDistance
	}
	c.Target = dir.Scale(dist)
}

// Reset eases the camera back to its home position.
func (c *Camera) Reset() {
	c.Target = c.home
}

// Step advances the easing by one tick. delta is in seconds; the lerp
// factor is scaled so easing speed is frame-rate independent around
// the nominal 30 fps tick.
func (c *Camera) Step(delta float64) {
	t := cameraDamping * delta / (1.0 / 30.0)
	if t > 1 {
		t = 1
	}
	c.Position = c.Position.Lerp(c.Target, t)
}

// Settled reports whether the camera is within eps of its target.
func (c *Camera) Settled(eps float64) bool {
	return c.Position.DistanceTo(c.Target) < eps
}

// Forward returns the unit view direction, from the position toward
// the scene origin. A camera sitting exactly at the origin looks down
// -Z so culling still has a defined axis.
func (c *Camera) Forward() model.Vec3 {
	f := c.Position.Scale(-1).Normalized()
	if f == (model.Vec3{}) {
		return model.Vec3{Z: -1}
	}
	return f
}

// DistanceToTarget returns how far the camera still has to travel.
func (c *Camera) DistanceToTarget() float64 {
	d := c.Position.DistanceTo(c.Target)
	if math.IsNaN(d) {
		return 0
	}
	return d
}
