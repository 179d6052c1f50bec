package scene

import (
	"math"

	"github.com/vanderheijden86/orbital/pkg/model"
)

// The view cone approximates the real frustum: a node is visible when
// the angle between the view axis and the camera-to-node direction is
// inside the half-FOV, padded so nodes near the edge don't flicker as
// the camera eases.
const (
	fovDegrees    = 60.0
	conePaddingP  = 1.25 // Widens the cone; culling errs toward visible
	nearPlaneDist = 0.1
)

// cullInterval is how many frames a visibility result may be reused
// before it is recomputed.
const cullInterval = 10

// visibleFrom reports whether pos lies inside the padded view cone of
// a camera at eye looking along forward (unit vector).
func visibleFrom(eye, forward, pos model.Vec3) bool {
	to := pos.Sub(eye)
	dist := to.Length()
	if dist < nearPlaneDist {
		// On top of the camera; always draw.
		return true
	}
	cosAngle := to.Dot(forward) / dist

	halfFOV := fovDegrees / 2 * math.Pi / 180 * conePaddingP
	return cosAngle >= math.Cos(halfFOV)
}

// cullSet computes the visible-node id set for one camera pose.
func cullSet(eye, forward model.Vec3, nodes []model.Node) map[string]bool {
	vis := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if visibleFrom(eye, forward, n.Position) {
			vis[n.ID] = true
		}
	}
	return vis
}
