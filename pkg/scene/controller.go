package scene

import (
	"math"
	"sync"

	"github.com/vanderheijden86/orbital/pkg/metrics"
	"github.com/vanderheijden86/orbital/pkg/model"
)

// wobble animation for the hovered node.
const (
	wobbleFrequency = 3.0  // Hz
	wobbleAmplitude = 0.08 // World units
)

// NodeState is one node's render state for a single frame.
type NodeState struct {
	Node    model.Node
	Visible bool
	Hovered bool
	Wobble  float64 // Vertical offset to apply this frame
}

// ConnectionState is one connection's render state for a single frame.
type ConnectionState struct {
	Connection  model.Connection
	Highlighted bool // Touches the hovered node
	Visible     bool
}

// FrameState is everything a renderer needs for one frame. It is a
// value snapshot; the controller keeps no reference to it after Tick
// returns.
type FrameState struct {
	Tier        model.QualityTier
	AvgFPS      float64
	CameraPos   model.Vec3
	HoveredID   string
	Nodes       []NodeState
	Connections []ConnectionState
}

// Controller owns the mutable per-session scene state: camera easing,
// frame-rate tracking, tier selection, hover, and visibility culling.
// All methods are safe for concurrent use, though in practice the UI
// loop serializes them.
type Controller struct {
	mu sync.Mutex

	nodes       []model.Node
	byID        map[string]model.Node
	connections []model.Connection

	camera  *Camera
	frames  *FrameMetrics
	machine *TierMachine

	hoveredID  string
	frameCount uint64
	clock      float64 // Accumulated delta seconds
	visible    map[string]bool

	onHoverChange func(id string)
	disableWobble bool
	closed        bool
}

// ControllerOptions tunes a controller at construction time.
type ControllerOptions struct {
	StartTier     model.QualityTier
	DisableWobble bool
}

// DefaultControllerOptions starts at high quality with the wobble on.
func DefaultControllerOptions() ControllerOptions {
	return ControllerOptions{StartTier: model.QualityHigh}
}

// NewController builds a controller for one laid-out graph with the
// default options. The node and connection slices are retained and
// must not be mutated by the caller afterwards.
func NewController(nodes []model.Node, connections []model.Connection) *Controller {
	return NewControllerWith(nodes, connections, DefaultControllerOptions())
}

// NewControllerWith builds a controller with explicit options.
func NewControllerWith(nodes []model.Node, connections []model.Connection, opts ControllerOptions) *Controller {
	byID := make(map[string]model.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}
	return &Controller{
		nodes:         nodes,
		byID:          byID,
		connections:   connections,
		camera:        NewCamera(),
		frames:        &FrameMetrics{},
		machine:       NewTierMachineAt(opts.StartTier),
		disableWobble: opts.DisableWobble,
	}
}

// OnHoverChange registers a callback invoked whenever the hovered node
// changes, including on clear (empty id). The callback runs on the
// goroutine that triggered the change, with the controller unlocked.
func (c *Controller) OnHoverChange(fn func(id string)) {
	c.mu.Lock()
	c.onHoverChange = fn
	c.mu.Unlock()
}

// SetHover marks id as the hovered node. A rapid sequence of calls is
// fine: the last one wins. Unknown ids are ignored.
func (c *Controller) SetHover(id string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	node, ok := c.byID[id]
	if !ok || c.hoveredID == id {
		c.mu.Unlock()
		return
	}
	c.hoveredID = id
	c.camera.FocusOn(node)
	fn := c.onHoverChange
	c.mu.Unlock()

	if fn != nil {
		fn(id)
	}
}

// ClearHover removes the hover state and eases the camera home.
// Clearing when nothing is hovered is a no-op.
func (c *Controller) ClearHover() {
	c.mu.Lock()
	if c.closed || c.hoveredID == "" {
		c.mu.Unlock()
		return
	}
	c.hoveredID = ""
	c.camera.Reset()
	fn := c.onHoverChange
	c.mu.Unlock()

	if fn != nil {
		fn("")
	}
}

// Hovered returns the currently hovered node id, or "".
func (c *Controller) Hovered() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hoveredID
}

// Tier returns the current quality tier.
func (c *Controller) Tier() model.QualityTier {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.Tier()
}

// Tick advances the scene by delta seconds and returns the frame
// state to render. Ticking a closed controller returns an empty frame
// at the last tier.
//
// When no frame samples exist yet the tier stays where it is (high on
// a fresh controller): a brand-new session renders pretty first and
// corrects downward if the machine can't keep up.
func (c *Controller) Tick(delta float64) FrameState {
	defer metrics.Timer(metrics.FrameTick)()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return FrameState{Tier: c.machine.Tier()}
	}

	c.clock += delta
	c.frameCount++

	c.frames.RecordDelta(delta)
	avg, have := c.frames.AverageFPS()
	c.machine.Observe(avg, have, delta)

	c.camera.Step(delta)

	// Recompute visibility only every cullInterval frames. The camera
	// moves slowly enough that a stale set stays correct to within the
	// cone padding.
	if c.visible == nil || c.frameCount%cullInterval == 1 {
		done := metrics.Timer(metrics.CullPass)
		c.visible = cullSet(c.camera.Position, c.camera.Forward(), c.nodes)
		done()
	}

	tier := c.machine.Tier()
	wobble := 0.0
	if !c.disableWobble {
		wobble = math.Sin(2*math.Pi*wobbleFrequency*c.clock) * wobbleAmplitude
	}

	st := FrameState{
		Tier:        tier,
		AvgFPS:      avg,
		CameraPos:   c.camera.Position,
		HoveredID:   c.hoveredID,
		Nodes:       make([]NodeState, 0, len(c.nodes)),
		Connections: make([]ConnectionState, 0, len(c.connections)),
	}

	for _, n := range c.nodes {
		hovered := n.ID == c.hoveredID
		ns := NodeState{
			Node:    n,
			Visible: c.visible[n.ID] || hovered,
			Hovered: hovered,
		}
		if hovered {
			ns.Wobble = wobble
		}
		st.Nodes = append(st.Nodes, ns)
	}

	for _, conn := range c.connections {
		highlighted := c.hoveredID != "" && conn.Touches(c.hoveredID)
		visible := true
		if tier == model.QualityLow && !highlighted {
			// Low tier draws only the edges the user is looking at.
			visible = false
		}
		st.Connections = append(st.Connections, ConnectionState{
			Connection:  conn,
			Highlighted: highlighted,
			Visible:     visible,
		})
	}

	return st
}

// Camera returns the controller's camera for read access in tests and
// status displays.
func (c *Controller) Camera() *Camera {
	return c.camera
}

// FrameCount returns how many ticks have run.
func (c *Controller) FrameCount() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frameCount
}

// Close releases the controller. Safe to call more than once; ticks
// and hover changes after Close are no-ops.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.hoveredID = ""
	c.visible = nil
}

// Closed reports whether Close has been called.
func (c *Controller) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
