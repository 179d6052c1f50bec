package scene

import (
	"testing"

	"github.com/vanderheijden86/orbital/pkg/graph"
	"github.com/vanderheijden86/orbital/pkg/layout"
	"github.com/vanderheijden86/orbital/pkg/model"
	"github.com/vanderheijden86/orbital/pkg/testutil"
)

func newTestController(t *testing.T, n, cats int) *Controller {
	t.Helper()
	g, err := graph.Build(testutil.GenerateItems(n, cats))
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	nodes := layout.Compute(g, layout.Options{})
	return NewController(nodes, g.Connections())
}

func TestController_TickProducesFrame(t *testing.T) {
	c := newTestController(t, 12, 3)
	st := c.Tick(tickDelta)

	if len(st.Nodes) != 12 {
		t.Errorf("frame nodes = %d, want 12", len(st.Nodes))
	}
	if len(st.Connections) != 11 {
		t.Errorf("frame connections = %d, want 11", len(st.Connections))
	}
	if st.Tier != model.QualityHigh {
		t.Errorf("fresh controller tier = %v, want high", st.Tier)
	}
}

func TestController_FailOpenWithoutSamples(t *testing.T) {
	c := newTestController(t, 4, 2)
	// Zero delta carries no rate information; tier must stay high
	// rather than guessing from an empty window.
	st := c.Tick(0)
	if st.Tier != model.QualityHigh {
		t.Errorf("tier = %v, want high with no frame samples", st.Tier)
	}
}

func TestController_HoverLastWins(t *testing.T) {
	c := newTestController(t, 6, 2)
	c.SetHover("tech-001")
	c.SetHover("tech-002")
	c.SetHover("tech-004")

	if got := c.Hovered(); got != "tech-004" {
		t.Errorf("hovered = %q, want tech-004", got)
	}

	st := c.Tick(tickDelta)
	hovered := 0
	for _, ns := range st.Nodes {
		if ns.Hovered {
			hovered++
			if ns.Node.ID != "tech-004" {
				t.Errorf("wrong node hovered: %s", ns.Node.ID)
			}
			if ns.Wobble == 0 {
				// Wobble is sinusoidal; a single tick lands off the
				// zero crossing.
				t.Error("hovered node has no wobble")
			}
		}
	}
	if hovered != 1 {
		t.Errorf("hovered nodes = %d, want 1", hovered)
	}
}

func TestController_StartTierOption(t *testing.T) {
	g, err := graph.Build(testutil.GenerateItems(4, 2))
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	nodes := layout.Compute(g, layout.Options{})

	c := NewControllerWith(nodes, g.Connections(), ControllerOptions{StartTier: model.QualityLow})
	if c.Tier() != model.QualityLow {
		t.Fatalf("tier = %v, want low from options", c.Tier())
	}
	st := c.Tick(tickDelta)
	if st.Tier != model.QualityLow {
		t.Errorf("frame tier = %v, want low", st.Tier)
	}
}

func TestController_DisableWobble(t *testing.T) {
	g, err := graph.Build(testutil.GenerateItems(4, 2))
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	nodes := layout.Compute(g, layout.Options{})

	c := NewControllerWith(nodes, g.Connections(), ControllerOptions{
		StartTier:     model.QualityHigh,
		DisableWobble: true,
	})
	c.SetHover("tech-001")
	st := c.Tick(tickDelta)
	for _, ns := range st.Nodes {
		if ns.Hovered && ns.Wobble != 0 {
			t.Errorf("wobble = %v with animation disabled, want 0", ns.Wobble)
		}
	}
}

func TestController_HoverUnknownIgnored(t *testing.T) {
	c := newTestController(t, 3, 1)
	c.SetHover("nope")
	if c.Hovered() != "" {
		t.Errorf("unknown id must not hover, got %q", c.Hovered())
	}
}

func TestController_HoverHighlightsIncidentConnections(t *testing.T) {
	c := newTestController(t, 5, 1)
	c.SetHover("tech-002")
	st := c.Tick(tickDelta)

	for _, cs := range st.Connections {
		want := cs.Connection.Touches("tech-002")
		if cs.Highlighted != want {
			t.Errorf("connection %s-%s highlighted = %v, want %v",
				cs.Connection.StartID, cs.Connection.EndID, cs.Highlighted, want)
		}
	}
}

func TestController_ClearHoverResetsCamera(t *testing.T) {
	c := newTestController(t, 5, 1)
	home := c.Camera().Target

	c.SetHover("tech-003")
	if c.Camera().Target == home {
		t.Fatal("focus should move the camera target")
	}
	c.ClearHover()
	if c.Hovered() != "" {
		t.Errorf("hovered = %q after clear", c.Hovered())
	}
	if c.Camera().Target != home {
		t.Errorf("camera target = %v, want home %v", c.Camera().Target, home)
	}

	// Clearing again is a no-op.
	c.ClearHover()
}

func TestController_OnHoverChange(t *testing.T) {
	c := newTestController(t, 5, 1)
	var got []string
	c.OnHoverChange(func(id string) { got = append(got, id) })

	c.SetHover("tech-001")
	c.SetHover("tech-001") // No change, no callback
	c.SetHover("tech-002")
	c.ClearHover()

	want := []string{"tech-001", "tech-002", ""}
	if len(got) != len(want) {
		t.Fatalf("callbacks = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("callback[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestController_LowTierHidesUnhighlightedConnections(t *testing.T) {
	c := newTestController(t, 8, 2)

	// Drive the machine down to low: sustained 20 fps for both dwells.
	for i := 0; i < 150; i++ {
		c.Tick(1.0 / 20)
	}
	if c.Tier() != model.QualityLow {
		t.Fatalf("tier = %v, want low after sustained slow frames", c.Tier())
	}

	c.SetHover("tech-003")
	st := c.Tick(1.0 / 20)
	for _, cs := range st.Connections {
		if cs.Highlighted && !cs.Visible {
			t.Errorf("highlighted connection hidden at low tier: %+v", cs.Connection)
		}
		if !cs.Highlighted && cs.Visible {
			t.Errorf("unhighlighted connection visible at low tier: %+v", cs.Connection)
		}
	}
}

func TestController_CullRefreshInterval(t *testing.T) {
	c := newTestController(t, 30, 5)

	c.Tick(tickDelta)
	first := c.FrameCount()
	if first != 1 {
		t.Fatalf("frame count = %d, want 1", first)
	}

	// The visible set must exist from the first frame onward and every
	// node is either culled or drawn, never undefined.
	st := c.Tick(tickDelta)
	seen := make(map[string]bool)
	for _, ns := range st.Nodes {
		seen[ns.Node.ID] = true
	}
	if len(seen) != 30 {
		t.Errorf("frame covered %d nodes, want 30", len(seen))
	}

	// A hovered node is always visible, even between cull passes.
	c.SetHover("tech-000")
	for i := 0; i < cullInterval+2; i++ {
		st = c.Tick(tickDelta)
	}
	for _, ns := range st.Nodes {
		if ns.Node.ID == "tech-000" && !ns.Visible {
			t.Error("hovered node culled")
		}
	}
}

func TestController_CloseIdempotent(t *testing.T) {
	c := newTestController(t, 4, 2)
	c.Tick(tickDelta)

	c.Close()
	c.Close()
	if !c.Closed() {
		t.Fatal("controller should report closed")
	}

	st := c.Tick(tickDelta)
	if len(st.Nodes) != 0 {
		t.Errorf("tick after close returned %d nodes, want 0", len(st.Nodes))
	}
	c.SetHover("tech-001")
	if c.Hovered() != "" {
		t.Error("hover after close should be ignored")
	}
}
