// Package export renders static snapshots of the scene: the current
// camera's view of the graph as SVG or PNG, with a legend and summary
// block. Snapshots are deterministic for a given scene state so they
// can be diffed and golden-tested.
package export

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/orbital/pkg/graph"
	"github.com/vanderheijden86/orbital/pkg/metrics"
	"github.com/vanderheijden86/orbital/pkg/model"
)

// SnapshotOptions controls snapshot export behaviour.
type SnapshotOptions struct {
	Path        string // Output path; format inferred from extension when Format empty
	Format      string // "svg" or "png" (case-insensitive). If empty, inferred from Path.
	Title       string // Optional title rendered in summary block
	Preset      string // Canvas preset: "compact" (default) or "roomy"
	Nodes       []model.Node
	Connections []model.Connection
	Styles      *model.StyleTable
	Stats       *graph.Stats // Summary block source; optional
	Tier        model.QualityTier
	HoveredID   string
	CameraPos   model.Vec3 // Zero value means the default orbit position
}

// SaveSnapshot renders a static scene snapshot (SVG or PNG). The
// visual language stays close to the live view: category colors,
// hovered node emphasized, and at low tier only highlighted
// connections drawn.
func SaveSnapshot(opts SnapshotOptions) error {
	defer metrics.Timer(metrics.SnapshotRender)()

	if len(opts.Nodes) == 0 {
		return fmt.Errorf("no nodes to export")
	}
	if opts.Styles == nil {
		return fmt.Errorf("style table is required for snapshot export")
	}

	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".svg":
			format = "svg"
		case ".png":
			format = "png"
		default:
			format = "svg" // safe default
			if opts.Path != "" && filepath.Ext(opts.Path) == "" {
				opts.Path = opts.Path + ".svg"
			}
		}
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	proj := project(opts)

	switch format {
	case "svg":
		return renderSVG(opts, proj)
	case "png":
		return renderPNG(opts, proj)
	default:
		return fmt.Errorf("unhandled format %q", format)
	}
}

// --- projection ------------------------------------------------------------

type projectedNode struct {
	ID       string
	Name     string
	Category string
	X, Y     float64 // Screen coordinates
	Depth    float64 // View-space distance; larger is farther
	Radius   float64
	Hovered  bool
}

type projectedEdge struct {
	X1, Y1, X2, Y2 float64
	Highlighted    bool
}

type projection struct {
	Nodes   []projectedNode // Sorted far-to-near for painter's order
	Edges   []projectedEdge
	Width   int
	Height  int
	Header  float64
	Summary summaryInfo
}

type summaryInfo struct {
	Title      string
	NodeCount  int
	EdgeCount  int
	Categories int
	Hub        string
	Tier       string
}

const (
	headerHeight = 110.0
	nearPlane    = 0.2
	nodeBaseSize = 0.45 // World-space sphere radius before projection
)

// project maps the 3D scene onto the canvas with a simple pinhole
// camera looking at the origin.
func project(opts SnapshotOptions) projection {
	width, height := 960, 720
	if strings.EqualFold(opts.Preset, "roomy") {
		width, height = 1280, 960
	}

	eye := opts.CameraPos
	if eye == (model.Vec3{}) {
		eye = model.Vec3{X: 0, Y: 5, Z: 14}
	}

	// View basis: forward toward the origin, right = forward x worldUp,
	// up completes the frame.
	forward := eye.Scale(-1).Normalized()
	if forward == (model.Vec3{}) {
		forward = model.Vec3{Z: -1}
	}
	worldUp := model.Vec3{Y: 1}
	right := cross(forward, worldUp).Normalized()
	if right == (model.Vec3{}) {
		// Camera looking straight down; pick an arbitrary right axis.
		right = model.Vec3{X: 1}
	}
	up := cross(right, forward)

	focal := float64(height) // ~53 degree vertical FOV
	cx := float64(width) / 2
	cy := headerHeight + (float64(height)-headerHeight)/2

	screen := make(map[string]projectedNode, len(opts.Nodes))
	nodes := make([]projectedNode, 0, len(opts.Nodes))
	for _, n := range opts.Nodes {
		rel := n.Position.Sub(eye)
		depth := rel.Dot(forward)
		if depth < nearPlane {
			continue
		}
		px := cx + focal*rel.Dot(right)/depth
		py := cy - focal*rel.Dot(up)/depth

		pn := projectedNode{
			ID:       n.ID,
			Name:     truncate(n.Name, 24),
			Category: n.Category,
			X:        px,
			Y:        py,
			Depth:    depth,
			Radius:   math.Max(3, nodeBaseSize*focal/depth*0.1),
			Hovered:  n.ID == opts.HoveredID,
		}
		screen[n.ID] = pn
		nodes = append(nodes, pn)
	}

	// Painter's order: far nodes first so near ones draw on top. Depth
	// ties fall back to id so output stays deterministic.
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Depth != nodes[j].Depth {
			return nodes[i].Depth > nodes[j].Depth
		}
		return nodes[i].ID < nodes[j].ID
	})

	var edges []projectedEdge
	for _, c := range opts.Connections {
		from, okA := screen[c.StartID]
		to, okB := screen[c.EndID]
		if !okA || !okB {
			continue // One endpoint behind the camera
		}
		highlighted := opts.HoveredID != "" && c.Touches(opts.HoveredID)
		if opts.Tier == model.QualityLow && !highlighted {
			continue
		}
		edges = append(edges, projectedEdge{
			X1: from.X, Y1: from.Y,
			X2: to.X, Y2: to.Y,
			Highlighted: highlighted,
		})
	}

	title := opts.Title
	if strings.TrimSpace(title) == "" {
		title = "Orbital Snapshot"
	}

	sum := summaryInfo{
		Title:      title,
		NodeCount:  len(opts.Nodes),
		EdgeCount:  len(opts.Connections),
		Categories: opts.Styles.Len(),
		Hub:        "n/a",
		Tier:       opts.Tier.String(),
	}
	if opts.Stats != nil && opts.Stats.HubID != "" {
		sum.Hub = fmt.Sprintf("%s (deg %d)", opts.Stats.HubID, opts.Stats.MaxDegree)
	}

	return projection{
		Nodes:   nodes,
		Edges:   edges,
		Width:   width,
		Height:  height,
		Header:  headerHeight,
		Summary: sum,
	}
}

func cross(a, b model.Vec3) model.Vec3 {
	return model.Vec3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

// --- rendering -------------------------------------------------------------

var (
	colorBackdrop  = color.RGBA{0x1e, 0x1f, 0x29, 0xff}
	colorHeaderBG  = color.RGBA{0x28, 0x2a, 0x36, 0xff}
	colorLegendBG  = color.RGBA{0x28, 0x2a, 0x36, 0xff}
	colorStroke    = color.RGBA{0x44, 0x47, 0x5a, 0xff}
	colorText      = color.RGBA{0xf8, 0xf8, 0xf2, 0xff}
	colorSubtle    = color.RGBA{0x9a, 0x9d, 0xb5, 0xff}
	colorEdge      = color.RGBA{0x44, 0x47, 0x5a, 0xff}
	colorHighlight = color.RGBA{0xff, 0xb8, 0x6c, 0xff}
	colorHoverRing = color.RGBA{0xf8, 0xf8, 0xf2, 0xff}
)

func renderPNG(opts SnapshotOptions, proj projection) error {
	dc := gg.NewContext(proj.Width, proj.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()

	// header
	dc.SetColor(colorHeaderBG)
	dc.DrawRoundedRectangle(16, 16, float64(proj.Width)-32, proj.Header-24, 10)
	dc.Fill()

	dc.SetFontFace(basicfont.Face7x13)

	drawSummaryBlock(dc, proj)
	drawLegend(dc, opts, proj)

	// edges under nodes
	for _, e := range proj.Edges {
		if e.Highlighted {
			dc.SetColor(colorHighlight)
			dc.SetLineWidth(2.5)
		} else {
			dc.SetColor(colorEdge)
			dc.SetLineWidth(1.2)
		}
		dc.DrawLine(e.X1, e.Y1, e.X2, e.Y2)
		dc.Stroke()
	}

	for _, n := range proj.Nodes {
		drawNode(dc, opts, n)
	}

	return dc.SavePNG(opts.Path)
}

func renderSVG(opts SnapshotOptions, proj projection) error {
	file, err := os.Create(opts.Path)
	if err != nil {
		return err
	}
	defer file.Close()

	return renderSVGToWriter(file, opts, proj)
}

func renderSVGToWriter(w io.Writer, opts SnapshotOptions, proj projection) error {
	canvas := svg.New(w)
	canvas.Start(proj.Width, proj.Height)
	canvas.Rect(0, 0, proj.Width, proj.Height, fmt.Sprintf("fill:%s", css(colorBackdrop)))
	canvas.Roundrect(16, 16, proj.Width-32, int(proj.Header-24), 10, 10, fmt.Sprintf("fill:%s", css(colorHeaderBG)))

	drawSummaryBlockSVG(canvas, proj)
	drawLegendSVG(canvas, opts, proj)

	for _, e := range proj.Edges {
		style := fmt.Sprintf("stroke:%s;stroke-width:1.2", css(colorEdge))
		if e.Highlighted {
			style = fmt.Sprintf("stroke:%s;stroke-width:2.5", css(colorHighlight))
		}
		canvas.Line(int(e.X1), int(e.Y1), int(e.X2), int(e.Y2), style)
	}

	glint := opts.Tier.Lights() > 1
	for _, n := range proj.Nodes {
		fill := opts.Styles.Style(n.Category).Color
		r := int(n.Radius)
		xs, ys := polygonPoints(n.X, n.Y, n.Radius, opts.Tier.SphereDetail())
		canvas.Polygon(xs, ys, fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", fill, css(colorStroke)))
		if glint {
			gr := r / 4
			if gr < 1 {
				gr = 1
			}
			canvas.Circle(int(n.X)-r/3, int(n.Y)-r/3, gr,
				fmt.Sprintf("fill:%s;fill-opacity:0.35", css(colorText)))
		}
		if n.Hovered {
			canvas.Circle(int(n.X), int(n.Y), r+4, fmt.Sprintf("fill:none;stroke:%s;stroke-width:2", css(colorHoverRing)))
			canvas.Text(int(n.X)+r+8, int(n.Y)+4, n.Name,
				fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace;font-weight:bold", css(colorText)))
		}
	}

	canvas.End()
	return nil
}

func drawNode(dc *gg.Context, opts SnapshotOptions, n projectedNode) {
	fill := parseHex(opts.Styles.Style(n.Category).Color)
	sides := opts.Tier.SphereDetail()

	dc.SetColor(fill)
	dc.DrawRegularPolygon(sides, n.X, n.Y, n.Radius, 0)
	dc.Fill()
	dc.SetColor(colorStroke)
	dc.SetLineWidth(1)
	dc.DrawRegularPolygon(sides, n.X, n.Y, n.Radius, 0)
	dc.Stroke()

	// The second light at high tier reads as a specular glint.
	if opts.Tier.Lights() > 1 {
		dc.SetRGBA(1, 1, 1, 0.35)
		dc.DrawCircle(n.X-n.Radius/3, n.Y-n.Radius/3, math.Max(1, n.Radius/4))
		dc.Fill()
	}

	if n.Hovered {
		dc.SetColor(colorHoverRing)
		dc.SetLineWidth(2)
		dc.DrawCircle(n.X, n.Y, n.Radius+4)
		dc.Stroke()
		dc.SetColor(colorText)
		dc.DrawStringAnchored(n.Name, n.X+n.Radius+8, n.Y, 0, 0.5)
	}
}

func drawSummaryBlock(dc *gg.Context, proj projection) {
	s := proj.Summary
	dc.SetColor(colorText)
	dc.DrawStringAnchored(s.Title, 32, 40, 0, 0.5)
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(fmt.Sprintf("nodes: %d  edges: %d  categories: %d", s.NodeCount, s.EdgeCount, s.Categories), 32, 60, 0, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("hub: %s", s.Hub), 32, 78, 0, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("quality: %s", s.Tier), 32, 96, 0, 0.5)
}

func drawLegend(dc *gg.Context, opts SnapshotOptions, proj projection) {
	cats := legendCategories(opts)
	boxW := 190.0
	boxH := float64(24 + 16*len(cats))
	x := float64(proj.Width) - boxW - 20
	y := 24.0
	dc.SetColor(colorLegendBG)
	dc.DrawRoundedRectangle(x, y, boxW, boxH, 10)
	dc.Fill()
	dc.SetColor(colorStroke)
	dc.DrawRoundedRectangle(x, y, boxW, boxH, 10)
	dc.Stroke()

	dc.SetColor(colorText)
	dc.DrawStringAnchored("Categories", x+12, y+14, 0, 0.5)
	for i, cat := range cats {
		c := parseHex(opts.Styles.Style(cat).Color)
		ry := y + 32 + float64(i)*16
		dc.SetColor(c)
		dc.DrawCircle(x+18, ry, 5)
		dc.Fill()
		dc.SetColor(colorSubtle)
		dc.DrawStringAnchored(truncate(cat, 20), x+30, ry, 0, 0.5)
	}
}

func drawSummaryBlockSVG(canvas *svg.SVG, proj projection) {
	s := proj.Summary
	canvas.Text(32, 40, s.Title, fmt.Sprintf("fill:%s;font-size:16px;font-family:monospace;font-weight:bold", css(colorText)))
	canvas.Text(32, 60, fmt.Sprintf("nodes: %d  edges: %d  categories: %d", s.NodeCount, s.EdgeCount, s.Categories),
		fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", css(colorSubtle)))
	canvas.Text(32, 78, fmt.Sprintf("hub: %s", s.Hub), fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", css(colorSubtle)))
	canvas.Text(32, 96, fmt.Sprintf("quality: %s", s.Tier), fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", css(colorSubtle)))
}

func drawLegendSVG(canvas *svg.SVG, opts SnapshotOptions, proj projection) {
	cats := legendCategories(opts)
	boxW := 190
	boxH := 24 + 16*len(cats)
	x := proj.Width - boxW - 20
	y := 24
	canvas.Roundrect(x, y, boxW, boxH, 10, 10, fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(colorLegendBG), css(colorStroke)))
	canvas.Text(x+12, y+18, "Categories", fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace;font-weight:bold", css(colorText)))
	for i, cat := range cats {
		ry := y + 36 + i*16
		canvas.Circle(x+18, ry-4, 5, fmt.Sprintf("fill:%s", opts.Styles.Style(cat).Color))
		canvas.Text(x+30, ry, truncate(cat, 20), fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorSubtle)))
	}
}

// legendCategories returns the categories present in the node set, in
// first-seen order.
func legendCategories(opts SnapshotOptions) []string {
	seen := make(map[string]bool)
	var cats []string
	for _, n := range opts.Nodes {
		if !seen[n.Category] {
			seen[n.Category] = true
			cats = append(cats, n.Category)
		}
	}
	return cats
}

// --- helpers ---------------------------------------------------------------

// polygonPoints approximates a node sphere as a regular polygon whose
// vertex count follows the tier's tessellation detail.
func polygonPoints(cx, cy, r float64, sides int) ([]int, []int) {
	xs := make([]int, sides)
	ys := make([]int, sides)
	for i := 0; i < sides; i++ {
		a := 2 * math.Pi * float64(i) / float64(sides)
		xs[i] = int(math.Round(cx + r*math.Cos(a)))
		ys[i] = int(math.Round(cy + r*math.Sin(a)))
	}
	return xs, ys
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// parseHex converts "#rrggbb" to an RGBA color; bad input comes back
// mid-gray rather than failing the whole render.
func parseHex(s string) color.RGBA {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.RGBA{0x80, 0x80, 0x80, 0xff}
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{0x80, 0x80, 0x80, 0xff}
	}
	return color.RGBA{r, g, b, 0xff}
}
