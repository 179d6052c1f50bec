package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vanderheijden86/orbital/pkg/graph"
	"github.com/vanderheijden86/orbital/pkg/layout"
	"github.com/vanderheijden86/orbital/pkg/model"
	"github.com/vanderheijden86/orbital/pkg/testutil"
)

func sessionFixture(t *testing.T, n, cats int) ([]model.Node, []model.Connection, *model.StyleTable, *graph.Stats) {
	t.Helper()
	g, err := graph.Build(testutil.GenerateItems(n, cats))
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	nodes := layout.Compute(g, layout.Options{})
	stats := graph.ComputeStats(g)
	return nodes, g.Connections(), model.NewStyleTable(g.Categories), stats
}

func TestSaveSnapshot_SVGAndPNG(t *testing.T) {
	nodes, conns, styles, stats := sessionFixture(t, 10, 3)

	tmp := t.TempDir()
	cases := []struct {
		name string
		file string
	}{
		{"svg", "scene.svg"},
		{"png", "scene.png"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := filepath.Join(tmp, tc.file)
			err := SaveSnapshot(SnapshotOptions{
				Path:        out,
				Nodes:       nodes,
				Connections: conns,
				Styles:      styles,
				Stats:       stats,
				Tier:        model.QualityHigh,
			})
			if err != nil {
				t.Fatalf("SaveSnapshot error: %v", err)
			}
			info, err := os.Stat(out)
			if err != nil {
				t.Fatalf("output not created: %v", err)
			}
			if info.Size() == 0 {
				t.Fatalf("output file is empty")
			}
		})
	}
}

func TestSaveSnapshot_Errors(t *testing.T) {
	nodes, conns, styles, _ := sessionFixture(t, 3, 1)

	cases := []struct {
		name string
		opts SnapshotOptions
	}{
		{"no nodes", SnapshotOptions{Path: "x.svg", Styles: styles}},
		{"nil styles", SnapshotOptions{Path: "x.svg", Nodes: nodes, Connections: conns}},
		{"empty path", SnapshotOptions{Nodes: nodes, Styles: styles}},
		{"bad format", SnapshotOptions{Path: "x.gif", Format: "gif", Nodes: nodes, Styles: styles}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := SaveSnapshot(tc.opts); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestSaveSnapshot_FormatInference(t *testing.T) {
	nodes, conns, styles, _ := sessionFixture(t, 3, 1)
	tmp := t.TempDir()

	out := filepath.Join(tmp, "noext")
	err := SaveSnapshot(SnapshotOptions{
		Path:        out,
		Nodes:       nodes,
		Connections: conns,
		Styles:      styles,
	})
	if err != nil {
		t.Fatalf("SaveSnapshot error: %v", err)
	}
	if _, err := os.Stat(out + ".svg"); err != nil {
		t.Fatalf("expected .svg appended: %v", err)
	}
}

func TestSaveSnapshot_LowTierOmitsPlainEdges(t *testing.T) {
	nodes, conns, styles, stats := sessionFixture(t, 6, 2)
	tmp := t.TempDir()

	write := func(name string, tier model.QualityTier, hovered string) string {
		out := filepath.Join(tmp, name)
		err := SaveSnapshot(SnapshotOptions{
			Path:        out,
			Nodes:       nodes,
			Connections: conns,
			Styles:      styles,
			Stats:       stats,
			Tier:        tier,
			HoveredID:   hovered,
		})
		if err != nil {
			t.Fatalf("SaveSnapshot error: %v", err)
		}
		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatalf("read output: %v", err)
		}
		return string(data)
	}

	high := write("high.svg", model.QualityHigh, "")
	low := write("low.svg", model.QualityLow, "")
	lowHover := write("low_hover.svg", model.QualityLow, "tech-002")

	if strings.Count(low, "<line") != 0 {
		t.Errorf("low tier without hover drew %d edges, want 0", strings.Count(low, "<line"))
	}
	if strings.Count(high, "<line") == 0 {
		t.Error("high tier drew no edges")
	}
	if strings.Count(lowHover, "<line") == 0 {
		t.Error("low tier with hover should draw highlighted edges")
	}
}

func TestSaveSnapshot_TierShapesNodes(t *testing.T) {
	nodes, conns, styles, stats := sessionFixture(t, 4, 2)
	tmp := t.TempDir()

	render := func(name string, tier model.QualityTier) string {
		out := filepath.Join(tmp, name)
		err := SaveSnapshot(SnapshotOptions{
			Path:        out,
			Nodes:       nodes,
			Connections: conns,
			Styles:      styles,
			Stats:       stats,
			Tier:        tier,
		})
		if err != nil {
			t.Fatalf("SaveSnapshot error: %v", err)
		}
		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatalf("read output: %v", err)
		}
		return string(data)
	}

	high := render("high.svg", model.QualityHigh)
	low := render("low.svg", model.QualityLow)

	if got := firstPolygonSides(t, high); got != model.QualityHigh.SphereDetail() {
		t.Errorf("high tier polygon has %d vertices, want %d", got, model.QualityHigh.SphereDetail())
	}
	if got := firstPolygonSides(t, low); got != model.QualityLow.SphereDetail() {
		t.Errorf("low tier polygon has %d vertices, want %d", got, model.QualityLow.SphereDetail())
	}

	// The high tier's second light renders as a specular glint.
	if !strings.Contains(high, "fill-opacity:0.35") {
		t.Error("high tier missing specular glint")
	}
	if strings.Contains(low, "fill-opacity:0.35") {
		t.Error("low tier should not draw a glint")
	}
}

// firstPolygonSides counts the vertices of the first polygon in the
// SVG; each vertex is one "x,y" pair in the points attribute.
func firstPolygonSides(t *testing.T, svg string) int {
	t.Helper()
	i := strings.Index(svg, `points="`)
	if i < 0 {
		t.Fatal("no polygon in SVG output")
	}
	rest := svg[i+len(`points="`):]
	j := strings.Index(rest, `"`)
	if j < 0 {
		t.Fatal("unterminated points attribute")
	}
	return strings.Count(rest[:j], ",")
}

func TestSaveSnapshot_HoveredNodeLabeled(t *testing.T) {
	nodes, conns, styles, _ := sessionFixture(t, 5, 2)
	tmp := t.TempDir()
	out := filepath.Join(tmp, "hover.svg")

	err := SaveSnapshot(SnapshotOptions{
		Path:        out,
		Nodes:       nodes,
		Connections: conns,
		Styles:      styles,
		HoveredID:   "tech-001",
	})
	if err != nil {
		t.Fatalf("SaveSnapshot error: %v", err)
	}
	data, _ := os.ReadFile(out)
	if !strings.Contains(string(data), "Technology 1") {
		t.Error("hovered node name missing from SVG")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{"empty string", "", 10, ""},
		{"short string", "redis", 10, "redis"},
		{"exact length", "redis", 5, "redis"},
		{"truncate with ellipsis", "elasticsearch", 8, "elast..."},
		{"very short max", "redis", 2, "re"},
		{"zero max", "redis", 0, ""},
		{"unicode", "サービスメッシュ", 5, "サー..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := truncate(tt.input, tt.max)
			if result != tt.expected {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.max, result, tt.expected)
			}
		})
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"#bd93f9", "#bd93f9"},
		{"50fa7b", "#50fa7b"},
		{"", "#808080"},
		{"#zzzzzz", "#808080"},
		{"#fff", "#808080"},
	}
	for _, tt := range tests {
		got := css(parseHex(tt.in))
		if got != tt.want {
			t.Errorf("parseHex(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
