package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/orbital/pkg/metrics"
	"github.com/vanderheijden86/orbital/pkg/model"
)

// cellAspect compensates for terminal cells being roughly twice as
// tall as they are wide.
const cellAspect = 2.0

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	defer metrics.Timer(metrics.UIRender)()

	if m.showHelp {
		return m.renderHelp()
	}

	sceneW := m.width
	if m.showDetail {
		sceneW = m.width - m.detailWidth() - 1
	}
	sceneH := m.height - 3 // Header and status bar

	header := m.renderHeader()
	canvas := m.renderScene(sceneW, sceneH)
	status := m.renderStatusBar()

	body := canvas
	if m.showDetail {
		panel := m.theme.Panel.Width(m.detailWidth() - 2).Render(m.detail.View())
		body = lipgloss.JoinHorizontal(lipgloss.Top, canvas, panel)
	}

	return header + "\n" + body + "\n" + status
}

func (m Model) renderHeader() string {
	title := m.theme.Header.Render(" orbital ")
	src := m.theme.MutedText.Render(" " + m.sourcePath)
	return title + src
}

// renderScene rasterizes the current frame into a character grid:
// connections first, nodes on top, the hovered node last with its
// name label.
func (m Model) renderScene(cols, rows int) string {
	if cols < 4 || rows < 4 {
		return ""
	}

	grid := make([][]string, rows)
	for i := range grid {
		grid[i] = make([]string, cols)
		for j := range grid[i] {
			grid[i][j] = " "
		}
	}

	eye := m.frame.CameraPos
	if eye == (model.Vec3{}) {
		eye = model.Vec3{X: 0, Y: 5, Z: 14}
	}
	forward := eye.Scale(-1).Normalized()
	if forward == (model.Vec3{}) {
		forward = model.Vec3{Z: -1}
	}
	worldUp := model.Vec3{Y: 1}
	right := cross(forward, worldUp).Normalized()
	if right == (model.Vec3{}) {
		right = model.Vec3{X: 1}
	}
	up := cross(right, forward)

	focal := float64(rows) * 0.9
	cx := float64(cols) / 2
	cy := float64(rows) / 2

	type point struct {
		col, row int
		ok       bool
	}
	project := func(p model.Vec3) point {
		rel := p.Sub(eye)
		depth := rel.Dot(forward)
		if depth < 0.2 {
			return point{}
		}
		x := cx + focal*cellAspect*rel.Dot(right)/depth
		y := cy - focal*rel.Dot(up)/depth
		c, r := int(math.Round(x)), int(math.Round(y))
		if c < 0 || c >= cols || r < 0 || r >= rows {
			return point{}
		}
		return point{col: c, row: r, ok: true}
	}

	pos := make(map[string]point, len(m.frame.Nodes))
	for _, ns := range m.frame.Nodes {
		p := ns.Node.Position
		p.Y += ns.Wobble
		pos[ns.Node.ID] = project(p)
	}

	// Connections under nodes.
	for _, cs := range m.frame.Connections {
		if !cs.Visible {
			continue
		}
		a, b := pos[cs.Connection.StartID], pos[cs.Connection.EndID]
		if !a.ok || !b.ok {
			continue
		}
		style, glyph := m.theme.EdgeText, "·"
		if cs.Highlighted {
			style, glyph = m.theme.EdgeBright, "•"
		}
		plotLine(grid, a.col, a.row, b.col, b.row, style.Render(glyph))
	}

	var hoverLabel struct {
		col, row int
		text     string
		ok       bool
	}
	for _, ns := range m.frame.Nodes {
		if !ns.Visible {
			continue
		}
		p := pos[ns.Node.ID]
		if !p.ok {
			continue
		}
		st := m.session.Styles.Style(ns.Node.Category)
		glyph := st.Glyph
		style := m.theme.CategoryStyle(m.session.Styles, ns.Node.Category)
		if ns.Hovered {
			style = style.Bold(true).Reverse(true)
			hoverLabel.col, hoverLabel.row = p.col, p.row
			hoverLabel.text = ns.Node.Name
			hoverLabel.ok = true
		}
		grid[p.row][p.col] = style.Render(glyph)
	}

	// Hovered node's name next to its glyph, clipped to the canvas.
	if hoverLabel.ok {
		label := runewidth.Truncate(hoverLabel.text, cols-hoverLabel.col-3, "…")
		for i, r := range []rune(label) {
			c := hoverLabel.col + 2 + i
			if c >= cols {
				break
			}
			grid[hoverLabel.row][c] = m.theme.HoverName.Render(string(r))
		}
	}

	rowsOut := make([]string, rows)
	for i := range grid {
		rowsOut[i] = strings.Join(grid[i], "")
	}
	return strings.Join(rowsOut, "\n")
}

// plotLine draws a Bresenham line into the grid, skipping endpoints so
// node glyphs stay clean.
func plotLine(grid [][]string, x0, y0, x1, y1 int, cell string) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	x, y := x0, y0
	for {
		if x == x1 && y == y1 {
			break
		}
		if !(x == x0 && y == y0) {
			grid[y][x] = cell
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (m Model) renderStatusBar() string {
	parts := []string{
		fmt.Sprintf("%.0f fps", m.frame.AvgFPS),
		"quality:" + m.frame.Tier.String(),
		fmt.Sprintf("%d nodes", len(m.session.Nodes)),
		fmt.Sprintf("%d edges", len(m.session.Connections)),
	}
	if node, ok := m.focusedNode(); ok {
		parts = append(parts, "▸ "+node.ID)
	}
	if m.watcher != nil && m.watcher.IsPolling() {
		parts = append(parts, "polling")
	}
	if m.showOverlay {
		parts = append(parts, m.overlayStats())
	}
	left := m.theme.StatusBar.Render(" " + strings.Join(parts, "  "))

	if m.statusMsg != "" && time.Now().Before(m.statusExpiry) {
		return left + "  " + m.theme.HoverName.Render(m.statusMsg)
	}
	return left
}

// overlayStats summarizes the frame-tick timing metric for the debug
// overlay.
func (m Model) overlayStats() string {
	s := metrics.FrameTick.Stats()
	return fmt.Sprintf("tick avg %.2fms max %.2fms", s.AvgMs, s.MaxMs)
}

func (m Model) renderHelp() string {
	rows := []struct{ keys, desc string }{
		{"j / tab", "focus next node"},
		{"k / shift+tab", "focus previous node"},
		{"esc", "clear focus / close panel"},
		{"enter", "toggle detail panel"},
		{"y", "copy focused node url or id"},
		{"s", "export snapshot (svg)"},
		{"o", "toggle debug overlay"},
		{"?", "toggle this help"},
		{"q", "quit"},
	}

	var b strings.Builder
	b.WriteString(m.theme.PanelTitle.Render("orbital keys") + "\n\n")
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			m.theme.HoverName.Render(runewidth.FillRight(r.keys, 16)),
			m.theme.MutedText.Render(r.desc)))
	}
	b.WriteString("\n" + m.theme.MutedText.Render("press ? or esc to return"))
	return b.String()
}

// cross is the right-handed vector cross product.
func cross(a, b model.Vec3) model.Vec3 {
	return model.Vec3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}
