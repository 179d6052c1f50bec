package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/orbital/internal/datasource"
	"github.com/vanderheijden86/orbital/pkg/config"
	"github.com/vanderheijden86/orbital/pkg/debug"
	"github.com/vanderheijden86/orbital/pkg/export"
	"github.com/vanderheijden86/orbital/pkg/model"
	"github.com/vanderheijden86/orbital/pkg/scene"
	"github.com/vanderheijden86/orbital/pkg/watcher"
)

// MinDetailWidth is the terminal width below which the detail panel is
// suppressed.
const MinDetailWidth = 80

// frameTickMsg drives the scene controller. Carries the tick time so
// deltas come from message timestamps, not wall-clock reads in Update.
type frameTickMsg time.Time

// FileChangedMsg is sent when the data source changes on disk.
type FileChangedMsg struct{}

// reloadDoneMsg carries the result of rebuilding the session after a
// data source change.
type reloadDoneMsg struct {
	session *Session
	err     error
}

// snapshotDoneMsg carries the result of a snapshot export.
type snapshotDoneMsg struct {
	path string
	err  error
}

// autoCloseMsg quits the program; used by scripted runs.
type autoCloseMsg struct{}

// keyMap defines the keybindings for the orbital view.
type keyMap struct {
	Next     key.Binding
	Prev     key.Binding
	Clear    key.Binding
	Detail   key.Binding
	Yank     key.Binding
	Snapshot key.Binding
	Overlay  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next:     key.NewBinding(key.WithKeys("j", "down", "tab"), key.WithHelp("j/tab", "next node")),
		Prev:     key.NewBinding(key.WithKeys("k", "up", "shift+tab"), key.WithHelp("k", "previous node")),
		Clear:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear focus")),
		Detail:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Yank:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy id/url")),
		Snapshot: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "snapshot")),
		Overlay:  key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "overlay")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// Model is the bubbletea model for the orbital view.
type Model struct {
	cfg        config.Config
	theme      Theme
	keys       keyMap
	session    *Session
	sourcePath string
	watcher    *watcher.Watcher

	width  int
	height int
	ready  bool

	frame    scene.FrameState
	lastTick time.Time

	focusIdx    int // Index into session.Nodes; -1 when nothing focused
	showDetail  bool
	showHelp    bool
	showOverlay bool
	detail      viewport.Model

	statusMsg    string
	statusExpiry time.Time
	err          error
}

// NewModel builds the TUI model around an existing session.
func NewModel(session *Session, sourcePath string, cfg config.Config, w *watcher.Watcher) Model {
	return Model{
		cfg:         cfg,
		theme:       DefaultTheme(lipgloss.DefaultRenderer()),
		keys:        defaultKeyMap(),
		session:     session,
		sourcePath:  sourcePath,
		watcher:     w,
		focusIdx:    -1,
		showOverlay: cfg.UI.ShowOverlay,
	}
}

func (m Model) frameInterval() time.Duration {
	fps := m.cfg.UI.FrameRate
	if fps <= 0 {
		fps = 30
	}
	return time.Second / time.Duration(fps)
}

func frameTickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return frameTickMsg(t)
	})
}

// WatchFileCmd returns a command that waits for file changes and sends
// FileChangedMsg.
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

// autoCloseCmd quits after the duration in ORBITAL_TUI_AUTOCLOSE_MS,
// so scripted and CI runs can exercise the TUI without a user.
func autoCloseCmd() tea.Cmd {
	v := os.Getenv("ORBITAL_TUI_AUTOCLOSE_MS")
	if v == "" {
		return nil
	}
	ms, err := strconv.Atoi(v)
	if err != nil || ms <= 0 {
		return nil
	}
	return tea.Tick(time.Duration(ms)*time.Millisecond, func(time.Time) tea.Msg {
		return autoCloseMsg{}
	})
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{frameTickCmd(m.frameInterval())}
	if m.watcher != nil {
		cmds = append(cmds, WatchFileCmd(m.watcher))
	}
	if c := autoCloseCmd(); c != nil {
		cmds = append(cmds, c)
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.detail = viewport.New(m.detailWidth(), m.height-4)
		if m.showDetail {
			m.refreshDetail()
		}
		return m, nil

	case frameTickMsg:
		now := time.Time(msg)
		delta := m.frameInterval().Seconds()
		if !m.lastTick.IsZero() {
			delta = now.Sub(m.lastTick).Seconds()
		}
		m.lastTick = now
		m.frame = m.session.Controller.Tick(delta)
		return m, frameTickCmd(m.frameInterval())

	case FileChangedMsg:
		debug.Log("data source changed: %s", m.sourcePath)
		cmds := []tea.Cmd{m.reloadCmd()}
		if m.watcher != nil {
			cmds = append(cmds, WatchFileCmd(m.watcher))
		}
		return m, tea.Batch(cmds...)

	case reloadDoneMsg:
		if msg.err != nil {
			// Keep showing the last good graph; surface the error.
			m.setStatus(fmt.Sprintf("reload failed: %v", msg.err))
			return m, nil
		}
		m.session.Close()
		m.session = msg.session
		m.focusIdx = -1
		m.showDetail = false
		m.setStatus("reloaded")
		return m, nil

	case snapshotDoneMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("snapshot failed: %v", msg.err))
		} else {
			m.setStatus("snapshot: " + msg.path)
		}
		return m, nil

	case autoCloseMsg:
		return m.quit()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.Overlay):
		m.showOverlay = !m.showOverlay
		return m, nil

	case key.Matches(msg, m.keys.Next):
		if m.showDetail {
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(msg)
			return m, cmd
		}
		return m.moveFocus(1), nil

	case key.Matches(msg, m.keys.Prev):
		if m.showDetail {
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(msg)
			return m, cmd
		}
		return m.moveFocus(-1), nil

	case key.Matches(msg, m.keys.Clear):
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		if m.showDetail {
			m.showDetail = false
			return m, nil
		}
		m.focusIdx = -1
		m.session.Controller.ClearHover()
		return m, nil

	case key.Matches(msg, m.keys.Detail):
		if m.focusIdx < 0 || m.width < MinDetailWidth {
			return m, nil
		}
		m.showDetail = !m.showDetail
		if m.showDetail {
			m.refreshDetail()
		}
		return m, nil

	case key.Matches(msg, m.keys.Yank):
		return m, m.yankCmd()

	case key.Matches(msg, m.keys.Snapshot):
		return m, m.snapshotCmd()
	}

	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.watcher != nil {
		m.watcher.Stop()
	}
	m.session.Close()
	return m, tea.Quit
}

// moveFocus cycles the focused node and updates the hover on the
// controller; focus wraps at both ends.
func (m Model) moveFocus(dir int) Model {
	n := len(m.session.Nodes)
	if n == 0 {
		return m
	}
	if m.focusIdx < 0 {
		// Nothing focused yet: next starts at the front, prev at the back.
		if dir > 0 {
			m.focusIdx = 0
		} else {
			m.focusIdx = n - 1
		}
	} else {
		m.focusIdx = ((m.focusIdx+dir)%n + n) % n
	}
	m.session.Controller.SetHover(m.session.Nodes[m.focusIdx].ID)
	if m.showDetail {
		m.refreshDetail()
	}
	return m
}

func (m Model) focusedNode() (model.Node, bool) {
	if m.focusIdx < 0 || m.focusIdx >= len(m.session.Nodes) {
		return model.Node{}, false
	}
	return m.session.Nodes[m.focusIdx], true
}

func (m *Model) refreshDetail() {
	node, ok := m.focusedNode()
	if !ok {
		return
	}
	m.detail.Width = m.detailWidth()
	m.detail.Height = m.height - 4
	m.detail.SetContent(m.renderDetailContent(node))
	m.detail.GotoTop()
}

func (m Model) detailWidth() int {
	w := m.width / 3
	if w < 30 {
		w = 30
	}
	return w
}

// renderDetailContent renders the node's notes as markdown along with
// its metadata. Glamour failures fall back to the raw text.
func (m Model) renderDetailContent(node model.Node) string {
	md := fmt.Sprintf("# %s\n\n**Category:** %s\n\n", node.Name, node.Category)
	if node.URL != "" {
		md += fmt.Sprintf("<%s>\n\n", node.URL)
	}
	if len(node.RelatedIDs) > 0 {
		md += "**Related:**\n"
		for _, id := range node.RelatedIDs {
			md += "- " + id + "\n"
		}
		md += "\n"
	}
	if node.Notes != "" {
		md += node.Notes + "\n"
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(m.detailWidth()-4),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func (m *Model) setStatus(s string) {
	m.statusMsg = s
	m.statusExpiry = time.Now().Add(4 * time.Second)
}

// yankCmd copies the focused node's URL (or id when it has none) to
// the clipboard.
func (m Model) yankCmd() tea.Cmd {
	node, ok := m.focusedNode()
	if !ok {
		return nil
	}
	text := node.URL
	if text == "" {
		text = node.ID
	}
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return snapshotDoneMsg{err: fmt.Errorf("clipboard: %w", err)}
		}
		return snapshotDoneMsg{path: "copied " + text}
	}
}

// snapshotCmd exports the current frame without leaving the TUI.
func (m Model) snapshotCmd() tea.Cmd {
	dir := m.cfg.UI.SnapshotDir
	if dir == "" {
		dir = filepath.Join(config.DataDir(), "snapshots")
	}
	path := filepath.Join(dir, fmt.Sprintf("orbital-%s.svg", time.Now().Format("20060102-150405")))

	session := m.session
	frame := m.frame
	return func() tea.Msg {
		err := export.SaveSnapshot(export.SnapshotOptions{
			Path:        path,
			Nodes:       session.Nodes,
			Connections: session.Connections,
			Styles:      session.Styles,
			Stats:       session.Stats,
			Tier:        frame.Tier,
			HoveredID:   frame.HoveredID,
			CameraPos:   frame.CameraPos,
		})
		return snapshotDoneMsg{path: path, err: err}
	}
}

// reloadCmd reloads the data source and rebuilds the session off the
// UI goroutine. The new session starts with a fresh controller, so
// quality history does not leak across datasets.
func (m Model) reloadCmd() tea.Cmd {
	path := m.sourcePath
	cfg := m.cfg
	return func() tea.Msg {
		items, err := datasource.Load(context.Background(), path)
		if err != nil {
			return reloadDoneMsg{err: err}
		}
		session, err := NewSession(items, cfg)
		if err != nil {
			return reloadDoneMsg{err: err}
		}
		return reloadDoneMsg{session: session}
	}
}
