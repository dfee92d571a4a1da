package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	kgerrors "github.com/matzehuels/kgview/pkg/errors"
	"github.com/matzehuels/kgview/pkg/graph"
	"github.com/matzehuels/kgview/pkg/selection"
	"github.com/matzehuels/kgview/pkg/view"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	panelStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1).Width(40)
)

// pane is the list the cursor moves in.
type pane int

const (
	paneNodes pane = iota
	paneLinks
)

// loadedMsg reports the end of the background dataset load.
type loadedMsg struct{ err error }

// =============================================================================
// ExploreModel - Interactive graph explorer
// =============================================================================

// ExploreModel is the bubbletea model of the terminal explorer. It is a thin
// adapter: every selection and highlight decision is made by the controller.
type ExploreModel struct {
	dataset  string
	store    *graph.Store
	ctrl     *selection.Controller
	resolver view.Resolver
	camera   *view.CameraRecorder
	load     tea.Cmd
	copy     func(string) error

	loading bool
	loadErr error
	status  string

	pane   pane
	cursor [2]int
	offset [2]int
	height int

	searching     bool
	input         textinput.Model
	suggestions   []string
	suggestCursor int
}

// NewExploreModel returns a model over store. load runs the dataset load;
// the explorer is inert until it completes.
func NewExploreModel(dataset string, store *graph.Store, resolver view.Resolver, camera view.CameraSettings, load func() error) *ExploreModel {
	ti := textinput.New()
	ti.Placeholder = "search node id..."
	ti.CharLimit = 256
	ti.Width = 36

	m := &ExploreModel{
		dataset:       dataset,
		store:         store,
		resolver:      resolver,
		camera:        &view.CameraRecorder{},
		copy:          clipboard.WriteAll,
		loading:       !store.Loaded(),
		height:        15,
		input:         ti,
		suggestCursor: -1,
	}
	m.ctrl = selection.New(store,
		selection.WithViewport(m.camera),
		selection.WithNotifier(selection.NotifierFunc(func(msg string) { m.status = msg })),
		selection.WithCamera(camera),
	)
	if m.loading && load != nil {
		m.load = func() tea.Msg { return loadedMsg{err: load()} }
	}
	return m
}

// Controller exposes the controller for inspection after the program exits.
func (m *ExploreModel) Controller() *selection.Controller { return m.ctrl }

func (m *ExploreModel) Init() tea.Cmd {
	return m.load
}

func (m *ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.loadErr = msg.err
			m.status = loadFailedStatus(msg.err)
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-10, 5)
		return m, nil
	case tea.KeyMsg:
		if m.searching {
			return m.updateSearching(msg)
		}
		return m.updateBrowsing(msg)
	}
	return m, nil
}

// updateBrowsing handles keys while the cursor is in a list.
func (m *ExploreModel) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "/":
		m.searching = true
		m.status = ""
		m.input.SetValue("")
		m.suggestions = nil
		m.suggestCursor = -1
		return m, m.input.Focus()
	case "tab":
		m.pane = 1 - m.pane
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "enter", " ":
		m.clickCursor()
	case "esc", "x":
		m.ctrl.Dismiss()
	case "c":
		m.copySelection()
	}
	return m, nil
}

// updateSearching handles keys while the search box has focus.
func (m *ExploreModel) updateSearching(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.closeSearch()
		return m, nil
	case "up":
		if m.suggestCursor >= 0 {
			m.suggestCursor--
		}
		return m, nil
	case "down":
		if m.suggestCursor < len(m.suggestions)-1 {
			m.suggestCursor++
		}
		return m, nil
	case "enter":
		term := m.input.Value()
		if m.suggestCursor >= 0 {
			term = m.suggestions[m.suggestCursor]
		}
		m.submit(term)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.suggestions = m.ctrl.Suggest(m.input.Value())
	m.suggestCursor = -1
	return m, cmd
}

// submit runs a search. A hit closes the search box and scrolls the node
// list to the found node; a miss keeps the box open.
func (m *ExploreModel) submit(term string) {
	err := m.ctrl.Search(term)
	switch {
	case err == nil:
		m.closeSearch()
		if cam, ok := m.camera.Take(); ok {
			m.status = fmt.Sprintf("Centered on %s (zoom %gx)", term, cam.Zoom)
		}
		if n, ok := m.ctrl.Selection().Node(); ok {
			m.pane = paneNodes
			m.scrollTo(paneNodes, m.nodeIndex(n))
		}
	case kgerrors.Is(err, kgerrors.ErrCodeNotLoaded) && m.loadErr != nil:
		m.status = loadFailedStatus(m.loadErr)
	case kgerrors.Is(err, kgerrors.ErrCodeNotLoaded):
		m.status = "Still loading..."
	}
}

func (m *ExploreModel) closeSearch() {
	m.searching = false
	m.input.Blur()
	m.suggestions = nil
	m.suggestCursor = -1
}

func (m *ExploreModel) clickCursor() {
	g, ok := m.store.Graph()
	if !ok {
		return
	}
	i := m.cursor[m.pane]
	switch m.pane {
	case paneNodes:
		if i < len(g.Nodes) {
			m.ctrl.NodeClick(g.Nodes[i])
		}
	case paneLinks:
		if l, ok := g.LinkAt(i); ok {
			m.ctrl.LinkClick(l)
		}
	}
}

func (m *ExploreModel) copySelection() {
	sel := m.ctrl.Selection()
	if sel.IsNone() {
		return
	}
	if err := m.copy(sel.ID()); err != nil {
		m.status = "Copy failed: " + err.Error()
		return
	}
	m.status = "Copied " + sel.ID()
}

func (m *ExploreModel) length(p pane) int {
	g, ok := m.store.Graph()
	if !ok {
		return 0
	}
	if p == paneLinks {
		return len(g.Links)
	}
	return len(g.Nodes)
}

func (m *ExploreModel) moveCursor(delta int) {
	m.scrollTo(m.pane, m.cursor[m.pane]+delta)
}

// scrollTo moves the cursor of p to i and keeps it inside the window.
func (m *ExploreModel) scrollTo(p pane, i int) {
	n := m.length(p)
	if n == 0 {
		return
	}
	i = min(max(i, 0), n-1)
	m.cursor[p] = i
	if i < m.offset[p] {
		m.offset[p] = i
	}
	if i >= m.offset[p]+m.height {
		m.offset[p] = i - m.height + 1
	}
}

func (m *ExploreModel) nodeIndex(n *graph.Node) int {
	g, _ := m.store.Graph()
	for i, c := range g.Nodes {
		if c == n {
			return i
		}
	}
	return 0
}

// =============================================================================
// View
// =============================================================================

func (m *ExploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("kgview") + " " + StyleDim.Render(m.dataset))
	b.WriteString("\n")

	g, ok := m.store.Graph()
	switch {
	case !ok:
		// A failed load leaves the explorer in its loading view.
		b.WriteString(listDimStyle.Render("Loading dataset..."))
		b.WriteString("\n")
	default:
		b.WriteString(StyleDim.Render(fmt.Sprintf("%d nodes · %d links", len(g.Nodes), len(g.Links))))
		b.WriteString("\n\n")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.listView(g), "  ", m.panelView()))
		b.WriteString("\n")
	}

	if m.searching {
		b.WriteString("\n")
		b.WriteString(m.searchView())
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(StyleWarning.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render("↑/↓ move  ⏎ select  tab nodes/links  / search  esc clear  c copy  q quit"))
	return b.String()
}

func (m *ExploreModel) listView(g *graph.Graph) string {
	var b strings.Builder
	h := m.ctrl.Highlight()

	title := "Nodes"
	if m.pane == paneLinks {
		title = "Links"
	}
	b.WriteString(StyleHighlight.Render(title))
	b.WriteString("\n")

	start := m.offset[m.pane]
	end := min(start+m.height, m.length(m.pane))
	for i := start; i < end; i++ {
		var text, color string
		if m.pane == paneNodes {
			n := g.Nodes[i]
			text, color = n.ID, m.resolver.NodeColor(h, n)
		} else {
			l := g.Links[i]
			text = graph.EndpointID(l, graph.SourceEnd) + " → " + graph.EndpointID(l, graph.TargetEnd)
			if l.Label != "" {
				text += " (" + l.Label + ")"
			}
			color = m.resolver.LinkColor(h, l)
		}

		cursor := "  "
		style := listNormalStyle
		if i == m.cursor[m.pane] {
			cursor = "▸ "
			style = listSelectedStyle
		}
		b.WriteString(cursor + swatch(color, style.Render(text)))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor[m.pane]+1, m.length(m.pane))))
	return b.String()
}

func (m *ExploreModel) panelView() string {
	p := m.ctrl.Panel()
	if !p.Visible {
		return panelStyle.Render(listDimStyle.Render("Nothing selected"))
	}

	var b strings.Builder
	if p.Message != "" {
		b.WriteString(p.Message)
		return panelStyle.Render(b.String())
	}
	b.WriteString(StyleTitle.Render(p.Title))
	for _, f := range p.Fields {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("%-7s", f.Name)) + " " + StyleValue.Render(f.Value))
	}
	if h := m.ctrl.Highlight(); !h.Empty() {
		b.WriteString("\n\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("neighborhood: %d nodes, %d links", h.NodeCount(), h.LinkCount())))
	}
	return panelStyle.Render(b.String())
}

func (m *ExploreModel) searchView() string {
	var b strings.Builder
	b.WriteString(m.input.View())
	for i, s := range m.suggestions {
		b.WriteString("\n")
		if i == m.suggestCursor {
			b.WriteString(listSelectedStyle.Render("▸ " + s))
		} else {
			b.WriteString(listDimStyle.Render("  " + s))
		}
	}
	return b.String()
}

// runExplorer runs the model until the user quits.
func loadFailedStatus(err error) string {
	return "Failed to load: " + kgerrors.UserMessage(err)
}

// LoadErr returns the error of a failed background load.
func (m *ExploreModel) LoadErr() error { return m.loadErr }

func runExplorer(ctx context.Context, m *ExploreModel) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

var _ tea.Model = (*ExploreModel)(nil)
