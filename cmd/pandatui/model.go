// Command pandatui is an interactive graph and packet inspector. It
// repurposes Spellinfo-sstop's internal/ui Model (tea.Model, Update/View,
// lipgloss.JoinVertical layout) from a live socket table to a static
// parse-node/table browser plus a packet-paste pane that runs a hex
// string through the walk engine and shows the resulting stop code and
// extracted metadata frames.
package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gopanda/panda/internal/graph"
)

// viewMode tracks which pane is active, the same enum shape as
// Spellinfo-sstop/internal/ui/app.go's ViewMode.
type viewMode int

const (
	viewGraph viewMode = iota
	viewPacket
)

// Model is the root bubbletea model for pandatui.
type Model struct {
	width, height int

	g     *graph.Graph
	names []string // sorted node names, index-aligned with nodeTable rows

	mode viewMode

	nodeTable table.Model

	roots     []string // sorted root names
	rootIdx   int
	hexInput  textinput.Model
	result    packetResult
	haveResult bool
}

// packetResult is the outcome of the last packet run, shown in the packet
// pane.
type packetResult struct {
	stopCode string
	frames   []string
	err      string
}

// New builds the root model over g, the graph to browse and dissect
// against.
func New(g *graph.Graph) Model {
	names := make([]string, 0, len(g.Nodes))
	for name := range g.Nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	roots := make([]string, 0, len(g.Roots))
	for name := range g.Roots {
		roots = append(roots, name)
	}
	sort.Strings(roots)

	cols := []table.Column{
		{Title: "Node", Width: 20},
		{Title: "Leaf", Width: 6},
		{Title: "TLVs", Width: 6},
		{Title: "Table", Width: 20},
	}
	rows := make([]table.Row, 0, len(names))
	for _, name := range names {
		n := g.Nodes[name]
		tableName := ""
		if n.Table != nil {
			tableName = n.Table.Name
		}
		rows = append(rows, table.Row{
			name,
			boolMark(n.IsLeaf()),
			boolMark(n.HasTLVs()),
			tableName,
		})
	}
	nt := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	ti := textinput.New()
	ti.Prompt = "hex> "
	ti.Placeholder = "0800... (Ethernet frame as hex, no spaces)"
	ti.CharLimit = 4096

	return Model{
		g:         g,
		names:     names,
		roots:     roots,
		nodeTable: nt,
		hexInput:  ti,
	}
}

func boolMark(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		if m.mode == viewPacket && m.hexInput.Focused() {
			break // let 'q' be typed into the hex field
		}
		return m, tea.Quit
	case "tab":
		if m.mode == viewGraph {
			m.mode = viewPacket
			m.hexInput.Focus()
			return m, m.hexInput.Cursor.BlinkCmd()
		}
		m.mode = viewGraph
		m.hexInput.Blur()
		return m, nil
	}

	switch m.mode {
	case viewGraph:
		var cmd tea.Cmd
		m.nodeTable, cmd = m.nodeTable.Update(msg)
		return m, cmd

	case viewPacket:
		switch msg.String() {
		case "ctrl+r":
			if len(m.roots) > 0 {
				m.rootIdx = (m.rootIdx + 1) % len(m.roots)
			}
			return m, nil
		case "enter":
			m.runPacket()
			return m, nil
		}
		var cmd tea.Cmd
		m.hexInput, cmd = m.hexInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	header := m.renderHeader()
	footer := m.renderFooter()

	var content string
	switch m.mode {
	case viewGraph:
		content = m.renderGraph()
	case viewPacket:
		content = m.renderPacket()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (m Model) renderHeader() string {
	title := "pandatui"
	modeName := "graph"
	if m.mode == viewPacket {
		modeName = "packet"
	}
	return styleHeaderKey.Render(title) + "  " +
		styleHeaderValue.Render(fmt.Sprintf("nodes=%d roots=%d mode=%s", len(m.names), len(m.roots), modeName))
}

func (m Model) renderFooter() string {
	parts := []string{
		styleFooterKey.Render("tab") + styleFooter.Render(" switch pane"),
		styleFooterKey.Render("q") + styleFooter.Render(" quit"),
	}
	if m.mode == viewPacket {
		parts = append(parts,
			styleFooterKey.Render("ctrl+r")+styleFooter.Render(" cycle root"),
			styleFooterKey.Render("enter")+styleFooter.Render(" run"),
		)
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderGraph() string {
	var detail string
	if row := m.nodeTable.SelectedRow(); len(row) > 0 {
		detail = m.renderNodeDetail(row[0])
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		styleBorder.Render(m.nodeTable.View()),
		detail,
	)
}

func (m Model) renderNodeDetail(name string) string {
	n, ok := m.g.Nodes[name]
	if !ok {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s: min_len=%d unknown_proto=%s\n", name, n.Proto.MinLen, n.UnknownProtoPolicy)
	if n.Table != nil {
		for _, key := range n.Table.Keys() {
			target, _ := n.Table.Lookup(key)
			fmt.Fprintf(&b, "  0x%x -> %s\n", key, target.Name)
		}
		if wc, ok := n.Table.Wildcard(); ok {
			fmt.Fprintf(&b, "  *     -> %s\n", wc.Name)
		}
	}
	if n.TLVTable != nil {
		for _, key := range n.TLVTable.Keys() {
			target, _ := n.TLVTable.Lookup(key)
			fmt.Fprintf(&b, "  tlv 0x%x -> %s\n", key, target.Name)
		}
	}
	return styleFooter.Render(b.String())
}

func (m Model) renderPacket() string {
	var b strings.Builder
	root := "(no roots)"
	if len(m.roots) > 0 {
		root = m.roots[m.rootIdx]
	}
	fmt.Fprintf(&b, "root: %s\n\n", root)
	b.WriteString(m.hexInput.View())
	b.WriteString("\n\n")

	if !m.haveResult {
		return b.String()
	}
	if m.result.err != "" {
		fmt.Fprintf(&b, "%s\n", styleFail.Render(m.result.err))
		return b.String()
	}
	fmt.Fprintf(&b, "stop code: %s\n", stopStyle(m.result.stopCode).Render(m.result.stopCode))
	for _, line := range m.result.frames {
		fmt.Fprintf(&b, "  %s\n", line)
	}
	return b.String()
}
