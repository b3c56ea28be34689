package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/RustRoveri/network-initializer/pkg/controller"
	"github.com/RustRoveri/network-initializer/pkg/initializer"
	"github.com/RustRoveri/network-initializer/pkg/logging"
	"github.com/RustRoveri/network-initializer/pkg/protocol"
	"github.com/RustRoveri/network-initializer/pkg/pubsub"
	"github.com/RustRoveri/network-initializer/pkg/routing"
	"github.com/RustRoveri/network-initializer/pkg/topology"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginLeft(2).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#FF00FF")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Padding(0, 2)

	contentStyle = lipgloss.NewStyle().
			MarginLeft(2).
			MarginTop(1)

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(1, 2).
			MarginRight(2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

type view int

const (
	dashboardView view = iota
	nodesView
	eventsView
	chatView
)

const numViews = 4

type keyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Enter    key.Binding
	Crash    key.Binding
	Quit     key.Binding
	Up       key.Binding
	Down     key.Binding
}

var keys = keyMap{
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev view"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "send"),
	),
	Crash: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "crash drone"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("up/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("down/j", "down"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Enter, k.Crash, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab, k.Enter},
		{k.Up, k.Down, k.Crash},
		{k.Quit},
	}
}

const eventLogSize = 200

type model struct {
	net         *initializer.Network
	ctl         *controller.Controller
	currentView view
	chatInput   textinput.Model
	nodeTable   table.Model
	help        help.Model
	keys        keyMap
	width       int
	height      int
	message     string
	messageErr  bool
	startTime   time.Time

	subs     []*pubsub.Subscription[controller.Event]
	events   []string
	chatLog  []string
	crashed  map[topology.NodeID]bool
	sent     int
	dropped  int
	received int
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type eventMsg struct {
	sub *pubsub.Subscription[controller.Event]
	ev  controller.Event
	ok  bool
}

func waitForEvent(sub *pubsub.Subscription[controller.Event]) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-sub.Channel()
		return eventMsg{sub: sub, ev: ev, ok: ok}
	}
}

type chatMsg struct {
	ui  initializer.ClientUI
	out protocol.ClientToUI
	ok  bool
}

func waitForChat(ui initializer.ClientUI) tea.Cmd {
	return func() tea.Msg {
		out, ok := <-ui.FromClient
		return chatMsg{ui: ui, out: out, ok: ok}
	}
}

func initialModel(net *initializer.Network, ctl *controller.Controller) model {
	ti := textinput.New()
	ti.Placeholder = "client,hop,hop,... message"
	ti.CharLimit = 200
	ti.Width = 60

	columns := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Kind", Width: 8},
		{Title: "Variant", Width: 14},
		{Title: "PDR", Width: 6},
		{Title: "Neighbors", Width: 30},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#FF00FF")).
		Bold(false)
	t.SetStyles(s)

	m := model{
		net:         net,
		ctl:         ctl,
		currentView: dashboardView,
		chatInput:   ti,
		nodeTable:   t,
		help:        help.New(),
		keys:        keys,
		startTime:   time.Now(),
		crashed:     make(map[topology.NodeID]bool),
	}
	m.refreshNodeTable()
	return m
}

func (m *model) refreshNodeTable() {
	rows := make([]table.Row, 0, m.net.Topology.Len())
	for _, id := range m.net.Topology.Nodes() {
		nk := m.net.Topology.Kind(id)
		pdr := "-"
		if nk.Kind == topology.KindDrone {
			pdr = fmt.Sprintf("%.2f", nk.PDR)
		}
		variant := nk.Variant()
		if m.crashed[id] {
			variant += " (down)"
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", id),
			nk.Kind.String(),
			variant,
			pdr,
			formatNeighbors(m.net.Topology.Neighbors(id)),
		})
	}
	m.nodeTable.SetRows(rows)
}

func formatNeighbors(ns topology.NeighborSet) string {
	ids := ns.IDs()
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.Itoa(int(id)))
	}
	return strings.Join(parts, ", ")
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, tickCmd()}
	for _, sub := range m.subs {
		cmds = append(cmds, waitForEvent(sub))
	}
	for _, ui := range m.net.UIChannels {
		cmds = append(cmds, waitForChat(ui))
	}
	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tickMsg:
		m.refreshNodeTable()
		return m, tickCmd()

	case eventMsg:
		if !msg.ok {
			return m, nil
		}
		m.recordEvent(msg.ev)
		return m, waitForEvent(msg.sub)

	case chatMsg:
		if !msg.ok {
			return m, nil
		}
		line := fmt.Sprintf("[%s] client %d <- node %d: %s (%s)",
			time.Now().Format("15:04:05"),
			msg.ui.ID, msg.out.Source, string(msg.out.Payload), msg.out.Status)
		m.chatLog = appendBounded(m.chatLog, line, eventLogSize)
		return m, waitForChat(msg.ui)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Tab):
			m.currentView = (m.currentView + 1) % numViews
			if m.currentView == chatView {
				m.chatInput.Focus()
			} else {
				m.chatInput.Blur()
			}

		case key.Matches(msg, m.keys.ShiftTab):
			if m.currentView == 0 {
				m.currentView = numViews - 1
			} else {
				m.currentView--
			}
			if m.currentView == chatView {
				m.chatInput.Focus()
			} else {
				m.chatInput.Blur()
			}

		case key.Matches(msg, m.keys.Crash):
			if m.currentView == nodesView {
				m.crashSelected()
			}

		case key.Matches(msg, m.keys.Enter):
			if m.currentView == chatView && m.chatInput.Focused() {
				m.sendChat()
			}
		}
	}

	switch m.currentView {
	case chatView:
		m.chatInput, cmd = m.chatInput.Update(msg)
		cmds = append(cmds, cmd)
	case nodesView:
		m.nodeTable, cmd = m.nodeTable.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *model) recordEvent(ev controller.Event) {
	detail := ""
	if ev.Packet != nil {
		detail = " " + ev.Packet.String()
	}
	line := fmt.Sprintf("[%s] %s %d: %s%s",
		time.Now().Format("15:04:05"), ev.Kind, ev.Node, ev.Description, detail)
	m.events = appendBounded(m.events, line, eventLogSize)

	switch ev.Description {
	case "packet sent":
		m.sent++
	case "packet dropped":
		m.dropped++
	case "packet received":
		m.received++
	case "crashed", "stopped":
		m.crashed[ev.Node] = true
	}
}

func appendBounded(log []string, line string, max int) []string {
	log = append(log, line)
	if len(log) > max {
		log = log[len(log)-max:]
	}
	return log
}

func (m *model) crashSelected() {
	row := m.nodeTable.SelectedRow()
	if row == nil {
		return
	}
	id64, err := strconv.ParseUint(row[0], 10, 8)
	if err != nil {
		return
	}
	id := topology.NodeID(id64)
	if err := m.ctl.Crash(id); err != nil {
		m.message = err.Error()
		m.messageErr = true
		return
	}
	m.message = fmt.Sprintf("crash command sent to drone %d", id)
	m.messageErr = false
}

// sendChat parses "client,hop,hop,... message": the first ID names the
// sending client and doubles as the first hop of the source route.
// "client>dest message" computes the shortest route instead.
func (m *model) sendChat() {
	input := strings.TrimSpace(m.chatInput.Value())
	if input == "" {
		m.message = "nothing to send"
		m.messageErr = true
		return
	}

	routePart, payload, _ := strings.Cut(input, " ")
	hops, err := m.parseRoute(routePart)
	if err != nil {
		m.message = err.Error()
		m.messageErr = true
		return
	}

	var ui *initializer.ClientUI
	for i := range m.net.UIChannels {
		if m.net.UIChannels[i].ID == hops[0] {
			ui = &m.net.UIChannels[i]
			break
		}
	}
	if ui == nil {
		m.message = fmt.Sprintf("no client with ID %d", hops[0])
		m.messageErr = true
		return
	}

	select {
	case ui.ToClient <- protocol.UIToClient{Hops: hops, Payload: []byte(payload)}:
		m.message = fmt.Sprintf("message handed to client %d", ui.ID)
		m.messageErr = false
		m.chatInput.SetValue("")
	default:
		m.message = fmt.Sprintf("client %d busy, try again", ui.ID)
		m.messageErr = true
	}
}

func (m *model) parseRoute(s string) ([]topology.NodeID, error) {
	if from, to, ok := strings.Cut(s, ">"); ok {
		src, err := parseNodeID(from)
		if err != nil {
			return nil, err
		}
		dst, err := parseNodeID(to)
		if err != nil {
			return nil, err
		}
		hops := routing.ShortestPath(m.net.Topology, src, dst)
		if hops == nil {
			return nil, fmt.Errorf("no route from %d to %d", src, dst)
		}
		return hops, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) < 2 {
		return nil, fmt.Errorf("route needs at least a client and one hop")
	}
	hops := make([]topology.NodeID, 0, len(parts))
	for _, p := range parts {
		id, err := parseNodeID(p)
		if err != nil {
			return nil, err
		}
		hops = append(hops, id)
	}
	return hops, nil
}

func parseNodeID(s string) (topology.NodeID, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 8)
	if err != nil {
		return 0, fmt.Errorf("bad node ID %q in route", s)
	}
	return topology.NodeID(id), nil
}

func (m model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("Mesh Network Monitor"))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	switch m.currentView {
	case dashboardView:
		s.WriteString(m.renderDashboard())
	case nodesView:
		s.WriteString(m.renderNodes())
	case eventsView:
		s.WriteString(m.renderEvents())
	case chatView:
		s.WriteString(m.renderChat())
	}

	if m.message != "" {
		s.WriteString("\n\n")
		if m.messageErr {
			s.WriteString(errorStyle.Render("error: " + m.message))
		} else {
			s.WriteString(successStyle.Render(m.message))
		}
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))

	return s.String()
}

func (m model) renderTabs() string {
	tabs := []string{"Dashboard", "Nodes", "Events", "Chat"}
	var renderedTabs []string

	for i, tab := range tabs {
		if view(i) == m.currentView {
			renderedTabs = append(renderedTabs, activeTabStyle.Render(tab))
		} else {
			renderedTabs = append(renderedTabs, inactiveTabStyle.Render(tab))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, renderedTabs...)
}

func (m model) renderDashboard() string {
	uptime := time.Since(m.startTime).Round(time.Second)
	d := m.net.Distributions

	topoContent := fmt.Sprintf(`Topology
--------
Nodes:    %d
Drones:   %d
Clients:  %d
Servers:  %d
Uptime:   %s`,
		m.net.Topology.Len(),
		d.TotalDrones(),
		d.TotalClients(),
		d.TotalServers(),
		uptime,
	)

	trafficContent := fmt.Sprintf(`Traffic
-------
Sent:     %d
Dropped:  %d
Received: %d
Down:     %d`,
		m.sent,
		m.dropped,
		m.received,
		len(m.crashed),
	)

	topoBox := statsBoxStyle.Render(topoContent)
	trafficBox := statsBoxStyle.Render(trafficContent)

	return contentStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Top, topoBox, trafficBox),
	)
}

func (m model) renderNodes() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Node Browser"))
	s.WriteString("\n\n")

	s.WriteString(m.nodeTable.View())

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Navigate with up/down, press 'x' to crash the selected drone"))

	return contentStyle.Render(s.String())
}

func (m model) renderEvents() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Event Log"))
	s.WriteString("\n\n")

	if len(m.events) == 0 {
		s.WriteString(helpStyle.Render("No events yet. Send a message from the Chat view."))
	} else {
		visible := m.events
		if max := m.height - 12; max > 0 && len(visible) > max {
			visible = visible[len(visible)-max:]
		}
		s.WriteString(strings.Join(visible, "\n"))
	}

	return contentStyle.Render(s.String())
}

func (m model) renderChat() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Client Chat"))
	s.WriteString("\n\n")

	s.WriteString("Route and message (client ID first, then the hops):\n\n")
	s.WriteString(m.chatInput.View())

	s.WriteString("\n\n")
	clients := make([]string, 0, len(m.net.UIChannels))
	for _, ui := range m.net.UIChannels {
		clients = append(clients, fmt.Sprintf("%d (%s)", ui.ID, ui.Type))
	}
	s.WriteString(helpStyle.Render("Clients: " + strings.Join(clients, ", ") + "\n"))
	s.WriteString(helpStyle.Render("Examples: 1,4,5 hello server   1>5 hello server\n"))

	if len(m.chatLog) > 0 {
		s.WriteString("\n")
		visible := m.chatLog
		if len(visible) > 10 {
			visible = visible[len(visible)-10:]
		}
		s.WriteString(strings.Join(visible, "\n"))
	}

	return contentStyle.Render(s.String())
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: tui <config.yaml>")
	}

	net, err := initializer.InitFile(os.Args[1],
		initializer.WithLogger(logging.NewNopLogger()),
	)
	if err != nil {
		log.Fatalf("Failed to initialize network: %v", err)
	}

	ctl := controller.New(net, logging.NewNopLogger())
	ctl.Start()
	defer ctl.Stop()

	m := initialModel(net, ctl)
	ctx := context.Background()
	for _, topic := range []string{
		controller.TopicDroneEvents,
		controller.TopicClientEvents,
		controller.TopicServerEvents,
	} {
		if sub := ctl.Bus().Subscribe(ctx, topic); sub != nil {
			m.subs = append(m.subs, sub)
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
}
