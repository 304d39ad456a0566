package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/delaneyj/fiberparty/fauxdom"
	"github.com/delaneyj/fiberparty/fiber"
)

func main() {
	p := tea.NewProgram(newApp(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running demo: %v\n", err)
		os.Exit(1)
	}
}

const opLogDepth = 12

type item struct {
	id   int
	text string
	done bool
}

// app drives a keyed todo list through the engine on every keystroke. The
// render system runs in immediate mode, so by the time Update returns the
// host tree and the mutation log already reflect the new state. The right
// panel shows how few host ops each flush actually needed.
type app struct {
	items  []item
	cursor int
	nextID int

	container *fauxdom.Container
	host      *opLog
	root      *fauxdom.Root

	renders int
	lastErr string
	width   int
	height  int
}

func newApp() *app {
	a := &app{
		items: []item{
			{id: 0, text: "walk the tree"},
			{id: 1, text: "flag a keyed move"},
			{id: 2, text: "commit the swap"},
		},
		nextID: 3,
	}
	a.host = &opLog{}
	rec := fauxdom.NewReconciler(a.host)
	sys := fiber.CreateRenderSystem(rec, nil, func(err error) {
		a.lastErr = err.Error()
	})
	a.container = &fauxdom.Container{}
	a.root = fauxdom.CreateRoot(sys, rec, a.container)
	a.render()
	return a
}

func (a *app) render() {
	a.host.beginRender()
	a.root.Render(a.desired())
	a.renders++
}

// desired rebuilds the whole element tree from scratch every time; the
// engine's diff decides what the host actually hears about.
func (a *app) desired() fauxdom.Element {
	lis := make([]fauxdom.Element, 0, len(a.items))
	for i, it := range a.items {
		class := "todo"
		if it.done {
			class = "todo done"
		}
		attrs := fauxdom.A{"class": class}
		if i == a.cursor {
			attrs["aria-selected"] = "true"
		}
		lis = append(lis, fauxdom.Keyed("li", "t"+strconv.Itoa(it.id), attrs, fauxdom.Text(it.text)))
	}
	return fauxdom.El("main", nil,
		fauxdom.El("h1", nil, fauxdom.Text("fiber demo")),
		fauxdom.El("ul", fauxdom.A{"id": "todos"}, lis...),
	)
}

func (a *app) Init() tea.Cmd {
	return nil
}

func (a *app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return a, tea.Quit
		case "up", "k":
			if a.cursor > 0 {
				a.cursor--
				a.render()
			}
		case "down", "j":
			if a.cursor < len(a.items)-1 {
				a.cursor++
				a.render()
			}
		case "K":
			// keyed move: same elements, new order
			if a.cursor > 0 {
				a.items[a.cursor-1], a.items[a.cursor] = a.items[a.cursor], a.items[a.cursor-1]
				a.cursor--
				a.render()
			}
		case "J":
			if a.cursor < len(a.items)-1 {
				a.items[a.cursor+1], a.items[a.cursor] = a.items[a.cursor], a.items[a.cursor+1]
				a.cursor++
				a.render()
			}
		case " ", "x":
			if len(a.items) > 0 {
				a.items[a.cursor].done = !a.items[a.cursor].done
				a.render()
			}
		case "a":
			a.items = append(a.items, item{id: a.nextID, text: "task " + strconv.Itoa(a.nextID)})
			a.nextID++
			a.cursor = len(a.items) - 1
			a.render()
		case "d":
			if len(a.items) > 0 {
				a.items = append(a.items[:a.cursor], a.items[a.cursor+1:]...)
				if a.cursor >= len(a.items) && a.cursor > 0 {
					a.cursor--
				}
				a.render()
			}
		}
	}

	return a, nil
}

func (a *app) View() string {
	width := a.width
	if width <= 0 {
		width = 100
	}
	leftWidth := max(30, width/2-2)
	rightWidth := max(30, width-leftWidth-4)

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF6B6B")).
		MarginBottom(1).
		Render("🧵 FIBER DEMO")

	leftBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Width(leftWidth).
		Render(a.renderItems(leftWidth - 4))
	rightBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Width(rightWidth).
		Render(a.renderHostPanel(rightWidth - 4))
	body := lipgloss.JoinHorizontal(lipgloss.Top, leftBox, rightBox)

	stats := fmt.Sprintf("render #%d flushed %d host op(s)", a.renders, a.host.lastFlush)
	if a.lastErr != "" {
		stats += fmt.Sprintf(" · ⚠ %s", a.lastErr)
	}
	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		MarginTop(1).
		Render(stats + "\nj/k → move · J/K → reorder · space → toggle · a → add · d → delete · q → quit")

	return strings.Join([]string{header, body, footer}, "\n")
}

func (a *app) renderItems(width int) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("Tasks (%d)", len(a.items)))
	if len(a.items) == 0 {
		note := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Render("Nothing here. Press a to add a task.")
		return lipgloss.JoinVertical(lipgloss.Left, title, note)
	}
	var rows []string
	for i, it := range a.items {
		marker := "[ ]"
		if it.done {
			marker = "[x]"
		}
		style := lipgloss.NewStyle().Width(max(20, width))
		switch {
		case i == a.cursor:
			style = style.Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
		case it.done:
			style = style.Foreground(lipgloss.Color("#888888")).Strikethrough(true)
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s %s", marker, it.text)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(rows, "\n"))
}

func (a *app) renderHostPanel(width int) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render("Host tree")
	html := lipgloss.NewStyle().
		Width(max(20, width)).
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(a.container.HTML())
	opsTitle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		MarginTop(1).
		Render(fmt.Sprintf("Host mutations (%d total)", a.host.total))
	ops := "none yet"
	if len(a.host.recent) > 0 {
		ops = strings.Join(a.host.recent, "\n")
	}
	opsBody := lipgloss.NewStyle().
		Width(max(20, width)).
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(ops)
	return lipgloss.JoinVertical(lipgloss.Left, title, html, opsTitle, opsBody)
}

// opLog counts and journals host mutations on their way into the memory
// host, so the view can show what each flush cost.
type opLog struct {
	fauxdom.MemoryHost
	recent    []string
	total     int
	lastFlush int
}

func (l *opLog) beginRender() {
	l.lastFlush = 0
}

func (l *opLog) note(op string) {
	l.total++
	l.lastFlush++
	l.recent = append(l.recent, op)
	if len(l.recent) > opLogDepth {
		l.recent = l.recent[len(l.recent)-opLogDepth:]
	}
}

func (l *opLog) CreateInstance(kind string, attrs map[string]string) any {
	n := l.MemoryHost.CreateInstance(kind, attrs)
	l.note("create " + label(n))
	return n
}

func (l *opLog) CreateTextInstance(text string) any {
	n := l.MemoryHost.CreateTextInstance(text)
	l.note("create " + label(n))
	return n
}

func (l *opLog) AppendChild(parent, child any) {
	l.MemoryHost.AppendChild(parent, child)
	l.note("append " + label(child) + " into " + label(parent))
}

func (l *opLog) InsertBefore(parent, child, before any) {
	l.MemoryHost.InsertBefore(parent, child, before)
	l.note("insert " + label(child) + " before " + label(before))
}

func (l *opLog) RemoveChild(parent, child any) {
	l.MemoryHost.RemoveChild(parent, child)
	l.note("remove " + label(child))
}

func (l *opLog) CommitUpdate(instance any, attrs map[string]string) {
	l.MemoryHost.CommitUpdate(instance, attrs)
	l.note("update " + label(instance))
}

func (l *opLog) CommitTextUpdate(instance any, text string) {
	l.MemoryHost.CommitTextUpdate(instance, text)
	l.note("retext " + label(instance))
}

func (l *opLog) AppendToContainer(container, child any) {
	l.MemoryHost.AppendToContainer(container, child)
	l.note("append " + label(child) + " into container")
}

func (l *opLog) InsertInContainerBefore(container, child, before any) {
	l.MemoryHost.InsertInContainerBefore(container, child, before)
	l.note("insert " + label(child) + " before " + label(before))
}

func (l *opLog) RemoveFromContainer(container, child any) {
	l.MemoryHost.RemoveFromContainer(container, child)
	l.note("remove " + label(child))
}

func label(v any) string {
	switch n := v.(type) {
	case *fauxdom.Node:
		if n.Kind == "" {
			return strconv.Quote(n.Text)
		}
		return "<" + n.Kind + ">"
	case *fauxdom.Container:
		return "container"
	default:
		return "?"
	}
}
