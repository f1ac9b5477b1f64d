package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"sparkwatch/sparkos/proto"
	"sparkwatch/sparkos/tasks/watchface"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F25D94")).Bold(true)
	onStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	offStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Edit   key.Binding
	Cancel key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Edit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit/send")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type item struct {
	key  watchface.Key
	on   bool
	text string
}

func (it item) tuple() proto.Tuple {
	if it.key.IsFlag() {
		return proto.BoolTuple(uint32(it.key), it.on)
	}
	return proto.CStringTuple(uint32(it.key), it.text)
}

type pushResultMsg struct {
	key watchface.Key
	err error
}

type tuiModel struct {
	push  func([]proto.Tuple) error
	keys  keyMap
	items []item

	cursor  int
	editing bool
	input   textinput.Model

	status string
	err    error
}

func newTUIModel(push func([]proto.Tuple) error) tuiModel {
	in := textinput.New()
	in.CharLimit = 32
	in.Prompt = "> "
	return tuiModel{
		push: push,
		keys: defaultKeyMap(),
		items: []item{
			{key: watchface.KeyInvert},
			{key: watchface.KeyBluetoothVibe},
			{key: watchface.KeyHourlyVibe},
			{key: watchface.KeyMinimal},
			{key: watchface.KeyTemperature},
			{key: watchface.KeyCondition},
		},
		input: in,
	}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pushResultMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = "sent " + msg.key.String()
		} else {
			m.status = ""
		}
		return m, nil
	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m tuiModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		it := &m.items[m.cursor]
		if !it.key.IsFlag() {
			return m, nil
		}
		it.on = !it.on
		return m, m.send(*it)
	case key.Matches(msg, m.keys.Edit):
		it := m.items[m.cursor]
		if it.key.IsFlag() {
			return m, m.send(it)
		}
		m.editing = true
		m.input.SetValue(it.text)
		m.input.CursorEnd()
		cmd := m.input.Focus()
		return m, cmd
	}
	return m, nil
}

func (m tuiModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.editing = false
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Edit):
		m.editing = false
		m.input.Blur()
		it := &m.items[m.cursor]
		it.text = m.input.Value()
		return m, m.send(*it)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m tuiModel) send(it item) tea.Cmd {
	push := m.push
	t := it.tuple()
	return func() tea.Msg {
		return pushResultMsg{key: it.key, err: push([]proto.Tuple{t})}
	}
}

func (m tuiModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("sparkwatch settings"))
	b.WriteString("\n\n")
	for i, it := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		var val string
		switch {
		case it.key.IsFlag() && it.on:
			val = onStyle.Render("on")
		case it.key.IsFlag():
			val = offStyle.Render("off")
		case m.editing && i == m.cursor:
			val = m.input.View()
		default:
			val = fmt.Sprintf("%q", it.text)
		}
		fmt.Fprintf(&b, "%s%-14s %s\n", cursor, it.key, val)
	}
	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(m.err.Error()))
	case m.status != "":
		b.WriteString(m.status)
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("space toggle • enter edit/send • esc cancel • q quit"))
	b.WriteString("\n")
	return b.String()
}

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Edit settings interactively, sending each change",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := dialLink(addr, nil)
			if err != nil {
				return err
			}
			defer l.Close()

			p := tea.NewProgram(newTUIModel(l.Push), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
}
