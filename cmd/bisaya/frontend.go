package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	bruntime "github.com/gosuda/bisaya/runtime"
)

func runTUI(path string) error {
	p := tea.NewProgram(newModel(path), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

type model struct {
	path     string
	viewport viewport.Model
	input    textinput.Model
	ready    bool
	status   string
	running  bool
	events   <-chan tea.Msg
	pending  *pendingInput
	content  strings.Builder
}

var (
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	inputStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("24")).Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func newModel(path string) model {
	vp := viewport.New(80, 20)
	ti := textinput.New()
	ti.Prompt = "dawat> "
	ti.CharLimit = 4096
	return model{
		path:     path,
		viewport: vp,
		input:    ti,
		status:   "starting",
	}
}

func startVM(path string) tea.Cmd {
	return func() tea.Msg {
		events := make(chan tea.Msg, 256)
		go runVM(path, events)
		return vmStartedMsg{events: events}
	}
}

func waitVMEvent(events <-chan tea.Msg) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case msg, ok := <-events:
			if !ok {
				return nil
			}
			return msg
		case <-time.After(20 * time.Millisecond):
			return vmPollMsg{}
		}
	}
}

func (m model) Init() tea.Cmd {
	return startVM(m.path)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		footerLines := 2
		if m.pending != nil {
			footerLines++
		}
		vh := msg.Height - footerLines
		if vh < 1 {
			vh = 1
		}
		m.viewport.Width = msg.Width
		m.viewport.Height = vh
		m.ready = true
		return m, nil

	case vmStartedMsg:
		m.events = msg.events
		m.running = true
		m.status = "running"
		return m, waitVMEvent(m.events)

	case vmOutputMsg:
		m.appendOutput(msg.out)
		return m, waitVMEvent(m.events)

	case vmPollMsg:
		if m.running && m.pending == nil {
			return m, waitVMEvent(m.events)
		}
		return m, nil

	case vmPromptMsg:
		m.pending = &pendingInput{resp: msg.resp}
		m.input.SetValue("")
		m.input.Focus()
		m.status = "waiting for DAWAT input"
		return m, nil

	case vmDoneMsg:
		m.running = false
		m.pending = nil
		m.input.Blur()
		if msg.err != nil {
			m.status = "failed"
			m.appendOutput(bruntime.Output{Text: "\n" + errStyle.Render(msg.err.Error())})
		} else {
			m.status = "done, press q to quit or r to rerun"
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			if m.pending != nil {
				m.pending.resp <- vmInputResp{}
			}
			return m, tea.Quit
		}
		if m.pending != nil {
			if msg.Type == tea.KeyEnter {
				m.pending.resp <- vmInputResp{value: m.input.Value()}
				m.pending = nil
				m.input.Blur()
				m.input.SetValue("")
				m.status = "running"
				return m, waitVMEvent(m.events)
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "r":
			if m.running {
				return m, nil
			}
			m.content.Reset()
			m.viewport.SetContent("")
			m.status = "restarting"
			return m, startVM(m.path)
		case "g", "home":
			m.viewport.GotoTop()
			return m, nil
		case "G", "end":
			m.viewport.GotoBottom()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if !m.ready {
		return "initializing..."
	}
	parts := []string{m.viewport.View(), statusStyle.Render(m.status)}
	if m.pending != nil {
		parts = append(parts, inputStyle.Render(m.input.View()))
	}
	return strings.Join(parts, "\n")
}

func (m *model) appendOutput(out bruntime.Output) {
	m.content.WriteString(out.Text)
	text := m.content.String()
	if text == "" {
		text = "(no output yet)"
	}
	m.viewport.SetContent(text)
	m.viewport.GotoBottom()
}
