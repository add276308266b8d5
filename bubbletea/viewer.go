// Package bubbletea provides a terminal UI browser for stored reports using
// the Bubble Tea framework.
package bubbletea

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	lipglosslib "github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/vidgrade"
	"github.com/fwojciec/vidgrade/lipgloss"
)

// chromeHeight is the number of rows used by the header and status bar.
const chromeHeight = 2

// RenderFunc turns a report into viewport content.
type RenderFunc func(report *vidgrade.Report) string

// Model is the Bubble Tea model for browsing reports.
type Model struct {
	reports []*vidgrade.Report
	current int

	viewport viewport.Model
	ready    bool
	width    int

	render    RenderFunc
	clipboard vidgrade.Clipboard
	status    string
	keymap    KeyMap
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithRenderFunc sets the function that renders a report body.
func WithRenderFunc(fn RenderFunc) ModelOption {
	return func(m *Model) {
		if fn != nil {
			m.render = fn
		}
	}
}

// WithClipboard enables copying the current report as JSON.
func WithClipboard(c vidgrade.Clipboard) ModelOption {
	return func(m *Model) {
		m.clipboard = c
	}
}

// NewModel creates a Model over reports. Without WithRenderFunc reports are
// rendered without color.
func NewModel(reports []*vidgrade.Report, opts ...ModelOption) Model {
	m := Model{
		reports: reports,
		render:  lipgloss.NewRenderer(io.Discard).Render,
		keymap:  DefaultKeyMap(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Current returns the index of the report on screen.
func (m Model) Current() int {
	return m.current
}

// Status returns the last status message.
func (m Model) Status() string {
	return m.status
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeys(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		height := max(1, msg.Height-chromeHeight)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
			m.updateContent()
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keymap.NextReport):
		if m.current < len(m.reports)-1 {
			m.current++
			m.status = ""
			m.updateContent()
		}
	case key.Matches(msg, m.keymap.PrevReport):
		if m.current > 0 {
			m.current--
			m.status = ""
			m.updateContent()
		}
	case key.Matches(msg, m.keymap.Up):
		m.viewport.ScrollUp(1)
	case key.Matches(msg, m.keymap.Down):
		m.viewport.ScrollDown(1)
	case key.Matches(msg, m.keymap.HalfPageUp):
		m.viewport.HalfPageUp()
	case key.Matches(msg, m.keymap.HalfPageDown):
		m.viewport.HalfPageDown()
	case key.Matches(msg, m.keymap.GotoTop):
		m.viewport.GotoTop()
	case key.Matches(msg, m.keymap.GotoBottom):
		m.viewport.GotoBottom()
	case key.Matches(msg, m.keymap.Copy):
		m.copyCurrent()
	}
	return m, nil
}

func (m *Model) updateContent() {
	if !m.ready {
		return
	}
	if len(m.reports) == 0 {
		m.viewport.SetContent("暂无报告")
		return
	}
	m.viewport.SetContent(m.render(m.reports[m.current]))
	m.viewport.GotoTop()
}

func (m *Model) copyCurrent() {
	if m.clipboard == nil || len(m.reports) == 0 {
		return
	}
	report := m.reports[m.current]
	data, err := json.MarshalIndent(report, "", "  ")
	if err == nil {
		err = m.clipboard.Copy(string(data))
	}
	if err != nil {
		m.status = "复制失败: " + err.Error()
		return
	}
	m.status = "已复制 " + report.ID
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	var s strings.Builder
	s.WriteString(m.headerView())
	s.WriteString("\n")
	s.WriteString(m.viewport.View())
	s.WriteString("\n")
	s.WriteString(m.statusBarView())
	return s.String()
}

func (m Model) headerView() string {
	style := lipglosslib.NewStyle().Bold(true)
	if len(m.reports) == 0 {
		return style.Render("报告 0/0")
	}
	r := m.reports[m.current]
	header := fmt.Sprintf("报告 %d/%d │ %s", m.current+1, len(m.reports), r.ID)
	if r.VideoID != "" {
		header += " │ " + r.VideoID
	}
	if r.Evaluation != nil {
		header += fmt.Sprintf(" │ %.1f %s", r.Evaluation.OverallScore, r.Evaluation.Grade)
	}
	return style.Render(header)
}

func (m Model) statusBarView() string {
	style := lipglosslib.NewStyle().Faint(true)
	if m.status != "" {
		return style.Render(m.status)
	}
	help := "[n/N] report [j/k] scroll [g/G] top/bottom [q] quit"
	if m.clipboard != nil {
		help = "[n/N] report [j/k] scroll [g/G] top/bottom [y] copy [q] quit"
	}
	return style.Render(fmt.Sprintf("%3.0f%% │ %s", m.viewport.ScrollPercent()*100, help))
}

// Viewer implements vidgrade.ReportViewer using a Bubble Tea TUI.
type Viewer struct {
	opts []ModelOption
}

// NewViewer creates a new Viewer. The options apply to every Model it runs.
func NewViewer(opts ...ModelOption) *Viewer {
	return &Viewer{opts: opts}
}

// View displays the reports and blocks until the user exits.
func (v *Viewer) View(ctx context.Context, reports []*vidgrade.Report) error {
	m := NewModel(reports, v.opts...)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}
