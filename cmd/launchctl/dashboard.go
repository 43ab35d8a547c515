package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/launchkit/launch/core/launchctx"
	"github.com/launchkit/launch/core/logger"
	"github.com/launchkit/launch/core/service"
)

var (
	dashTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	dashDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	dashHeadStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(300*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// dashboard is the bubbletea model for `launchctl watch`: a table of the
// live process table above a scrolling viewport of recent log lines.
type dashboard struct {
	path   string
	lc     *launchctx.Context
	svc    *service.LaunchService
	ring   *logger.RingHandler
	logs   viewport.Model
	ready  bool
	width  int
	height int
}

func newDashboard(path string, lc *launchctx.Context, svc *service.LaunchService, ring *logger.RingHandler) dashboard {
	return dashboard{path: path, lc: lc, svc: svc, ring: ring}
}

func (d dashboard) Init() tea.Cmd {
	return tick()
}

func (d dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.width, d.height = msg.Width, msg.Height
		logHeight := msg.Height - 10
		if logHeight < 3 {
			logHeight = 3
		}
		if !d.ready {
			d.logs = viewport.New(msg.Width, logHeight)
			d.ready = true
		} else {
			d.logs.Width = msg.Width
			d.logs.Height = logHeight
		}
		return d, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			d.svc.Shutdown()
			return d, tea.Quit
		}
		var cmd tea.Cmd
		d.logs, cmd = d.logs.Update(msg)
		return d, cmd

	case tickMsg:
		if d.svc.State() == service.StateStopped {
			return d, tea.Quit
		}
		d.refreshLogs()
		return d, tick()
	}
	return d, nil
}

func (d *dashboard) refreshLogs() {
	if !d.ready {
		return
	}
	atBottom := d.logs.AtBottom()
	d.logs.SetContent(strings.Join(d.ring.Lines(), "\n"))
	if atBottom {
		d.logs.GotoBottom()
	}
}

func (d dashboard) View() string {
	var b strings.Builder

	b.WriteString(dashTitleStyle.Render("launchctl watch " + d.path))
	b.WriteString("  ")
	b.WriteString(dashDimStyle.Render("state=" + d.svc.State().String() + "  (q to quit, j/k to scroll logs)"))
	b.WriteString("\n\n")

	b.WriteString(dashHeadStyle.Render(fmt.Sprintf("%-8s %s", "PID", "STATE")))
	b.WriteString("\n")

	live := d.lc.LiveProcesses()
	rows := make([]string, 0, len(live))
	for _, rec := range live {
		rows = append(rows, fmt.Sprintf("%-8d %s", rec.PID, "running"))
	}
	sort.Strings(rows)
	if len(rows) == 0 {
		b.WriteString(dashDimStyle.Render("(no live processes)"))
		b.WriteString("\n")
	}
	for _, r := range rows {
		b.WriteString(r)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dashHeadStyle.Render("logs"))
	b.WriteString("\n")

	if d.ready {
		b.WriteString(d.logs.View())
	}

	return b.String()
}
