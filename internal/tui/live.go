// Package tui renders a running time-series study in the terminal: a step
// progress bar, the live trace of one watched network cell and the
// convergence behavior of the control loop.
package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/guptarohit/asciigraph"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jkisse/pandapower/internal/network"
	"github.com/jkisse/pandapower/internal/study"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

type stepMsg struct {
	step       int
	iterations int
	value      float64
	hasValue   bool
}

type doneMsg struct {
	err     error
	metrics map[string]float64
}

// channelObserver forwards completed steps from the run loop goroutine to
// the bubbletea event loop.
type channelObserver struct {
	watch study.Watch
	ch    chan stepMsg
}

func (o *channelObserver) OnStep(net *network.Network, step, iterations int) {
	msg := stepMsg{step: step, iterations: iterations}
	if v, err := net.Value(o.watch.Element, o.watch.Variable, o.watch.Index); err == nil {
		msg.value = v
		msg.hasValue = true
	}
	o.ch <- msg
}

// Model is the live study view. Init launches the run; the view quits on
// completion or on q/ctrl+c, cancelling the run.
type Model struct {
	study  *study.Study
	watch  study.Watch
	cancel context.CancelFunc

	steps  chan stepMsg
	done   chan doneMsg
	series []float64
	iters  []float64

	stepsRun   int
	totalSteps int
	finished   bool
	err        error
	metrics    map[string]float64

	width  int
	height int
}

func NewModel(s *study.Study, watch study.Watch) *Model {
	return &Model{
		study:      s,
		watch:      watch,
		steps:      make(chan stepMsg, 16),
		done:       make(chan doneMsg, 1),
		totalSteps: s.Steps(),
		width:      80,
		height:     24,
	}
}

func (m *Model) Init() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.study.Runner().AddObserver(&channelObserver{watch: m.watch, ch: m.steps})

	go func() {
		result, err := m.study.Run(ctx)
		var metrics map[string]float64
		if result != nil {
			metrics = result.Metrics
		}
		m.done <- doneMsg{err: err, metrics: metrics}
	}()

	return m.wait()
}

// wait blocks on the next run event, preferring pending steps over the
// completion message so no step is dropped from the plot.
func (m *Model) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-m.steps:
			return msg
		case msg := <-m.done:
			select {
			case step := <-m.steps:
				m.done <- msg
				return step
			default:
			}
			return msg
		}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancel()
			return m, tea.Quit
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case stepMsg:
		m.stepsRun = msg.step + 1
		m.iters = append(m.iters, float64(msg.iterations))
		if msg.hasValue {
			m.series = append(m.series, msg.value)
		}
		return m, m.wait()
	case doneMsg:
		m.finished = true
		m.err = msg.err
		m.metrics = msg.metrics
		return m, nil
	}
	return m, nil
}

func (m *Model) View() string {
	var b strings.Builder

	status := green.Render("● running")
	switch {
	case m.err != nil:
		status = red.Render("✗ " + m.err.Error())
	case m.finished:
		status = green.Render("✓ finished")
	}
	b.WriteString("\n   " + cyan.Render("timeseries study") + "  " + status + "\n")

	total := m.totalSteps
	if total < 1 {
		total = 1
	}
	progress := float64(m.stepsRun) / float64(total)
	if progress > 1 {
		progress = 1
	}
	barWidth := 36
	filled := int(progress * float64(barWidth))
	bar := cyan.Render(strings.Repeat("━", filled)) + dimmer.Render(strings.Repeat("─", barWidth-filled))
	b.WriteString(fmt.Sprintf("   %s %s\n\n", bar,
		dim.Render(fmt.Sprintf("step %d/%d", m.stepsRun, m.totalSteps))))

	if len(m.series) > 1 {
		plotWidth := m.width - 16
		if plotWidth > 64 {
			plotWidth = 64
		}
		if plotWidth < 24 {
			plotWidth = 24
		}
		plot := asciigraph.Plot(m.series,
			asciigraph.Height(8),
			asciigraph.Width(plotWidth),
			asciigraph.Caption(watchLabel(m.watch)))
		for _, line := range strings.Split(plot, "\n") {
			b.WriteString("   " + line + "\n")
		}
		b.WriteString("\n")
	}

	if n := len(m.iters); n > 0 {
		last := int(m.iters[n-1])
		style := green
		if last > 1 {
			style = yellow
		}
		b.WriteString("   " + dim.Render("solver iterations ") +
			style.Render(fmt.Sprintf("%d", last)) +
			dim.Render("  sparkline ") + cyan.Render(sparkline(m.iters, 24)) + "\n")
	}

	if m.finished && len(m.metrics) > 0 {
		b.WriteString("\n")
		for _, name := range sortedKeys(m.metrics) {
			b.WriteString("   " + dim.Render(fmt.Sprintf("%-24s", name)) +
				white.Render(fmt.Sprintf("%10.4f", m.metrics[name])) + "\n")
		}
	}

	b.WriteString("\n" + dim.Render("   q quit") + "\n")
	return b.String()
}

func watchLabel(w study.Watch) string {
	return fmt.Sprintf("%s[%d].%s", w.Element, w.Index, w.Variable)
}

func sparkline(data []float64, width int) string {
	if len(data) == 0 {
		return ""
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	rang := maxVal - minVal
	if rang == 0 {
		rang = 1
	}
	start := 0
	if len(data) > width {
		start = len(data) - width
	}
	var sb strings.Builder
	for _, v := range data[start:] {
		idx := int((v - minVal) / rang * 7)
		if idx > 7 {
			idx = 7
		}
		if idx < 0 {
			idx = 0
		}
		sb.WriteRune(chars[idx])
	}
	return sb.String()
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
