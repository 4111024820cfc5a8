package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"vercheck/internal/ui/theme"
)

// progressReporter receives fetch progress from the checker.
type progressReporter interface {
	Update(done, total int, source string)
	Stop()
}

type noopProgress struct{}

func (noopProgress) Update(int, int, string) {}
func (noopProgress) Stop()                   {}

type progressUpdate struct {
	done   int
	total  int
	source string
	quit   bool
}

type progressMsg progressUpdate

// progressModel shows a spinner with the source being fetched and a bar
// once more than one source is configured.
type progressModel struct {
	spinner  spinner.Model
	bar      progress.Model
	status   lipgloss.Style
	count    lipgloss.Style
	current  progressUpdate
	updates  chan progressUpdate
	finished bool
}

func newProgressModel(p theme.Palette) *progressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(p.Accent)

	bar := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(30),
		progress.WithoutPercentage(),
	)

	return &progressModel{
		spinner: s,
		bar:     bar,
		status:  lipgloss.NewStyle().Foreground(p.Text),
		count:   lipgloss.NewStyle().Foreground(p.TextMuted),
		updates: make(chan progressUpdate, 16),
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForUpdate())
}

func (m *progressModel) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		return progressMsg(<-m.updates)
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		if msg.quit {
			m.finished = true
			return m, tea.Quit
		}
		m.current = progressUpdate(msg)
		cmds := []tea.Cmd{m.waitForUpdate()}
		if msg.total > 0 {
			cmds = append(cmds, m.bar.SetPercent(float64(msg.done)/float64(msg.total)))
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		model, cmd := m.bar.Update(msg)
		m.bar = model.(progress.Model)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *progressModel) View() string {
	if m.finished {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(m.status.Render(stageText(m.current)))
	if m.current.total > 1 {
		b.WriteString("\n")
		b.WriteString(m.bar.View())
		b.WriteString(" ")
		b.WriteString(m.count.Render(fmt.Sprintf("%d / %d", m.current.done, m.current.total)))
	}
	return b.String()
}

func stageText(u progressUpdate) string {
	if u.total > 0 && u.done >= u.total {
		return "Resolving update..."
	}
	if strings.TrimSpace(u.source) == "" {
		return "Checking for updates..."
	}
	return "Fetching " + u.source
}

func (m *progressModel) send(u progressUpdate) {
	select {
	case m.updates <- u:
	default:
	}
}

// progressDisplay runs the progress model inline on its own goroutine.
type progressDisplay struct {
	program *tea.Program
	model   *progressModel
	out     io.Writer
	done    chan struct{}
	mu      sync.Mutex
	stopped bool
}

func newProgressDisplay(w io.Writer, p theme.Palette) *progressDisplay {
	model := newProgressModel(p)
	program := tea.NewProgram(
		model,
		tea.WithOutput(w),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)

	d := &progressDisplay{
		program: program,
		model:   model,
		out:     w,
		done:    make(chan struct{}),
	}
	go func() {
		_, _ = program.Run()
		close(d.done)
	}()
	return d
}

func (d *progressDisplay) Update(done, total int, source string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.model.send(progressUpdate{done: done, total: total, source: source})
}

func (d *progressDisplay) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	d.mu.Unlock()

	d.model.send(progressUpdate{quit: true})
	select {
	case <-d.done:
	case <-time.After(500 * time.Millisecond):
		d.program.Kill()
	}
	_, _ = fmt.Fprint(d.out, "\r\033[K")
}
