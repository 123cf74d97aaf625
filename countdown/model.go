// Package countdown is the interactive terminal screen of the meditation
// timer
package countdown

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/davecgh/go-spew/spew"

	"github.com/jojocoffee/serenity/timer"
)

// Scheduler is the part of the timer scheduler driven by the screen.
type Scheduler interface {
	State() timer.State
	Selected() time.Duration
	Select(d time.Duration) error
	Start(d time.Duration) error
	Pause() error
	Resume() error
	Reset() error
	Poll() (time.Duration, error)
}

const (
	tickInterval = time.Second
	step         = time.Minute
)

type pollMsg struct {
	err       error
	remaining time.Duration
}

// Options configures the countdown screen.
type Options struct {
	Now            func() time.Time
	Style          Style
	TwentyFourHour bool
}

// Model is the bubbletea model of the countdown screen.
type Model struct {
	sched    Scheduler
	opts     Options
	help     help.Model
	progress progress.Model
	err      error
	// status seen at the last poll, to notice completions
	last      timer.Status
	completed bool
}

// New returns the countdown screen for sched.
func New(sched Scheduler, opts Options) *Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Model{
		sched:    sched,
		opts:     opts,
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		last:     sched.State().Status,
	}
}

func (m *Model) Init() tea.Cmd {
	return m.tick()
}

// tick polls the scheduler once per second. Polling also completes a
// countdown whose alarm was not delivered.
func (m *Model) tick() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		remaining, err := m.sched.Poll()
		return pollMsg{remaining: remaining, err: err}
	})
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pollMsg:
		return m.handlePoll(msg)

	case tea.KeyMsg:
		slog.Debug("key pressed", slog.String("msg", spew.Sdump(msg)))

		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.progress.Width = min(msg.Width-padding*2-4, maxWidth)
		m.help.Width = msg.Width

		return m, nil
	}

	return m, nil
}

func (m *Model) handlePoll(msg pollMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.err = msg.err
		slog.Error("poll failed", slog.Any("error", msg.err))
	}

	status := m.sched.State().Status

	if m.last == timer.Running && status == timer.Idle && msg.remaining == 0 {
		m.completed = true
	}

	m.last = status

	return m, m.tick()
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, defaultKeymap.quit) {
		return m, tea.Quit
	}

	var err error

	st := m.sched.State()

	switch {
	case key.Matches(msg, defaultKeymap.shorter):
		if st.Status == timer.Idle {
			err = m.sched.Select(max(m.sched.Selected()-step, 0))
		}

	case key.Matches(msg, defaultKeymap.longer):
		if st.Status == timer.Idle {
			err = m.sched.Select(min(m.sched.Selected()+step, timer.MaxDuration))
		}

	case key.Matches(msg, defaultKeymap.start):
		if st.Status == timer.Idle {
			err = m.sched.Start(m.sched.Selected())
		}

	case key.Matches(msg, defaultKeymap.togglePlay):
		switch st.Status {
		case timer.Running:
			err = m.sched.Pause()
		case timer.Paused:
			err = m.sched.Resume()
		case timer.Idle:
		}

	case key.Matches(msg, defaultKeymap.reset):
		err = m.sched.Reset()

	default:
		return m, nil
	}

	status := m.sched.State().Status

	// pausing after the wake-up instant completes the session
	m.completed = st.Status == timer.Running && status == timer.Idle &&
		!key.Matches(msg, defaultKeymap.reset)
	m.err = err
	m.last = status

	if err != nil {
		slog.Error("timer action failed", slog.Any("error", err))
	}

	return m, nil
}
