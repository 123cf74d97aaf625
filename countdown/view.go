package countdown

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"

	"github.com/jojocoffee/serenity/internal/timeutil"
	"github.com/jojocoffee/serenity/timer"
)

// formatDuration returns d formatted as "MM:SS".
func formatDuration(d time.Duration) string {
	m, s := timeutil.SecsToMinsAndSecs(d.Seconds())

	return fmt.Sprintf("%02d:%02d", m, s)
}

func (m *Model) timeFormat() string {
	if m.opts.TwentyFourHour {
		return "15:04"
	}

	return "03:04 PM"
}

func (m *Model) selectorView() string {
	var s strings.Builder

	st := m.opts.Style

	title := "Choose the length of your session"
	if m.completed {
		title = "Your session is complete. Well done!"
	}

	s.WriteString(st.Title.Render(title))
	s.WriteString("\n\n")
	s.WriteString(st.Main.Render("◂ " + formatDuration(m.sched.Selected()) + " ▸"))
	s.WriteString("\n\n")
	s.WriteString(m.help.ShortHelpView([]key.Binding{
		defaultKeymap.shorter,
		defaultKeymap.longer,
		defaultKeymap.start,
		defaultKeymap.quit,
	}))

	return s.String()
}

func (m *Model) timerView(state timer.State) string {
	var s strings.Builder

	st := m.opts.Style
	now := m.opts.Now()
	remaining := state.Remaining

	if state.Status == timer.Running {
		remaining = max(state.WakeUp.Sub(now), 0)

		s.WriteString(st.Title.Render("Meditating"))
		s.WriteString(st.Hint.Render("until " + state.WakeUp.Format(m.timeFormat())))
	} else {
		s.WriteString(st.Title.Render("Meditating"))
		s.WriteString(st.Secondary.MarginLeft(1).Render("[Paused]"))
	}

	s.WriteString("\n\n")
	s.WriteString(st.Main.Render(formatDuration(remaining)))

	if state.Total > 0 {
		elapsed := 1 - remaining.Seconds()/state.Total.Seconds()

		s.WriteString("\n\n")
		s.WriteString(m.progress.ViewAs(min(max(elapsed, 0), 1)))
	}

	s.WriteString("\n\n")
	s.WriteString(m.help.ShortHelpView([]key.Binding{
		defaultKeymap.togglePlay,
		defaultKeymap.reset,
		defaultKeymap.quit,
	}))

	return s.String()
}

func (m *Model) View() string {
	state := m.sched.State()

	var view string

	if state.Status == timer.Idle {
		view = m.selectorView()
	} else {
		view = m.timerView(state)
	}

	if m.err != nil {
		view += "\n\n" + m.opts.Style.Error.Render(m.err.Error())
	}

	return m.opts.Style.Base.Render(view)
}
