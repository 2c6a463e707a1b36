package cmd

import (
	"context"
	"time"

	statusadapter "github.com/TwilightLilyy/umatrack/internal/adapters/render/status"
	"github.com/TwilightLilyy/umatrack/internal/domain"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func newWatchCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Live view refreshing every second",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := tea.NewProgram(
				newWatchModel(app),
				tea.WithOutput(cmd.OutOrStdout()),
				tea.WithContext(cmd.Context()),
			)

			_, err := p.Run()
			return err
		},
	}
}

type watchTickMsg time.Time

type watchStatusesMsg struct {
	statuses []domain.ResourceStatus
	err      error
}

type watchModel struct {
	app      *app
	spinner  spinner.Model
	statuses []domain.ResourceStatus
	err      error
	loaded   bool
}

func newWatchModel(app *app) watchModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return watchModel{app: app, spinner: s}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch(), watchTick())
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case watchTickMsg:
		return m, tea.Batch(m.fetch(), watchTick())
	case watchStatusesMsg:
		m.loaded = true
		m.statuses = msg.statuses
		m.err = msg.err
		return m, nil
	default:
		return m, nil
	}
}

func (m watchModel) View() string {
	if !m.loaded {
		return m.spinner.View() + " Loading resources...\n"
	}
	if m.err != nil {
		return "error: " + m.err.Error() + "\n"
	}

	view := statusadapter.View(m.statuses, statusadapter.RenderOptions{Now: m.app.now()})
	return view + "\n\nq to quit\n"
}

// fetch runs one engine tick so the live view samples history exactly
// like the serve poller does.
func (m watchModel) fetch() tea.Cmd {
	return func() tea.Msg {
		statuses, _, err := m.app.service.Tick(context.Background())
		return watchStatusesMsg{statuses: statuses, err: err}
	}
}

func watchTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return watchTickMsg(t)
	})
}
