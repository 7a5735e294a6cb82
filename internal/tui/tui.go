// Package tui provides a Bubble Tea terminal user interface for
// campus-dl.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naokawa/campus-dl/internal/catalog"
	"github.com/naokawa/campus-dl/internal/config"
	"github.com/naokawa/campus-dl/internal/download"
	"github.com/naokawa/campus-dl/internal/httpx"
	"github.com/naokawa/campus-dl/internal/session"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateDownloading
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logs      []LogEntry
	err       error

	ctx    context.Context
	cancel context.CancelFunc

	manager *download.Manager
	events  chan download.ProgressEvent

	doneItems  int32
	totalItems int32

	// Options
	playlist bool
	verbose  bool

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel() Model {
	ti := textinput.New()
	ti.Placeholder = "course id, e.g. 8540"
	ti.Focus()
	ti.CharLimit = 32
	ti.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  config.DefaultSettings(),
		logs:      make([]LogEntry, 0),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg carries one progress event from the manager.
	ProgressMsg struct {
		Event download.ProgressEvent
	}

	// DownloadDoneMsg is sent when the course download finishes.
	DownloadDoneMsg struct {
		Err error
	}

	// TickMsg is for periodic progress-bar updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateDownloading {
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "enter":
			if m.state == StateInput && m.textInput.Value() != "" {
				return m.startDownload()
			}

		case "p":
			if m.state == StateInput {
				m.playlist = !m.playlist
			}

		case "v":
			if m.state == StateInput {
				m.verbose = !m.verbose
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for a new course
				m.state = StateInput
				m.logs = nil
				m.err = nil
				m.manager = nil
				m.events = nil
				m.doneItems = 0
				m.totalItems = 0
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.textInput.SetValue("")
				m.textInput.Focus()
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		if msg.Event.Level != download.LevelVerbose || m.verbose {
			m.logs = append(m.logs, LogEntry{
				Message: msg.Event.Message,
				Level:   msg.Event.Level,
			})
			// Keep only the tail
			if len(m.logs) > 10 {
				m.logs = m.logs[len(m.logs)-10:]
			}
		}
		cmds = append(cmds, m.listenEvents())

	case DownloadDoneMsg:
		if msg.Err != nil && m.ctx.Err() == nil {
			m.state = StateError
			m.err = msg.Err
		} else if m.ctx.Err() != nil {
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		} else {
			m.state = StateComplete
		}

	case TickMsg:
		if m.manager != nil && m.state == StateDownloading {
			done, total := m.manager.GetProgress()
			m.doneItems = done
			m.totalItems = total

			var percent float64
			if total > 0 {
				percent = float64(done) / float64(total)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// startDownload wires up the manager for the entered course and kicks
// off the download in the background.
func (m Model) startDownload() (tea.Model, tea.Cmd) {
	courseID := strings.TrimSpace(m.textInput.Value())

	settings := m.settings
	settings.CreatePlaylist = m.playlist

	store := session.NewStore(settings.SessionPath)
	sess, err := store.Load()
	if err != nil {
		m.state = StateError
		m.err = err
		return m, nil
	}

	events := make(chan download.ProgressEvent, 64)
	httpClient := httpx.NewClient(settings.UserAgent, settings.RetryPolicy())
	client := catalog.NewClient(httpClient, sess, catalog.Endpoints{BaseURL: settings.APIBaseURL}, nil)
	manager := download.NewManager(settings, sess, client, httpClient, func(event download.ProgressEvent) {
		select {
		case events <- event:
		default: // never block the download on a slow UI
		}
	})

	m.manager = manager
	m.events = events
	m.state = StateDownloading

	run := func() tea.Msg {
		err := manager.DownloadCourse(m.ctx, courseID, download.Options{})
		close(events)
		return DownloadDoneMsg{Err: err}
	}
	return m, tea.Batch(run, m.listenEvents(), m.tickProgress(), m.spinner.Tick)
}

// listenEvents waits for the next progress event.
func (m Model) listenEvents() tea.Cmd {
	events := m.events
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return ProgressMsg{Event: event}
	}
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("campus-dl"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Download course lectures"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter course id:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	playlistCheck := "[ ]"
	if m.playlist {
		playlistCheck = "[x]"
	}
	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[x]"
	}

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Create course playlist (p)\n", playlistCheck))
	b.WriteString(fmt.Sprintf("  %s Verbose output (v)\n", verboseCheck))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Output directory: %s", m.settings.OutputDir)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Downloading..."))
	b.WriteString("\n\n")

	b.WriteString(m.progress.View())
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Videos: %d/%d", m.doneItems, m.totalItems)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	return boxStyle.Render(fmt.Sprintf(
		"Download complete!\n\nVideos: %d\nOutput: %s",
		m.doneItems,
		m.settings.OutputDir,
	))
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "."
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "x"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "+"
		case download.LevelInfo:
			style = infoStyle
			prefix = ">"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: start | p: playlist | v: verbose | esc: quit"
	case StateDownloading:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new course | q: quit"
	}
	return ""
}

// Run starts the TUI application.
func Run() error {
	p := tea.NewProgram(NewModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
