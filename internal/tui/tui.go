package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lithammer/dedent"
	"github.com/tatianab/veritas-chamber/internal/models"
	"github.com/tatianab/veritas-chamber/internal/session"
)

type sessionState int

const (
	stateName sessionState = iota
	stateLoading
	statePlaying
	stateError
)

type model struct {
	state     sessionState
	manager   *session.Manager
	conv      string
	resume    bool
	session   *models.Session
	textInput textinput.Model
	viewport  viewport.Model
	err       error
	gameLog   string
	width     int
	height    int
}

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	gameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	stateStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)
)

var welcome = strings.TrimSpace(dedent.Dedent(`
	Welcome to the Veritas Chamber.

	You wake in a sealed room of oak and iron. Speak plainly and the
	chamber will answer; every path is remembered in your journal.

	What should the chamber call you? (leave empty to stay nameless)
`))

const helpLine = "Commands: /journal, /restart, /quit, or say what you want to do."

// NewModel returns the game UI for conversation conv. With resume set the
// stored session is shown as-is; otherwise the player is asked for a name
// (prefilled with name) and a new session is started.
func NewModel(mgr *session.Manager, conv, name string, resume bool) model {
	ti := textinput.New()
	ti.Placeholder = "Your name..."
	ti.SetValue(name)
	ti.Focus()
	ti.CharLimit = 156
	ti.Width = 40

	m := model{
		state:     stateName,
		manager:   mgr,
		conv:      conv,
		resume:    resume,
		textInput: ti,
	}
	if resume {
		m.state = stateLoading
	}
	return m
}

func (m model) Init() tea.Cmd {
	if m.resume {
		return tea.Batch(textinput.Blink, m.currentScene())
	}
	return textinput.Blink
}

// replyMsg carries a session manager reply back into Update.
type replyMsg struct {
	reply session.Reply
}

type errMsg struct {
	err error
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			if m.state == stateName {
				m.state = stateLoading
				return m, m.start(strings.TrimSpace(m.textInput.Value()))
			}
			if m.state == statePlaying {
				action := strings.TrimSpace(m.textInput.Value())
				if action == "" {
					return m, nil
				}
				m.textInput.Reset()

				if action == "/quit" {
					return m, tea.Quit
				}

				m.gameLog += "\n\n" + userStyle.Width(m.logWidth()).Render("> "+action) + "\n\n"
				m.refreshLog()

				switch action {
				case "/restart":
					return m, m.restart()
				case "/journal":
					return m, m.journal()
				}
				return m, m.submit(action)
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.logWidth()
		m.viewport.Height = msg.Height - 6
		if m.state == statePlaying {
			m.viewport.SetContent(m.gameLog)
		}

	case replyMsg:
		m.session = msg.reply.Session
		if m.state != statePlaying {
			m.state = statePlaying
			if m.viewport.Width == 0 {
				m.viewport = viewport.New(m.logWidth(), max(m.height-6, 0))
			}
			header := gameStyle.Bold(true).Render(m.manager.Engine().World().Title())
			m.gameLog = header + "\n\n"
			m.textInput.Placeholder = "What do you do?"
			m.textInput.Reset()
		}
		m.gameLog += gameStyle.Width(m.logWidth()).Render(msg.reply.Text) + "\n\n"
		m.refreshLog()
		return m, nil

	case errMsg:
		m.err = msg.err
		m.state = stateError
		return m, nil
	}

	if m.state == stateName || m.state == statePlaying {
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *model) refreshLog() {
	m.viewport.SetContent(m.gameLog)
	m.viewport.GotoBottom()
}

func (m model) logWidth() int {
	return int(float64(m.width) * 0.75)
}

func (m model) View() string {
	var s string

	switch m.state {
	case stateName:
		s = welcome + "\n\n" + m.textInput.View()

	case stateLoading:
		s = "\n  Opening the chamber...\n"

	case statePlaying:
		mainView := lipgloss.JoinHorizontal(lipgloss.Top,
			m.viewport.View(),
			m.renderState(),
		)
		s = lipgloss.JoinVertical(lipgloss.Left,
			mainView,
			"\n"+m.textInput.View(),
			"\n"+helpStyle.Render(helpLine),
		)

	case stateError:
		s = fmt.Sprintf("\n  Error: %v\n\nPress Esc to quit.", m.err)
	}

	return "\n" + s + "\n"
}

func (m model) renderState() string {
	if m.session == nil {
		return ""
	}
	s := m.session

	title := s.SceneID
	if sc, ok := m.manager.Engine().World().Scene(s.SceneID); ok && sc.Title != "" {
		title = sc.Title
	}
	location := titleStyle.Render("LOCATION") + "\n" + title + "\n\n"

	player := s.PlayerName
	if player == "" {
		player = "(nameless)"
	}
	who := titleStyle.Render("PLAYER") + "\n" + player + "\nSession " + s.ID + "\n\n"

	inventory := titleStyle.Render("INVENTORY") + "\n"
	if len(s.Inventory) == 0 {
		inventory += "(empty)\n"
	}
	for _, item := range s.Inventory {
		inventory += "- " + item + "\n"
	}

	journal := "\n" + titleStyle.Render("JOURNAL") + "\n" +
		fmt.Sprintf("%d entries, %d steps taken\n", len(s.Journal), len(s.History))

	stateWidth := int(float64(m.width) * 0.23)
	return stateStyle.Width(stateWidth).Height(m.viewport.Height).Render(location + who + inventory + journal)
}

func (m model) do(fn func(ctx context.Context) (session.Reply, error)) tea.Cmd {
	return func() tea.Msg {
		r, err := fn(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return replyMsg{r}
	}
}

func (m model) start(name string) tea.Cmd {
	return m.do(func(ctx context.Context) (session.Reply, error) {
		return m.manager.Start(ctx, m.conv, name)
	})
}

func (m model) currentScene() tea.Cmd {
	return m.do(func(ctx context.Context) (session.Reply, error) {
		return m.manager.CurrentScene(ctx, m.conv)
	})
}

func (m model) submit(action string) tea.Cmd {
	return m.do(func(ctx context.Context) (session.Reply, error) {
		return m.manager.Submit(ctx, m.conv, action)
	})
}

func (m model) journal() tea.Cmd {
	return m.do(func(ctx context.Context) (session.Reply, error) {
		return m.manager.Journal(ctx, m.conv)
	})
}

func (m model) restart() tea.Cmd {
	return m.do(func(ctx context.Context) (session.Reply, error) {
		return m.manager.Restart(ctx, m.conv)
	})
}

// Run plays conversation conv in the terminal until the player quits.
func Run(mgr *session.Manager, conv, name string, resume bool) error {
	p := tea.NewProgram(NewModel(mgr, conv, name, resume), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
