package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/food-guardian/pkg/session"
	"github.com/jwebster45206/food-guardian/pkg/stats"
	"github.com/jwebster45206/food-guardian/pkg/story"
	"github.com/muesli/reflow/wordwrap"
)

const (
	Title           = "FOOD GUARDIAN"
	PlaceHolderText = "Type your name..."

	statsPanelWidth = 28
)

// ConsoleUI is the BubbleTea model that runs a local playthrough.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	graph  *story.Graph
	logger *slog.Logger

	session    *session.Session
	playerName string
	nameInput  textinput.Model
	viewport   viewport.Model
	selected   int
	width      int
	height     int
	status     string

	copy func(string) error
}

var (
	contentPanelStyle = lipgloss.NewStyle().
				PaddingTop(1).
				PaddingLeft(3).
				PaddingRight(1)

	statsPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	scenarioStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	choiceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	selectedChoiceStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)

	feedbackStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	mediaCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

func NewConsoleUI(graph *story.Graph, logger *slog.Logger) ConsoleUI {
	ti := textinput.New()
	ti.Placeholder = PlaceHolderText
	ti.Focus()
	ti.Prompt = promptStyle.Render(":: ")
	ti.CharLimit = 40
	ti.Width = 30

	vp := viewport.New(60, 20)
	vp.MouseWheelEnabled = true

	return ConsoleUI{
		graph:     graph,
		logger:    logger,
		nameInput: ti,
		viewport:  vp,
		copy:      clipboard.WriteAll,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return textinput.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = max(m.width-statsPanelWidth-6, 20)
		m.viewport.Height = max(m.height-4, 5)
		if m.session != nil {
			m.refresh()
		}
		return m, nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.session == nil {
			return m.updateNameEntry(msg)
		}
		return m.updateSession(msg)
	}

	if m.session == nil {
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m ConsoleUI) updateNameEntry(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyEnter:
		name := strings.TrimSpace(m.nameInput.Value())
		if name == "" {
			return m, nil
		}
		m.playerName = name
		m.nameInput.Blur()
		m.start()
		return m, nil
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m ConsoleUI) updateSession(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "esc":
		return m, tea.Quit
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	m.status = ""
	switch m.session.Phase() {
	case session.PhasePlaying:
		m.updateNode(key)
	case session.PhaseAwaitingContinue:
		if key == "enter" || key == " " {
			if err := m.session.Continue(); err != nil {
				m.status = err.Error()
			}
		}
	case session.PhaseEnded:
		switch key {
		case "c":
			m.copySummary()
		case "r":
			m.start()
			return m, nil
		case "q":
			return m, tea.Quit
		}
	}
	m.refresh()
	return m, nil
}

func (m *ConsoleUI) updateNode(key string) {
	st := m.session.State()
	if st.Node == nil {
		return
	}

	// The terminal cannot play video, so enter stands in for the end of the
	// intro.
	if st.Media != nil {
		if key == "enter" {
			m.session.HandleMediaEnd()
		}
		return
	}

	if st.Node.Terminal() {
		if key == "enter" {
			if err := m.session.ViewResults(); err != nil {
				m.status = err.Error()
			}
		}
		return
	}

	switch key {
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(st.Node.Choices)-1 {
			m.selected++
		}
	case "enter":
		m.choose(m.selected)
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(st.Node.Choices) {
			m.choose(n - 1)
		}
	}
}

func (m *ConsoleUI) choose(i int) {
	if _, err := m.session.SelectChoice(i); err != nil {
		m.status = err.Error()
		return
	}
	m.selected = 0
}

func (m *ConsoleUI) copySummary() {
	if err := m.copy(m.session.Summary()); err != nil {
		m.logger.Warn("Failed to copy results", "error", err)
		m.status = "Could not copy results: " + err.Error()
		return
	}
	m.status = "Results copied to clipboard."
}

func (m *ConsoleUI) start() {
	m.session = session.New(m.graph, m.playerName, m.logger)
	m.selected = 0
	m.status = ""
	m.refresh()
}

// refresh rebuilds the content panel for the current viewport width.
func (m *ConsoleUI) refresh() {
	m.viewport.SetContent(m.renderContent(max(m.viewport.Width-4, 20)))
	m.viewport.GotoTop()
}

func (m ConsoleUI) renderContent(width int) string {
	st := m.session.State()

	var b strings.Builder
	b.WriteString(titleStyle.Render(Title) + "\n\n")

	switch st.Phase {
	case session.PhasePlaying:
		if st.Node == nil {
			break
		}
		b.WriteString(scenarioStyle.Render(wordwrap.String(st.Node.ScenarioText, width)) + "\n\n")
		switch {
		case st.Media != nil:
			b.WriteString(renderMediaCard(st.Media, width) + "\n")
		case st.Node.Terminal():
			b.WriteString(promptStyle.Render("Press enter to view your results."))
		default:
			for i, c := range st.Node.Choices {
				line := fmt.Sprintf("%d. %s", i+1, c.Label())
				if i == m.selected {
					b.WriteString(selectedChoiceStyle.Render("▶ " + line))
				} else {
					b.WriteString(choiceStyle.Render("  " + line))
				}
				b.WriteString("\n")
			}
			b.WriteString("\n" + promptStyle.Render("Use ↑/↓ or a number to pick, enter to choose."))
		}

	case session.PhaseAwaitingContinue:
		if st.PendingFeedback != nil {
			b.WriteString(feedbackStyle.Render(wordwrap.String(*st.PendingFeedback, width)) + "\n\n")
		}
		b.WriteString(promptStyle.Render("Press enter to continue."))

	case session.PhaseEnded:
		b.WriteString(wordwrap.String(m.session.Summary(), width) + "\n")
		b.WriteString(promptStyle.Render("c: copy results • r: play again • q: quit"))
	}

	if m.status != "" {
		b.WriteString("\n\n" + statusStyle.Render(m.status))
	}
	return b.String()
}

func renderMediaCard(media *session.MediaCommand, width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("▶ Intro") + "\n")
	if media.VideoURL != "" {
		b.WriteString("video: " + media.VideoURL + "\n")
	}
	if media.AudioURL != "" {
		b.WriteString("audio: " + media.AudioURL + "\n")
	}
	b.WriteString(promptStyle.Render("Press enter when it has finished playing."))
	return mediaCardStyle.Width(max(width-4, 10)).Render(b.String())
}

func renderStats(st session.State) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("STATS") + "\n\n")
	for _, a := range stats.DisplayOrder {
		fmt.Fprintf(&b, "%-10s %4d\n", stats.Label(a)+":", st.Stats.Get(a))
	}
	b.WriteString("\n" + titleStyle.Render("MASCOT") + "\n\n")
	b.WriteString(wordwrap.String(st.Mood.Sentence(), statsPanelWidth-2) + "\n")
	b.WriteString(promptStyle.Render(st.Mood.Image()) + "\n")
	if n := len(st.History); n > 0 {
		fmt.Fprintf(&b, "\nChoices made: %d\n", n)
	}
	return b.String()
}

func (m ConsoleUI) renderNameEntry() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(Title) + "\n\n")
	b.WriteString("Guide your mascot through a day of food choices.\n\n")
	b.WriteString("What's your name?\n\n")
	b.WriteString(m.nameInput.View() + "\n\n")
	b.WriteString(promptStyle.Render("Enter to start, Esc to quit"))
	return contentPanelStyle.Render(b.String())
}

func (m ConsoleUI) View() string {
	if m.session == nil {
		return m.renderNameEntry()
	}

	content := contentPanelStyle.Render(m.viewport.View())
	panel := statsPanelStyle.Width(statsPanelWidth).Render(renderStats(m.session.State()))
	return lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
}
