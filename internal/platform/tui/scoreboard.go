package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-tetris/internal/registry"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

const (
	scoreboardRows = 100
	versusTab      = "versus"
)

// ScoreboardKeyMap holds the bindings of the high score screen.
type ScoreboardKeyMap struct {
	Up, Down   key.Binding
	Next, Prev key.Binding
	Back, Quit key.Binding
}

// ShortHelp implements help.KeyMap.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Next, k.Prev, k.Back}
}

// FullHelp implements help.KeyMap.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Quit}}
}

func defaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Next: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab/→", "next")),
		Prev: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("S-tab/←", "prev")),
		Back: key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type scoreTab struct {
	id, title string
}

// ScoreboardModel shows the best games of each rules preset and a page of
// recent versus results.
type ScoreboardModel struct {
	store *storage.Store
	tabs  []scoreTab
	tab   int

	table   table.Model
	summary string
	empty   bool

	keys          ScoreboardKeyMap
	help          help.Model
	width, height int
	back, quit    bool
}

// NewScoreboardModel opens the scoreboard on the first preset.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	var tabs []scoreTab
	for _, g := range registry.List() {
		tabs = append(tabs, scoreTab{id: g.ID, title: g.Title})
	}
	tabs = append(tabs, scoreTab{id: versusTab, title: "Versus"})

	m := ScoreboardModel{
		store:  store,
		tabs:   tabs,
		keys:   defaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.load()
	return m
}

func (m *ScoreboardModel) newTable(cols []table.Column, rows []table.Row) table.Model {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).
		BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")).BorderBottom(true)
	styles.Selected = styles.Selected.Bold(false).
		Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	return table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(m.height-9, 3)),
		table.WithStyles(styles),
	)
}

// load fills the table for the selected tab.
func (m *ScoreboardModel) load() {
	if m.tabs[m.tab].id == versusTab {
		m.loadMatches()
	} else {
		m.loadScores(m.tabs[m.tab].id)
	}
}

func (m *ScoreboardModel) loadScores(mode string) {
	var rows []table.Row
	m.summary = ""
	if m.store != nil {
		scores, _ := m.store.TopScores(mode, scoreboardRows)
		for i, s := range scores {
			rows = append(rows, table.Row{
				"#" + strconv.Itoa(i+1),
				strconv.Itoa(s.Score),
				strconv.Itoa(s.Lines),
				strconv.Itoa(s.Level),
				s.CreatedAt.Format("Jan 02 15:04"),
			})
		}
		if st, err := m.store.GetModeStats(mode); err == nil && st.GamesCount > 0 {
			m.summary = fmt.Sprintf("%d games · avg %.0f · %d lines · best level %d",
				st.GamesCount, st.AvgScore, st.TotalLines, st.BestLevel)
		}
	}
	m.empty = len(rows) == 0
	m.table = m.newTable([]table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Score", Width: 10},
		{Title: "Lines", Width: 6},
		{Title: "Level", Width: 5},
		{Title: "Date", Width: 12},
	}, rows)
}

func (m *ScoreboardModel) loadMatches() {
	var rows []table.Row
	m.summary = ""
	if m.store != nil {
		matches, _ := m.store.RecentOnlineMatches(scoreboardRows)
		for _, r := range matches {
			winner := "draw"
			switch r.WinnerSession {
			case "":
			case r.Player1Session:
				winner = "P1"
			default:
				winner = "P2"
			}
			rows = append(rows, table.Row{
				r.Preset,
				fmt.Sprintf("%d : %d", r.Score1, r.Score2),
				winner,
				r.EndReason,
				r.CreatedAt.Format("Jan 02 15:04"),
			})
		}
		if len(matches) > 0 {
			m.summary = fmt.Sprintf("last %d matches", len(matches))
		}
	}
	m.empty = len(rows) == 0
	m.table = m.newTable([]table.Column{
		{Title: "Rules", Width: 10},
		{Title: "Score", Width: 15},
		{Title: "Win", Width: 4},
		{Title: "Ended", Width: 22},
		{Title: "Date", Width: 12},
	}, rows)
}

// Init implements tea.Model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quit = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.back = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.tab = (m.tab + 1) % len(m.tabs)
			m.load()
			return m, nil
		case key.Matches(msg, m.keys.Prev):
			m.tab = (m.tab + len(m.tabs) - 1) % len(m.tabs)
			m.load()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.load()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ScoreboardModel) tabBar() string {
	active := selectedStyle.Background(lipgloss.Color("57")).Padding(0, 1)
	idle := dimStyle.Padding(0, 1)
	parts := make([]string, len(m.tabs))
	for i, t := range m.tabs {
		if i == m.tab {
			parts[i] = active.Render(t.id)
		} else {
			parts[i] = idle.Render(t.id)
		}
	}
	bar := strings.Join(parts, " ")
	if lipgloss.Width(bar) > m.width-2 {
		bar = active.Render("< " + m.tabs[m.tab].id + " >")
	}
	return bar
}

// View implements tea.Model.
func (m ScoreboardModel) View() string {
	if m.back || m.quit {
		return ""
	}

	body := m.table.View()
	if m.empty {
		body = dimStyle.Italic(true).Padding(1, 3).Render("Nothing recorded yet.")
	}
	center := func(s string) string {
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, s)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		center(titleStyle.Render("HIGH SCORES · "+m.tabs[m.tab].title)),
		center(dimStyle.Render(m.summary)),
		center(m.tabBar()),
		"",
		center(previewStyle.Render(body)),
		m.help.View(m.keys),
	)
}

// IsGoingBack reports whether the user asked to return to the menu.
func (m ScoreboardModel) IsGoingBack() bool { return m.back }

// IsQuitting reports whether the user asked to quit.
func (m ScoreboardModel) IsQuitting() bool { return m.quit }

// RunScoreboard shows the scoreboard until the user leaves it. goBack is
// false when the user quit instead.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	final, err := tea.NewProgram(NewScoreboardModel(store, width, height), tea.WithAltScreen()).Run()
	if err != nil {
		return false, err
	}
	m, _ := final.(ScoreboardModel)
	return m.back, nil
}
