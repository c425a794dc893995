package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/torii-cli/torii/anilist"
	"github.com/torii-cli/torii/color"
	"github.com/torii-cli/torii/mangadex"
	"github.com/torii-cli/torii/source"
	"github.com/torii-cli/torii/style"
)

// ErrAborted is returned when the user leaves the picker without choosing.
var ErrAborted = errors.New("selection aborted")

var paddingStyle = style.New().Padding(1, 2)

type pickerModel struct {
	list   list.Model
	choice *listItem
	quit   bool
}

func (m *pickerModel) Init() tea.Cmd {
	return nil
}

func (m *pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		x, y := paddingStyle.GetFrameSize()
		m.list.SetSize(msg.Width-x, msg.Height-y)
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(*listItem); ok {
				m.choice = item
			}
			return m, tea.Quit
		case "q", "ctrl+c", "esc":
			m.quit = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *pickerModel) View() string {
	return paddingStyle.Render(m.list.View())
}

// pick runs the picker over the given items and returns the chosen one.
func pick(title string, items []list.Item) (any, error) {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = style.New().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(color.Purple).
		Foreground(color.Purple).
		Padding(0, 0, 0, 1)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

	listC := list.New(items, delegate, 0, 0)
	listC.Title = title
	listC.Styles.Title = style.Colored(color.New("230"), color.New("62")).Padding(0, 1)
	listC.SetShowStatusBar(false)

	model := &pickerModel{list: listC}
	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return nil, err
	}

	m := final.(*pickerModel)
	if m.quit || m.choice == nil {
		return nil, ErrAborted
	}
	return m.choice.internal, nil
}

// PickShow lets the user choose one show from aggregator search results.
func PickShow(title string, shows []*source.Show) (*source.Show, error) {
	items := make([]list.Item, len(shows))
	for i, s := range shows {
		items[i] = &listItem{internal: s}
	}

	choice, err := pick(title, items)
	if err != nil {
		return nil, err
	}
	return choice.(*source.Show), nil
}

// PickAnime lets the user choose one Anilist entry.
func PickAnime(title string, animes []*anilist.Anime) (*anilist.Anime, error) {
	items := make([]list.Item, len(animes))
	for i, a := range animes {
		items[i] = &listItem{internal: a}
	}

	choice, err := pick(title, items)
	if err != nil {
		return nil, err
	}
	return choice.(*anilist.Anime), nil
}

// PickManga lets the user choose one Mangadex search result.
func PickManga(title string, mangas []*mangadex.Manga) (*mangadex.Manga, error) {
	items := make([]list.Item, len(mangas))
	for i, m := range mangas {
		items[i] = &listItem{internal: m}
	}

	choice, err := pick(title, items)
	if err != nil {
		return nil, err
	}
	return choice.(*mangadex.Manga), nil
}
