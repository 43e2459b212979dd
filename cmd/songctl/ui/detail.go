package ui

import (
	"fmt"
	"strings"

	"star-songs/backend/app/dto"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// BackMsg signals the root model to return to the dashboard.
type BackMsg struct{}

type detailLoadedMsg struct {
	Artist *dto.ArtistOut
	Songs  []dto.SongOut
	Song   *dto.SongOut
	Err    error
}

type DetailModel struct {
	Client *Client
	Tab    catalogTab
	ID     int

	Artist *dto.ArtistOut
	Songs  []dto.SongOut
	Song   *dto.SongOut
	Err    error
}

func NewDetailModel(c *Client, tab catalogTab, id int) DetailModel {
	return DetailModel{Client: c, Tab: tab, ID: id}
}

func (m DetailModel) Init() tea.Cmd {
	client, tab, id := m.Client, m.Tab, m.ID
	return func() tea.Msg {
		if tab == tabSongs {
			s, err := client.Song(id)
			if err != nil {
				return detailLoadedMsg{Err: err}
			}
			return detailLoadedMsg{Song: s}
		}
		a, err := client.Artist(id)
		if err != nil {
			return detailLoadedMsg{Err: err}
		}
		// first page of the artist's songs is enough for a detail card
		songs, err := client.Songs(1, dashboardPageSize, &id)
		if err != nil {
			return detailLoadedMsg{Artist: a, Err: err}
		}
		return detailLoadedMsg{Artist: a, Songs: songs.Items}
	}
}

func (m DetailModel) Update(msg tea.Msg) (DetailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "backspace", "q":
			return m, func() tea.Msg { return BackMsg{} }
		}
	case detailLoadedMsg:
		m.Artist = msg.Artist
		m.Songs = msg.Songs
		m.Song = msg.Song
		m.Err = msg.Err
	}
	return m, nil
}

func field(label, value string) string {
	return labelStyle.Render(label) + value
}

func (m DetailModel) View() string {
	var b strings.Builder

	switch {
	case m.Song != nil:
		b.WriteString(titleStyle.Render("Song") + "\n\n")
		lines := []string{
			field("ID", fmt.Sprintf("%d", m.Song.ID)),
			field("Title", m.Song.Title),
		}
		if m.Song.ArtistID != nil {
			lines = append(lines, field("Artist ID", fmt.Sprintf("%d", *m.Song.ArtistID)))
		}
		if m.Song.ReleaseDate != nil {
			lines = append(lines, field("Released", m.Song.ReleaseDate.String()))
		}
		if m.Song.URL != nil {
			lines = append(lines, field("URL", *m.Song.URL))
		}
		if m.Song.Distance != nil {
			lines = append(lines, field("Distance", fmt.Sprintf("%.2f light-years", *m.Song.Distance)))
		}
		b.WriteString(boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))

	case m.Artist != nil:
		b.WriteString(titleStyle.Render("Artist") + "\n\n")
		card := lipgloss.JoinVertical(lipgloss.Left,
			field("ID", fmt.Sprintf("%d", m.Artist.ID)),
			field("Name", m.Artist.Name),
		)
		b.WriteString(boxStyle.Render(card))
		b.WriteString("\n\n" + focusedStyle.Render("Songs") + "\n")
		if len(m.Songs) == 0 {
			b.WriteString(blurredStyle.Render("  (none)"))
		}
		for _, s := range m.Songs {
			released := ""
			if s.ReleaseDate != nil {
				released = "  " + blurredStyle.Render(s.ReleaseDate.String())
			}
			b.WriteString(fmt.Sprintf("  %4d  %s%s\n", s.ID, s.Title, released))
		}

	default:
		b.WriteString(blurredStyle.Render("Loading..."))
	}

	b.WriteString("\n\n" + blurredStyle.Render("Esc: back to dashboard"))
	if m.Err != nil {
		b.WriteString("\n" + errorMessageStyle(m.Err.Error()))
	}
	return b.String()
}
