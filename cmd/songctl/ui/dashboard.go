package ui

import (
	"fmt"
	"strconv"
	"strings"

	"star-songs/backend/app/dto"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type catalogTab int

const (
	tabArtists catalogTab = iota
	tabSongs
)

const dashboardPageSize = 20

type pageLoadedMsg struct {
	Tab        catalogTab
	Rows       []table.Row
	Pagination dto.Pagination
	Err        error
}

// SelectedMsg asks the root model to open a detail view.
type SelectedMsg struct {
	Tab catalogTab
	ID  int
}

type DashboardModel struct {
	Client     *Client
	Username   string
	Tab        catalogTab
	Page       int
	Pagination dto.Pagination
	Table      table.Model
	Err        error
}

func newCatalogTable(tab catalogTab, height int) table.Model {
	var columns []table.Column
	switch tab {
	case tabArtists:
		columns = []table.Column{
			{Title: "ID", Width: 6},
			{Title: "Name", Width: 40},
		}
	case tabSongs:
		columns = []table.Column{
			{Title: "ID", Width: 6},
			{Title: "Title", Width: 34},
			{Title: "Artist", Width: 8},
			{Title: "Released", Width: 12},
			{Title: "Distance (ly)", Width: 14},
		}
	}
	if height < 5 {
		height = 5
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

func NewDashboardModel(c *Client, username string, height int) DashboardModel {
	return DashboardModel{
		Client:   c,
		Username: username,
		Tab:      tabArtists,
		Page:     1,
		Table:    newCatalogTable(tabArtists, height-8),
	}
}

func (m DashboardModel) Init() tea.Cmd {
	return m.fetch()
}

func (m DashboardModel) fetch() tea.Cmd {
	client, tab, page := m.Client, m.Tab, m.Page
	return func() tea.Msg {
		switch tab {
		case tabSongs:
			p, err := client.Songs(page, dashboardPageSize, nil)
			if err != nil {
				return pageLoadedMsg{Tab: tab, Err: err}
			}
			rows := make([]table.Row, 0, len(p.Items))
			for _, s := range p.Items {
				artist := "-"
				if s.ArtistID != nil {
					artist = strconv.Itoa(*s.ArtistID)
				}
				released := "-"
				if s.ReleaseDate != nil {
					released = s.ReleaseDate.String()
				}
				distance := "-"
				if s.Distance != nil {
					distance = fmt.Sprintf("%.2f", *s.Distance)
				}
				rows = append(rows, table.Row{strconv.Itoa(s.ID), s.Title, artist, released, distance})
			}
			return pageLoadedMsg{Tab: tab, Rows: rows, Pagination: p.Pagination}
		default:
			p, err := client.Artists(page, dashboardPageSize)
			if err != nil {
				return pageLoadedMsg{Tab: tab, Err: err}
			}
			rows := make([]table.Row, 0, len(p.Items))
			for _, a := range p.Items {
				rows = append(rows, table.Row{strconv.Itoa(a.ID), a.Name})
			}
			return pageLoadedMsg{Tab: tab, Rows: rows, Pagination: p.Pagination}
		}
	}
}

func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Table.SetHeight(msg.Height - 8)

	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			if m.Tab == tabArtists {
				m.Tab = tabSongs
			} else {
				m.Tab = tabArtists
			}
			m.Page = 1
			m.Table = newCatalogTable(m.Tab, m.Table.Height())
			return m, m.fetch()
		case "r":
			return m, m.fetch()
		case "right", "l", "n":
			if m.Pagination.HasNext {
				m.Page++
				return m, m.fetch()
			}
		case "left", "h", "p":
			if m.Pagination.HasPrev {
				m.Page--
				return m, m.fetch()
			}
		case "enter":
			row := m.Table.SelectedRow()
			if len(row) > 0 {
				if id, err := strconv.Atoi(row[0]); err == nil {
					tab := m.Tab
					return m, func() tea.Msg { return SelectedMsg{Tab: tab, ID: id} }
				}
			}
		}

	case pageLoadedMsg:
		if msg.Tab != m.Tab {
			break
		}
		if msg.Err != nil {
			m.Err = msg.Err
			break
		}
		m.Err = nil
		m.Pagination = msg.Pagination
		m.Table.SetRows(msg.Rows)
		m.Table.SetCursor(0)
	}

	m.Table, cmd = m.Table.Update(msg)
	return m, cmd
}

func (m DashboardModel) View() string {
	var b strings.Builder

	title := "Artists"
	if m.Tab == tabSongs {
		title = "Songs"
	}
	b.WriteString(titleStyle.Render("star-songs - "+title) + "  " + blurredStyle.Render("signed in as "+m.Username) + "\n\n")
	b.WriteString(m.Table.View())
	b.WriteString("\n")
	b.WriteString(focusedStyle.Render(fmt.Sprintf("page %d/%d  (%d items)",
		m.Pagination.Page, max(m.Pagination.TotalPages, 1), m.Pagination.TotalItems)))
	b.WriteString("\n")
	b.WriteString(blurredStyle.Render("Tab: artists/songs • ←/→: page • Enter: detail • r: refresh • q: quit"))
	if m.Err != nil {
		b.WriteString("\n" + errorMessageStyle(m.Err.Error()))
	}
	return b.String()
}
