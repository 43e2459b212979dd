package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

type state int

const (
	stateLogin state = iota
	stateDashboard
	stateDetail
)

// sessionCheckMsg reports whether the cached token pair still works.
type sessionCheckMsg struct {
	Username string
	OK       bool
}

type RootModel struct {
	State     state
	Client    *Client
	Login     LoginModel
	Dashboard DashboardModel
	Detail    DetailModel
	Quitting  bool
	width     int
	height    int
}

func NewRootModel(client *Client) RootModel {
	return RootModel{
		State:  stateLogin,
		Client: client,
		Login:  NewLoginModel(client),
	}
}

func (m RootModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.Login.Init()}
	if m.Client.HasSession() {
		client := m.Client
		cmds = append(cmds, func() tea.Msg {
			u, err := client.Me()
			if err != nil {
				return sessionCheckMsg{OK: false}
			}
			return sessionCheckMsg{Username: u.Username, OK: true}
		})
	}
	return tea.Batch(cmds...)
}

func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.Quitting = true
			return m, tea.Quit
		}
		if m.State == stateDashboard && msg.String() == "q" {
			m.Quitting = true
			return m, tea.Quit
		}

	case sessionCheckMsg:
		if msg.OK && m.State == stateLogin {
			m.State = stateDashboard
			m.Dashboard = NewDashboardModel(m.Client, msg.Username, m.height)
			return m, m.Dashboard.Init()
		}
	}

	switch m.State {
	case stateLogin:
		if res, ok := msg.(loginResultMsg); ok && res.Err == nil {
			m.State = stateDashboard
			m.Dashboard = NewDashboardModel(m.Client, res.Username, m.height)
			return m, m.Dashboard.Init()
		}
		var cmd tea.Cmd
		m.Login, cmd = m.Login.Update(msg)
		cmds = append(cmds, cmd)

	case stateDashboard:
		if sel, ok := msg.(SelectedMsg); ok {
			m.State = stateDetail
			m.Detail = NewDetailModel(m.Client, sel.Tab, sel.ID)
			return m, m.Detail.Init()
		}
		var cmd tea.Cmd
		m.Dashboard, cmd = m.Dashboard.Update(msg)
		cmds = append(cmds, cmd)

	case stateDetail:
		if _, ok := msg.(BackMsg); ok {
			m.State = stateDashboard
			return m, m.Dashboard.fetch()
		}
		var cmd tea.Cmd
		m.Detail, cmd = m.Detail.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m RootModel) View() string {
	if m.Quitting {
		return "Bye!\n"
	}
	switch m.State {
	case stateLogin:
		return m.Login.View()
	case stateDashboard:
		return m.Dashboard.View()
	case stateDetail:
		return m.Detail.View()
	}
	return ""
}
