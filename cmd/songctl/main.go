package main

import (
	"flag"
	"fmt"
	"os"

	"star-songs/cmd/songctl/ui"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	server := flag.String("server", "http://127.0.0.1:8000", "Backend base URL")
	sessionPath := flag.String("session", "", "Session file path (default: user config dir)")
	flag.Parse()

	store, err := ui.NewSessionStore(*sessionPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "session store: %v\n", err)
		os.Exit(1)
	}
	client := ui.NewClient(*server, store)

	p := tea.NewProgram(ui.NewRootModel(client), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "songctl: %v\n", err)
		os.Exit(1)
	}
}
