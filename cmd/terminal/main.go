package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	themeFlag := flag.String("theme", "", "UI theme (warden, ember, paper)")
	listThemes := flag.Bool("list-themes", false, "List all available themes")
	serverFlag := flag.String("server", "", "Base URL of the evo-warden server")
	userFlag := flag.String("user", "", "Operator name recorded on actions")
	flag.Parse()

	if *listThemes {
		fmt.Println("Available themes:")
		for _, theme := range ListThemes() {
			fmt.Printf("  - %s\n", theme)
		}
		os.Exit(0)
	}

	selectedTheme := *themeFlag
	if selectedTheme == "" {
		selectedTheme = os.Getenv("EVO_WARDEN_THEME")
	}
	if selectedTheme == "" {
		selectedTheme = string(ThemeWarden)
	}

	theme := ThemeName(selectedTheme)
	validTheme := false
	for _, t := range ListThemes() {
		if t == theme {
			validTheme = true
			break
		}
	}
	if !validTheme {
		fmt.Printf("Invalid theme '%s'. Use --list-themes to see available options.\n", theme)
		os.Exit(1)
	}

	server := *serverFlag
	if server == "" {
		server = os.Getenv("EW_SERVER_URL")
	}
	if server == "" {
		server = "http://localhost:8080"
	}

	user := *userFlag
	if user == "" {
		user = os.Getenv("USER")
	}
	if user == "" {
		user = "operator"
	}

	p := tea.NewProgram(initialModel(theme, newOpsClient(server), user), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("error running program", "error", err)
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
