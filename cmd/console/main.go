package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jwebster45206/food-guardian/internal/config"
	"github.com/jwebster45206/food-guardian/internal/logger"
	"github.com/jwebster45206/food-guardian/pkg/story"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// An optional argument overrides STORY_FILE.
	storyFile := cfg.StoryFile
	if len(os.Args) > 1 {
		storyFile = os.Args[1]
	}

	// The UI owns the terminal, so logs go to a file or nowhere.
	log := logger.Discard()
	if cfg.ConsoleLogFile != "" {
		f, err := tea.LogToFile(cfg.ConsoleLogFile, "console")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			_ = f.Close() // Ignore error in defer
		}()
		log = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: cfg.LogLevel}))
	}

	graph, err := story.Load(storyFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load story %s: %v\n", storyFile, err)
		os.Exit(1)
	}
	log.Info("Story loaded", "file", storyFile, "nodes", graph.Len(), "start", graph.Start())

	p := tea.NewProgram(NewConsoleUI(graph, log),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
