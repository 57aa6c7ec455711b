package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"clipcast/demo/tui"
	"clipcast/types"
)

func main() {
	// Load environment
	_ = godotenv.Load()

	// Parse command-line flags
	serverURL := flag.String("url", "http://localhost:8081", "Publish server URL")
	videoPath := flag.String("video", "", "Path to the video file to publish")
	platform := flag.String("platform", "tiktok", "Target platform (tiktok, youtube, instagram)")
	title := flag.String("title", "", "Video title (defaults to filename)")
	privacy := flag.String("privacy", "private", "Privacy level (public, private, unlisted)")
	flag.Parse()

	if *videoPath == "" {
		flag.Usage()
		fmt.Println("--video is required")
		os.Exit(1)
	}

	jobTitle := *title
	if jobTitle == "" {
		jobTitle = strings.TrimSuffix(filepath.Base(*videoPath), filepath.Ext(*videoPath))
	}

	job := types.PublishJob{
		Platform: *platform,
		FilePath: *videoPath,
		Metadata: types.PublishMetadata{
			Title:   jobTitle,
			Privacy: types.Privacy(*privacy),
		},
	}

	// Create TUI model
	m := tui.NewModel(*serverURL, job)

	// Create the tea program
	program := tea.NewProgram(m)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		program.Quit()
	}()

	// Run the program
	if _, err := program.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
