package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/taigrr/colorhash"

	"github.com/nniemeir/filmFS/internal/config"
	"github.com/nniemeir/filmFS/internal/history"
)

// NewWatchedCmd creates and returns the watched subcommand for the
// filmfs CLI. It prints the recorded watch history.
func NewWatchedCmd() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "watched",
		Short: "Show the recorded watch history",
		Long: `Show every recorded viewing, most-watched first.

Each line lists the title, the number of recorded viewings, and when the
title was last watched. Titles are colored by a stable hash so the same
film keeps the same color across runs.`,
		Run: func(cmd *cobra.Command, args []string) {
			runWatched(plain)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Disable colored output")

	return cmd
}

func runWatched(plain bool) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	store, err := history.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open watch history: %v", err)
	}
	defer store.Close()

	entries, err := store.List(context.Background())
	if err != nil {
		log.Fatalf("Failed to list watch history: %v", err)
	}

	if len(entries) == 0 {
		fmt.Println("No watches recorded yet.")
		return
	}

	fmt.Printf("%-40s %7s  %s\n", "TITLE", "WATCHES", "LAST WATCHED")
	for _, e := range entries {
		title := e.Title
		if !plain {
			// 256-color palette, skipping the 16 low system colors.
			color := colorhash.HashString(e.Title)%240 + 16
			title = fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", color, e.Title)
			// Pad manually; the escape codes confuse %-40s.
			for pad := len(e.Title); pad < 40; pad++ {
				title += " "
			}
			fmt.Printf("%s %7d  %s\n", title, e.WatchCount, e.LastWatched)
			continue
		}
		fmt.Printf("%-40s %7d  %s\n", title, e.WatchCount, e.LastWatched)
	}
}
