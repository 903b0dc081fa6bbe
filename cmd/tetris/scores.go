package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tetris/internal/registry"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

var (
	flagClearScores bool
	flagMatches     bool
	flagLimit       int
)

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show high scores",
	Long: `Display the top scores for the given mode, or a summary of every
mode played when no mode is given.

Examples:
  tetris scores
  tetris scores classic
  tetris scores classic --clear
  tetris scores --matches`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagClearScores, "clear", false, "Delete all scores of the mode")
	scoresCmd.Flags().BoolVar(&flagMatches, "matches", false, "Show recent versus matches")
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of entries to show")
}

func runScores(_ *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case flagMatches:
		err = printMatches(store)
	case len(args) == 0:
		err = printSummary(store)
	default:
		err = printModeScores(store, args[0])
	}
	if err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printModeScores(store *storage.Store, modeID string) error {
	if !registry.Exists(modeID) {
		return fmt.Errorf("unknown mode %q (run 'tetris list' to see available modes)", modeID)
	}

	if flagClearScores {
		if err := store.ClearScores(modeID); err != nil {
			return err
		}
		fmt.Printf("Cleared scores for %s.\n", modeID)
		return nil
	}

	scores, err := store.TopScores(modeID, flagLimit)
	if err != nil {
		return err
	}

	fmt.Printf("High Scores - %s\n", modeID)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'tetris play %s' to set the first high score!\n", modeID)
		return nil
	}

	fmt.Printf("  %-4s  %-10s  %-6s  %-5s  %s\n", "Rank", "Score", "Lines", "Level", "Date")
	fmt.Printf("  %-4s  %-10s  %-6s  %-5s  %s\n", "----", "-----", "-----", "-----", "----")
	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-10d  %-6d  %-5d  %s\n", i+1, entry.Score, entry.Lines, entry.Level, dateStr)
	}

	stats, err := store.GetModeStats(modeID)
	if err == nil {
		fmt.Println()
		fmt.Printf("Best: %d  Games: %d  Lines: %d  Best level: %d\n",
			stats.HighScore, stats.GamesCount, stats.TotalLines, stats.BestLevel)
	}
	return nil
}

func printSummary(store *storage.Store) error {
	if flagClearScores {
		return fmt.Errorf("--clear needs a mode")
	}

	stats, err := store.GetAllModesStats()
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Println("No scores recorded yet.")
		return nil
	}

	modes := make([]string, 0, len(stats))
	for mode := range stats {
		modes = append(modes, mode)
	}
	slices.Sort(modes)

	fmt.Printf("  %-10s  %-6s  %-10s  %-10s  %-8s  %s\n", "Mode", "Games", "Best", "Average", "Lines", "Last played")
	fmt.Printf("  %-10s  %-6s  %-10s  %-10s  %-8s  %s\n", "----", "-----", "----", "-------", "-----", "-----------")
	for _, mode := range modes {
		st := stats[mode]
		fmt.Printf("  %-10s  %-6d  %-10d  %-10.0f  %-8d  %s\n",
			mode, st.GamesCount, st.HighScore, st.AvgScore, st.TotalLines, st.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}

func printMatches(store *storage.Store) error {
	matches, err := store.RecentOnlineMatches(flagLimit)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Println("No versus matches recorded yet.")
		return nil
	}

	fmt.Printf("  %-10s  %-13s  %-13s  %-12s  %-8s  %s\n", "Preset", "Score P1", "Score P2", "Reason", "Duration", "Date")
	fmt.Printf("  %-10s  %-13s  %-13s  %-12s  %-8s  %s\n", "------", "--------", "--------", "------", "--------", "----")
	for _, m := range matches {
		s1 := fmt.Sprint(m.Score1)
		s2 := fmt.Sprint(m.Score2)
		switch m.WinnerSession {
		case m.Player1Session:
			s1 += " *"
		case m.Player2Session:
			s2 += " *"
		}
		fmt.Printf("  %-10s  %-13s  %-13s  %-12s  %-8s  %s\n",
			m.Preset, s1, s2, m.EndReason, fmt.Sprintf("%ds", m.Duration), m.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
