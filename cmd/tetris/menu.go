package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	gametetris "github.com/vovakirdan/tui-tetris/internal/games/tetris"
	"github.com/vovakirdan/tui-tetris/internal/platform/tui"
	"github.com/vovakirdan/tui-tetris/internal/registry"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a mode picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to pick a mode, then choose a
starting difficulty. After a game ends, you return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select mode
  Tab          - Scoreboard
  Q            - Quit

Examples:
  tetris menu
  tetris menu --fps 30
  tetris menu --db ./scores.db`,
	Run: runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&flagRules, "rules", "", "Path to a rules YAML file that overlays the preset")
	menuCmd.Flags().StringSliceVar(&flagOverrides, "set", nil, "Override a rule as key=value (repeatable)")
}

func runMenu(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "path", flagDBPath, "err", err)
		store = nil
	}
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	cfg := runtimeConfig()

	for {
		menuResult, err := tui.RunMenu(store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		cfg = menuResult.Config

		if menuResult.Quit {
			return
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue
			}
			return
		}

		modeID := menuResult.ModeID
		if modeID == "" {
			return
		}

		game, err := registry.Create(modeID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}

		selection, err := tui.RunDifficultySelector(game.Title(), cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		if selection == nil {
			continue
		}
		if err := applyRuleFlags(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		applySelection(selection)

		// Fresh seed per game unless one was pinned
		cfg.Seed = flagSeed

		if err := tui.Run(game, store, cfg, tui.GameOptions{Logger: logger}); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}
	}
}

// applySelection layers the picked difficulty over the rule flags.
func applySelection(sel *tui.DifficultySelection) {
	gametetris.SetDifficulty(sel.Difficulty)
	overrides := append(slices.Clone(flagOverrides), sel.Overrides()...)
	gametetris.SetOverrides(overrides)
}
