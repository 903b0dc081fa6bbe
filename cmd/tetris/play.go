package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tetris/internal/config"
	gametetris "github.com/vovakirdan/tui-tetris/internal/games/tetris"
	"github.com/vovakirdan/tui-tetris/internal/platform/tui"
	"github.com/vovakirdan/tui-tetris/internal/registry"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

var (
	flagPreset     string
	flagRules      string
	flagDifficulty string
	flagOverrides  []string
	flagRecord     string
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a mode",
	Long: `Start playing with the rules of the given preset (default: guideline).

Controls:
  Left/Right/H/L  - Shift
  Down/J          - Soft drop
  Space           - Hard drop
  Up/X/K          - Rotate clockwise
  Z               - Rotate counterclockwise
  C               - Hold
  P/Esc           - Pause
  R               - Restart (after top out)
  Ctrl+S          - Save a screenshot
  Q/Ctrl+C        - Quit

Difficulty options:
  easy   - Start at level 1
  normal - Start at level 5
  hard   - Start at level 10
  fixed  - Level never increases

Examples:
  tetris play
  tetris play classic --difficulty hard
  tetris play --rules ./my-rules.yaml
  tetris play sega --set lock_delay.duration=1s --set has_hold_piece=false
  tetris play --seed 42 --record game.replay`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagPreset, "preset", string(config.PresetGuideline), "Rules preset when no mode is given")
	playCmd.Flags().StringVar(&flagRules, "rules", "", "Path to a rules YAML file that overlays the preset")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().StringSliceVar(&flagOverrides, "set", nil, "Override a rule as key=value (repeatable)")
	playCmd.Flags().StringVar(&flagRecord, "record", "", "Write a replay of each finished game to this file")
}

// applyRuleFlags hands the rule flags to the tetris modes before creation.
func applyRuleFlags() error {
	difficulty, err := config.ParseDifficulty(flagDifficulty)
	if err != nil {
		return err
	}
	gametetris.SetRulesPath(flagRules)
	gametetris.SetDifficulty(difficulty)
	gametetris.SetOverrides(flagOverrides)
	return nil
}

func runPlay(_ *cobra.Command, args []string) {
	modeID := flagPreset
	if len(args) > 0 {
		modeID = args[0]
	}

	if !registry.Exists(modeID) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", modeID)
		fmt.Fprintln(os.Stderr, "Run 'tetris list' to see available modes.")
		os.Exit(1)
	}

	if err := applyRuleFlags(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Fail before entering the alt screen if the rules are bad
	if _, err := gametetris.ResolveRules(config.Preset(modeID)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	game, err := registry.Create(modeID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "path", flagDBPath, "err", err)
		// Continue without storage - game still works
		store = nil
	}

	runErr := tui.Run(game, store, runtimeConfig(), tui.GameOptions{
		RecordPath: flagRecord,
		Logger:     logger,
	})

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
