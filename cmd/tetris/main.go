// tetris is a configurable falling-block game for the terminal.
//
// Usage:
//
//	tetris list                  - List available modes
//	tetris play [mode]           - Play a mode
//	tetris menu                  - Start menu to pick modes interactively
//	tetris serve                 - Start SSH server for remote and versus play
//	tetris scores [mode]         - Show high scores
//	tetris rules show|validate   - Inspect rules files
//	tetris replay watch|verify   - Watch or check recorded games
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible games
//	--db <path>          - Set database path (default: ~/.tetris/scores.db)
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-tetris/internal/core"
	// Register the preset modes
	_ "github.com/vovakirdan/tui-tetris/internal/games/tetris"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     uint64
	flagDBPath   string
	flagLogLevel string

	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "tetris",
	})
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tetris",
	Short: "Tetris - falling blocks in your terminal",
	Long: `Tetris is a terminal falling-block game with configurable rules.
Guideline, classic and Sega presets are built in; any rule can be
changed with a YAML rules file or --set overrides.

Available commands:
  list     - Show all available modes
  play     - Play a mode directly
  menu     - Interactive mode picker
  serve    - Start SSH server for remote and versus play
  scores   - View high scores
  rules    - Print or validate rules
  replay   - Watch or verify recorded games

Examples:
  tetris list
  tetris play classic
  tetris play --rules ./my-rules.yaml --set gravity.kind=fixed
  tetris menu
  tetris serve --ssh :2222
  tetris scores guideline`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		level, err := log.ParseLevel(flagLogLevel)
		if err != nil {
			return fmt.Errorf("invalid --log-level: %w", err)
		}
		logger.SetLevel(level)
		log.SetDefault(logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Uint64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.tetris/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(replayCmd)
}

// runtimeConfig builds the runtime config from the terminal size and the
// global flags.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}
