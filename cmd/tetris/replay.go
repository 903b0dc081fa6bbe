package main

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tetris/internal/platform/tui"
	"github.com/vovakirdan/tui-tetris/internal/replay"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Watch, verify or export recorded games",
	Long: `Work with replay files. A replay holds the seed, the rules and every
button edge of a game, which reproduces it exactly.

Examples:
  tetris play --record game.replay
  tetris replay watch game.replay
  tetris replay verify game.replay
  tetris replay export 12 best.replay`,
}

var replayWatchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Play back a replay in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		script, err := replay.LoadFile(args[0])
		if err != nil {
			return err
		}
		return tui.RunReplay(script, runtimeConfig())
	},
}

var replayVerifyCmd = &cobra.Command{
	Use:   "verify <file>",
	Short: "Re-run a replay and compare its result",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		script, err := replay.LoadFile(args[0])
		if err != nil {
			return err
		}
		got, err := replay.Verify(script)
		if err != nil {
			return err
		}
		fmt.Printf("%s: ok score=%d lines=%d level=%d topped_out=%t\n",
			args[0], got.Score, got.Lines, got.Level, got.ToppedOut)
		return nil
	},
}

var replayExportCmd = &cobra.Command{
	Use:   "export <score-id> <file>",
	Short: "Write the replay stored with a score to a file",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid score id %q: %w", args[0], err)
		}
		store, err := storage.Open(flagDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		data, err := store.Replay(id)
		if err != nil {
			return err
		}
		if data == nil {
			return fmt.Errorf("no replay stored for score %d", id)
		}
		script, err := replay.Load(bytes.NewReader(data))
		if err != nil {
			return err
		}
		if err := replay.SaveFile(args[1], script); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %s (%d ticks)\n", args[1], script.Ticks)
		return nil
	},
}

func init() {
	replayCmd.AddCommand(replayWatchCmd)
	replayCmd.AddCommand(replayVerifyCmd)
	replayCmd.AddCommand(replayExportCmd)
}
