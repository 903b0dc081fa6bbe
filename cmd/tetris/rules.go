package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-tetris/internal/config"
	gametetris "github.com/vovakirdan/tui-tetris/internal/games/tetris"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print or validate rules",
	Long: `Inspect the rules a game would run with.

Examples:
  tetris rules show classic
  tetris rules show --rules ./my-rules.yaml --set gravity.kind=fixed
  tetris rules default sega > ~/.tetris/rules/sega.yaml
  tetris rules validate ./my-rules.yaml`,
}

var rulesShowCmd = &cobra.Command{
	Use:   "show [preset]",
	Short: "Print the effective rules of a preset",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		preset := config.PresetGuideline
		if len(args) > 0 {
			p, err := config.ParsePreset(args[0])
			if err != nil {
				return err
			}
			preset = p
		}
		if err := applyRuleFlags(); err != nil {
			return err
		}
		rules, err := gametetris.ResolveRules(preset)
		if err != nil {
			return err
		}
		out, err := yaml.Marshal(config.RulesFile{
			Preset:      preset,
			Description: config.PresetDescription(preset),
			Rules:       rules,
		})
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	},
}

var rulesDefaultCmd = &cobra.Command{
	Use:   "default <preset>",
	Short: "Print the built-in YAML of a preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		preset, err := config.ParsePreset(args[0])
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(config.GetDefaultYAML(preset))
		return err
	},
}

var rulesValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a rules file",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		// The file's own preset decides what it overlays
		var head struct {
			Preset config.Preset `yaml:"preset"`
		}
		if err := yaml.Unmarshal(data, &head); err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		preset := config.PresetGuideline
		if head.Preset != "" {
			p, err := config.ParsePreset(string(head.Preset))
			if err != nil {
				return err
			}
			preset = p
		}
		if _, _, err := config.LoadRules(args[0], preset); err != nil {
			return err
		}
		fmt.Printf("%s: ok (%s)\n", args[0], preset)
		return nil
	},
}

func init() {
	rulesShowCmd.Flags().StringVar(&flagRules, "rules", "", "Path to a rules YAML file that overlays the preset")
	rulesShowCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rulesShowCmd.Flags().StringSliceVar(&flagOverrides, "set", nil, "Override a rule as key=value (repeatable)")

	rulesCmd.AddCommand(rulesShowCmd)
	rulesCmd.AddCommand(rulesDefaultCmd)
	rulesCmd.AddCommand(rulesValidateCmd)
}
