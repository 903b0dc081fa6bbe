package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

// LoadRules loads the rules of a preset.
// Search order: customPath -> ~/.tetris/rules/<preset>.yaml -> ./configs/<preset>.yaml -> embedded default.
// Files are applied on top of the embedded preset, so they only need the
// keys they change. The result is validated.
func LoadRules(customPath string, preset Preset) (tetris.Rules, RulesFile, error) {
	file, err := embeddedRules(preset)
	if err != nil {
		return tetris.Rules{}, file, err
	}

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return tetris.Rules{}, file, fmt.Errorf("config: failed to read rules %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &file); err != nil {
			return tetris.Rules{}, file, fmt.Errorf("config: failed to parse rules %s: %w", customPath, err)
		}
		return validated(file, customPath)
	}

	name := string(preset) + ".yaml"
	candidates := []string{userConfigPath(name), filepath.Join("configs", name)}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		overlay := file
		if err := yaml.Unmarshal(data, &overlay); err != nil {
			continue
		}
		return validated(overlay, path)
	}

	return validated(file, "embedded "+string(preset))
}

func embeddedRules(preset Preset) (RulesFile, error) {
	data := GetDefaultYAML(preset)
	if data == nil {
		return RulesFile{}, fmt.Errorf("config: unknown preset %q", preset)
	}
	file := RulesFile{Preset: preset, Rules: tetris.DefaultRules()}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return RulesFile{}, fmt.Errorf("config: embedded %s rules: %w", preset, err)
	}
	return file, nil
}

func validated(file RulesFile, source string) (tetris.Rules, RulesFile, error) {
	if err := file.Rules.Validate(); err != nil {
		return tetris.Rules{}, file, fmt.Errorf("config: %s: %w", source, err)
	}
	return file.Rules, file, nil
}

// userConfigPath returns the path to a user rules file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tetris", "rules", filename)
}

// ApplyOverrides sets individual rules from key=value pairs. Keys are the
// YAML names, with dots for nested fields (lock_delay.duration=300ms).
func ApplyOverrides(rules *tetris.Rules, overrides []string) error {
	if len(overrides) == 0 {
		return nil
	}
	doc := map[string]any{}
	for _, kv := range overrides {
		key, raw, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return fmt.Errorf("config: override %q is not key=value", kv)
		}
		var value any
		if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
			return fmt.Errorf("config: override %s: %w", key, err)
		}
		if value == nil {
			value = raw
		}
		node := doc
		parts := strings.Split(key, ".")
		for _, p := range parts[:len(parts)-1] {
			child, ok := node[p].(map[string]any)
			if !ok {
				child = map[string]any{}
				node[p] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = value
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("config: encode overrides: %w", err)
	}
	updated := *rules
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&updated); err != nil {
		return fmt.Errorf("config: apply overrides: %w", err)
	}
	if err := updated.Validate(); err != nil {
		return fmt.Errorf("config: overrides: %w", err)
	}
	*rules = updated
	return nil
}
