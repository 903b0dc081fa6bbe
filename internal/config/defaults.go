package config

import (
	_ "embed"
)

//go:embed defaults/guideline.yaml
var defaultGuidelineYAML []byte

//go:embed defaults/classic.yaml
var defaultClassicYAML []byte

//go:embed defaults/sega.yaml
var defaultSegaYAML []byte

// GetDefaultYAML returns the embedded YAML for a preset.
func GetDefaultYAML(preset Preset) []byte {
	switch preset {
	case PresetGuideline:
		return defaultGuidelineYAML
	case PresetClassic:
		return defaultClassicYAML
	case PresetSega:
		return defaultSegaYAML
	default:
		return nil
	}
}

// PresetDescription returns the one-line description of an embedded preset.
func PresetDescription(preset Preset) string {
	file, err := embeddedRules(preset)
	if err != nil {
		return ""
	}
	return file.Description
}
