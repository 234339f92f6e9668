// Package settings loads and saves user preferences as a JSON file under
// the per-user state directory (~/.texttools). Missing files and missing
// fields fall back to defaults, so a fresh install needs no setup.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Editor holds text editing preferences.
type Editor struct {
	FontSize    int  `json:"font_size"`
	WordWrap    bool `json:"word_wrap"`
	LineNumbers bool `json:"line_numbers"`
}

// Appearance holds look and feel preferences.
type Appearance struct {
	Theme string `json:"theme"`
}

// Files holds file dialog preferences.
type Files struct {
	DefaultDirectory string `json:"default_directory"`
}

// Merge holds merge preferences.
type Merge struct {
	Separator string `json:"separator"`
}

// Settings is the full persisted preference set.
type Settings struct {
	Editor     Editor     `json:"editor"`
	Appearance Appearance `json:"appearance"`
	Files      Files      `json:"files"`
	Merge      Merge      `json:"merge"`
}

// Defaults returns the settings used when nothing is on disk yet.
func Defaults() Settings {
	home, _ := os.UserHomeDir()
	return Settings{
		Editor:     Editor{FontSize: 12, WordWrap: false, LineNumbers: true},
		Appearance: Appearance{Theme: "light"},
		Files:      Files{DefaultDirectory: home},
		Merge:      Merge{Separator: "\n"},
	}
}

// Dir returns the per-user state directory.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".texttools")
}

// Path returns the settings file location.
func Path() string {
	return filepath.Join(Dir(), "settings.json")
}

// Load reads settings from path. A missing file returns defaults with no
// error; fields absent from the file keep their default values. A file
// that cannot be parsed returns defaults alongside the error.
func Load(path string) (Settings, error) {
	s := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return Defaults(), fmt.Errorf("read settings: %w", err)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return Defaults(), fmt.Errorf("parse settings JSON: %w", err)
	}
	return s, nil
}

// Save writes settings to path as indented JSON, creating the parent
// directory if needed.
func Save(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings JSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
