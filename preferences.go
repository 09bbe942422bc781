package mascot

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Preferences are the editor's machine-local settings, stored as YAML next
// to the project. They configure collaborators (audio devices, chat
// channel, TTS credentials) and are not part of the project file.
type Preferences struct {
	InputAudio    string `yaml:"inputAudio"`
	OutputAudio   string `yaml:"outputAudio"`
	TwitchUser    string `yaml:"twitchUser"`
	TwitchChannel string `yaml:"twitchChannel"`
	AzureKey      string `yaml:"azureKey"`
	AzureRegion   string `yaml:"azureRegion"`
	FontPath      string `yaml:"fontPath"`
	ProjectPath   string `yaml:"projectPath"`
}

// DefaultPreferences returns the settings used before any file exists.
func DefaultPreferences() Preferences {
	return Preferences{
		AzureRegion: "eastus",
		ProjectPath: "prj.tpp",
	}
}

// LoadPreferences reads preferences from path. A missing file is not an
// error: the defaults are returned so a first run just works.
func LoadPreferences(path string) (Preferences, error) {
	p := DefaultPreferences()
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return p, fmt.Errorf("mascot: read preferences: %w", err)
	}
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return DefaultPreferences(), fmt.Errorf("mascot: parse preferences: %w", err)
	}
	if p.ProjectPath == "" {
		p.ProjectPath = "prj.tpp"
	}
	return p, nil
}

// Save writes the preferences to path as YAML.
func (p Preferences) Save(path string) error {
	raw, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("mascot: marshal preferences: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("mascot: write preferences: %w", err)
	}
	return nil
}
