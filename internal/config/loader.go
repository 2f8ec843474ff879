package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// AppDir is the per-user directory under $HOME for configs, the local
// leaderboard, logs and screenshots.
const AppDir = ".flappy"

// LoadFlappy loads the tuning file.
// Search order: customPath -> ~/.flappy/configs/flappy.yaml ->
// ./configs/flappy.yaml -> embedded default -> hardcoded default.
//
// Files are decoded over the defaults, so a file only needs the keys it
// changes. Only an explicit customPath that cannot be read or parsed is an
// error; broken files found by the search are skipped.
func LoadFlappy(customPath string) (FlappyConfig, error) {
	if customPath != "" {
		cfg, err := loadFile(customPath)
		if err != nil {
			return DefaultFlappyConfig(), err
		}
		return cfg, nil
	}

	for _, p := range []string{
		UserPath("configs", "flappy.yaml"),
		filepath.Join("configs", "flappy.yaml"),
	} {
		if p == "" {
			continue
		}
		if cfg, err := loadFile(p); err == nil {
			return cfg, nil
		}
	}

	cfg := DefaultFlappyConfig()
	if err := yaml.Unmarshal(defaultFlappyYAML, &cfg); err != nil {
		return DefaultFlappyConfig(), nil
	}
	return cfg, nil
}

func loadFile(path string) (FlappyConfig, error) {
	cfg := DefaultFlappyConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// UserPath joins elem under ~/.flappy, or returns "" when the home
// directory is unknown.
func UserPath(elem ...string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(append([]string{home, AppDir}, elem...)...)
}
