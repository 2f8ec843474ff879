package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vovakirdan/flappy-micro/internal/config"
	"github.com/vovakirdan/flappy-micro/internal/core"
)

// saveScreenshot writes the plain-text playfield to dir, falling back to
// ~/.flappy/screenshots and then the working directory.
func saveScreenshot(dir string, s *core.Screen, now time.Time) (string, error) {
	if dir == "" {
		dir = config.UserPath("screenshots")
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}

	path := filepath.Join(dir, "flappy-"+now.Format("20060102-150405.000")+".txt")
	if err := os.WriteFile(path, []byte(s.String()+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}
	return path, nil
}
