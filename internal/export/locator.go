package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrCancelled is returned when no save location was chosen.
var ErrCancelled = errors.New("save cancelled")

// SaveLocator chooses where an export is written, like a save dialog would.
type SaveLocator interface {
	PromptSaveLocation(suggestedName string) (string, error)
}

// DirLocator places every export in a fixed directory. An empty Dir behaves
// like a dismissed dialog.
type DirLocator struct {
	Dir string
}

// PromptSaveLocation implements SaveLocator.
func (l DirLocator) PromptSaveLocation(suggestedName string) (string, error) {
	if l.Dir == "" {
		return "", ErrCancelled
	}
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory %s: %w", l.Dir, err)
	}
	return filepath.Join(l.Dir, filepath.Base(suggestedName)), nil
}
