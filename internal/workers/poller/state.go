package poller

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// State is what the poller remembers between runs.
type State struct {
	LastMessageIDs map[string]string `json:"lastMessageIds"`
	// LastCheck is the end of the last tick in Unix milliseconds
	LastCheck int64 `json:"lastCheck"`
}

func emptyState() State {
	return State{LastMessageIDs: map[string]string{}}
}

// StateFile persists State as indented JSON.
type StateFile struct {
	path string
}

func NewStateFile(path string) *StateFile { return &StateFile{path: path} }

func (f *StateFile) Path() string { return f.path }

// Load reads the state. A missing or unreadable file yields an empty state.
func (f *StateFile) Load() State {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", f.path).Msg("poller state unreadable, starting fresh")
		}
		return emptyState()
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		log.Warn().Err(err).Str("path", f.path).Msg("poller state corrupt, starting fresh")
		return emptyState()
	}
	if st.LastMessageIDs == nil {
		st.LastMessageIDs = map[string]string{}
	}
	return st
}

// Save writes to a temporary file next to the target and renames it into place.
func (f *StateFile) Save(st State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal poller state: %w", err)
	}

	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	tempFile := f.path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := os.Rename(tempFile, f.path); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}
