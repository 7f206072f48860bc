package preset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"katana/internal/logger"
)

// Preset is a flat mapping of setting names to values, loaded from a JSON
// file. Keys are applied verbatim; "name" and "description" are metadata.
type Preset map[string]interface{}

// Adapter applies presets to one game's config file
type Adapter interface {
	// Apply patches the preset values into the game config, backing up the
	// current file first when backup is true
	Apply(preset Preset, backup bool) error
	// Backup copies the current config aside and returns the backup path
	Backup() (string, error)
	// Restore overwrites the config with a backup
	Restore(backupPath string) error
}

// Manager loads preset definitions from <presetsDir>/<game>/ and applies
// them through registered per-game adapters
type Manager struct {
	presetsDir string
	adapters   map[string]Adapter
	log        *logger.LoggerManager
}

// NewManager creates a preset manager over presetsDir
func NewManager(presetsDir string, log *logger.LoggerManager) *Manager {
	return &Manager{
		presetsDir: presetsDir,
		adapters:   make(map[string]Adapter),
		log:        log,
	}
}

// RegisterAdapter registers the preset adapter for a game
func (m *Manager) RegisterAdapter(gameID string, adapter Adapter) {
	m.adapters[gameID] = adapter
	m.log.Info("🎮 Registered preset adapter for %s", gameID)
}

// presetIndex is the shape of a game's presets.json
type presetIndex struct {
	Presets map[string]string `json:"presets"`
}

// AvailablePresets returns preset id -> display name for a game. Presets
// listed in the index but missing their definition file are dropped with a
// warning.
func (m *Manager) AvailablePresets(gameID string) (map[string]string, error) {
	indexPath := filepath.Join(m.presetsDir, gameID, "presets.json")
	data, err := os.ReadFile(indexPath)
	if err != nil {
		if os.IsNotExist(err) {
			m.log.Warn("⚠️ No presets.json found for %s", gameID)
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read presets index for %s: %v", gameID, err)
	}

	var index presetIndex
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("failed to parse presets index for %s: %v", gameID, err)
	}

	valid := make(map[string]string)
	for presetID, presetName := range index.Presets {
		presetFile := filepath.Join(m.presetsDir, gameID, presetID+".json")
		if _, err := os.Stat(presetFile); err != nil {
			m.log.Warn("⚠️ Preset file not found for %q: %s", presetID, presetFile)
			continue
		}
		valid[presetID] = presetName
	}
	return valid, nil
}

// LoadPreset reads one preset definition file
func (m *Manager) LoadPreset(gameID, presetID string) (Preset, error) {
	path := filepath.Join(m.presetsDir, gameID, presetID+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("preset file not found: %s", path)
	}

	var preset Preset
	if err := json.Unmarshal(data, &preset); err != nil {
		return nil, fmt.Errorf("failed to parse preset %s: %v", path, err)
	}
	return preset, nil
}

// ApplyPreset loads a preset and applies it through the game's adapter
func (m *Manager) ApplyPreset(gameID, presetID string, backup bool) error {
	adapter, ok := m.adapters[gameID]
	if !ok {
		return fmt.Errorf("no preset adapter registered for %s", gameID)
	}

	preset, err := m.LoadPreset(gameID, presetID)
	if err != nil {
		available, listErr := m.AvailablePresets(gameID)
		if listErr == nil && len(available) > 0 {
			m.log.Error("❌ Preset %q does not exist. Available presets:", presetID)
			for id, name := range available {
				m.log.Error("  - %s: %s", id, name)
			}
		}
		return err
	}
	if len(preset) == 0 {
		return fmt.Errorf("preset %q is empty", presetID)
	}

	if err := adapter.Apply(preset, backup); err != nil {
		return fmt.Errorf("failed to apply preset %q to %s: %v", presetID, gameID, err)
	}

	m.log.Info("✅ Applied preset %q to %s", presetID, gameID)
	if w, okW := preset["setting.defaultres"]; okW {
		if h, okH := preset["setting.defaultresheight"]; okH {
			m.log.Info("📊 Resolution set to: %v x %v", w, h)
		}
	}
	return nil
}
