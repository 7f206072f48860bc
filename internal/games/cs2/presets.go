package cs2

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strings"

	"katana/internal/logger"
	"katana/internal/preset"
)

// Keys in a preset file that describe the preset rather than a video setting
var metaKeys = map[string]bool{
	"name":        true,
	"description": true,
}

// Keys that must be present for a preset to be applicable
var requiredKeys = []string{
	"setting.defaultres",
	"setting.defaultresheight",
}

// PresetAdapter patches CS2's video config file in place. CS2 stores its
// video settings as quoted key/value pairs in cs2_video.txt under the Steam
// userdata tree.
type PresetAdapter struct {
	log *logger.LoggerManager

	// configPath overrides discovery when set, used in tests
	configPath string
}

func NewPresetAdapter(log *logger.LoggerManager) *PresetAdapter {
	return &PresetAdapter{log: log}
}

// Backup copies the current video config aside and returns the backup path
func (a *PresetAdapter) Backup() (string, error) {
	path, err := a.videoConfigPath()
	if err != nil {
		return "", err
	}
	return preset.BackupFile(path)
}

// Restore puts a previously backed up video config back in place
func (a *PresetAdapter) Restore(backupPath string) error {
	path, err := a.videoConfigPath()
	if err != nil {
		return err
	}
	return preset.RestoreFile(backupPath, path)
}

// Apply patches the video config with every setting key in the preset. When
// backup is set the original file is saved first and restored on failure.
func (a *PresetAdapter) Apply(p preset.Preset, backup bool) error {
	for _, key := range requiredKeys {
		if _, ok := p[key]; !ok {
			return fmt.Errorf("preset is missing required key %q", key)
		}
	}

	path, err := a.videoConfigPath()
	if err != nil {
		return err
	}

	backupPath := ""
	if backup {
		backupPath, err = preset.BackupFile(path)
		if err != nil {
			return fmt.Errorf("failed to back up video config: %v", err)
		}
		a.log.Info("💾 Video config backed up to: %s", backupPath)
	}

	if err := a.patchConfig(path, p); err != nil {
		if backupPath != "" {
			if restoreErr := preset.RestoreFile(backupPath, path); restoreErr != nil {
				a.log.LogError(restoreErr, "Failed to restore video config backup")
			}
		}
		return err
	}
	return nil
}

func (a *PresetAdapter) patchConfig(path string, p preset.Preset) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read video config: %v", err)
	}
	content := string(data)

	keys := make([]string, 0, len(p))
	for key := range p {
		if !metaKeys[key] {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	original := content
	patched, appended := 0, 0
	for _, key := range keys {
		value := formatValue(p[key])
		re := regexp.MustCompile(`"` + regexp.QuoteMeta(key) + `"\s+"[^"]*"`)
		replacement := fmt.Sprintf("\"%s\"\t\t\"%s\"", key, value)
		if re.MatchString(content) {
			content = re.ReplaceAllString(content, replacement)
			patched++
		} else {
			content, err = appendSetting(content, replacement)
			if err != nil {
				return fmt.Errorf("failed to add setting %q: %v", key, err)
			}
			appended++
		}
	}

	if content == original {
		a.log.Info("🎬 Video config already matches the preset, nothing to write")
		return nil
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write video config: %v", err)
	}
	a.log.Info("🎬 Video config updated: %d settings patched, %d added", patched, appended)
	return nil
}

// appendSetting inserts a new key/value line before the closing brace
func appendSetting(content, line string) (string, error) {
	idx := strings.LastIndex(content, "}")
	if idx < 0 {
		return "", fmt.Errorf("video config has no closing brace")
	}
	return content[:idx] + "\t" + line + "\n" + content[idx:], nil
}

// formatValue renders a preset value the way CS2 writes it: booleans become
// "1"/"0" and whole numbers lose their fraction
func formatValue(v interface{}) string {
	switch val := v.(type) {
	case bool:
		if val {
			return "1"
		}
		return "0"
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// videoConfigPath locates cs2_video.txt under the Steam userdata tree
func (a *PresetAdapter) videoConfigPath() (string, error) {
	if a.configPath != "" {
		return a.configPath, nil
	}

	steamDir, err := steamPath()
	if err != nil {
		return "", err
	}

	userdata := filepath.Join(steamDir, "userdata")
	entries, err := os.ReadDir(userdata)
	if err != nil {
		return "", fmt.Errorf("failed to read Steam userdata directory: %v", err)
	}

	var candidates []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		cfgDir := filepath.Join(userdata, entry.Name(), SteamAppID, "local", "cfg")
		for _, name := range []string{"cs2_video.txt", "video.txt", "video.cfg"} {
			path := filepath.Join(cfgDir, name)
			if _, err := os.Stat(path); err == nil {
				candidates = append(candidates, path)
			}
		}
	}

	switch len(candidates) {
	case 0:
		return "", fmt.Errorf("no CS2 video config found under %s", userdata)
	case 1:
		return candidates[0], nil
	default:
		a.log.Warn("⚠️ Multiple CS2 video configs found, using %s", candidates[0])
		return candidates[0], nil
	}
}

// steamPath resolves the Steam installation directory from the environment
// or the usual install locations
func steamPath() (string, error) {
	if env := os.Getenv("KATANA_STEAM_PATH"); env != "" {
		if _, err := os.Stat(env); err != nil {
			return "", fmt.Errorf("KATANA_STEAM_PATH points to a missing directory: %s", env)
		}
		return env, nil
	}

	var candidates []string
	switch runtime.GOOS {
	case "windows":
		candidates = []string{
			`C:\Program Files (x86)\Steam`,
			`C:\Program Files\Steam`,
			`D:\Steam`,
			`D:\Program Files (x86)\Steam`,
		}
	case "darwin":
		home, _ := os.UserHomeDir()
		candidates = []string{filepath.Join(home, "Library", "Application Support", "Steam")}
	default:
		home, _ := os.UserHomeDir()
		candidates = []string{
			filepath.Join(home, ".steam", "steam"),
			filepath.Join(home, ".local", "share", "Steam"),
		}
	}

	for _, dir := range candidates {
		if _, err := os.Stat(dir); err == nil {
			return dir, nil
		}
	}
	return "", fmt.Errorf("steam installation not found, set KATANA_STEAM_PATH")
}
