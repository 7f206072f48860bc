package preset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"katana/internal/logger"
)

type fakeAdapter struct {
	applied Preset
	backup  bool
	err     error
}

func (a *fakeAdapter) Apply(preset Preset, backup bool) error {
	a.applied = preset
	a.backup = backup
	return a.err
}

func (a *fakeAdapter) Backup() (string, error)         { return "", nil }
func (a *fakeAdapter) Restore(backupPath string) error { return nil }

func testLogger(t *testing.T) *logger.LoggerManager {
	t.Helper()
	log, err := logger.NewLoggerManager(filepath.Join(t.TempDir(), "test.log"))
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })
	return log
}

func writePresets(t *testing.T, dir string) {
	t.Helper()
	gameDir := filepath.Join(dir, "cs2")
	require.NoError(t, os.MkdirAll(gameDir, 0755))

	index := `{"presets": {"1080p_high": "1080p High", "1440p_high": "1440p High", "ghost": "Missing File"}}`
	require.NoError(t, os.WriteFile(filepath.Join(gameDir, "presets.json"), []byte(index), 0644))

	high := `{
  "name": "1080p High",
  "setting.defaultres": 1920,
  "setting.defaultresheight": 1080,
  "setting.fullscreen": true
}`
	require.NoError(t, os.WriteFile(filepath.Join(gameDir, "1080p_high.json"), []byte(high), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(gameDir, "1440p_high.json"), []byte(`{"setting.defaultres": 2560, "setting.defaultresheight": 1440}`), 0644))
}

func TestAvailablePresetsFiltersMissingFiles(t *testing.T) {
	dir := t.TempDir()
	writePresets(t, dir)
	m := NewManager(dir, testLogger(t))

	presets, err := m.AvailablePresets("cs2")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"1080p_high": "1080p High",
		"1440p_high": "1440p High",
	}, presets)
}

func TestAvailablePresetsNoIndex(t *testing.T) {
	m := NewManager(t.TempDir(), testLogger(t))
	presets, err := m.AvailablePresets("cs2")
	require.NoError(t, err)
	assert.Empty(t, presets)
}

func TestLoadPreset(t *testing.T) {
	dir := t.TempDir()
	writePresets(t, dir)
	m := NewManager(dir, testLogger(t))

	preset, err := m.LoadPreset("cs2", "1080p_high")
	require.NoError(t, err)
	assert.Equal(t, float64(1920), preset["setting.defaultres"])
	assert.Equal(t, true, preset["setting.fullscreen"])
	assert.Equal(t, "1080p High", preset["name"])
}

func TestApplyPresetThroughAdapter(t *testing.T) {
	dir := t.TempDir()
	writePresets(t, dir)
	m := NewManager(dir, testLogger(t))

	adapter := &fakeAdapter{}
	m.RegisterAdapter("cs2", adapter)

	require.NoError(t, m.ApplyPreset("cs2", "1080p_high", true))
	assert.True(t, adapter.backup)
	assert.Equal(t, float64(1080), adapter.applied["setting.defaultresheight"])
}

func TestApplyPresetNoAdapter(t *testing.T) {
	dir := t.TempDir()
	writePresets(t, dir)
	m := NewManager(dir, testLogger(t))

	err := m.ApplyPreset("cs2", "1080p_high", true)
	assert.ErrorContains(t, err, "no preset adapter")
}

func TestApplyPresetMissingFile(t *testing.T) {
	dir := t.TempDir()
	writePresets(t, dir)
	m := NewManager(dir, testLogger(t))
	m.RegisterAdapter("cs2", &fakeAdapter{})

	err := m.ApplyPreset("cs2", "ghost", true)
	assert.ErrorContains(t, err, "preset file not found")
}

func TestBackupRestoreRoundtrip(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "cs2_video.txt")
	original := []byte("\"video.cfg\"\n{\n\t\"setting.defaultres\"\t\t\"1920\"\n}\n")
	require.NoError(t, os.WriteFile(cfgPath, original, 0644))

	backupPath, err := BackupFile(cfgPath)
	require.NoError(t, err)
	assert.Contains(t, backupPath, ".backup_")

	// Clobber the original, then restore
	require.NoError(t, os.WriteFile(cfgPath, []byte("broken"), 0644))
	require.NoError(t, RestoreFile(backupPath, cfgPath))

	restored, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, original, restored)
}

func TestRestoreMissingBackup(t *testing.T) {
	err := RestoreFile(filepath.Join(t.TempDir(), "nope.backup"), filepath.Join(t.TempDir(), "cfg"))
	assert.ErrorContains(t, err, "backup file not found")
}
