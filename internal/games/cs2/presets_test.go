package cs2

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"katana/internal/logger"
	"katana/internal/preset"
)

const sampleVideoConfig = `"video.cfg"
{
	"Version"		"1"
	"setting.defaultres"		"2560"
	"setting.defaultresheight"		"1440"
	"setting.fullscreen"		"1"
	"setting.shaderquality"		"0"
}
`

func testAdapter(t *testing.T, content string) (*PresetAdapter, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "cs2_video.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	log, err := logger.NewLoggerManager(filepath.Join(dir, "test.log"))
	require.NoError(t, err)

	a := NewPresetAdapter(log)
	a.configPath = path
	return a, path
}

func TestApplyPatchesExistingKeys(t *testing.T) {
	a, path := testAdapter(t, sampleVideoConfig)

	p := preset.Preset{
		"name":                     "1080p High",
		"description":              "ignored",
		"setting.defaultres":       float64(1920),
		"setting.defaultresheight": float64(1080),
		"setting.fullscreen":       true,
	}
	require.NoError(t, a.Apply(p, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "\"setting.defaultres\"\t\t\"1920\"")
	assert.Contains(t, content, "\"setting.defaultresheight\"\t\t\"1080\"")
	assert.Contains(t, content, "\"setting.fullscreen\"\t\t\"1\"")
	assert.NotContains(t, content, "2560")
	assert.NotContains(t, content, "1080p High")
	assert.Contains(t, content, "\"Version\"\t\t\"1\"")
}

func TestApplyAppendsMissingKeys(t *testing.T) {
	a, path := testAdapter(t, sampleVideoConfig)

	p := preset.Preset{
		"setting.defaultres":       float64(1920),
		"setting.defaultresheight": float64(1080),
		"setting.aspectratiomode":  float64(1),
	}
	require.NoError(t, a.Apply(p, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "\"setting.aspectratiomode\"\t\t\"1\"")
	// Appended line must sit inside the braces
	assert.Less(t, strings.Index(content, "setting.aspectratiomode"), strings.LastIndex(content, "}"))
}

func TestApplyWithNoEffectiveChangesSucceeds(t *testing.T) {
	a, path := testAdapter(t, sampleVideoConfig)

	// Values already present in the file, formatted the same way
	p := preset.Preset{
		"setting.defaultres":       float64(2560),
		"setting.defaultresheight": float64(1440),
		"setting.fullscreen":       true,
		"setting.shaderquality":    float64(0),
	}
	require.NoError(t, a.Apply(p, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleVideoConfig, string(data))
}

func TestApplyRejectsPresetWithoutResolution(t *testing.T) {
	a, _ := testAdapter(t, sampleVideoConfig)

	err := a.Apply(preset.Preset{"setting.fullscreen": true}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "setting.defaultres")
}

func TestApplyRestoresBackupOnFailure(t *testing.T) {
	// No closing brace, so appending a new key fails mid-apply
	broken := "\"video.cfg\"\n\t\"setting.defaultres\"\t\t\"2560\"\n\t\"setting.defaultresheight\"\t\t\"1440\"\n"
	a, path := testAdapter(t, broken)

	p := preset.Preset{
		"setting.defaultres":       float64(1920),
		"setting.defaultresheight": float64(1080),
		"setting.newkey":           float64(1),
	}
	err := a.Apply(p, true)
	require.Error(t, err)

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, broken, string(data))
}

func TestBackupAndRestoreRoundtrip(t *testing.T) {
	a, path := testAdapter(t, sampleVideoConfig)

	backupPath, err := a.Backup()
	require.NoError(t, err)
	require.FileExists(t, backupPath)

	require.NoError(t, os.WriteFile(path, []byte("scrambled"), 0644))
	require.NoError(t, a.Restore(backupPath))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleVideoConfig, string(data))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "1", formatValue(true))
	assert.Equal(t, "0", formatValue(false))
	assert.Equal(t, "1920", formatValue(float64(1920)))
	assert.Equal(t, "0.5", formatValue(0.5))
	assert.Equal(t, "high", formatValue("high"))
}
