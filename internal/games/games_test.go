package games

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"katana/internal/bench"
	"katana/internal/config"
	"katana/internal/logger"
)

func testConstructor(cfg config.Config, log *logger.LoggerManager) (bench.GameBenchmark, error) {
	return nil, nil
}

func resetRegistry() {
	registry = make(map[string]Constructor)
}

func TestRegisterAndCreate(t *testing.T) {
	resetRegistry()
	defer resetRegistry()

	Register("testgame", testConstructor)
	assert.Equal(t, []string{"testgame"}, Available())

	log, err := logger.NewLoggerManager(filepath.Join(t.TempDir(), "test.log"))
	require.NoError(t, err)

	_, err = Create("testgame", config.Config{}, log)
	assert.NoError(t, err)
}

func TestCreateUnknownGameListsAvailable(t *testing.T) {
	resetRegistry()
	defer resetRegistry()

	Register("alpha", testConstructor)
	Register("beta", testConstructor)

	log, err := logger.NewLoggerManager(filepath.Join(t.TempDir(), "test.log"))
	require.NoError(t, err)

	_, err = Create("missing", config.Config{}, log)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alpha")
	assert.Contains(t, err.Error(), "beta")
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	resetRegistry()
	defer resetRegistry()

	Register("dup", testConstructor)
	assert.Panics(t, func() { Register("dup", testConstructor) })
}
