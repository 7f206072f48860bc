package interrupt

import (
	"context"

	"github.com/moutend/go-hook/pkg/keyboard"
	"github.com/moutend/go-hook/pkg/types"

	"katana/internal/logger"
)

// Manager installs a low-level keyboard hook and cancels the benchmark
// context when the abort hotkey is pressed. The hook is global, so the abort
// works while the game holds focus.
type Manager struct {
	log      *logger.LoggerManager
	abortKey types.VKCode
}

// NewManager creates an interrupt manager aborting on Q
func NewManager(log *logger.LoggerManager) *Manager {
	return &Manager{
		log:      log,
		abortKey: types.VK_Q,
	}
}

// WithCancel returns a context cancelled when the abort hotkey fires, and
// starts the hook monitor
func (m *Manager) WithCancel(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	go m.monitor(ctx, cancel)
	return ctx, cancel
}

func (m *Manager) monitor(ctx context.Context, cancel context.CancelFunc) {
	eventChan := make(chan types.KeyboardEvent, 100)
	if err := keyboard.Install(nil, eventChan); err != nil {
		m.log.LogError(err, "Failed to install keyboard hook, abort hotkey disabled")
		return
	}
	defer keyboard.Uninstall()

	m.log.Info("🔥 Abort hotkey armed: press Q to cancel the benchmark series")

	for {
		select {
		case <-ctx.Done():
			return
		case event := <-eventChan:
			if event.Message == types.WM_KEYDOWN && event.VKCode == m.abortKey {
				m.log.Warn("⛔ Abort hotkey pressed, cancelling benchmark series")
				cancel()
				return
			}
		}
	}
}
