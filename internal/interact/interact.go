package interact

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"time"

	"github.com/go-vgo/robotgo"

	"katana/internal/detect"
	"katana/internal/input"
	"katana/internal/logger"
	"katana/internal/screen"
)

// Finder is the slice of the detector the interactor needs
type Finder interface {
	FindTemplate(name string, opts detect.Options) (*detect.Match, error)
}

// Injection points for window activation and capture, swapped out in tests
var (
	activateWindow = robotgo.ActiveName
	captureScreen  = screen.CaptureFullScreen
)

// ClickOptions controls a template click
type ClickOptions struct {
	Threshold        float64
	Region           *image.Rectangle
	ClickOffset      image.Point
	WaitDisappear    bool
	DisappearTimeout time.Duration
}

// Interactor drives the game UI: it finds elements through a Finder and acts
// on them through an input Controller
type Interactor struct {
	finder         Finder
	ctrl           input.Controller
	log            *logger.LoggerManager
	screenshotsDir string
}

// NewInteractor wires a finder and an input controller together
func NewInteractor(finder Finder, ctrl input.Controller, screenshotsDir string, log *logger.LoggerManager) *Interactor {
	return &Interactor{
		finder:         finder,
		ctrl:           ctrl,
		log:            log,
		screenshotsDir: screenshotsDir,
	}
}

// FocusWindow brings the window with the given title to the foreground
func (it *Interactor) FocusWindow(title string) error {
	it.log.Info("🪟 Trying to focus window: %q", title)
	if err := activateWindow(title); err != nil {
		return fmt.Errorf("failed to focus window %q: %v", title, err)
	}
	// Give the window manager a moment to raise it
	time.Sleep(1 * time.Second)
	it.log.Info("✅ Window %q is now active", title)
	return nil
}

// Click clicks at absolute screen coordinates
func (it *Interactor) Click(x, y int) error {
	return it.ctrl.Click(x, y)
}

// ClickTemplate finds a template on screen and clicks its center plus the
// configured offset. With WaitDisappear set it polls until the template is
// gone after the click.
func (it *Interactor) ClickTemplate(ctx context.Context, name string, opts ClickOptions) (bool, error) {
	it.log.Info("🖱️ Searching and clicking: %s", name)

	match, err := it.finder.FindTemplate(name, detect.Options{Threshold: opts.Threshold, Region: opts.Region})
	if err != nil {
		return false, err
	}
	if match == nil {
		it.log.Error("❌ Failed to find template: %s", name)
		return false, nil
	}

	x := match.X + opts.ClickOffset.X
	y := match.Y + opts.ClickOffset.Y
	if err := it.ctrl.Click(x, y); err != nil {
		return false, err
	}

	if opts.WaitDisappear {
		timeout := opts.DisappearTimeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		return it.waitDisappear(ctx, name, opts, timeout)
	}
	return true, nil
}

func (it *Interactor) waitDisappear(ctx context.Context, name string, opts ClickOptions, timeout time.Duration) (bool, error) {
	it.log.Info("⏳ Waiting for %s to disappear...", name)
	start := time.Now()
	for time.Since(start) < timeout {
		match, err := it.finder.FindTemplate(name, detect.Options{Threshold: opts.Threshold, Region: opts.Region})
		if err != nil {
			return false, err
		}
		if match == nil {
			it.log.Info("✅ Template %s disappeared after click", name)
			return true, nil
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
	it.log.Warn("⚠️ Template %s did not disappear after click", name)
	return true, nil
}

// ClickTemplateRetry retries ClickTemplate with a pause between attempts
func (it *Interactor) ClickTemplateRetry(ctx context.Context, name string, maxRetries int, opts ClickOptions) (bool, error) {
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			it.log.Info("🔄 Retry attempt %d/%d for clicking %s", attempt, maxRetries, name)
		}
		ok, err := it.ClickTemplate(ctx, name, opts)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
		if attempt < maxRetries {
			select {
			case <-ctx.Done():
				return false, ctx.Err()
			case <-time.After(1 * time.Second):
			}
		}
	}
	it.log.Error("❌ Failed to click %s after %d attempts", name, maxRetries+1)
	return false, nil
}

// PressKey taps a key one or more times
func (it *Interactor) PressKey(key string, presses int, interval time.Duration) error {
	if presses < 1 {
		presses = 1
	}
	for i := 0; i < presses; i++ {
		if err := it.ctrl.KeyTap(key); err != nil {
			return err
		}
		if i < presses-1 {
			time.Sleep(interval)
		}
	}
	return nil
}

// Hotkey taps a key with modifiers held
func (it *Interactor) Hotkey(key string, modifiers ...string) error {
	return it.ctrl.KeyTap(key, modifiers...)
}

// TypeText types a string through the input backend
func (it *Interactor) TypeText(text string) error {
	return it.ctrl.TypeText(text)
}

// ScrollDown scrolls a list down by the given number of wheel steps
func (it *Interactor) ScrollDown(steps int) error {
	return it.ctrl.ScrollDown(steps)
}

// CaptureScreenshot captures the full screen and saves it under the
// screenshots directory, returning the file path
func (it *Interactor) CaptureScreenshot(filename string) (string, error) {
	if filename == "" {
		filename = fmt.Sprintf("screenshot_%s.png", time.Now().Format("20060102_150405"))
	}
	img, err := captureScreen()
	if err != nil {
		return "", err
	}
	path := filepath.Join(it.screenshotsDir, filename)
	if err := screen.SavePNG(img, path); err != nil {
		return "", err
	}
	it.log.Info("📸 Screenshot saved to: %s", path)
	return path, nil
}
