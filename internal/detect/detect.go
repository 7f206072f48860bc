package detect

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/nfnt/resize"

	"katana/internal/config"
	"katana/internal/logger"
	"katana/internal/screen"
)

// Screen abstracts frame capture so tests can feed synthetic frames
type Screen interface {
	CaptureFullScreen() (*image.RGBA, error)
	CaptureRegion(bounds image.Rectangle) (*image.RGBA, error)
	Bounds() image.Rectangle
}

type liveScreen struct{}

func (liveScreen) CaptureFullScreen() (*image.RGBA, error) { return screen.CaptureFullScreen() }
func (liveScreen) CaptureRegion(b image.Rectangle) (*image.RGBA, error) {
	return screen.CaptureRegion(b)
}
func (liveScreen) Bounds() image.Rectangle { return screen.DisplayBounds() }

// Match is a located template, X/Y being the center of the match in screen
// coordinates
type Match struct {
	X, Y  int
	Score float64
}

// Options controls a single template search
type Options struct {
	Threshold float64          // 0 means the configured default
	Region    *image.Rectangle // nil searches the whole screen
}

// RetryOptions controls a search with threshold decay between attempts
type RetryOptions struct {
	InitialThreshold float64
	MinThreshold     float64
	MaxRetries       int
	CheckInterval    time.Duration
	Region           *image.Rectangle
}

// Detector locates UI elements by template matching against screen captures
type Detector struct {
	assetsDir string
	cfg       config.Detection
	log       *logger.LoggerManager
	screen    Screen

	templates map[string]image.Image
}

// NewDetector creates a detector reading template assets from assetsDir
func NewDetector(assetsDir string, cfg config.Detection, log *logger.LoggerManager) *Detector {
	return &Detector{
		assetsDir: assetsDir,
		cfg:       cfg,
		log:       log,
		screen:    liveScreen{},
		templates: make(map[string]image.Image),
	}
}

// SetScreen replaces the capture source. Used by tests and by callers that
// already hold a frame provider.
func (d *Detector) SetScreen(s Screen) {
	d.screen = s
}

// CheckAssets verifies that every required template file exists
func (d *Detector) CheckAssets(required []string) error {
	var missing []string
	for _, name := range required {
		if _, err := os.Stat(filepath.Join(d.assetsDir, name)); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		for _, name := range missing {
			d.log.Error("❌ Missing asset file: %s", name)
		}
		return fmt.Errorf("missing %d asset files in %s", len(missing), d.assetsDir)
	}
	d.log.Info("✅ All required assets found in %s", d.assetsDir)
	return nil
}

func (d *Detector) loadTemplate(name string) (image.Image, error) {
	if tmpl, ok := d.templates[name]; ok {
		return tmpl, nil
	}
	path := name
	if _, err := os.Stat(path); err != nil {
		path = filepath.Join(d.assetsDir, name)
	}
	tmpl, err := screen.LoadPNG(path)
	if err != nil {
		return nil, fmt.Errorf("template not found: %s", name)
	}
	d.templates[name] = tmpl
	return tmpl, nil
}

func (d *Detector) threshold(opts Options) float64 {
	if opts.Threshold > 0 {
		return opts.Threshold
	}
	return d.cfg.Threshold
}

func (d *Detector) capture(region *image.Rectangle) (*image.RGBA, error) {
	if region != nil {
		return d.screen.CaptureRegion(*region)
	}
	return d.screen.CaptureFullScreen()
}

// FindTemplate searches the screen for a template. A nil Match with nil
// error means no placement reached the threshold.
func (d *Detector) FindTemplate(name string, opts Options) (*Match, error) {
	tmpl, err := d.loadTemplate(name)
	if err != nil {
		d.log.Error("❌ %v", err)
		return nil, err
	}
	frame, err := d.capture(opts.Region)
	if err != nil {
		return nil, err
	}
	return d.matchFrame(name, frame, tmpl, opts)
}

func (d *Detector) matchFrame(name string, frame *image.RGBA, tmpl image.Image, opts Options) (*Match, error) {
	tb := tmpl.Bounds()
	fb := frame.Bounds()
	if tb.Dx() > fb.Dx() || tb.Dy() > fb.Dy() {
		d.log.Error("❌ Template %s (%dx%d) is larger than captured frame (%dx%d)",
			name, tb.Dx(), tb.Dy(), fb.Dx(), fb.Dy())
		return nil, nil
	}

	res := matchTemplate(newGrayFrame(frame), newGrayFrame(tmpl))
	threshold := d.threshold(opts)
	if res.Score < threshold {
		d.log.Warn("⚠️ No match for %s (max confidence %.2f, threshold %.2f)", name, res.Score, threshold)
		return nil, nil
	}

	match := &Match{
		X:     res.X + tb.Dx()/2,
		Y:     res.Y + tb.Dy()/2,
		Score: res.Score,
	}
	if opts.Region != nil {
		match.X += opts.Region.Min.X
		match.Y += opts.Region.Min.Y
	}
	d.log.Info("✅ Match found for %s at (%d, %d) with confidence %.2f", name, match.X, match.Y, match.Score)
	return match, nil
}

// FindTemplateScaled rescales the template from the reference resolution to
// the current screen resolution before matching. Scaling is skipped when both
// factors are within 5% of 1.0.
func (d *Detector) FindTemplateScaled(name string, opts Options) (*Match, error) {
	tmpl, err := d.loadTemplate(name)
	if err != nil {
		d.log.Error("❌ %v", err)
		return nil, err
	}

	bounds := d.screen.Bounds()
	scaleX := float64(bounds.Dx()) / float64(d.cfg.ReferenceW)
	scaleY := float64(bounds.Dy()) / float64(d.cfg.ReferenceH)

	if scaleAbs(scaleX-1.0) < 0.05 && scaleAbs(scaleY-1.0) < 0.05 {
		return d.FindTemplate(name, opts)
	}

	tb := tmpl.Bounds()
	newW := uint(float64(tb.Dx()) * scaleX)
	newH := uint(float64(tb.Dy()) * scaleY)
	if newW == 0 || newH == 0 {
		return nil, fmt.Errorf("scaled template %s collapses to zero size", name)
	}
	scaled := resize.Resize(newW, newH, tmpl, resize.Bilinear)

	frame, err := d.capture(opts.Region)
	if err != nil {
		return nil, err
	}
	return d.matchFrame(name, frame, scaled, opts)
}

// FindTemplateRetry retries a search with the threshold decaying linearly
// from InitialThreshold down to MinThreshold
func (d *Detector) FindTemplateRetry(ctx context.Context, name string, opts RetryOptions) (*Match, error) {
	if opts.InitialThreshold == 0 {
		opts.InitialThreshold = d.cfg.Threshold
	}
	if opts.MinThreshold == 0 {
		opts.MinThreshold = d.cfg.MinThreshold
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = d.cfg.MaxRetries
	}
	if opts.CheckInterval == 0 {
		opts.CheckInterval = time.Duration(d.cfg.CheckInterval * float64(time.Second))
	}

	step := 0.0
	if opts.MaxRetries > 0 {
		step = (opts.InitialThreshold - opts.MinThreshold) / float64(opts.MaxRetries)
	}

	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		threshold := opts.InitialThreshold - float64(attempt)*step
		d.log.Info("🔍 Looking for %s (attempt %d/%d, threshold %.2f)",
			name, attempt+1, opts.MaxRetries+1, threshold)

		match, err := d.FindTemplate(name, Options{Threshold: threshold, Region: opts.Region})
		if err != nil {
			return nil, err
		}
		if match != nil {
			if attempt > 0 {
				d.log.Info("✅ Found %s on retry attempt %d with threshold %.2f", name, attempt+1, threshold)
			}
			return match, nil
		}

		if attempt < opts.MaxRetries {
			if err := sleepCtx(ctx, opts.CheckInterval); err != nil {
				return nil, err
			}
		}
	}

	d.log.Warn("❌ Failed to find %s after %d attempts", name, opts.MaxRetries+1)
	return nil, nil
}

// WaitForTemplate polls the screen until the template appears or the timeout
// elapses
func (d *Detector) WaitForTemplate(ctx context.Context, name string, timeout time.Duration, opts Options) (*Match, error) {
	interval := time.Duration(d.cfg.CheckInterval * float64(time.Second))
	start := time.Now()
	d.log.Info("⏳ Waiting for %s (timeout: %s)...", name, timeout)

	for time.Since(start) < timeout {
		match, err := d.FindTemplate(name, opts)
		if err != nil {
			return nil, err
		}
		if match != nil {
			d.log.Info("✅ Found %s after %.1fs", name, time.Since(start).Seconds())
			return match, nil
		}
		if err := sleepCtx(ctx, interval); err != nil {
			return nil, err
		}
	}

	d.log.Warn("⌛ Timeout after %.1fs waiting for %s", time.Since(start).Seconds(), name)
	return nil, nil
}

// WaitForAnyTemplate waits until the first of several templates appears.
// Returns the name of the template that matched.
func (d *Detector) WaitForAnyTemplate(ctx context.Context, names []string, timeout time.Duration, opts Options) (string, *Match, error) {
	interval := time.Duration(d.cfg.CheckInterval * float64(time.Second))
	start := time.Now()
	d.log.Info("⏳ Waiting for any of %v (timeout: %s)...", names, timeout)

	for time.Since(start) < timeout {
		for _, name := range names {
			match, err := d.FindTemplate(name, opts)
			if err != nil {
				return "", nil, err
			}
			if match != nil {
				d.log.Info("✅ Found %s after %.1fs", name, time.Since(start).Seconds())
				return name, match, nil
			}
		}
		if err := sleepCtx(ctx, interval); err != nil {
			return "", nil, err
		}
	}

	d.log.Warn("⌛ Timeout after %.1fs waiting for any of %v", time.Since(start).Seconds(), names)
	return "", nil, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func scaleAbs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
