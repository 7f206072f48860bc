// Package input provides mouse and keyboard control behind a single
// interface. The robotgo backend injects events through the OS; the arduino
// backend drives a microcontroller acting as a USB HID device, for games
// that ignore or flag synthetic input.
package input

import (
	"fmt"

	"katana/internal/config"
	"katana/internal/logger"
)

// Controller performs mouse and keyboard actions
type Controller interface {
	// Click moves the cursor to (x, y) and presses the left button
	Click(x, y int) error
	// KeyTap presses and releases a key, with optional modifiers
	KeyTap(key string, modifiers ...string) error
	// TypeText types a string
	TypeText(text string) error
	// ScrollDown scrolls the wheel down by the given number of steps
	ScrollDown(steps int) error
	// Close releases any resources held by the backend
	Close() error
}

// NewController builds the backend selected in the input config
func NewController(cfg config.Input, log *logger.LoggerManager) (Controller, error) {
	switch cfg.Backend {
	case "", "robotgo":
		return NewRobotgoController(log), nil
	case "arduino":
		return NewArduinoController(cfg.Port, cfg.BaudRate, log)
	default:
		return nil, fmt.Errorf("unsupported input backend: %s", cfg.Backend)
	}
}
