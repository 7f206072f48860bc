package input

import (
	"time"

	"github.com/go-vgo/robotgo"

	"katana/internal/logger"
)

// RobotgoController injects input events through the operating system
type RobotgoController struct {
	log *logger.LoggerManager
}

// NewRobotgoController creates a software input controller
func NewRobotgoController(log *logger.LoggerManager) *RobotgoController {
	// Small pause between synthetic events so games do not drop them
	robotgo.MouseSleep = 100
	robotgo.KeySleep = 100
	return &RobotgoController{log: log}
}

func (c *RobotgoController) Click(x, y int) error {
	c.log.Info("🖱️ Clicking at (%d, %d)", x, y)
	robotgo.MoveSmooth(x, y)
	robotgo.Click("left", false)
	// Let the UI register the click before the next action
	time.Sleep(500 * time.Millisecond)
	return nil
}

func (c *RobotgoController) KeyTap(key string, modifiers ...string) error {
	c.log.Info("⌨️ Pressing key: %s", key)
	args := make([]interface{}, len(modifiers))
	for i, m := range modifiers {
		args[i] = m
	}
	return robotgo.KeyTap(key, args...)
}

func (c *RobotgoController) TypeText(text string) error {
	c.log.Info("⌨️ Typing: %s", text)
	robotgo.TypeStr(text)
	return nil
}

func (c *RobotgoController) ScrollDown(steps int) error {
	c.log.Info("🖱️ Scrolling down %d steps", steps)
	robotgo.ScrollDir(steps, "down")
	return nil
}

func (c *RobotgoController) Close() error {
	return nil
}
