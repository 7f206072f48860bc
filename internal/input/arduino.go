package input

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"

	"katana/internal/logger"
)

// ArduinoController sends input commands over a serial line to a
// microcontroller that replays them as USB HID events. Command protocol:
//
//	click:<x>,<y>\n
//	key_down:<key>\n
//	key_up:<key>\n
//	copy_to_clipboard:<text>\n
//	paste\n
//	scroll_down:<steps>\n
//
// The controller acknowledges every command with "received\n".
type ArduinoController struct {
	port io.ReadWriteCloser
	log  *logger.LoggerManager
}

// NewArduinoController opens the serial port and wraps it in a Controller
func NewArduinoController(name string, baud int, log *logger.LoggerManager) (*ArduinoController, error) {
	port, err := serial.OpenPort(&serial.Config{
		Name:     name,
		Baud:     baud,
		Parity:   serial.ParityNone,
		StopBits: serial.Stop1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open arduino port %s: %v", name, err)
	}
	return &ArduinoController{port: port, log: log}, nil
}

// newArduinoControllerOn wires an already-open port, used by tests
func newArduinoControllerOn(port io.ReadWriteCloser, log *logger.LoggerManager) *ArduinoController {
	return &ArduinoController{port: port, log: log}
}

func (c *ArduinoController) send(command string) error {
	if _, err := c.port.Write([]byte(command + "\n")); err != nil {
		return fmt.Errorf("error writing to arduino: %v", err)
	}
	return c.waitForAck()
}

// waitForAck reads until a newline and checks the acknowledgement
func (c *ArduinoController) waitForAck() error {
	var response []byte
	buf := make([]byte, 128)
	for {
		n, err := c.port.Read(buf)
		if err != nil {
			return fmt.Errorf("error reading from arduino: %v", err)
		}
		response = append(response, buf[:n]...)

		if len(response) > 0 && response[len(response)-1] == '\n' {
			reply := string(bytes.TrimSpace(response))
			if reply != "received" {
				return fmt.Errorf("unexpected arduino response: %q", reply)
			}
			return nil
		}
	}
}

func (c *ArduinoController) Click(x, y int) error {
	c.log.Info("🖱️ Clicking at (%d, %d) via arduino", x, y)
	return c.send(fmt.Sprintf("click:%d,%d", x, y))
}

func (c *ArduinoController) KeyTap(key string, modifiers ...string) error {
	c.log.Info("⌨️ Pressing key: %s via arduino", key)
	for _, m := range modifiers {
		if err := c.send("key_down:" + m); err != nil {
			return err
		}
	}
	if err := c.send("key_down:" + key); err != nil {
		return err
	}
	time.Sleep(50 * time.Millisecond)
	if err := c.send("key_up:" + key); err != nil {
		return err
	}
	for i := len(modifiers) - 1; i >= 0; i-- {
		if err := c.send("key_up:" + modifiers[i]); err != nil {
			return err
		}
	}
	return nil
}

func (c *ArduinoController) TypeText(text string) error {
	c.log.Info("⌨️ Typing via arduino clipboard: %s", text)
	if err := c.send("copy_to_clipboard:" + text); err != nil {
		return err
	}
	return c.send("paste")
}

func (c *ArduinoController) ScrollDown(steps int) error {
	c.log.Info("🖱️ Scrolling down %d steps via arduino", steps)
	return c.send(fmt.Sprintf("scroll_down:%d", steps))
}

func (c *ArduinoController) Close() error {
	return c.port.Close()
}
