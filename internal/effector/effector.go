// Package effector abstracts the OS-level input operations the dispatcher
// and continuous controllers drive. Any effector failure is a recoverable
// per-call error; callers log and move on.
package effector

import "fmt"

// Button identifies a mouse button.
type Button string

const (
	ButtonLeft   Button = "left"
	ButtonMiddle Button = "middle"
	ButtonRight  Button = "right"
)

// ValidButton reports whether b is a supported mouse button.
func ValidButton(b Button) bool {
	switch b {
	case ButtonLeft, ButtonMiddle, ButtonRight:
		return true
	}
	return false
}

// ErrInvalidButton wraps an unknown mouse button name.
func ErrInvalidButton(b Button) error {
	return fmt.Errorf("invalid mouse button %q", b)
}

// Effector performs OS input operations. Implementations must treat every
// call as independent; no call may panic.
type Effector interface {
	// PressKey presses and releases a single named key.
	PressKey(key string) error

	// Hotkey presses a combination of keys together, modifiers first.
	Hotkey(keys ...string) error

	// Click clicks a mouse button at the current pointer position.
	Click(button Button) error

	// MoveMouse moves the pointer to absolute screen coordinates without
	// blocking on animation.
	MoveMouse(x, y int) error

	// Scroll emits one scroll tick; positive amounts scroll up.
	Scroll(amount int) error
}
