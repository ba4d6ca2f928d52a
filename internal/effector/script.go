package effector

import (
	"fmt"
	"os/exec"
	"strings"
)

// modifierMap maps user-facing modifier names to AppleScript equivalents.
var modifierMap = map[string]string{
	"command": "command down",
	"cmd":     "command down",
	"option":  "option down",
	"alt":     "option down",
	"control": "control down",
	"ctrl":    "control down",
	"shift":   "shift down",
}

// keyCodeMap maps named non-character keys to macOS virtual key codes,
// which System Events needs instead of keystroke strings.
var keyCodeMap = map[string]int{
	"enter":     36,
	"return":    36,
	"tab":       48,
	"space":     49,
	"delete":    51,
	"backspace": 51,
	"escape":    53,
	"home":      115,
	"pageup":    116,
	"end":       119,
	"pagedown":  121,
	"left":      123,
	"right":     124,
	"down":      125,
	"up":        126,
	"f1":        122,
	"f2":        120,
	"f3":        99,
	"f4":        118,
	"f5":        96,
	"f6":        97,
	"f7":        98,
	"f8":        100,
	"f9":        101,
	"f10":       109,
	"f11":       103,
	"f12":       111,
}

// cliclick button arguments by mouse button.
var clickCommands = map[Button]string{
	ButtonLeft:   "c:.",
	ButtonMiddle: "mc:.",
	ButtonRight:  "rc:.",
}

// runner executes an external command; replaced in tests.
type runner func(name string, args ...string) error

func execRun(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// ScriptEffector injects input on macOS by shelling out: keystrokes go
// through osascript and System Events, pointer operations through
// cliclick.
type ScriptEffector struct {
	run runner
}

// NewScriptEffector creates a ScriptEffector using the real executables.
func NewScriptEffector() *ScriptEffector {
	return &ScriptEffector{run: execRun}
}

// PressKey presses a single key by name or character.
func (e *ScriptEffector) PressKey(key string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return fmt.Errorf("empty key")
	}
	return e.run("osascript", "-e", keyScript(key, nil))
}

// Hotkey presses a key combination. Recognized modifier names become
// AppleScript modifiers; the final non-modifier key is the keystroke.
func (e *ScriptEffector) Hotkey(keys ...string) error {
	if len(keys) == 0 {
		return fmt.Errorf("empty hotkey")
	}

	var modifiers []string
	target := ""
	for _, k := range keys {
		k = strings.ToLower(strings.TrimSpace(k))
		if m, ok := modifierMap[k]; ok {
			modifiers = append(modifiers, m)
			continue
		}
		target = k
	}
	if target == "" {
		return fmt.Errorf("hotkey %v has no non-modifier key", keys)
	}

	return e.run("osascript", "-e", keyScript(target, modifiers))
}

// Click clicks the given button at the current pointer position.
func (e *ScriptEffector) Click(button Button) error {
	arg, ok := clickCommands[button]
	if !ok {
		return ErrInvalidButton(button)
	}
	return e.run("cliclick", arg)
}

// MoveMouse moves the pointer to absolute screen coordinates.
func (e *ScriptEffector) MoveMouse(x, y int) error {
	return e.run("cliclick", fmt.Sprintf("m:%d,%d", x, y))
}

// Scroll emits one scroll tick. System Events cannot synthesize wheel
// events, so ticks are approximated with arrow-key presses; the magnitude
// only picks the direction.
func (e *ScriptEffector) Scroll(amount int) error {
	if amount == 0 {
		return nil
	}
	key := "down"
	if amount > 0 {
		key = "up"
	}
	return e.run("osascript", "-e", keyScript(key, nil))
}

// keyScript builds the System Events incantation for one key press with
// optional modifiers.
func keyScript(key string, modifiers []string) string {
	var stroke string
	if code, ok := keyCodeMap[key]; ok {
		stroke = fmt.Sprintf("key code %d", code)
	} else {
		stroke = fmt.Sprintf("keystroke %q", key)
	}

	if len(modifiers) > 0 {
		stroke = fmt.Sprintf("%s using {%s}", stroke, strings.Join(modifiers, ", "))
	}
	return fmt.Sprintf("tell application %q to %s", "System Events", stroke)
}
